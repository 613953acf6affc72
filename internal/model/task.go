package model

import "time"

// TaskStatus is the lifecycle state of a queued scheduling job.
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskProcessing TaskStatus = "PROCESSING"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskFailed     TaskStatus = "FAILED"
)

// Task is a persisted scheduling job: the original request, its current
// status, and — once terminal — either a response or an error message.
type Task struct {
	ID           string           `json:"id" bson:"id"`
	Request      ScheduleRequest  `json:"request" bson:"request"`
	Status       TaskStatus       `json:"status" bson:"status"`
	Response     *ScheduleResponse `json:"response,omitempty" bson:"response,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty" bson:"error_message,omitempty"`
	CreatedAt    time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at" bson:"updated_at"`
}
