package model

// Optimization carries the optional objectives a caller may request. Its
// presence does not by itself select the CP scheduler: Optimizer is the
// explicit selector (values "greedy" — the default — or "cp"), replacing
// the original system's implicit "optimization block present ⇒ CP" rule
// while keeping the same fields the original's CP formulation consumes.
type Optimization struct {
	Optimizer                     string `json:"optimizer,omitempty"`
	ChainBookingsForSamePassenger bool   `json:"chain_bookings_for_same_passenger,omitempty"`
	MinimizeVehicles              bool   `json:"minimize_vehicles,omitempty"`
	MinimizeTotalDuration         bool   `json:"minimize_total_duration,omitempty"`
}

// ScheduleRequest is the input to both the synchronous schedule endpoint
// and the asynchronous task submission endpoint.
type ScheduleRequest struct {
	Date                string        `json:"date"`
	Bookings             []Booking     `json:"bookings"`
	BeforePickupTime     *int          `json:"before_pickup_time,omitempty"`
	AfterPickupTime      *int          `json:"after_pickup_time,omitempty"`
	PickupLoadingTime    *int          `json:"pickup_loading_time,omitempty"`
	DropoffUnloadingTime *int          `json:"dropoff_unloading_time,omitempty"`
	Optimization         *Optimization `json:"optimization,omitempty"`
	ProgramName          string        `json:"program_name,omitempty"`
	Debug                bool          `json:"debug,omitempty"`
}

// ScheduleResultData wraps the shuttle assignment plan.
type ScheduleResultData struct {
	VehicleTripList []Shuttle `json:"vehicle_trip_list"`
}

// ScheduleResult is the envelope every schedule call returns, success or
// not: error_code/message/data rather than an HTTP error, so a client can
// distinguish "no feasible plan" (NoSchedule) from a malformed request.
type ScheduleResult struct {
	Status    string              `json:"status"`
	ErrorCode int                 `json:"error_code"`
	Message   string              `json:"message,omitempty"`
	Data      *ScheduleResultData `json:"data,omitempty"`
}

// ScheduleResponse is the top-level response body of POST /schedule.
type ScheduleResponse struct {
	Result ScheduleResult `json:"result"`
}

// NewSuccessResponse builds the envelope for a completed plan.
func NewSuccessResponse(shuttles []Shuttle) ScheduleResponse {
	return ScheduleResponse{
		Result: ScheduleResult{
			Status: "success",
			Data:   &ScheduleResultData{VehicleTripList: shuttles},
		},
	}
}

// NewErrorResponse builds the envelope for a NoSchedule failure (§7): a
// normal 200-shaped response body, not an HTTP error, so callers can tell
// "no plan exists" apart from a bad request.
func NewErrorResponse(message string) ScheduleResponse {
	return ScheduleResponse{
		Result: ScheduleResult{
			Status:    "error",
			ErrorCode: 1,
			Message:   message,
		},
	}
}
