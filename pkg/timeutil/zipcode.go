package timeutil

// zipcodeTimezoneEntry is one row of the ZIP-range → timezone table.
type zipcodeTimezoneEntry struct {
	stateCode  string
	state      string
	zipStart   int
	zipEnd     int
	timezoneID string
}

// zipcodeTimezones is a representative subset of the US ZIP-code range
// table. The source system (app/internal/timezone_mapper.json) ships a
// full nationwide table as a data file, which is outside the retrieved
// code/build-config pack; this table covers the major timezone regions
// so the lookup logic is exercised end to end, and is meant to be
// replaced or extended with a complete data file in a real deployment.
var zipcodeTimezones = []zipcodeTimezoneEntry{
	{"ME", "Maine", 3900, 4999, "America/New_York"},
	{"NH", "New Hampshire", 3000, 3899, "America/New_York"},
	{"MA", "Massachusetts", 1000, 2799, "America/New_York"},
	{"NY", "New York", 10000, 14999, "America/New_York"},
	{"NJ", "New Jersey", 7000, 8999, "America/New_York"},
	{"PA", "Pennsylvania", 15000, 19699, "America/New_York"},
	{"DC", "District of Columbia", 20000, 20099, "America/New_York"},
	{"VA", "Virginia", 20100, 24699, "America/New_York"},
	{"FL", "Florida", 32000, 34999, "America/New_York"},
	{"GA", "Georgia", 30000, 31999, "America/New_York"},
	{"OH", "Ohio", 43000, 45999, "America/New_York"},
	{"MI", "Michigan", 48000, 49999, "America/New_York"},
	{"IL", "Illinois", 60000, 62999, "America/Chicago"},
	{"WI", "Wisconsin", 53000, 54999, "America/Chicago"},
	{"MN", "Minnesota", 55000, 56799, "America/Chicago"},
	{"TX", "Texas", 75000, 79999, "America/Chicago"},
	{"MO", "Missouri", 63000, 65899, "America/Chicago"},
	{"LA", "Louisiana", 70000, 71499, "America/Chicago"},
	{"CO", "Colorado", 80000, 81699, "America/Denver"},
	{"AZ", "Arizona", 85000, 86599, "America/Phoenix"},
	{"UT", "Utah", 84000, 84799, "America/Denver"},
	{"NM", "New Mexico", 87000, 88499, "America/Denver"},
	{"CA", "California", 90000, 96199, "America/Los_Angeles"},
	{"WA", "Washington", 98000, 99499, "America/Los_Angeles"},
	{"OR", "Oregon", 97000, 97999, "America/Los_Angeles"},
	{"NV", "Nevada", 88900, 89899, "America/Los_Angeles"},
	{"AK", "Alaska", 99500, 99999, "America/Anchorage"},
	{"HI", "Hawaii", 96700, 96899, "Pacific/Honolulu"},
}
