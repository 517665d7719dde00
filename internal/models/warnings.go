package models

// WarningCode categorizes warnings by subsystem.
// W3xxx = input validation.
type WarningCode string

const (
	WarnFrequencyDefaulted WarningCode = "W3001" // unrecognized payout frequency token, monthly assumed
	WarnRowSkipped         WarningCode = "W3002" // invalid holding row dropped from the run
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
