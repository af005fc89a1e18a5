package types

import "fmt"

// ResultStatus represents the outcome of a single skill execution
type ResultStatus string

const (
	ResultStatusSuccess ResultStatus = "success"
	ResultStatusPartial ResultStatus = "partial"
	ResultStatusFailed  ResultStatus = "failed"
	ResultStatusSkipped ResultStatus = "skipped"
)

// AllResultStatuses returns all valid result statuses
func AllResultStatuses() []ResultStatus {
	return []ResultStatus{
		ResultStatusSuccess,
		ResultStatusPartial,
		ResultStatusFailed,
		ResultStatusSkipped,
	}
}

// IsValid checks if the result status is valid
func (s ResultStatus) IsValid() bool {
	switch s {
	case ResultStatusSuccess,
		ResultStatusPartial,
		ResultStatusFailed,
		ResultStatusSkipped:
		return true
	default:
		return false
	}
}

// String returns the string representation of the result status
func (s ResultStatus) String() string {
	return string(s)
}

// ParseResultStatus parses a string into a ResultStatus
func ParseResultStatus(s string) (ResultStatus, error) {
	status := ResultStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid result status: %s", s)
	}
	return status, nil
}
