package types

// HealthState represents the computed health of a registered skill
type HealthState string

const (
	// HealthStateUnknown means the skill has never executed
	HealthStateUnknown HealthState = "unknown"
	// HealthStateHealthy means the recent error rate is within bounds
	HealthStateHealthy HealthState = "healthy"
	// HealthStateDegraded means the recent error rate exceeds the threshold
	HealthStateDegraded HealthState = "degraded"
)

// String returns the string representation of the health state
func (s HealthState) String() string {
	return string(s)
}
