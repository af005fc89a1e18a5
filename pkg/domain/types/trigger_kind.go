package types

import "fmt"

// TriggerKind represents how a skill execution was initiated
type TriggerKind string

const (
	TriggerKindWebhook TriggerKind = "webhook"
	TriggerKindCron    TriggerKind = "cron"
	TriggerKindEvent   TriggerKind = "event"
	TriggerKindManual  TriggerKind = "manual"
	TriggerKindQueue   TriggerKind = "queue"
)

// AllTriggerKinds returns all valid trigger kinds
func AllTriggerKinds() []TriggerKind {
	return []TriggerKind{
		TriggerKindWebhook,
		TriggerKindCron,
		TriggerKindEvent,
		TriggerKindManual,
		TriggerKindQueue,
	}
}

// IsValid checks if the trigger kind is valid
func (k TriggerKind) IsValid() bool {
	switch k {
	case TriggerKindWebhook,
		TriggerKindCron,
		TriggerKindEvent,
		TriggerKindManual,
		TriggerKindQueue:
		return true
	default:
		return false
	}
}

// String returns the string representation of the trigger kind
func (k TriggerKind) String() string {
	return string(k)
}

// ParseTriggerKind parses a string into a TriggerKind
func ParseTriggerKind(s string) (TriggerKind, error) {
	kind := TriggerKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid trigger kind: %s", s)
	}
	return kind, nil
}
