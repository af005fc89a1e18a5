package types

// EventName identifies an occurrence hooks can bind to. The constants below
// form the set of events the runtime itself emits; they exist for
// documentation and validation in calling code. Emitting a name outside this
// set is legal and simply matches zero hooks.
type EventName string

const (
	EventProductCreated   EventName = "product.created"
	EventProductUpdated   EventName = "product.updated"
	EventProductDeleted   EventName = "product.deleted"
	EventOrderCreated     EventName = "order.created"
	EventOrderPaid        EventName = "order.paid"
	EventContentGenerated EventName = "content.generated"
	EventSkillCompleted   EventName = "skill.completed"
	EventSkillFailed      EventName = "skill.failed"
)

// KnownEventNames returns the events the runtime emits itself
func KnownEventNames() []EventName {
	return []EventName{
		EventProductCreated,
		EventProductUpdated,
		EventProductDeleted,
		EventOrderCreated,
		EventOrderPaid,
		EventContentGenerated,
		EventSkillCompleted,
		EventSkillFailed,
	}
}

// IsKnown reports whether the event name is one the runtime emits itself
func (e EventName) IsKnown() bool {
	for _, known := range KnownEventNames() {
		if e == known {
			return true
		}
	}
	return false
}

// String returns the string representation of the event name
func (e EventName) String() string {
	return string(e)
}
