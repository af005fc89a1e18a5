package types

import "github.com/google/uuid"

// ExecutionID identifies a single skill invocation
type ExecutionID string

// NewExecutionID generates a new UUID v4 ExecutionID
func NewExecutionID() ExecutionID {
	return ExecutionID(uuid.New().String())
}

// String returns the string representation of the execution ID
func (id ExecutionID) String() string {
	return string(id)
}

// JobID identifies a cron job
type JobID string

// NewJobID generates a new UUID v4 JobID
func NewJobID() JobID {
	return JobID(uuid.New().String())
}

// String returns the string representation of the job ID
func (id JobID) String() string {
	return string(id)
}

// HookID identifies an event hook definition
type HookID string

// NewHookID generates a new UUID v4 HookID
func NewHookID() HookID {
	return HookID(uuid.New().String())
}

// String returns the string representation of the hook ID
func (id HookID) String() string {
	return string(id)
}

// MemoryID identifies a semantic memory entry
type MemoryID string

// NewMemoryID generates a new UUID v4 MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

// String returns the string representation of the memory ID
func (id MemoryID) String() string {
	return string(id)
}

// NotificationID identifies a notification record
type NotificationID string

// NewNotificationID generates a new UUID v4 NotificationID
func NewNotificationID() NotificationID {
	return NotificationID(uuid.New().String())
}

// String returns the string representation of the notification ID
func (id NotificationID) String() string {
	return string(id)
}
