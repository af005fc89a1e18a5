package interfaces

// Repository defines the interface for data persistence. The reference
// implementation is in-process and volatile; durable backends plug in here.
type Repository interface {
	Jobs() JobRepository
	Hooks() HookRepository
	Memories() MemoryRepository
	Executions() ExecutionLog
	Notifications() NotificationLog
}
