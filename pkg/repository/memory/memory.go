package memory

import (
	"github.com/bottega-lab/maestro/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned when the requested entity does not exist
var ErrNotFound = goerr.New("not found")

// Memory is the in-process, volatile implementation of the Repository
// facade. Every store is mutex-guarded and returns copies, so two webhook
// deliveries or a tick racing a manual trigger never share structures.
type Memory struct {
	jobs          *jobRepository
	hooks         *hookRepository
	memories      *memoryRepository
	executions    *executionLog
	notifications *notificationLog
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		jobs:          newJobRepository(),
		hooks:         newHookRepository(),
		memories:      newMemoryRepository(),
		executions:    newExecutionLog(executionLogCapacity),
		notifications: newNotificationLog(notificationLogCapacity),
	}
}

func (m *Memory) Jobs() interfaces.JobRepository {
	return m.jobs
}

func (m *Memory) Hooks() interfaces.HookRepository {
	return m.hooks
}

func (m *Memory) Memories() interfaces.MemoryRepository {
	return m.memories
}

func (m *Memory) Executions() interfaces.ExecutionLog {
	return m.executions
}

func (m *Memory) Notifications() interfaces.NotificationLog {
	return m.notifications
}
