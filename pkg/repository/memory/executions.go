package memory

import (
	"context"
	"sync"

	"github.com/bottega-lab/maestro/pkg/domain/model"
)

// executionLogCapacity bounds the retained execution history
const executionLogCapacity = 500

type executionLog struct {
	mu       sync.RWMutex
	records  []*model.ExecutionRecord
	capacity int
}

func newExecutionLog(capacity int) *executionLog {
	return &executionLog{
		capacity: capacity,
	}
}

func copyRecord(rec *model.ExecutionRecord) *model.ExecutionRecord {
	copied := *rec
	if rec.Context != nil {
		c := *rec.Context
		copied.Context = &c
	}
	if rec.Result != nil {
		res := *rec.Result
		copied.Result = &res
	}
	return &copied
}

// Append stores the record most-recent-first and evicts the oldest entry
// once the capacity is reached
func (l *executionLog) Append(ctx context.Context, record *model.ExecutionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append([]*model.ExecutionRecord{copyRecord(record)}, l.records...)
	if len(l.records) > l.capacity {
		l.records = l.records[:l.capacity]
	}

	return nil
}

func (l *executionLog) List(ctx context.Context, limit int, skillName string) ([]*model.ExecutionRecord, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var result []*model.ExecutionRecord
	for _, rec := range l.records {
		if skillName != "" && rec.SkillName != skillName {
			continue
		}
		result = append(result, copyRecord(rec))
		if limit > 0 && len(result) >= limit {
			break
		}
	}

	return result, nil
}
