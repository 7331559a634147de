package service

import (
	"appgate/internal/types"
	"container/list"
	"context"
	"github.com/google/uuid"
	"sync"
	"time"
)

// memoryJournalSize bounds the session history kept when the audit journal
// is disabled.
const memoryJournalSize = 500

// evictingList keeps the last capacity values, dropping the oldest.
type evictingList[T any] struct {
	data     *list.List
	capacity int
	mu       sync.Mutex
}

func newEvictingList[T any](capacity int) *evictingList[T] {
	return &evictingList[T]{
		capacity: capacity,
		data:     list.New(),
	}
}

func (l *evictingList[T]) Add(value T) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.capacity > 0 && l.data.Len() == l.capacity {
		l.data.Remove(l.data.Front())
	}
	l.data.PushBack(value)
}

func (l *evictingList[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.data.Len()
}

// Newest returns up to n values, most recent first. n <= 0 returns all.
func (l *evictingList[T]) Newest(n int) []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > l.data.Len() {
		n = l.data.Len()
	}
	values := make([]T, 0, n)
	for elem := l.data.Back(); elem != nil && len(values) < n; elem = elem.Prev() {
		values = append(values, elem.Value.(T))
	}
	return values
}

// memoryJournal is the AuditRepository used when nothing is persisted: the
// history only covers the current run.
type memoryJournal struct {
	records *evictingList[*types.AuditRecord]
}

func newMemoryJournal(capacity int) *memoryJournal {
	return &memoryJournal{records: newEvictingList[*types.AuditRecord](capacity)}
}

func (m *memoryJournal) Save(_ context.Context, record *types.AuditRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}
	m.records.Add(record)
	return nil
}

func (m *memoryJournal) FindRecent(_ context.Context, limit int) ([]*types.AuditRecord, error) {
	return m.records.Newest(limit), nil
}
