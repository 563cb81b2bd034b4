// internal/domain/analytics/store.go
package analytics

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// EventStore records and aggregates events
type EventStore interface {
	Record(ctx context.Context, event *Event) error
	Count(ctx context.Context, since time.Time) (int64, error)
	CountSessions(ctx context.Context, since time.Time) (int64, error)
	CountByName(ctx context.Context, since time.Time) ([]NameCount, error)
	Recent(ctx context.Context, limit int) ([]Event, error)
}

// GormStore keeps events in the analytics_events table
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a database-backed event store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Record inserts an event
func (s *GormStore) Record(ctx context.Context, event *Event) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// Count returns the number of events created at or after since
func (s *GormStore) Count(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw("SELECT COUNT(*) FROM analytics_events WHERE created_at >= ?", since).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// CountSessions returns the number of distinct sessions with events since the given time
func (s *GormStore) CountSessions(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Raw("SELECT COUNT(DISTINCT session_id) FROM analytics_events WHERE created_at >= ?", since).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// CountByName groups events by name, most frequent first
func (s *GormStore) CountByName(ctx context.Context, since time.Time) ([]NameCount, error) {
	var counts []NameCount
	err := s.db.WithContext(ctx).Raw(`
		SELECT name, category, COUNT(*) as count
		FROM analytics_events
		WHERE created_at >= ?
		GROUP BY name, category
		ORDER BY count DESC, name ASC
	`, since).Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group events: %w", err)
	}
	return counts, nil
}

// Recent returns the latest events
func (s *GormStore) Recent(ctx context.Context, limit int) ([]Event, error) {
	var events []Event
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent events: %w", err)
	}
	return events, nil
}

// MemoryStore keeps events in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemoryStore creates an empty in-memory event store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Record appends an event
func (s *MemoryStore) Record(_ context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

// Count returns the number of events created at or after since
func (s *MemoryStore) Count(_ context.Context, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, e := range s.events {
		if !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// CountSessions returns the number of distinct sessions with events since the given time
func (s *MemoryStore) CountSessions(_ context.Context, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, e := range s.events {
		if !e.CreatedAt.Before(since) {
			seen[e.SessionID] = struct{}{}
		}
	}
	return int64(len(seen)), nil
}

// CountByName groups events by name, most frequent first
func (s *MemoryStore) CountByName(_ context.Context, since time.Time) ([]NameCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := make(map[string]int)
	var counts []NameCount
	for _, e := range s.events {
		if e.CreatedAt.Before(since) {
			continue
		}
		key := e.Category + "/" + e.Name
		i, ok := index[key]
		if !ok {
			i = len(counts)
			index[key] = i
			counts = append(counts, NameCount{Name: e.Name, Category: e.Category})
		}
		counts[i].Count++
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	return counts, nil
}

// Recent returns the latest events
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, 0, limit)
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.events[i])
	}
	return out, nil
}
