// internal/domain/analytics/service.go
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// recentLimit is how many events the summary lists
const recentLimit = 20

// trackTimeout bounds recording one event from a non-request path
const trackTimeout = 2 * time.Second

// Service handles analytics business logic
type Service struct {
	store EventStore
	log   logrus.FieldLogger
	now   func() time.Time
}

// NewService creates a new analytics service
func NewService(store EventStore, log logrus.FieldLogger) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, log: log, now: time.Now}
}

// Track logs and records an event. Failures are logged, never returned.
func (s *Service) Track(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = s.now().UTC()
	}
	if event.Data == nil {
		event.Data = map[string]any{}
	}

	entry := s.log.WithFields(logrus.Fields{
		"event":      event.Name,
		"category":   event.Category,
		"session_id": event.SessionID,
		"provider":   event.Provider,
	})
	entry.WithField("data", event.Data).Debug("Analytics event")

	if err := s.store.Record(ctx, &event); err != nil {
		entry.WithError(err).Warn("Failed to record analytics event")
	}
}

// Summary returns event counts since the given time
func (s *Service) Summary(ctx context.Context, since time.Time) (*Summary, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	thisWeek := today.AddDate(0, 0, -int(today.Weekday()))

	summary := &Summary{Since: since}

	var err error
	if summary.TotalEvents, err = s.store.Count(ctx, since); err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}
	if summary.EventsToday, err = s.store.Count(ctx, today); err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}
	if summary.EventsWeek, err = s.store.Count(ctx, thisWeek); err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}
	if summary.Sessions, err = s.store.CountSessions(ctx, since); err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}
	if summary.ByName, err = s.store.CountByName(ctx, since); err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}
	if summary.RecentEvents, err = s.store.Recent(ctx, recentLimit); err != nil {
		return nil, fmt.Errorf("failed to build summary: %w", err)
	}

	return summary, nil
}

// ForSession binds the service to one browser session
func (s *Service) ForSession(sessionID, provider string) *SessionTracker {
	return &SessionTracker{service: s, sessionID: sessionID, provider: provider}
}

// SessionTracker records events on behalf of one session
type SessionTracker struct {
	service   *Service
	sessionID string
	provider  string
}

// TrackChatEvent records a chat widget event
func (t *SessionTracker) TrackChatEvent(name string, data map[string]any) {
	t.track(name, CategoryChat, data)
}

// TrackCartEvent records a cart event
func (t *SessionTracker) TrackCartEvent(name string, data map[string]any) {
	t.track(name, CategoryCart, data)
}

func (t *SessionTracker) track(name, category string, data map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
	defer cancel()

	t.service.Track(ctx, Event{
		Name:      name,
		Category:  category,
		SessionID: t.sessionID,
		Provider:  t.provider,
		Data:      data,
	})
}
