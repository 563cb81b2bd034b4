// internal/domain/analytics/entity.go
package analytics

import (
	"time"
)

// Event categories
const (
	CategoryChat = "chat"
	CategoryCart = "cart"
)

// Event is one tracked shopper interaction
type Event struct {
	ID        string         `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string         `json:"name" gorm:"size:100;not null;index"`
	Category  string         `json:"category" gorm:"size:20;not null;index"`
	SessionID string         `json:"session_id" gorm:"size:64;index"`
	Provider  string         `json:"provider,omitempty" gorm:"size:50"`
	Data      map[string]any `json:"data" gorm:"serializer:json;type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"index"`
}

// TableName specifies the table name for Event
func (Event) TableName() string {
	return "analytics_events"
}

// NameCount is the number of events recorded under one name
type NameCount struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Summary represents event counts for the admin dashboard
type Summary struct {
	Since        time.Time   `json:"since"`
	TotalEvents  int64       `json:"total_events"`
	EventsToday  int64       `json:"events_today"`
	EventsWeek   int64       `json:"events_this_week"`
	Sessions     int64       `json:"sessions"`
	ByName       []NameCount `json:"by_name"`
	RecentEvents []Event     `json:"recent_events"`
}
