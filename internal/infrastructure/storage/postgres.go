// internal/infrastructure/storage/postgres.go
package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one key/value row
type Entry struct {
	Key       string    `gorm:"primaryKey;size:255" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Entry) TableName() string {
	return "storage_entries"
}

// Postgres stores snapshots in the storage_entries table
type Postgres struct {
	db *gorm.DB
}

// NewPostgres creates a database-backed store. The table is created by the migration.
func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

// Get retrieves a value by key
func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var entry Entry
	err := p.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set upserts a value
func (p *Postgres) Set(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	return p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Delete removes a key
func (p *Postgres) Delete(ctx context.Context, key string) error {
	return p.db.WithContext(ctx).Where("key = ?", key).Delete(&Entry{}).Error
}

// Available checks the underlying connection
func (p *Postgres) Available() bool {
	sqlDB, err := p.db.DB()
	if err != nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return sqlDB.PingContext(ctx) == nil
}
