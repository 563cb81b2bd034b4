// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"
	"time"

	"github.com/nuvella/storefront-api/internal/domain/analytics"
	"github.com/nuvella/storefront-api/internal/infrastructure/storage"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	models := []interface{}{
		// Key/value snapshots (carts, user profiles)
		&storage.Entry{},

		// Analytics
		&analytics.Event{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_storage_entries_updated_at ON storage_entries(updated_at)",
		"CREATE INDEX IF NOT EXISTS idx_analytics_events_session_created ON analytics_events(session_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_analytics_events_name_created ON analytics_events(name, created_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// PurgeStaleEntries deletes snapshots not written for longer than ttl, which
// gives the database backend the same expiry the Redis backend has
func (m *Migration) PurgeStaleEntries(ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, nil
	}

	result := m.db.Where("updated_at < ?", time.Now().UTC().Add(-ttl)).Delete(&storage.Entry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge stale entries: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		log.Printf("🧹 Purged %d stale storage entries", result.RowsAffected)
	}
	return result.RowsAffected, nil
}

// GetTableInfo logs information about database tables
func (m *Migration) GetTableInfo() error {
	var tables []string

	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	log.Println("📊 Database Tables Information:")
	log.Println("================================")

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count

		status := "✅"
		if count == 0 {
			status = "📭"
		}

		log.Printf("%s %-25s | %d records", status, table, count)
	}

	log.Println("================================")
	log.Printf("📈 Total records across all tables: %d", totalRecords)
	log.Printf("🗂️ Total tables: %d", len(tables))

	return nil
}
