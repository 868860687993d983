package database

import (
	"homerent/internal/logger"
)

// CreateIndexes creates indexes GORM cannot express through tags. The
// partial unique index on bookings is the storage-level backstop for
// one live booking per house.
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_house_blocking
			ON bookings(house_id)
			WHERE status IN ('payment_submitted', 'approved', 'transferred')
			AND deleted_at IS NULL`,
		"CREATE INDEX IF NOT EXISTS idx_bookings_tenant_status ON bookings(tenant_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_bookings_landlord_status ON bookings(landlord_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_bookings_status_created_at ON bookings(status, created_at)",
		"CREATE INDEX IF NOT EXISTS idx_visit_requests_house_slot ON visit_requests(house_id, slot_start)",
		"CREATE INDEX IF NOT EXISTS idx_support_tickets_status_priority ON support_tickets(status, priority)",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			return log.Err("failed to create index", err, "sql", indexSQL)
		}
	}

	log.Info("Additional database indexes created")
	return nil
}
