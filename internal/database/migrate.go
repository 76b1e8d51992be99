package database

import (
	"context"
	"fmt"

	"roombooking/migrations"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date. PostgreSQL runs the embedded goose
// migrations; the SQLite development fallback gets a plain schema without
// the exclusion constraints, so overlap protection there is the service
// check only.
func Migrate(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		if err := goose.SetDialect("postgres"); err != nil {
			return fmt.Errorf("set goose dialect: %w", err)
		}
		goose.SetBaseFS(migrations.FS)
		if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
		return nil
	}

	for _, stmt := range sqliteSchema {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		full_name     TEXT NOT NULL DEFAULT '',
		email         TEXT,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		active        BOOLEAN NOT NULL DEFAULT 1,
		created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		capacity    INTEGER NOT NULL DEFAULT 0,
		type        TEXT NOT NULL DEFAULT '',
		location    TEXT NOT NULL DEFAULT '',
		description TEXT,
		active      BOOLEAN NOT NULL DEFAULT 1,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS equipment (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		type        TEXT NOT NULL DEFAULT '',
		description TEXT,
		available   BOOLEAN NOT NULL DEFAULT 1,
		created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		room_id        INTEGER NOT NULL REFERENCES rooms(id),
		user_id        INTEGER NOT NULL REFERENCES users(id),
		start_time     DATETIME NOT NULL,
		end_time       DATETIME NOT NULL,
		subject        TEXT NOT NULL,
		status         TEXT NOT NULL DEFAULT 'pending',
		admin_comments TEXT,
		created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (start_time < end_time)
	)`,
	`CREATE TABLE IF NOT EXISTS reservation_equipment (
		reservation_id INTEGER NOT NULL REFERENCES reservations(id) ON DELETE CASCADE,
		equipment_id   INTEGER NOT NULL REFERENCES equipment(id),
		start_time     DATETIME NOT NULL,
		end_time       DATETIME NOT NULL,
		PRIMARY KEY (reservation_id, equipment_id)
	)`,
	`CREATE TABLE IF NOT EXISTS participants (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		reservation_id INTEGER NOT NULL REFERENCES reservations(id) ON DELETE CASCADE,
		name           TEXT NOT NULL,
		email          TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type       TEXT NOT NULL,
		title      TEXT NOT NULL,
		message    TEXT,
		is_read    BOOLEAN NOT NULL DEFAULT 0,
		data       TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_room_id ON reservations (room_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_user_id ON reservations (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations (status)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications (user_id, is_read)`,
}
