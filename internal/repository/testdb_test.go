package repository

import (
	"testing"
	"time"

	"clinic-booking-core/internal/repository/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlite mirror of the Postgres schema, TIME columns kept as text
var testSchema = []string{
	`CREATE TABLE patients (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE slots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		doctor_id INTEGER NOT NULL,
		slot_date DATE NOT NULL,
		shift TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		available BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE bookings (
		id TEXT PRIMARY KEY,
		patient_id INTEGER NOT NULL,
		doctor_id INTEGER NOT NULL,
		slot_id INTEGER NOT NULL,
		booking_date DATE NOT NULL,
		start_time TEXT NOT NULL,
		shift TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE UNIQUE INDEX uq_bookings_active_slot ON bookings (slot_id)
		WHERE LOWER(status) NOT IN ('cancelled', 'cancelada')`,
	`CREATE TABLE audit_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		action TEXT NOT NULL,
		metadata TEXT,
		created_at DATETIME
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection: every handle sees the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range testSchema {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func seedSlot(t *testing.T, db *gorm.DB, record model.SlotRecord) model.SlotRecord {
	t.Helper()
	available := record.Available
	require.NoError(t, db.Create(&record).Error)
	// gorm skips zero values for columns with a default
	if !available {
		require.NoError(t, db.Model(&model.SlotRecord{}).Where("id = ?", record.ID).UpdateColumn("available", false).Error)
		record.Available = false
	}
	return record
}
