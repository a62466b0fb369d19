// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/damoang/eventhub-backend/internal/domain"
	"github.com/damoang/eventhub-backend/internal/migration"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated in-memory sqlite database
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every connection to :memory: is a fresh database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migration.RunSchema(db))
	return db
}

// CreateUser inserts a member
func CreateUser(t *testing.T, db *gorm.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		Email:    username + "@example.com",
		Username: username,
		Name:     username,
		Role:     domain.RolePartner,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateThread inserts a thread for user. A zero lastSent leaves last_sent_at NULL.
func CreateThread(t *testing.T, db *gorm.DB, userID uint64, read bool, lastSent time.Time) *domain.DMThread {
	t.Helper()
	th := &domain.DMThread{UserID: userID}
	if !lastSent.IsZero() {
		th.LastSentAt = &lastSent
	}
	require.NoError(t, db.Create(th).Error)
	// gorm skips false on create because of the column default
	require.NoError(t, db.Model(th).Update("is_admin_read", read).Error)
	th.IsAdminRead = read
	return th
}

// CreateMessage inserts a message
func CreateMessage(t *testing.T, db *gorm.DB, threadID, userID uint64, sender string, at time.Time) *domain.DMMessage {
	t.Helper()
	m := &domain.DMMessage{
		ThreadID:   threadID,
		UserID:     userID,
		SenderType: sender,
		Content:    "hello",
		CreatedAt:  at,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

// CreateEvent inserts an event starting at start
func CreateEvent(t *testing.T, db *gorm.DB, e domain.Event) *domain.Event {
	t.Helper()
	if e.StartAt.IsZero() {
		e.StartAt = time.Date(2026, 11, 10, 10, 0, 0, 0, time.UTC)
	}
	if e.EndAt.IsZero() {
		e.EndAt = e.StartAt.Add(2 * time.Hour)
	}
	if e.Title == "" {
		e.Title = "event"
	}
	require.NoError(t, db.Create(&e).Error)
	return &e
}
