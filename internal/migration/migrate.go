package migration

import (
	"github.com/damoang/eventhub-backend/internal/domain"
	"gorm.io/gorm"
)

// Run creates every table and seeds default labels and notice categories if empty.
// Safe to run multiple times (AutoMigrate is idempotent).
func Run(db *gorm.DB) error {
	// 1. Schema
	if err := RunSchema(db); err != nil {
		return err
	}

	// 2. Seed - 비어있을 때만 기본 데이터 삽입
	var count int64
	db.Model(&domain.DMLabel{}).Count(&count)
	if count == 0 {
		if err := seedLabels(db); err != nil {
			return err
		}
	}
	db.Model(&domain.NoticeCategory{}).Count(&count)
	if count == 0 {
		return seedNoticeCategories(db)
	}
	return nil
}

// RunSchema migrates all tables
func RunSchema(db *gorm.DB) error {
	if err := db.SetupJoinTable(&domain.DMThread{}, "Tags", &domain.DMThreadTag{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		// Accounts
		&domain.Admin{},
		&domain.User{},
		&domain.Group{},
		&domain.GroupUser{},

		// Events and registration
		&domain.Event{},
		&domain.EventVisibleGroup{},
		&domain.EventAttendee{},
		&domain.GatherAttendee{},
		&domain.ConsultationAttendee{},
		&domain.CheckoutSession{},

		// Direct messages
		&domain.DMLabel{},
		&domain.DMTag{},
		&domain.DMThread{},
		&domain.DMThreadTag{},
		&domain.DMMessage{},
		&domain.DMMessageImage{},
		&domain.DMMemo{},

		// Content
		&domain.NoticeCategory{},
		&domain.Notice{},
		&domain.NoticeFile{},
		&domain.Archive{},
		&domain.FAQ{},
	)
}

func seedLabels(db *gorm.DB) error {
	labels := []domain.DMLabel{
		{Name: "対応中", Color: "#f59e0b"},
		{Name: "完了", Color: "#10b981"},
		{Name: "要確認", Color: "#ef4444"},
	}
	return db.Create(&labels).Error
}

func seedNoticeCategories(db *gorm.DB) error {
	categories := []domain.NoticeCategory{
		{Name: "お知らせ", SortOrder: 1},
		{Name: "イベント", SortOrder: 2},
		{Name: "メンテナンス", SortOrder: 3},
	}
	return db.Create(&categories).Error
}
