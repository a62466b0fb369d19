package domain

import (
	"time"

	"gorm.io/gorm"
)

// Notice is an announcement shown to members inside its publish window
type Notice struct {
	ID             uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title          string          `gorm:"column:title;type:varchar(255)" json:"title"`
	Body           string          `gorm:"column:body;type:text" json:"body"`
	CategoryID     *uint64         `gorm:"column:category_id;index" json:"category_id"`
	PublishStartAt time.Time       `gorm:"column:publish_start_at;index" json:"publish_start_at"`
	PublishEndAt   *time.Time      `gorm:"column:publish_end_at" json:"publish_end_at"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"column:deleted_at;index" json:"-"`
	Category       *NoticeCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Files          []NoticeFile    `gorm:"foreignKey:NoticeID" json:"files,omitempty"`
}

func (Notice) TableName() string { return "notices" }

// PublishedAt reports whether the notice is visible at t
func (n *Notice) PublishedAt(t time.Time) bool {
	if t.Before(n.PublishStartAt) {
		return false
	}
	return n.PublishEndAt == nil || t.Before(*n.PublishEndAt)
}

// NoticeCategory groups notices
type NoticeCategory struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"column:name;type:varchar(100)" json:"name"`
	SortOrder int            `gorm:"column:sort_order;default:0" json:"sort_order"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (NoticeCategory) TableName() string { return "notice_categories" }

// NoticeFile is an attachment of a notice
type NoticeFile struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	NoticeID    uint64         `gorm:"column:notice_id;index" json:"notice_id"`
	Name        string         `gorm:"column:name;type:varchar(255)" json:"name"`
	URL         string         `gorm:"column:url;type:varchar(1000)" json:"url"`
	ObjectKey   string         `gorm:"column:object_key;type:varchar(500)" json:"-"`
	ContentType string         `gorm:"column:content_type;type:varchar(100)" json:"content_type"`
	Size        int64          `gorm:"column:size" json:"size"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (NoticeFile) TableName() string { return "notice_files" }

// NoticeRequest create/update payload
type NoticeRequest struct {
	Title          string     `json:"title" binding:"required,max=255"`
	Body           string     `json:"body"`
	CategoryID     *uint64    `json:"category_id"`
	PublishStartAt time.Time  `json:"publish_start_at" binding:"required"`
	PublishEndAt   *time.Time `json:"publish_end_at"`
}

// NoticeCategoryRequest create/update payload
type NoticeCategoryRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	SortOrder int    `json:"sort_order"`
}
