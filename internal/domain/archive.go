package domain

import (
	"time"

	"gorm.io/gorm"
)

// Archive is a recorded session published to members
type Archive struct {
	ID             uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title          string         `gorm:"column:title;type:varchar(255)" json:"title"`
	Description    string         `gorm:"column:description;type:text" json:"description"`
	ImageURL       string         `gorm:"column:image_url;type:varchar(1000)" json:"image_url"`
	ImageKey       string         `gorm:"column:image_key;type:varchar(500)" json:"-"`
	VideoID        string         `gorm:"column:video_id;type:varchar(100)" json:"video_id"`
	VideoURL       string         `gorm:"column:video_url;type:varchar(1000)" json:"video_url"`
	PublishStartAt time.Time      `gorm:"column:publish_start_at;index" json:"publish_start_at"`
	PublishEndAt   *time.Time     `gorm:"column:publish_end_at" json:"publish_end_at"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Archive) TableName() string { return "archives" }

// ArchiveRequest create/update payload
type ArchiveRequest struct {
	Title          string     `json:"title" binding:"required,max=255"`
	Description    string     `json:"description"`
	VideoID        string     `json:"video_id" binding:"max=100"`
	VideoURL       string     `json:"video_url" binding:"max=1000"`
	PublishStartAt time.Time  `json:"publish_start_at" binding:"required"`
	PublishEndAt   *time.Time `json:"publish_end_at"`
}

// VideoTicketRequest asks the video host for a direct-upload URL
type VideoTicketRequest struct {
	Filename    string `json:"filename" binding:"required"`
	Size        int64  `json:"size" binding:"required,min=1"`
	ContentType string `json:"content_type" binding:"required"`
}

// VideoTicket is a one-shot direct-upload destination
type VideoTicket struct {
	VideoID   string    `json:"video_id"`
	UploadURL string    `json:"upload_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FAQ is a question/answer pair shown to members
type FAQ struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Question  string         `gorm:"column:question;type:text" json:"question"`
	Answer    string         `gorm:"column:answer;type:text" json:"answer"`
	SortOrder int            `gorm:"column:sort_order;default:0;index" json:"sort_order"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (FAQ) TableName() string { return "faqs" }

// FAQRequest create/update payload
type FAQRequest struct {
	Question  string `json:"question" binding:"required"`
	Answer    string `json:"answer" binding:"required"`
	SortOrder int    `json:"sort_order"`
}

// ReorderRequest sets sort_order to the position of each id
type ReorderRequest struct {
	IDs []uint64 `json:"ids" binding:"required,min=1"`
}
