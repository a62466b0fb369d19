package domain

import (
	"time"

	"gorm.io/gorm"
)

// Offerings of an event
const (
	OfferingEvent        = "event"
	OfferingGather       = "gather"
	OfferingConsultation = "consultation"
)

// EventAttendee is a main-event participation; cancellation soft-deletes it
type EventAttendee struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID   uint64         `gorm:"column:event_id;index" json:"event_id"`
	UserID    uint64         `gorm:"column:user_id;index" json:"user_id"`
	Mode      string         `gorm:"column:mode;type:varchar(10);default:'offline'" json:"mode"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (EventAttendee) TableName() string { return "event_attendees" }

// GatherAttendee is a networking participation (paid)
type GatherAttendee struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID   uint64         `gorm:"column:event_id;index" json:"event_id"`
	UserID    uint64         `gorm:"column:user_id;index" json:"user_id"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (GatherAttendee) TableName() string { return "gather_attendees" }

// ConsultationAttendee is an individual consultation participation (paid)
type ConsultationAttendee struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID   uint64         `gorm:"column:event_id;index" json:"event_id"`
	UserID    uint64         `gorm:"column:user_id;index" json:"user_id"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ConsultationAttendee) TableName() string { return "consultation_attendees" }

// Checkout session statuses
const (
	CheckoutPending   = "pending"
	CheckoutCompleted = "completed"
	CheckoutFailed    = "failed"
)

// CheckoutSession tracks a redirect to the external checkout page for paid offerings
type CheckoutSession struct {
	ID               uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID          string    `gorm:"column:order_id;type:varchar(64);uniqueIndex" json:"order_id"`
	UserID           uint64    `gorm:"column:user_id;index" json:"user_id"`
	EventID          uint64    `gorm:"column:event_id;index" json:"event_id"`
	WithGather       bool      `gorm:"column:with_gather" json:"with_gather"`
	WithConsultation bool      `gorm:"column:with_consultation" json:"with_consultation"`
	Amount           int       `gorm:"column:amount" json:"amount"`
	Status           string    `gorm:"column:status;type:varchar(20);default:'pending'" json:"status"`
	RedirectURL      string    `gorm:"column:redirect_url;type:varchar(1000)" json:"redirect_url"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CheckoutSession) TableName() string { return "checkout_sessions" }
