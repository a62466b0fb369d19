package domain

import (
	"time"

	"gorm.io/gorm"
)

// Event types
const (
	EventTypeRegularMeeting = "regular_meeting"
	EventTypeCourse         = "course"
	EventTypeSeminar        = "seminar"
	EventTypeOnline         = "online"
)

// Participation modes
const (
	ModeOnline  = "online"
	ModeOffline = "offline"
)

// Event is a scheduled meeting with three independently bookable offerings:
// the main event, the gathering (networking) and individual consultation.
type Event struct {
	ID                   uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title                string         `gorm:"column:title;type:varchar(255)" json:"title"`
	Description          string         `gorm:"column:description;type:text" json:"description"`
	Type                 string         `gorm:"column:type;type:varchar(50);index" json:"type"`
	City                 string         `gorm:"column:city;type:varchar(100);index" json:"city"`
	Location             string         `gorm:"column:location;type:varchar(255)" json:"location"`
	IsOnline             bool           `gorm:"column:is_online;default:false" json:"is_online"`
	StartAt              time.Time      `gorm:"column:start_at;index" json:"start_at"`
	EndAt                time.Time      `gorm:"column:end_at" json:"end_at"`
	EventCapacity        int            `gorm:"column:event_capacity;default:0" json:"event_capacity"`
	GatherCapacity       int            `gorm:"column:gather_capacity;default:0" json:"gather_capacity"`
	ConsultationCapacity int            `gorm:"column:consultation_capacity;default:0" json:"consultation_capacity"`
	GatherPrice          int            `gorm:"column:gather_price;default:0" json:"gather_price"`
	ConsultationPrice    int            `gorm:"column:consultation_price;default:0" json:"consultation_price"`
	CreatedAt            time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Event) TableName() string { return "events" }

// AllowsModeChoice reports whether the member picks online/offline.
// City-tagged regular meetings and courses are hybrid; online-only events never are.
func (e *Event) AllowsModeChoice() bool {
	if e.IsOnline {
		return false
	}
	if e.Type == EventTypeCourse {
		return true
	}
	return e.Type == EventTypeRegularMeeting && e.City != ""
}

// EventVisibleGroup grants a group visibility of an event
type EventVisibleGroup struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID   uint64         `gorm:"column:event_id;index" json:"event_id"`
	GroupID   uint64         `gorm:"column:group_id;index" json:"group_id"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (EventVisibleGroup) TableName() string { return "event_visible_groups" }

// EventRequest admin create/update payload
type EventRequest struct {
	Title                string    `json:"title" binding:"required,max=255"`
	Description          string    `json:"description"`
	Type                 string    `json:"type" binding:"required,max=50"`
	City                 string    `json:"city" binding:"max=100"`
	Location             string    `json:"location" binding:"max=255"`
	IsOnline             bool      `json:"is_online"`
	StartAt              time.Time `json:"start_at" binding:"required"`
	EndAt                time.Time `json:"end_at" binding:"required"`
	EventCapacity        int       `json:"event_capacity" binding:"min=0"`
	GatherCapacity       int       `json:"gather_capacity" binding:"min=0"`
	ConsultationCapacity int       `json:"consultation_capacity" binding:"min=0"`
	GatherPrice          int       `json:"gather_price" binding:"min=0"`
	ConsultationPrice    int       `json:"consultation_price" binding:"min=0"`
	VisibleGroupIDs      []uint64  `json:"visible_group_ids"`
}

// VisibleGroupsRequest replaces an event's visibility list; empty means everyone
type VisibleGroupsRequest struct {
	GroupIDs []uint64 `json:"group_ids"`
}

// Apply copies request fields onto e
func (r *EventRequest) Apply(e *Event) {
	e.Title = r.Title
	e.Description = r.Description
	e.Type = r.Type
	e.City = r.City
	e.Location = r.Location
	e.IsOnline = r.IsOnline
	e.StartAt = r.StartAt
	e.EndAt = r.EndAt
	e.EventCapacity = r.EventCapacity
	e.GatherCapacity = r.GatherCapacity
	e.ConsultationCapacity = r.ConsultationCapacity
	e.GatherPrice = r.GatherPrice
	e.ConsultationPrice = r.ConsultationPrice
}
