package domain

import (
	"time"

	"gorm.io/gorm"
)

// Group is a named collection of users. Membership lives in group_users.
type Group struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string         `gorm:"column:title;type:varchar(255)" json:"title"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Group) TableName() string { return "groups" }

// GroupUser joins users to groups
type GroupUser struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	GroupID   uint64         `gorm:"column:group_id;index:idx_group_user" json:"group_id"`
	UserID    uint64         `gorm:"column:user_id;index:idx_group_user;index" json:"user_id"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (GroupUser) TableName() string { return "group_users" }

// GroupRequest create/update payload
type GroupRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
}

// GroupMembersRequest add members payload
type GroupMembersRequest struct {
	UserIDs []uint64 `json:"user_ids" binding:"required,min=1"`
}
