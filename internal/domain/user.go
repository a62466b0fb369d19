package domain

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleRepresentative = "representative"
	RolePartner        = "partner"
)

// Admin is a staff account of the dashboard
type Admin struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email        string         `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	Name         string         `gorm:"column:name;type:varchar(100)" json:"name"`
	PasswordHash string         `gorm:"column:password_hash;type:varchar(255)" json:"-"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Admin) TableName() string { return "admins" }

// User is a member of the front-end
type User struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Email        string         `gorm:"column:email;type:varchar(255);uniqueIndex" json:"email"`
	Username     string         `gorm:"column:username;type:varchar(100);index" json:"username"`
	Name         string         `gorm:"column:name;type:varchar(100)" json:"name"`
	Phone        string         `gorm:"column:phone;type:varchar(30)" json:"phone,omitempty"`
	Company      string         `gorm:"column:company;type:varchar(255)" json:"company,omitempty"`
	Role         string         `gorm:"column:role;type:varchar(20);default:'partner'" json:"role"`
	PasswordHash string         `gorm:"column:password_hash;type:varchar(255)" json:"-"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (User) TableName() string { return "users" }

// UpdateUserRequest admin edit of a member
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Username *string `json:"username" binding:"omitempty,max=100"`
	Phone    *string `json:"phone" binding:"omitempty,max=30"`
	Company  *string `json:"company" binding:"omitempty,max=255"`
	Role     *string `json:"role" binding:"omitempty,oneof=representative partner"`
}

// LoginRequest email/password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest refresh token exchange
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse issued tokens
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}
