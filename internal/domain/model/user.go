package model

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleTrainer Role = "TRAINER"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// 権限の強さ。数字が大きいほど強い。
var roleTiers = map[Role]int{
	RoleStudent: 1,
	RoleTrainer: 2,
	RoleManager: 3,
	RoleAdmin:   4,
}

// Tierはロールの強さを返す。未知のロールは0。
func (r Role) Tier() int {
	return roleTiers[r]
}

// AtLeastはminと同等以上の権限かどうか。
func (r Role) AtLeast(min Role) bool {
	return r.Tier() >= min.Tier() && r.Tier() > 0
}

// IsValidは既知のロールかどうか。
func (r Role) IsValid() bool {
	_, ok := roleTiers[r]
	return ok
}

type User struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	GymID        int64          `gorm:"not null;index" json:"gym_id"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	FullName     string         `gorm:"type:varchar(255);not null" json:"full_name"`
	Role         Role           `gorm:"type:varchar(20);not null;default:'STUDENT'" json:"role"`
	TokenVersion int            `gorm:"not null;default:0" json:"token_version"`
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
