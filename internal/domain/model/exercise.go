package model

import (
	"time"

	"gorm.io/gorm"
)

type Equipment struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	GymID       int64          `gorm:"not null;index" json:"gym_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Brand       string         `gorm:"type:varchar(255)" json:"brand"`
	Count       int            `gorm:"not null;default:1" json:"count"`
	PurchasedAt *time.Time     `json:"purchased_at,omitempty"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type Exercise struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	GymID       int64          `gorm:"not null;index" json:"gym_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	MuscleGroup string         `gorm:"type:varchar(100)" json:"muscle_group"`
	EquipmentID *int64         `gorm:"index" json:"equipment_id,omitempty"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
