package model

import "time"

// Roleカタログ。ダッシュボードのロール管理画面用。
// 認可そのものはUser.RoleのTierで判定する。
type GymRole struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	GymID       int64     `gorm:"not null;index" json:"gym_id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Tier        Role      `gorm:"type:varchar(20);not null" json:"tier"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
