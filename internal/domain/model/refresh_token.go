package model

import "time"

// リフレッシュトークンは平文を保存せず、sha256ハッシュだけを持つ。
type RefreshToken struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	TokenHash string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	UserAgent string     `gorm:"type:varchar(512)" json:"user_agent"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}
