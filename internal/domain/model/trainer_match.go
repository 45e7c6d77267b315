package model

import (
	"time"

	"gorm.io/datatypes"
)

type TrainerMatchStatus string

const (
	TrainerMatchPending  TrainerMatchStatus = "pending"
	TrainerMatchAccepted TrainerMatchStatus = "accepted"
	TrainerMatchDeclined TrainerMatchStatus = "declined"
	TrainerMatchEnded    TrainerMatchStatus = "ended"
)

type TrainerMatch struct {
	ID        int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	GymID     int64              `gorm:"not null;index" json:"gym_id"`
	TrainerID int64              `gorm:"not null;index" json:"trainer_id"`
	StudentID int64              `gorm:"not null;index" json:"student_id"`
	Status    TrainerMatchStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Message   string             `gorm:"type:text" json:"message"`
	Metadata  datatypes.JSONMap  `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time          `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time          `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
