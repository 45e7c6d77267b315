package model

import "time"

// EndedAtがNULLの間は「トレーニング中」。
type WorkoutLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	GymID     int64      `gorm:"not null;index" json:"gym_id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	ProgramID *int64     `gorm:"index" json:"program_id,omitempty"`
	StartedAt time.Time  `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type WorkoutLogEntry struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	LogID      int64     `gorm:"not null;index" json:"log_id"`
	ExerciseID int64     `gorm:"not null;index" json:"exercise_id"`
	SetNumber  int       `gorm:"not null" json:"set_number"`
	Reps       int       `gorm:"not null" json:"reps"`
	WeightKg   float64   `gorm:"not null;default:0" json:"weight_kg"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
