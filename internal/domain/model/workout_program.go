package model

import (
	"time"

	"gorm.io/gorm"
)

type WorkoutProgram struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	GymID     int64          `gorm:"not null;index" json:"gym_id"`
	TrainerID int64          `gorm:"not null;index" json:"trainer_id"`
	StudentID int64          `gorm:"not null;index" json:"student_id"`
	Title     string         `gorm:"type:varchar(255);not null" json:"title"`
	Notes     string         `gorm:"type:text" json:"notes"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Positionは1始まり。プログラム内で連番。
type ProgramExercise struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProgramID   int64     `gorm:"not null;index" json:"program_id"`
	ExerciseID  int64     `gorm:"not null;index" json:"exercise_id"`
	Position    int       `gorm:"not null" json:"position"`
	Sets        int       `gorm:"not null;default:3" json:"sets"`
	Reps        int       `gorm:"not null;default:10" json:"reps"`
	RestSeconds int       `gorm:"not null;default:60" json:"rest_seconds"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
