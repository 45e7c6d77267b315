package repository

import (
	"context"

	"app/internal/domain/model"
)

type WorkoutProgramRepository interface {
	Create(ctx context.Context, p model.WorkoutProgram) (model.WorkoutProgram, error)
	FindByID(ctx context.Context, gymID int64, programID int64) (model.WorkoutProgram, error)
	List(ctx context.Context, gymID int64, page int, limit int) ([]model.WorkoutProgram, int64, error)
	//学生または担当トレーナーとして関わるプログラム一覧
	ListForUser(ctx context.Context, gymID int64, userID int64) ([]model.WorkoutProgram, error)
	Update(ctx context.Context, p model.WorkoutProgram) error
	SoftDelete(ctx context.Context, gymID int64, programID int64) error
	CountActive(ctx context.Context, gymID int64) (int64, error)
}

type ProgramExerciseRepository interface {
	Add(ctx context.Context, pe model.ProgramExercise) (model.ProgramExercise, error)
	ListByProgramID(ctx context.Context, programID int64) ([]model.ProgramExercise, error)
	//並び替え用。1行のpositionだけを更新する。
	UpdatePosition(ctx context.Context, programID int64, programExerciseID int64, position int) error
	Remove(ctx context.Context, programID int64, programExerciseID int64) error
}
