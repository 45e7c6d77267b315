package repository

import (
	"context"

	"app/internal/domain/model"
)

type EquipmentRepository interface {
	List(ctx context.Context, gymID int64, page int, limit int) ([]model.Equipment, int64, error)
	FindByID(ctx context.Context, gymID int64, equipmentID int64) (model.Equipment, error)
	Create(ctx context.Context, e model.Equipment) (model.Equipment, error)
	Update(ctx context.Context, e model.Equipment) error
	SoftDelete(ctx context.Context, gymID int64, equipmentID int64) error
}

type ExerciseRepository interface {
	List(ctx context.Context, gymID int64, page int, limit int, muscleGroup string) ([]model.Exercise, int64, error)
	FindByID(ctx context.Context, gymID int64, exerciseID int64) (model.Exercise, error)
	//存在チェック用。未削除のものだけ数える。
	CountByIDs(ctx context.Context, gymID int64, exerciseIDs []int64) (int64, error)
	Create(ctx context.Context, e model.Exercise) (model.Exercise, error)
	Update(ctx context.Context, e model.Exercise) error
	SoftDelete(ctx context.Context, gymID int64, exerciseID int64) error
}
