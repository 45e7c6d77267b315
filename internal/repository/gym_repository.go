package repository

import (
	"context"

	"app/internal/domain/model"
)

type GymRepository interface {
	FindByID(ctx context.Context, gymID int64) (model.Gym, error)
	Create(ctx context.Context, gym model.Gym) (model.Gym, error)
	Update(ctx context.Context, gym model.Gym) error
}

type RoleRepository interface {
	List(ctx context.Context, gymID int64) ([]model.GymRole, error)
	FindByID(ctx context.Context, gymID int64, roleID int64) (model.GymRole, error)
	Create(ctx context.Context, role model.GymRole) (model.GymRole, error)
	Update(ctx context.Context, role model.GymRole) error
	Delete(ctx context.Context, gymID int64, roleID int64) error
}

type CategoryRepository interface {
	List(ctx context.Context, gymID int64) ([]model.Category, error)
	FindByID(ctx context.Context, gymID int64, categoryID int64) (model.Category, error)
	Create(ctx context.Context, c model.Category) (model.Category, error)
	Update(ctx context.Context, c model.Category) error
	Delete(ctx context.Context, gymID int64, categoryID int64) error
}
