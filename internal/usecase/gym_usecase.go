package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type GymUsecase struct {
	gymRepo repo.GymRepository
}

func NewGymUsecase(gymRepo repo.GymRepository) *GymUsecase {
	return &GymUsecase{gymRepo: gymRepo}
}

// 自分のジム情報。全ロール閲覧可。
func (u *GymUsecase) GetMyGym(ctx context.Context, actor Actor) (model.Gym, error) {
	if err := requireActor(actor); err != nil {
		return model.Gym{}, err
	}

	g, err := u.gymRepo.FindByID(ctx, actor.GymID)
	if err == repo.ErrNotFound {
		return model.Gym{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Gym{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return g, nil
}

type UpdateGymInput struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

func (u *GymUsecase) UpdateMyGym(ctx context.Context, actor Actor, in UpdateGymInput) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}

	err := u.gymRepo.Update(ctx, model.Gym{
		ID:        actor.GymID,
		Name:      strings.TrimSpace(in.Name),
		Address:   in.Address,
		Phone:     in.Phone,
		IsActive:  in.IsActive,
		UpdatedAt: time.Now(),
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
