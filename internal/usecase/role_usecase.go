package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// Roleカタログの管理。認可自体はUser.RoleのTierで行う。
type RoleUsecase struct {
	roleRepo repo.RoleRepository
}

func NewRoleUsecase(roleRepo repo.RoleRepository) *RoleUsecase {
	return &RoleUsecase{roleRepo: roleRepo}
}

func (u *RoleUsecase) ListRoles(ctx context.Context, actor Actor) ([]model.GymRole, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	roles, err := u.roleRepo.List(ctx, actor.GymID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return roles, nil
}

type SaveRoleInput struct {
	Name        string `json:"name"`
	Tier        string `json:"tier"`
	Description string `json:"description"`
}

func (u *RoleUsecase) CreateRole(ctx context.Context, actor Actor, in SaveRoleInput) (model.GymRole, error) {
	if err := requireActor(actor); err != nil {
		return model.GymRole{}, err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return model.GymRole{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.GymRole{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	tier := model.Role(in.Tier)
	if !tier.IsValid() {
		return model.GymRole{}, NewHTTPError(http.StatusBadRequest, "invalid tier")
	}

	now := time.Now()
	role, err := u.roleRepo.Create(ctx, model.GymRole{
		GymID:       actor.GymID,
		Name:        strings.TrimSpace(in.Name),
		Tier:        tier,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.GymRole{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return role, nil
}

func (u *RoleUsecase) UpdateRole(ctx context.Context, actor Actor, roleID int64, in SaveRoleInput) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if roleID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	tier := model.Role(in.Tier)
	if !tier.IsValid() {
		return NewHTTPError(http.StatusBadRequest, "invalid tier")
	}

	err := u.roleRepo.Update(ctx, model.GymRole{
		ID:          roleID,
		GymID:       actor.GymID,
		Name:        strings.TrimSpace(in.Name),
		Tier:        tier,
		Description: in.Description,
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *RoleUsecase) DeleteRole(ctx context.Context, actor Actor, roleID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if roleID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.roleRepo.Delete(ctx, actor.GymID, roleID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
