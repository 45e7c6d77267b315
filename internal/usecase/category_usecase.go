package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
}

func NewCategoryUsecase(categoryRepo repo.CategoryRepository) *CategoryUsecase {
	return &CategoryUsecase{categoryRepo: categoryRepo}
}

func (u *CategoryUsecase) ListCategories(ctx context.Context, actor Actor) ([]model.Category, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	cats, err := u.categoryRepo.List(ctx, actor.GymID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cats, nil
}

func (u *CategoryUsecase) CreateCategory(ctx context.Context, actor Actor, name string) (model.Category, error) {
	if err := requireActor(actor); err != nil {
		return model.Category{}, err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return model.Category{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if strings.TrimSpace(name) == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name required")
	}

	now := time.Now()
	c, err := u.categoryRepo.Create(ctx, model.Category{
		GymID:     actor.GymID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

func (u *CategoryUsecase) UpdateCategory(ctx context.Context, actor Actor, categoryID int64, name string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}

	err := u.categoryRepo.Update(ctx, model.Category{
		ID:    categoryID,
		GymID: actor.GymID,
		Name:  strings.TrimSpace(name),
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CategoryUsecase) DeleteCategory(ctx context.Context, actor Actor, categoryID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if categoryID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.categoryRepo.Delete(ctx, actor.GymID, categoryID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
