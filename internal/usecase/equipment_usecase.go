package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type EquipmentUsecase struct {
	equipmentRepo repo.EquipmentRepository
}

func NewEquipmentUsecase(equipmentRepo repo.EquipmentRepository) *EquipmentUsecase {
	return &EquipmentUsecase{equipmentRepo: equipmentRepo}
}

type EquipmentListOutput struct {
	Items []model.Equipment `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

func (u *EquipmentUsecase) ListEquipment(ctx context.Context, actor Actor, page int, limit int) (EquipmentListOutput, error) {
	if err := requireActor(actor); err != nil {
		return EquipmentListOutput{}, err
	}
	if page < 1 {
		return EquipmentListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return EquipmentListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.equipmentRepo.List(ctx, actor.GymID, page, limit)
	if err != nil {
		return EquipmentListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return EquipmentListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (u *EquipmentUsecase) GetEquipment(ctx context.Context, actor Actor, equipmentID int64) (model.Equipment, error) {
	if err := requireActor(actor); err != nil {
		return model.Equipment{}, err
	}
	if equipmentID <= 0 {
		return model.Equipment{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	e, err := u.equipmentRepo.FindByID(ctx, actor.GymID, equipmentID)
	if err == repo.ErrNotFound {
		return model.Equipment{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Equipment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return e, nil
}

type SaveEquipmentInput struct {
	Name        string     `json:"name"`
	Brand       string     `json:"brand"`
	Count       int        `json:"count"`
	PurchasedAt *time.Time `json:"purchased_at"`
	Notes       string     `json:"notes"`
}

func (u *EquipmentUsecase) CreateEquipment(ctx context.Context, actor Actor, in SaveEquipmentInput) (model.Equipment, error) {
	if err := requireActor(actor); err != nil {
		return model.Equipment{}, err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return model.Equipment{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Equipment{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Count < 1 {
		return model.Equipment{}, NewHTTPError(http.StatusBadRequest, "count must be >= 1")
	}

	now := time.Now()
	e, err := u.equipmentRepo.Create(ctx, model.Equipment{
		GymID:       actor.GymID,
		Name:        strings.TrimSpace(in.Name),
		Brand:       in.Brand,
		Count:       in.Count,
		PurchasedAt: in.PurchasedAt,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Equipment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return e, nil
}

func (u *EquipmentUsecase) UpdateEquipment(ctx context.Context, actor Actor, equipmentID int64, in SaveEquipmentInput) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if equipmentID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Count < 1 {
		return NewHTTPError(http.StatusBadRequest, "count must be >= 1")
	}

	err := u.equipmentRepo.Update(ctx, model.Equipment{
		ID:          equipmentID,
		GymID:       actor.GymID,
		Name:        strings.TrimSpace(in.Name),
		Brand:       in.Brand,
		Count:       in.Count,
		PurchasedAt: in.PurchasedAt,
		Notes:       in.Notes,
		UpdatedAt:   time.Now(),
	})
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *EquipmentUsecase) DeleteEquipment(ctx context.Context, actor Actor, equipmentID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if equipmentID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.equipmentRepo.SoftDelete(ctx, actor.GymID, equipmentID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
