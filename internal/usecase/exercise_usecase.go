package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ExerciseUsecase struct {
	exerciseRepo  repo.ExerciseRepository
	equipmentRepo repo.EquipmentRepository
}

func NewExerciseUsecase(exerciseRepo repo.ExerciseRepository, equipmentRepo repo.EquipmentRepository) *ExerciseUsecase {
	return &ExerciseUsecase{exerciseRepo: exerciseRepo, equipmentRepo: equipmentRepo}
}

type ExerciseListOutput struct {
	Items []model.Exercise `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *ExerciseUsecase) ListExercises(ctx context.Context, actor Actor, page int, limit int, muscleGroup string) (ExerciseListOutput, error) {
	if err := requireActor(actor); err != nil {
		return ExerciseListOutput{}, err
	}
	if page < 1 {
		return ExerciseListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return ExerciseListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.exerciseRepo.List(ctx, actor.GymID, page, limit, strings.TrimSpace(muscleGroup))
	if err != nil {
		return ExerciseListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ExerciseListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (u *ExerciseUsecase) GetExercise(ctx context.Context, actor Actor, exerciseID int64) (model.Exercise, error) {
	if err := requireActor(actor); err != nil {
		return model.Exercise{}, err
	}
	if exerciseID <= 0 {
		return model.Exercise{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	e, err := u.exerciseRepo.FindByID(ctx, actor.GymID, exerciseID)
	if err == repo.ErrNotFound {
		return model.Exercise{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Exercise{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return e, nil
}

type SaveExerciseInput struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`
	EquipmentID *int64 `json:"equipment_id"`
	Description string `json:"description"`
}

func (u *ExerciseUsecase) CreateExercise(ctx context.Context, actor Actor, in SaveExerciseInput) (model.Exercise, error) {
	if err := requireActor(actor); err != nil {
		return model.Exercise{}, err
	}
	if !actor.Role.AtLeast(model.RoleTrainer) {
		return model.Exercise{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Exercise{}, NewHTTPError(http.StatusBadRequest, "name required")
	}

	//器具を指定するなら同じジムに実在すること
	if in.EquipmentID != nil {
		if _, err := u.equipmentRepo.FindByID(ctx, actor.GymID, *in.EquipmentID); err != nil {
			if err == repo.ErrNotFound {
				return model.Exercise{}, NewHTTPError(http.StatusBadRequest, "equipment not found")
			}
			return model.Exercise{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	now := time.Now()
	e, err := u.exerciseRepo.Create(ctx, model.Exercise{
		GymID:       actor.GymID,
		Name:        strings.TrimSpace(in.Name),
		MuscleGroup: strings.TrimSpace(in.MuscleGroup),
		EquipmentID: in.EquipmentID,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Exercise{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return e, nil
}

func (u *ExerciseUsecase) UpdateExercise(ctx context.Context, actor Actor, exerciseID int64, in SaveExerciseInput) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(model.RoleTrainer) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if exerciseID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.Name) == "" {
		return NewHTTPError(http.StatusBadRequest, "name required")
	}

	if in.EquipmentID != nil {
		if _, err := u.equipmentRepo.FindByID(ctx, actor.GymID, *in.EquipmentID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "equipment not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	err := u.exerciseRepo.Update(ctx, model.Exercise{
		ID:          exerciseID,
		GymID:       actor.GymID,
		Name:        strings.TrimSpace(in.Name),
		MuscleGroup: strings.TrimSpace(in.MuscleGroup),
		EquipmentID: in.EquipmentID,
		Description: in.Description,
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

func (u *ExerciseUsecase) DeleteExercise(ctx context.Context, actor Actor, exerciseID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(model.RoleTrainer) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if exerciseID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.exerciseRepo.SoftDelete(ctx, actor.GymID, exerciseID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
