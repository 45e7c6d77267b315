package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type WorkoutLogUsecase struct {
	logRepo      repo.WorkoutLogRepository
	exerciseRepo repo.ExerciseRepository
}

func NewWorkoutLogUsecase(logRepo repo.WorkoutLogRepository, exerciseRepo repo.ExerciseRepository) *WorkoutLogUsecase {
	return &WorkoutLogUsecase{logRepo: logRepo, exerciseRepo: exerciseRepo}
}

type StartWorkoutInput struct {
	ProgramID *int64 `json:"program_id"`
	Notes     string `json:"notes"`
}

// トレーニング開始。EndedAtがNULLの行を作る。
func (u *WorkoutLogUsecase) StartWorkout(ctx context.Context, actor Actor, in StartWorkoutInput) (model.WorkoutLog, error) {
	if err := requireActor(actor); err != nil {
		return model.WorkoutLog{}, err
	}

	now := time.Now()
	l, err := u.logRepo.Create(ctx, model.WorkoutLog{
		GymID:     actor.GymID,
		UserID:    actor.UserID,
		ProgramID: in.ProgramID,
		StartedAt: now,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.WorkoutLog{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return l, nil
}

type AddWorkoutEntryInput struct {
	ExerciseID int64   `json:"exercise_id"`
	SetNumber  int     `json:"set_number"`
	Reps       int     `json:"reps"`
	WeightKg   float64 `json:"weight_kg"`
}

func (u *WorkoutLogUsecase) AddEntry(ctx context.Context, actor Actor, logID int64, in AddWorkoutEntryInput) (model.WorkoutLogEntry, error) {
	if err := requireActor(actor); err != nil {
		return model.WorkoutLogEntry{}, err
	}
	if logID <= 0 || in.ExerciseID <= 0 {
		return model.WorkoutLogEntry{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.SetNumber < 1 || in.Reps < 1 || in.WeightKg < 0 {
		return model.WorkoutLogEntry{}, NewHTTPError(http.StatusBadRequest, "invalid entry")
	}

	l, err := u.logRepo.FindByID(ctx, actor.GymID, logID)
	if err == repo.ErrNotFound {
		return model.WorkoutLogEntry{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.WorkoutLogEntry{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//本人のログ以外には追記できない
	if l.UserID != actor.UserID {
		return model.WorkoutLogEntry{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	//終了済みログには追記できない
	if l.EndedAt != nil {
		return model.WorkoutLogEntry{}, NewHTTPError(http.StatusBadRequest, "workout already finished")
	}

	//種目が同じジムに実在すること
	if _, err := u.exerciseRepo.FindByID(ctx, actor.GymID, in.ExerciseID); err != nil {
		if err == repo.ErrNotFound {
			return model.WorkoutLogEntry{}, NewHTTPError(http.StatusBadRequest, "exercise not found")
		}
		return model.WorkoutLogEntry{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	e, err := u.logRepo.AddEntry(ctx, model.WorkoutLogEntry{
		LogID:      logID,
		ExerciseID: in.ExerciseID,
		SetNumber:  in.SetNumber,
		Reps:       in.Reps,
		WeightKg:   in.WeightKg,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return model.WorkoutLogEntry{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return e, nil
}

// トレーニング終了。二重終了は400。
func (u *WorkoutLogUsecase) FinishWorkout(ctx context.Context, actor Actor, logID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if logID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	l, err := u.logRepo.FindByID(ctx, actor.GymID, logID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if l.UserID != actor.UserID {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	done, err := u.logRepo.Finish(ctx, logID, time.Now())
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !done {
		return NewHTTPError(http.StatusBadRequest, "workout already finished")
	}
	return nil
}

type WorkoutLogDetailOutput struct {
	Log     model.WorkoutLog        `json:"log"`
	Entries []model.WorkoutLogEntry `json:"entries"`
}

func (u *WorkoutLogUsecase) GetWorkoutLog(ctx context.Context, actor Actor, logID int64) (WorkoutLogDetailOutput, error) {
	if err := requireActor(actor); err != nil {
		return WorkoutLogDetailOutput{}, err
	}
	if logID <= 0 {
		return WorkoutLogDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	l, err := u.logRepo.FindByID(ctx, actor.GymID, logID)
	if err == repo.ErrNotFound {
		return WorkoutLogDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return WorkoutLogDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//他人のログはトレーナー以上だけ見られる
	if l.UserID != actor.UserID && !actor.Role.AtLeast(model.RoleTrainer) {
		return WorkoutLogDetailOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	entries, err := u.logRepo.ListEntries(ctx, logID)
	if err != nil {
		return WorkoutLogDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return WorkoutLogDetailOutput{Log: l, Entries: entries}, nil
}

type WorkoutLogListOutput struct {
	Items []model.WorkoutLog `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

func (u *WorkoutLogUsecase) ListMyWorkoutLogs(ctx context.Context, actor Actor, page int, limit int) (WorkoutLogListOutput, error) {
	if err := requireActor(actor); err != nil {
		return WorkoutLogListOutput{}, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	items, total, err := u.logRepo.ListByUserID(ctx, actor.GymID, actor.UserID, page, limit)
	if err != nil {
		return WorkoutLogListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return WorkoutLogListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}
