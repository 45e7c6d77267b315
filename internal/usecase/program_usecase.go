package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProgramUsecase struct {
	tx    repo.TransactionManager
	users repo.UserRepository
}

func NewProgramUsecase(tx repo.TransactionManager, users repo.UserRepository) *ProgramUsecase {
	return &ProgramUsecase{tx: tx, users: users}
}

type ProgramExerciseOutput struct {
	ID          int64 `json:"id"`
	ExerciseID  int64 `json:"exercise_id"`
	Position    int   `json:"position"`
	Sets        int   `json:"sets"`
	Reps        int   `json:"reps"`
	RestSeconds int   `json:"rest_seconds"`
}

type ProgramOutput struct {
	ID        int64                   `json:"id"`
	TrainerID int64                   `json:"trainer_id"`
	StudentID int64                   `json:"student_id"`
	Title     string                  `json:"title"`
	Notes     string                  `json:"notes,omitempty"`
	IsActive  bool                    `json:"is_active"`
	CreatedAt time.Time               `json:"created_at"`
	Exercises []ProgramExerciseOutput `json:"exercises"`
}

func toProgramOutput(p model.WorkoutProgram, exs []model.ProgramExercise) ProgramOutput {
	outExs := make([]ProgramExerciseOutput, 0, len(exs))
	for _, pe := range exs {
		outExs = append(outExs, ProgramExerciseOutput{
			ID:          pe.ID,
			ExerciseID:  pe.ExerciseID,
			Position:    pe.Position,
			Sets:        pe.Sets,
			Reps:        pe.Reps,
			RestSeconds: pe.RestSeconds,
		})
	}
	return ProgramOutput{
		ID:        p.ID,
		TrainerID: p.TrainerID,
		StudentID: p.StudentID,
		Title:     p.Title,
		Notes:     p.Notes,
		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		Exercises: outExs,
	}
}

// プログラムを見てよいのは本人（学生）・担当トレーナー・MANAGER以上。
func canSeeProgram(actor Actor, p model.WorkoutProgram) bool {
	if actor.Role.AtLeast(model.RoleManager) {
		return true
	}
	return p.TrainerID == actor.UserID || p.StudentID == actor.UserID
}

// 編集できるのは担当トレーナーとMANAGER以上。
func canEditProgram(actor Actor, p model.WorkoutProgram) bool {
	if actor.Role.AtLeast(model.RoleManager) {
		return true
	}
	return actor.Role.AtLeast(model.RoleTrainer) && p.TrainerID == actor.UserID
}

type CreateProgramInput struct {
	StudentID int64  `json:"student_id"`
	Title     string `json:"title"`
	Notes     string `json:"notes"`
}

func (u *ProgramUsecase) CreateProgram(ctx context.Context, actor Actor, in CreateProgramInput) (ProgramOutput, error) {
	if err := requireActor(actor); err != nil {
		return ProgramOutput{}, err
	}
	if !actor.Role.AtLeast(model.RoleTrainer) {
		return ProgramOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if strings.TrimSpace(in.Title) == "" {
		return ProgramOutput{}, NewHTTPError(http.StatusBadRequest, "title required")
	}
	if in.StudentID <= 0 {
		return ProgramOutput{}, NewHTTPError(http.StatusBadRequest, "invalid student_id")
	}

	//学生が同じジムの有効なユーザーであること
	student, err := u.users.FindByIDInGym(ctx, actor.GymID, in.StudentID)
	if err == repo.ErrNotFound || (err == nil && (student == nil || !student.IsActive)) {
		return ProgramOutput{}, NewHTTPError(http.StatusNotFound, "student not found")
	}
	if err != nil {
		return ProgramOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var out ProgramOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := time.Now()
		p, err := r.Programs().Create(ctx, model.WorkoutProgram{
			GymID:     actor.GymID,
			TrainerID: actor.UserID,
			StudentID: in.StudentID,
			Title:     strings.TrimSpace(in.Title),
			Notes:     in.Notes,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toProgramOutput(p, nil)
		return nil
	})
	if err != nil {
		return ProgramOutput{}, err
	}
	return out, nil
}

func (u *ProgramUsecase) ListPrograms(ctx context.Context, actor Actor, page int, limit int) ([]ProgramOutput, int64, error) {
	if err := requireActor(actor); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var outs []ProgramOutput
	var total int64

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var programs []model.WorkoutProgram
		var err error

		//MANAGER以上は全件、それ以外は自分が関わる分だけ
		if actor.Role.AtLeast(model.RoleManager) {
			programs, total, err = r.Programs().List(ctx, actor.GymID, page, limit)
		} else {
			programs, err = r.Programs().ListForUser(ctx, actor.GymID, actor.UserID)
			total = int64(len(programs))
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]ProgramOutput, 0, len(programs))
		for _, p := range programs {
			exs, err := r.ProgramExercises().ListByProgramID(ctx, p.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toProgramOutput(p, exs))
		}
		return nil
	})

	if err != nil {
		return nil, 0, err
	}
	return outs, total, nil
}

func (u *ProgramUsecase) GetProgram(ctx context.Context, actor Actor, programID int64) (ProgramOutput, error) {
	if err := requireActor(actor); err != nil {
		return ProgramOutput{}, err
	}
	if programID <= 0 {
		return ProgramOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out ProgramOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Programs().FindByID(ctx, actor.GymID, programID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !canSeeProgram(actor, p) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		exs, err := r.ProgramExercises().ListByProgramID(ctx, programID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toProgramOutput(p, exs)
		return nil
	})
	if err != nil {
		return ProgramOutput{}, err
	}
	return out, nil
}

type UpdateProgramInput struct {
	Title    string `json:"title"`
	Notes    string `json:"notes"`
	IsActive bool   `json:"is_active"`
}

func (u *ProgramUsecase) UpdateProgram(ctx context.Context, actor Actor, programID int64, in UpdateProgramInput) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if programID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.Title) == "" {
		return NewHTTPError(http.StatusBadRequest, "title required")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Programs().FindByID(ctx, actor.GymID, programID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !canEditProgram(actor, p) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		p.Title = strings.TrimSpace(in.Title)
		p.Notes = in.Notes
		p.IsActive = in.IsActive
		p.UpdatedAt = time.Now()
		if err := r.Programs().Update(ctx, p); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

func (u *ProgramUsecase) DeleteProgram(ctx context.Context, actor Actor, programID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if programID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Programs().FindByID(ctx, actor.GymID, programID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !canEditProgram(actor, p) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		if err := r.Programs().SoftDelete(ctx, actor.GymID, programID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

type AddProgramExerciseInput struct {
	ExerciseID  int64 `json:"exercise_id"`
	Sets        int   `json:"sets"`
	Reps        int   `json:"reps"`
	RestSeconds int   `json:"rest_seconds"`
}

func (u *ProgramUsecase) AddExercise(ctx context.Context, actor Actor, programID int64, in AddProgramExerciseInput) (ProgramExerciseOutput, error) {
	if err := requireActor(actor); err != nil {
		return ProgramExerciseOutput{}, err
	}
	if programID <= 0 || in.ExerciseID <= 0 {
		return ProgramExerciseOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Sets < 1 || in.Reps < 1 || in.RestSeconds < 0 {
		return ProgramExerciseOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sets/reps/rest")
	}

	var out ProgramExerciseOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Programs().FindByID(ctx, actor.GymID, programID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !canEditProgram(actor, p) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		//末尾に追加するので現在の本数からpositionを決める
		current, err := r.ProgramExercises().ListByProgramID(ctx, programID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := time.Now()
		pe, err := r.ProgramExercises().Add(ctx, model.ProgramExercise{
			ProgramID:   programID,
			ExerciseID:  in.ExerciseID,
			Position:    len(current) + 1,
			Sets:        in.Sets,
			Reps:        in.Reps,
			RestSeconds: in.RestSeconds,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = ProgramExerciseOutput{
			ID:          pe.ID,
			ExerciseID:  pe.ExerciseID,
			Position:    pe.Position,
			Sets:        pe.Sets,
			Reps:        pe.Reps,
			RestSeconds: pe.RestSeconds,
		}
		return nil
	})
	if err != nil {
		return ProgramExerciseOutput{}, err
	}
	return out, nil
}

func (u *ProgramUsecase) RemoveExercise(ctx context.Context, actor Actor, programID int64, programExerciseID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if programID <= 0 || programExerciseID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Programs().FindByID(ctx, actor.GymID, programID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !canEditProgram(actor, p) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		if err := r.ProgramExercises().Remove(ctx, programID, programExerciseID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//残った行のpositionを1から振り直す
		rest, err := r.ProgramExercises().ListByProgramID(ctx, programID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for i, pe := range rest {
			if pe.Position != i+1 {
				if err := r.ProgramExercises().UpdatePosition(ctx, programID, pe.ID, i+1); err != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
			}
		}
		return nil
	})
}

type ReorderExercisesInput struct {
	//プログラム内の全program_exercise IDを新しい順序で並べたもの
	OrderedIDs []int64 `json:"ordered_ids"`
}

// 並び替え。IDの集合が現状と完全一致しなければ400。
func (u *ProgramUsecase) ReorderExercises(ctx context.Context, actor Actor, programID int64, in ReorderExercisesInput) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if programID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if len(in.OrderedIDs) == 0 {
		return NewHTTPError(http.StatusBadRequest, "ordered_ids required")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Programs().FindByID(ctx, actor.GymID, programID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !canEditProgram(actor, p) {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		current, err := r.ProgramExercises().ListByProgramID(ctx, programID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//集合一致チェック。過不足・重複・他プログラムのIDを全部弾く。
		if len(in.OrderedIDs) != len(current) {
			return NewHTTPError(http.StatusBadRequest, "ordered_ids must cover all exercises")
		}
		existing := make(map[int64]bool, len(current))
		for _, pe := range current {
			existing[pe.ID] = true
		}
		seen := make(map[int64]bool, len(in.OrderedIDs))
		for _, id := range in.OrderedIDs {
			if !existing[id] || seen[id] {
				return NewHTTPError(http.StatusBadRequest, "ordered_ids must cover all exercises")
			}
			seen[id] = true
		}

		//1始まりで振り直す
		for i, id := range in.OrderedIDs {
			if err := r.ProgramExercises().UpdatePosition(ctx, programID, id, i+1); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
		return nil
	})
}
