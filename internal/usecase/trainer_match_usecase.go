package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type TrainerMatchUsecase struct {
	matchRepo repo.TrainerMatchRepository
	users     repo.UserRepository
}

func NewTrainerMatchUsecase(matchRepo repo.TrainerMatchRepository, users repo.UserRepository) *TrainerMatchUsecase {
	return &TrainerMatchUsecase{matchRepo: matchRepo, users: users}
}

type RequestMatchInput struct {
	TrainerID int64  `json:"trainer_id"`
	StudentID int64  `json:"student_id"`
	Message   string `json:"message"`
}

// マッチ申請。学生→トレーナーでもトレーナー→学生でもよい。
func (u *TrainerMatchUsecase) RequestMatch(ctx context.Context, actor Actor, in RequestMatchInput) (model.TrainerMatch, error) {
	if err := requireActor(actor); err != nil {
		return model.TrainerMatch{}, err
	}

	trainerID := in.TrainerID
	studentID := in.StudentID

	//申請者自身がどちらか一方であること
	switch {
	case actor.Role == model.RoleStudent:
		studentID = actor.UserID
	case actor.Role.AtLeast(model.RoleTrainer) && trainerID == 0:
		trainerID = actor.UserID
	}
	if trainerID <= 0 || studentID <= 0 {
		return model.TrainerMatch{}, NewHTTPError(http.StatusBadRequest, "trainer_id and student_id required")
	}
	if trainerID == studentID {
		return model.TrainerMatch{}, NewHTTPError(http.StatusBadRequest, "trainer and student must differ")
	}
	if actor.UserID != trainerID && actor.UserID != studentID && !actor.Role.AtLeast(model.RoleManager) {
		return model.TrainerMatch{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	//トレーナー側はTRAINER以上のロールを持つこと
	trainer, err := u.users.FindByIDInGym(ctx, actor.GymID, trainerID)
	if err == repo.ErrNotFound || (err == nil && (trainer == nil || !trainer.IsActive)) {
		return model.TrainerMatch{}, NewHTTPError(http.StatusNotFound, "trainer not found")
	}
	if err != nil {
		return model.TrainerMatch{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !trainer.Role.AtLeast(model.RoleTrainer) {
		return model.TrainerMatch{}, NewHTTPError(http.StatusBadRequest, "user is not a trainer")
	}

	student, err := u.users.FindByIDInGym(ctx, actor.GymID, studentID)
	if err == repo.ErrNotFound || (err == nil && (student == nil || !student.IsActive)) {
		return model.TrainerMatch{}, NewHTTPError(http.StatusNotFound, "student not found")
	}
	if err != nil {
		return model.TrainerMatch{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//同じ組み合わせでpending/acceptedが残っていたら重複申請
	open, err := u.matchRepo.ExistsOpen(ctx, actor.GymID, trainerID, studentID)
	if err != nil {
		return model.TrainerMatch{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if open {
		return model.TrainerMatch{}, NewHTTPError(http.StatusConflict, "match already exists")
	}

	now := time.Now()
	m, err := u.matchRepo.Create(ctx, model.TrainerMatch{
		GymID:     actor.GymID,
		TrainerID: trainerID,
		StudentID: studentID,
		Status:    model.TrainerMatchPending,
		Message:   in.Message,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.TrainerMatch{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return m, nil
}

func (u *TrainerMatchUsecase) ListMyMatches(ctx context.Context, actor Actor) ([]model.TrainerMatch, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	matches, err := u.matchRepo.ListForUser(ctx, actor.GymID, actor.UserID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return matches, nil
}

// ステータス遷移: pending→accepted/declined、accepted→ended。
func (u *TrainerMatchUsecase) UpdateMatchStatus(ctx context.Context, actor Actor, matchID int64, newStatus model.TrainerMatchStatus) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if matchID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	m, err := u.matchRepo.FindByID(ctx, actor.GymID, matchID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//当事者かMANAGER以上だけが操作できる
	if actor.UserID != m.TrainerID && actor.UserID != m.StudentID && !actor.Role.AtLeast(model.RoleManager) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	valid := false
	switch newStatus {
	case model.TrainerMatchAccepted, model.TrainerMatchDeclined:
		//受諾/拒否はトレーナー側（またはMANAGER以上）の操作
		if m.Status == model.TrainerMatchPending {
			if actor.UserID == m.TrainerID || actor.Role.AtLeast(model.RoleManager) {
				valid = true
			} else {
				return NewHTTPError(http.StatusForbidden, "forbidden")
			}
		}
	case model.TrainerMatchEnded:
		if m.Status == model.TrainerMatchAccepted {
			valid = true
		}
	}
	if !valid {
		return NewHTTPError(http.StatusBadRequest, "invalid status transition")
	}

	m.Status = newStatus
	m.UpdatedAt = time.Now()
	if err := u.matchRepo.Update(ctx, m); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
