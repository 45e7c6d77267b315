package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// ユーザー管理。一覧はTRAINER以上、変更はMANAGER以上。
type UserUsecase struct {
	userRepo repo.UserRepository
}

func NewUserUsecase(userRepo repo.UserRepository) *UserUsecase {
	return &UserUsecase{userRepo: userRepo}
}

type UserListOutput struct {
	Items []model.User `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *UserUsecase) ListUsers(ctx context.Context, actor Actor, page int, limit int) (UserListOutput, error) {
	if err := requireActor(actor); err != nil {
		return UserListOutput{}, err
	}
	if !actor.Role.AtLeast(model.RoleTrainer) {
		return UserListOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if page < 1 {
		return UserListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return UserListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	items, total, err := u.userRepo.List(ctx, actor.GymID, page, limit)
	if err != nil {
		return UserListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return UserListOutput{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (u *UserUsecase) GetUser(ctx context.Context, actor Actor, userID int64) (model.User, error) {
	if err := requireActor(actor); err != nil {
		return model.User{}, err
	}
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	//本人以外はTRAINER以上だけ
	if userID != actor.UserID && !actor.Role.AtLeast(model.RoleTrainer) {
		return model.User{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	user, err := u.userRepo.FindByIDInGym(ctx, actor.GymID, userID)
	if err == repo.ErrNotFound {
		return model.User{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return *user, nil
}

type UpdateUserInput struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func (u *UserUsecase) UpdateUser(ctx context.Context, actor Actor, userID int64, in UpdateUserInput) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if strings.TrimSpace(in.FullName) == "" {
		return NewHTTPError(http.StatusBadRequest, "full_name required")
	}
	newRole := model.Role(in.Role)
	if !newRole.IsValid() {
		return NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	//自分より強いロールは付与できない
	if newRole.Tier() > actor.Role.Tier() {
		return NewHTTPError(http.StatusForbidden, "cannot grant higher role")
	}

	user, err := u.userRepo.FindByIDInGym(ctx, actor.GymID, userID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	//自分より強いユーザーは触れない
	if user.Role.Tier() > actor.Role.Tier() {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	roleChanged := user.Role != newRole
	deactivated := user.IsActive && !in.IsActive

	user.FullName = strings.TrimSpace(in.FullName)
	user.Role = newRole
	user.IsActive = in.IsActive
	user.UpdatedAt = time.Now()

	if err := u.userRepo.Update(ctx, user); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//ロール変更・停止時は既存トークンを無効化する
	if roleChanged || deactivated {
		if err := u.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}
	return nil
}

func (u *UserUsecase) DeleteUser(ctx context.Context, actor Actor, userID int64) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if userID == actor.UserID {
		return NewHTTPError(http.StatusBadRequest, "cannot delete yourself")
	}

	user, err := u.userRepo.FindByIDInGym(ctx, actor.GymID, userID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user.Role.Tier() > actor.Role.Tier() {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	if err := u.userRepo.SoftDelete(ctx, actor.GymID, userID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//削除後はログインできないようにトークンも無効化
	if err := u.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
