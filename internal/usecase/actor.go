package usecase

import (
	"net/http"

	"app/internal/domain/model"
)

// 認証済みユーザーのコンテキスト。middlewareのJWTクレームから組み立てる。
type Actor struct {
	UserID int64
	GymID  int64
	Role   model.Role
}

func (a Actor) valid() bool {
	return a.UserID > 0 && a.GymID > 0 && a.Role.IsValid()
}

// requireActorは全usecaseの入口チェック。
func requireActor(a Actor) error {
	if !a.valid() {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return nil
}
