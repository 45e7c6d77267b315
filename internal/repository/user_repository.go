package repository

import (
	"context"

	"app/internal/domain/model"
)

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。テナントをまたがない取得はFindByIDInGymを使う。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//ジム内のユーザーを1件取得する。
	FindByIDInGym(ctx context.Context, gymID int64, userID int64) (*model.User, error)
	//メールからユーザーを1件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//ジム内のユーザー一覧
	List(ctx context.Context, gymID int64, page int, limit int) ([]model.User, int64, error)
	// ユーザー情報の更新=>アクティブかどうか・ロールの変更・最後のログイン更新など
	Update(ctx context.Context, user *model.User) error
	//ジム内のユーザーをソフトデリート
	SoftDelete(ctx context.Context, gymID int64, userID int64) error
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
	//ロール別の人数（アクティブのみ）
	CountByRole(ctx context.Context, gymID int64, role model.Role) (int64, error)
}
