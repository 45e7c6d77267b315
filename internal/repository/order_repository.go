package repository

import (
	"context"
	"time"

	"app/internal/domain/model"

	"gorm.io/datatypes"
)

type OrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, gymID int64, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, gymID int64, userID int64, page int, limit int) ([]model.Order, int64, error)
	//ジム全体の注文一覧（スタッフ用）
	List(ctx context.Context, gymID int64, f OrderListFilter) ([]model.Order, int64, error)
	//ステータス更新。metadataがnilでなければ置き換える。
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, metadata datatypes.JSONMap) error
	SoftDelete(ctx context.Context, orderID int64) error
	//ステータス別の件数（ダッシュボード用）
	CountByStatus(ctx context.Context, gymID int64, status model.OrderStatus) (int64, error)
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}

// 注文番号の採番。読み→書きの2段階ではなく単発のatomic更新で行う。
type OrderCounterRepository interface {
	//ジム×日付の連番を+1して返す。行がなければ1から始める。
	NextSeq(ctx context.Context, gymID int64, dayKey string) (int64, error)
}
