package repository

import (
	"context"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

type ProductListQuery struct {
	Page       int
	Limit      int
	Q          string
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string
	OnlyActive bool
}

type ProductRepository interface {
	List(ctx context.Context, gymID int64, q ProductListQuery) ([]model.Product, int64, error)
	FindByID(ctx context.Context, gymID int64, productID int64) (model.Product, error)
	//注文バリデーション用。アクティブかつ未削除の商品だけをまとめて取得する。
	FindActiveByIDs(ctx context.Context, gymID int64, productIDs []int64) ([]model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	SoftDelete(ctx context.Context, gymID int64, productID int64) error
	//在庫が少ない商品の数（ダッシュボード用）
	CountLowStock(ctx context.Context, gymID int64, threshold int64) (int64, error)
}

type InventoryRepository interface {
	// 在庫の現在値を設定
	SetStock(ctx context.Context, gymID int64, productID int64, newStock int64) error

	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセルなど）
	IncreaseStock(ctx context.Context, productID int64, qty int64) error
}
