package repository

import (
	"context"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AnalyticsGormRepository struct {
	db *gorm.DB
}

func NewAnalyticsGormRepository(db *gorm.DB) *AnalyticsGormRepository {
	return &AnalyticsGormRepository{db: db}
}

// completedな注文の合計金額。
// SUMはtext経由で受けてdecimalのままパースする（floatを挟まない）。
func (r *AnalyticsGormRepository) SumCompletedRevenue(ctx context.Context, gymID int64) (decimal.Decimal, error) {
	var sum *string
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("CAST(COALESCE(SUM(total_amount), 0) AS TEXT)").
		Where("gym_id = ? AND status = ?", gymID, model.OrderStatusCompleted).
		Scan(&sum).Error
	if err != nil {
		return decimal.Zero, err
	}
	if sum == nil {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(*sum)
}
