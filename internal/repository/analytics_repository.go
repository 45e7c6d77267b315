package repository

import (
	"context"

	"github.com/shopspring/decimal"
)

// ダッシュボードの集計値
type DashboardStats struct {
	StudentCount     int64           `json:"student_count"`
	TrainerCount     int64           `json:"trainer_count"`
	ActivePrograms   int64           `json:"active_programs"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	CompletedRevenue decimal.Decimal `json:"completed_revenue"`
	LowStockProducts int64           `json:"low_stock_products"`
}

type AnalyticsRepository interface {
	//completedな注文の合計金額（decimalのまま集計する）
	SumCompletedRevenue(ctx context.Context, gymID int64) (decimal.Decimal, error)
}
