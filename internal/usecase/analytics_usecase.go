package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

const lowStockThreshold = 5

type AnalyticsUsecase struct {
	tx            repo.TransactionManager
	userRepo      repo.UserRepository
	analyticsRepo repo.AnalyticsRepository
}

func NewAnalyticsUsecase(
	tx repo.TransactionManager,
	userRepo repo.UserRepository,
	analyticsRepo repo.AnalyticsRepository,
) *AnalyticsUsecase {
	return &AnalyticsUsecase{tx: tx, userRepo: userRepo, analyticsRepo: analyticsRepo}
}

// ダッシュボード集計。MANAGER以上。
func (u *AnalyticsUsecase) GetDashboard(ctx context.Context, actor Actor) (repo.DashboardStats, error) {
	if err := requireActor(actor); err != nil {
		return repo.DashboardStats{}, err
	}
	if !actor.Role.AtLeast(model.RoleManager) {
		return repo.DashboardStats{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var stats repo.DashboardStats

	students, err := u.userRepo.CountByRole(ctx, actor.GymID, model.RoleStudent)
	if err != nil {
		return repo.DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	stats.StudentCount = students

	trainers, err := u.userRepo.CountByRole(ctx, actor.GymID, model.RoleTrainer)
	if err != nil {
		return repo.DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	stats.TrainerCount = trainers

	revenue, err := u.analyticsRepo.SumCompletedRevenue(ctx, actor.GymID)
	if err != nil {
		return repo.DashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	stats.CompletedRevenue = revenue

	//注文件数・プログラム数・在庫警告は同一Txでまとめて読む
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		active, err := r.Programs().CountActive(ctx, actor.GymID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		stats.ActivePrograms = active

		stats.OrdersByStatus = make(map[string]int64, 4)
		for _, s := range []model.OrderStatus{
			model.OrderStatusPendingApproval,
			model.OrderStatusPrepared,
			model.OrderStatusCompleted,
			model.OrderStatusCancelled,
		} {
			n, err := r.Orders().CountByStatus(ctx, actor.GymID, s)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			stats.OrdersByStatus[string(s)] = n
		}

		low, err := r.Products().CountLowStock(ctx, actor.GymID, lowStockThreshold)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		stats.LowStockProducts = low
		return nil
	})
	if err != nil {
		return repo.DashboardStats{}, err
	}

	return stats, nil
}
