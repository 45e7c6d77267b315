package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

type WorkoutLogRepository interface {
	Create(ctx context.Context, l model.WorkoutLog) (model.WorkoutLog, error)
	FindByID(ctx context.Context, gymID int64, logID int64) (model.WorkoutLog, error)
	ListByUserID(ctx context.Context, gymID int64, userID int64, page int, limit int) ([]model.WorkoutLog, int64, error)
	//終了時刻をセットする。すでに終了済みなら0件更新扱い。
	Finish(ctx context.Context, logID int64, endedAt time.Time) (bool, error)
	AddEntry(ctx context.Context, e model.WorkoutLogEntry) (model.WorkoutLogEntry, error)
	ListEntries(ctx context.Context, logID int64) ([]model.WorkoutLogEntry, error)
}
