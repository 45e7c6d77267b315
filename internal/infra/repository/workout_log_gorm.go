package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type WorkoutLogGormRepository struct {
	db *gorm.DB
}

func NewWorkoutLogGormRepository(db *gorm.DB) *WorkoutLogGormRepository {
	return &WorkoutLogGormRepository{db: db}
}

func (r *WorkoutLogGormRepository) Create(ctx context.Context, l model.WorkoutLog) (model.WorkoutLog, error) {
	if err := r.db.WithContext(ctx).Create(&l).Error; err != nil {
		return model.WorkoutLog{}, err
	}
	return l, nil
}

func (r *WorkoutLogGormRepository) FindByID(ctx context.Context, gymID int64, id int64) (model.WorkoutLog, error) {
	var l model.WorkoutLog
	err := r.db.WithContext(ctx).
		Where("gym_id = ? AND id = ?", gymID, id).
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.WorkoutLog{}, repo.ErrNotFound
	}
	if err != nil {
		return model.WorkoutLog{}, err
	}
	return l, nil
}

func (r *WorkoutLogGormRepository) ListByUserID(ctx context.Context, gymID int64, userID int64, page int, limit int) ([]model.WorkoutLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.WorkoutLog{}).
		Where("gym_id = ? AND user_id = ?", gymID, userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.WorkoutLog{}, 0, err
	}

	var items []model.WorkoutLog
	offset := (page - 1) * limit
	if err := q.Order("started_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.WorkoutLog{}, 0, err
	}
	return items, total, nil
}

// 終了時刻をセットする。未終了の行だけ更新するので二重終了は0件更新になる。
func (r *WorkoutLogGormRepository) Finish(ctx context.Context, id int64, endedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.WorkoutLog{}).
		Where("id = ? AND ended_at IS NULL", id).
		Update("ended_at", endedAt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *WorkoutLogGormRepository) AddEntry(ctx context.Context, e model.WorkoutLogEntry) (model.WorkoutLogEntry, error) {
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return model.WorkoutLogEntry{}, err
	}
	return e, nil
}

func (r *WorkoutLogGormRepository) ListEntries(ctx context.Context, logID int64) ([]model.WorkoutLogEntry, error) {
	var items []model.WorkoutLogEntry
	err := r.db.WithContext(ctx).
		Where("log_id = ?", logID).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return []model.WorkoutLogEntry{}, err
	}
	return items, nil
}
