package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type TrainerMatchGormRepository struct {
	db *gorm.DB
}

func NewTrainerMatchGormRepository(db *gorm.DB) *TrainerMatchGormRepository {
	return &TrainerMatchGormRepository{db: db}
}

func (r *TrainerMatchGormRepository) Create(ctx context.Context, m model.TrainerMatch) (model.TrainerMatch, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.TrainerMatch{}, err
	}
	return m, nil
}

func (r *TrainerMatchGormRepository) FindByID(ctx context.Context, gymID int64, id int64) (model.TrainerMatch, error) {
	var m model.TrainerMatch
	err := r.db.WithContext(ctx).
		Where("gym_id = ? AND id = ?", gymID, id).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.TrainerMatch{}, repo.ErrNotFound
	}
	if err != nil {
		return model.TrainerMatch{}, err
	}
	return m, nil
}

func (r *TrainerMatchGormRepository) ListForUser(ctx context.Context, gymID int64, userID int64) ([]model.TrainerMatch, error) {
	var items []model.TrainerMatch
	err := r.db.WithContext(ctx).
		Where("gym_id = ? AND (trainer_id = ? OR student_id = ?)", gymID, userID, userID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.TrainerMatch{}, err
	}
	return items, nil
}

func (r *TrainerMatchGormRepository) List(ctx context.Context, gymID int64, status model.TrainerMatchStatus, page int, limit int) ([]model.TrainerMatch, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.TrainerMatch{}).Where("gym_id = ?", gymID)

	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.TrainerMatch{}, 0, err
	}

	var items []model.TrainerMatch
	offset := (page - 1) * limit
	if err := q.Order("id desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.TrainerMatch{}, 0, err
	}
	return items, total, nil
}

func (r *TrainerMatchGormRepository) Update(ctx context.Context, m model.TrainerMatch) error {
	updates := map[string]interface{}{
		"status":  m.Status,
		"message": m.Message,
	}
	if m.Metadata != nil {
		updates["metadata"] = m.Metadata
	}

	res := r.db.WithContext(ctx).Model(&model.TrainerMatch{}).
		Where("gym_id = ? AND id = ?", m.GymID, m.ID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 同じ組み合わせでpending/acceptedのマッチが既にあるか
func (r *TrainerMatchGormRepository) ExistsOpen(ctx context.Context, gymID int64, trainerID int64, studentID int64) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.TrainerMatch{}).
		Where("gym_id = ? AND trainer_id = ? AND student_id = ? AND status IN ?",
			gymID, trainerID, studentID,
			[]model.TrainerMatchStatus{model.TrainerMatchPending, model.TrainerMatchAccepted}).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}
