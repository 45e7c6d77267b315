package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type EquipmentGormRepository struct {
	db *gorm.DB
}

func NewEquipmentGormRepository(db *gorm.DB) *EquipmentGormRepository {
	return &EquipmentGormRepository{db: db}
}

func (r *EquipmentGormRepository) List(ctx context.Context, gymID int64, page int, limit int) ([]model.Equipment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Equipment{}).Where("gym_id = ?", gymID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Equipment{}, 0, err
	}

	var items []model.Equipment
	offset := (page - 1) * limit
	if err := q.Order("id asc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Equipment{}, 0, err
	}
	return items, total, nil
}

func (r *EquipmentGormRepository) FindByID(ctx context.Context, gymID int64, id int64) (model.Equipment, error) {
	var e model.Equipment
	err := r.db.WithContext(ctx).
		Where("gym_id = ? AND id = ?", gymID, id).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Equipment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Equipment{}, err
	}
	return e, nil
}

func (r *EquipmentGormRepository) Create(ctx context.Context, e model.Equipment) (model.Equipment, error) {
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return model.Equipment{}, err
	}
	return e, nil
}

func (r *EquipmentGormRepository) Update(ctx context.Context, e model.Equipment) error {
	res := r.db.WithContext(ctx).Model(&model.Equipment{}).
		Where("gym_id = ? AND id = ?", e.GymID, e.ID).
		Updates(map[string]interface{}{
			"name":         e.Name,
			"brand":        e.Brand,
			"count":        e.Count,
			"purchased_at": e.PurchasedAt,
			"notes":        e.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *EquipmentGormRepository) SoftDelete(ctx context.Context, gymID int64, id int64) error {
	res := r.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Delete(&model.Equipment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type ExerciseGormRepository struct {
	db *gorm.DB
}

func NewExerciseGormRepository(db *gorm.DB) *ExerciseGormRepository {
	return &ExerciseGormRepository{db: db}
}

func (r *ExerciseGormRepository) List(ctx context.Context, gymID int64, page int, limit int, muscleGroup string) ([]model.Exercise, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Exercise{}).Where("gym_id = ?", gymID)

	if muscleGroup != "" {
		q = q.Where("muscle_group = ?", muscleGroup)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Exercise{}, 0, err
	}

	var items []model.Exercise
	offset := (page - 1) * limit
	if err := q.Order("name asc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Exercise{}, 0, err
	}
	return items, total, nil
}

func (r *ExerciseGormRepository) FindByID(ctx context.Context, gymID int64, id int64) (model.Exercise, error) {
	var e model.Exercise
	err := r.db.WithContext(ctx).
		Where("gym_id = ? AND id = ?", gymID, id).
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Exercise{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Exercise{}, err
	}
	return e, nil
}

func (r *ExerciseGormRepository) CountByIDs(ctx context.Context, gymID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Exercise{}).
		Where("gym_id = ? AND id IN ?", gymID, ids).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ExerciseGormRepository) Create(ctx context.Context, e model.Exercise) (model.Exercise, error) {
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return model.Exercise{}, err
	}
	return e, nil
}

func (r *ExerciseGormRepository) Update(ctx context.Context, e model.Exercise) error {
	res := r.db.WithContext(ctx).Model(&model.Exercise{}).
		Where("gym_id = ? AND id = ?", e.GymID, e.ID).
		Updates(map[string]interface{}{
			"name":         e.Name,
			"muscle_group": e.MuscleGroup,
			"equipment_id": e.EquipmentID,
			"description":  e.Description,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ExerciseGormRepository) SoftDelete(ctx context.Context, gymID int64, id int64) error {
	res := r.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Delete(&model.Exercise{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
