package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type WorkoutProgramGormRepository struct {
	db *gorm.DB
}

func NewWorkoutProgramGormRepository(db *gorm.DB) *WorkoutProgramGormRepository {
	return &WorkoutProgramGormRepository{db: db}
}

func (r *WorkoutProgramGormRepository) Create(ctx context.Context, p model.WorkoutProgram) (model.WorkoutProgram, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.WorkoutProgram{}, err
	}
	return p, nil
}

func (r *WorkoutProgramGormRepository) FindByID(ctx context.Context, gymID int64, id int64) (model.WorkoutProgram, error) {
	var p model.WorkoutProgram
	err := r.db.WithContext(ctx).
		Where("gym_id = ? AND id = ?", gymID, id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.WorkoutProgram{}, repo.ErrNotFound
	}
	if err != nil {
		return model.WorkoutProgram{}, err
	}
	return p, nil
}

func (r *WorkoutProgramGormRepository) List(ctx context.Context, gymID int64, page int, limit int) ([]model.WorkoutProgram, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.WorkoutProgram{}).Where("gym_id = ?", gymID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.WorkoutProgram{}, 0, err
	}

	var items []model.WorkoutProgram
	offset := (page - 1) * limit
	if err := q.Order("id desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.WorkoutProgram{}, 0, err
	}
	return items, total, nil
}

func (r *WorkoutProgramGormRepository) ListForUser(ctx context.Context, gymID int64, userID int64) ([]model.WorkoutProgram, error) {
	var items []model.WorkoutProgram
	err := r.db.WithContext(ctx).
		Where("gym_id = ? AND (student_id = ? OR trainer_id = ?)", gymID, userID, userID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.WorkoutProgram{}, err
	}
	return items, nil
}

func (r *WorkoutProgramGormRepository) Update(ctx context.Context, p model.WorkoutProgram) error {
	res := r.db.WithContext(ctx).Model(&model.WorkoutProgram{}).
		Where("gym_id = ? AND id = ?", p.GymID, p.ID).
		Updates(map[string]interface{}{
			"title":     p.Title,
			"notes":     p.Notes,
			"is_active": p.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *WorkoutProgramGormRepository) SoftDelete(ctx context.Context, gymID int64, id int64) error {
	res := r.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Delete(&model.WorkoutProgram{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *WorkoutProgramGormRepository) CountActive(ctx context.Context, gymID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.WorkoutProgram{}).
		Where("gym_id = ? AND is_active = ?", gymID, true).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

type ProgramExerciseGormRepository struct {
	db *gorm.DB
}

func NewProgramExerciseGormRepository(db *gorm.DB) *ProgramExerciseGormRepository {
	return &ProgramExerciseGormRepository{db: db}
}

func (r *ProgramExerciseGormRepository) Add(ctx context.Context, pe model.ProgramExercise) (model.ProgramExercise, error) {
	if err := r.db.WithContext(ctx).Create(&pe).Error; err != nil {
		return model.ProgramExercise{}, err
	}
	return pe, nil
}

func (r *ProgramExerciseGormRepository) ListByProgramID(ctx context.Context, programID int64) ([]model.ProgramExercise, error) {
	var items []model.ProgramExercise
	err := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Order("position asc").
		Find(&items).Error
	if err != nil {
		return []model.ProgramExercise{}, err
	}
	return items, nil
}

func (r *ProgramExerciseGormRepository) UpdatePosition(ctx context.Context, programID int64, id int64, position int) error {
	res := r.db.WithContext(ctx).Model(&model.ProgramExercise{}).
		Where("program_id = ? AND id = ?", programID, id).
		Update("position", position)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProgramExerciseGormRepository) Remove(ctx context.Context, programID int64, id int64) error {
	res := r.db.WithContext(ctx).
		Where("program_id = ?", programID).
		Delete(&model.ProgramExercise{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
