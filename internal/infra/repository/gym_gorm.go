package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type GymGormRepository struct {
	db *gorm.DB
}

func NewGymGormRepository(db *gorm.DB) *GymGormRepository {
	return &GymGormRepository{db: db}
}

func (r *GymGormRepository) FindByID(ctx context.Context, gymID int64) (model.Gym, error) {
	var g model.Gym
	err := r.db.WithContext(ctx).First(&g, gymID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Gym{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Gym{}, err
	}
	return g, nil
}

func (r *GymGormRepository) Create(ctx context.Context, gym model.Gym) (model.Gym, error) {
	if err := r.db.WithContext(ctx).Create(&gym).Error; err != nil {
		return model.Gym{}, err
	}
	return gym, nil
}

func (r *GymGormRepository) Update(ctx context.Context, gym model.Gym) error {
	res := r.db.WithContext(ctx).Model(&model.Gym{}).
		Where("id = ?", gym.ID).
		Updates(map[string]interface{}{
			"name":      gym.Name,
			"address":   gym.Address,
			"phone":     gym.Phone,
			"is_active": gym.IsActive,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type RoleGormRepository struct {
	db *gorm.DB
}

func NewRoleGormRepository(db *gorm.DB) *RoleGormRepository {
	return &RoleGormRepository{db: db}
}

func (r *RoleGormRepository) List(ctx context.Context, gymID int64) ([]model.GymRole, error) {
	var roles []model.GymRole
	err := r.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Order("id asc").
		Find(&roles).Error
	if err != nil {
		return []model.GymRole{}, err
	}
	return roles, nil
}

func (r *RoleGormRepository) FindByID(ctx context.Context, gymID int64, roleID int64) (model.GymRole, error) {
	var role model.GymRole
	err := r.db.WithContext(ctx).
		Where("gym_id = ? AND id = ?", gymID, roleID).
		First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.GymRole{}, repo.ErrNotFound
	}
	if err != nil {
		return model.GymRole{}, err
	}
	return role, nil
}

func (r *RoleGormRepository) Create(ctx context.Context, role model.GymRole) (model.GymRole, error) {
	if err := r.db.WithContext(ctx).Create(&role).Error; err != nil {
		return model.GymRole{}, err
	}
	return role, nil
}

func (r *RoleGormRepository) Update(ctx context.Context, role model.GymRole) error {
	res := r.db.WithContext(ctx).Model(&model.GymRole{}).
		Where("gym_id = ? AND id = ?", role.GymID, role.ID).
		Updates(map[string]interface{}{
			"name":        role.Name,
			"tier":        role.Tier,
			"description": role.Description,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *RoleGormRepository) Delete(ctx context.Context, gymID int64, roleID int64) error {
	res := r.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Delete(&model.GymRole{}, roleID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type CategoryGormRepository struct {
	db *gorm.DB
}

func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

func (r *CategoryGormRepository) List(ctx context.Context, gymID int64) ([]model.Category, error) {
	var cats []model.Category
	err := r.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Order("name asc").
		Find(&cats).Error
	if err != nil {
		return []model.Category{}, err
	}
	return cats, nil
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, gymID int64, categoryID int64) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("gym_id = ? AND id = ?", gymID, categoryID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (r *CategoryGormRepository) Create(ctx context.Context, c model.Category) (model.Category, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return model.Category{}, err
	}
	return c, nil
}

func (r *CategoryGormRepository) Update(ctx context.Context, c model.Category) error {
	res := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("gym_id = ? AND id = ?", c.GymID, c.ID).
		Update("name", c.Name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CategoryGormRepository) Delete(ctx context.Context, gymID int64, categoryID int64) error {
	res := r.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Delete(&model.Category{}, categoryID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
