package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"uniapply/internal/model"
)

// ApplicationRepository defines application persistence operations.
type ApplicationRepository interface {
	Create(ctx context.Context, application *model.Application) error
	Update(ctx context.Context, application *model.Application) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Application, error)
	// ListByUser returns one page of the user's applications, newest first, and the total count.
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.Application, int64, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(ctx context.Context, application *model.Application) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(application).Error
}

func (r *applicationRepository) Update(ctx context.Context, application *model.Application) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(application).Error
}

func (r *applicationRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Application{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *applicationRepository) FindByID(ctx context.Context, id uint) (*model.Application, error) {
	var application model.Application
	if err := r.db.WithContext(ctx).Preload("University").First(&application, id).Error; err != nil {
		return nil, err
	}
	return &application, nil
}

func (r *applicationRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.Application, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&model.Application{}).Where("user_id = ?", userID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var applications []model.Application
	if err := r.db.WithContext(ctx).Preload("University").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&applications).Error; err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}
