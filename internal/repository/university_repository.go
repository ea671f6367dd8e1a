package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"uniapply/internal/model"
)

// UniversityRepository defines persistence operations for the institution catalog.
type UniversityRepository interface {
	List(ctx context.Context) ([]model.University, error)
	FindByID(ctx context.Context, id uint) (*model.University, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, university *model.University) error
	Update(ctx context.Context, university *model.University) error
	// Delete removes the university and everything that hangs off it.
	Delete(ctx context.Context, id uint) error

	AddFaculty(ctx context.Context, faculty *model.Faculty) error
	AddDivision(ctx context.Context, division *model.Division) error
	AddGallery(ctx context.Context, gallery *model.Gallery) error
	DeleteFaculty(ctx context.Context, universityID, id uint) error
	DeleteDivision(ctx context.Context, universityID, id uint) error
	DeleteGallery(ctx context.Context, universityID, id uint) error

	// ListFaculties returns every faculty with its university loaded.
	ListFaculties(ctx context.Context) ([]model.Faculty, error)
}

type universityRepository struct {
	db *gorm.DB
}

// NewUniversityRepository creates a new university repository.
func NewUniversityRepository(db *gorm.DB) UniversityRepository {
	return &universityRepository{db: db}
}

func (r *universityRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Faculties", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Divisions", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Gallery", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

func (r *universityRepository) List(ctx context.Context) ([]model.University, error) {
	var universities []model.University
	if err := r.withChildren(ctx).Order("id").Find(&universities).Error; err != nil {
		return nil, err
	}
	return universities, nil
}

func (r *universityRepository) FindByID(ctx context.Context, id uint) (*model.University, error) {
	var university model.University
	if err := r.withChildren(ctx).First(&university, id).Error; err != nil {
		return nil, err
	}
	return &university, nil
}

func (r *universityRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.University{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *universityRepository) Create(ctx context.Context, university *model.University) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(university).Error
}

func (r *universityRepository) Update(ctx context.Context, university *model.University) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(university).Error
}

// Delete cascades explicitly inside one transaction so the result does not
// depend on the foreign key actions of the underlying schema.
func (r *universityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children := []interface{}{&model.Application{}, &model.Faculty{}, &model.Division{}, &model.Gallery{}}
		for _, child := range children {
			if err := tx.Where("university_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}

		res := tx.Delete(&model.University{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *universityRepository) AddFaculty(ctx context.Context, faculty *model.Faculty) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(faculty).Error
}

func (r *universityRepository) AddDivision(ctx context.Context, division *model.Division) error {
	return r.db.WithContext(ctx).Create(division).Error
}

func (r *universityRepository) AddGallery(ctx context.Context, gallery *model.Gallery) error {
	return r.db.WithContext(ctx).Create(gallery).Error
}

func (r *universityRepository) DeleteFaculty(ctx context.Context, universityID, id uint) error {
	return r.deleteChild(ctx, &model.Faculty{}, universityID, id)
}

func (r *universityRepository) DeleteDivision(ctx context.Context, universityID, id uint) error {
	return r.deleteChild(ctx, &model.Division{}, universityID, id)
}

func (r *universityRepository) DeleteGallery(ctx context.Context, universityID, id uint) error {
	return r.deleteChild(ctx, &model.Gallery{}, universityID, id)
}

func (r *universityRepository) deleteChild(ctx context.Context, child interface{}, universityID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND university_id = ?", id, universityID).Delete(child)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *universityRepository) ListFaculties(ctx context.Context) ([]model.Faculty, error) {
	var faculties []model.Faculty
	if err := r.db.WithContext(ctx).Preload("University").Order("university_id, id").Find(&faculties).Error; err != nil {
		return nil, err
	}
	return faculties, nil
}
