package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"uniapply/internal/auth"
	"uniapply/internal/cache"
	apperrors "uniapply/internal/errors"
	"uniapply/internal/model"
	"uniapply/internal/repository"
	"uniapply/internal/storage"
)

const (
	universityListCacheKey = "universities:all"
	universityCacheTTL     = 5 * time.Minute
)

// UniversityInput carries writable university fields. Nil fields are left alone on update
// and take their defaults on create.
type UniversityInput struct {
	Name        *string
	Location    *string
	Established *int
	Students    *int
	Ranking     *int
	Thumbnail   *Upload
}

// UniversityService manages the institution catalog. Reads are public, writes are staff-only.
type UniversityService interface {
	List(ctx context.Context) ([]model.University, error)
	Get(ctx context.Context, id uint) (*model.University, error)
	Create(ctx context.Context, caller *auth.Principal, in UniversityInput) (*model.University, error)
	Update(ctx context.Context, caller *auth.Principal, id uint, in UniversityInput) (*model.University, error)
	Delete(ctx context.Context, caller *auth.Principal, id uint) error

	AddFaculty(ctx context.Context, caller *auth.Principal, universityID uint, name string) (*model.Faculty, error)
	AddDivision(ctx context.Context, caller *auth.Principal, universityID uint, name string) (*model.Division, error)
	AddGalleryImage(ctx context.Context, caller *auth.Principal, universityID uint, image *Upload) (*model.Gallery, error)
	DeleteFaculty(ctx context.Context, caller *auth.Principal, universityID, id uint) error
	DeleteDivision(ctx context.Context, caller *auth.Principal, universityID, id uint) error
	DeleteGalleryImage(ctx context.Context, caller *auth.Principal, universityID, id uint) error
}

type universityService struct {
	repo    repository.UniversityRepository
	cache   *cache.Client
	storage storage.Storage
	log     *zap.Logger
}

// NewUniversityService builds a UniversityService with repository, cache and file storage.
func NewUniversityService(repo repository.UniversityRepository, cache *cache.Client, sink storage.Storage, log *zap.Logger) UniversityService {
	return &universityService{repo: repo, cache: cache, storage: sink, log: log}
}

func (s *universityService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, universityListCacheKey)
}

func (s *universityService) List(ctx context.Context) ([]model.University, error) {
	var cached []model.University
	if s.cache.GetJSON(ctx, universityListCacheKey, &cached) {
		return cached, nil
	}

	universities, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list universities: %w", err)
	}
	s.cache.SetJSON(ctx, universityListCacheKey, universities, universityCacheTTL)
	return universities, nil
}

func (s *universityService) Get(ctx context.Context, id uint) (*model.University, error) {
	university, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "load university")
	}
	return university, nil
}

func (s *universityService) Create(ctx context.Context, caller *auth.Principal, in UniversityInput) (*model.University, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}

	university := &model.University{
		Established: model.DefaultEstablished,
		Students:    model.DefaultStudents,
		Ranking:     model.DefaultRanking,
	}
	if in.Name == nil {
		return nil, apperrors.NewValidationError("name", "This field is required.")
	}
	if err := s.apply(ctx, university, in); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, university); err != nil {
		return nil, fmt.Errorf("create university: %w", err)
	}
	s.invalidate(ctx)
	s.log.Info("university created", zap.Uint("university_id", university.ID), zap.Uint("by", caller.UserID))

	university.Faculties = []model.Faculty{}
	university.Divisions = []model.Division{}
	university.Gallery = []model.Gallery{}
	return university, nil
}

func (s *universityService) Update(ctx context.Context, caller *auth.Principal, id uint, in UniversityInput) (*model.University, error) {
	if err := requireStaff(caller); err != nil {
		return nil, err
	}

	university, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "load university")
	}
	if err := s.apply(ctx, university, in); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, university); err != nil {
		return nil, fmt.Errorf("update university: %w", err)
	}
	s.invalidate(ctx)
	return university, nil
}

// apply validates in and copies it onto university. The thumbnail is stored only once
// every field is valid.
func (s *universityService) apply(ctx context.Context, university *model.University, in UniversityInput) error {
	verr := &apperrors.ValidationError{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			verr.Add("name", "This field may not be blank.")
		}
		university.Name = name
	}
	if in.Location != nil {
		university.Location = *in.Location
	}
	for field, value := range map[string]*int{"established": in.Established, "students": in.Students, "ranking": in.Ranking} {
		if value != nil && *value < 0 {
			verr.Add(field, "Ensure this value is greater than or equal to 0.")
		}
	}
	if err := verr.Err(); err != nil {
		return err
	}

	if in.Established != nil {
		university.Established = *in.Established
	}
	if in.Students != nil {
		university.Students = *in.Students
	}
	if in.Ranking != nil {
		university.Ranking = *in.Ranking
	}
	if in.Thumbnail != nil {
		url, err := storeUpload(ctx, s.storage, in.Thumbnail, storage.PrefixThumbnails)
		if err != nil {
			return err
		}
		university.Thumbnail = url
	}
	return nil
}

// Delete removes the university together with its faculties, divisions, gallery and applications.
func (s *universityService) Delete(ctx context.Context, caller *auth.Principal, id uint) error {
	if err := requireStaff(caller); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "delete university")
	}
	s.invalidate(ctx)
	s.log.Info("university deleted", zap.Uint("university_id", id), zap.Uint("by", caller.UserID))
	return nil
}

func (s *universityService) AddFaculty(ctx context.Context, caller *auth.Principal, universityID uint, name string) (*model.Faculty, error) {
	if err := s.checkParent(ctx, caller, universityID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "This field may not be blank.")
	}

	faculty := &model.Faculty{Name: name, UniversityID: universityID}
	if err := s.repo.AddFaculty(ctx, faculty); err != nil {
		return nil, fmt.Errorf("add faculty: %w", err)
	}
	s.invalidate(ctx)
	return faculty, nil
}

func (s *universityService) AddDivision(ctx context.Context, caller *auth.Principal, universityID uint, name string) (*model.Division, error) {
	if err := s.checkParent(ctx, caller, universityID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name", "This field may not be blank.")
	}

	division := &model.Division{Name: name, UniversityID: universityID}
	if err := s.repo.AddDivision(ctx, division); err != nil {
		return nil, fmt.Errorf("add division: %w", err)
	}
	s.invalidate(ctx)
	return division, nil
}

func (s *universityService) AddGalleryImage(ctx context.Context, caller *auth.Principal, universityID uint, image *Upload) (*model.Gallery, error) {
	if err := s.checkParent(ctx, caller, universityID); err != nil {
		return nil, err
	}
	if image == nil {
		return nil, apperrors.NewValidationError("image", "No file was submitted.")
	}

	url, err := storeUpload(ctx, s.storage, image, storage.PrefixImages)
	if err != nil {
		return nil, err
	}
	gallery := &model.Gallery{Image: url, UniversityID: universityID}
	if err := s.repo.AddGallery(ctx, gallery); err != nil {
		return nil, fmt.Errorf("add gallery image: %w", err)
	}
	s.invalidate(ctx)
	return gallery, nil
}

func (s *universityService) DeleteFaculty(ctx context.Context, caller *auth.Principal, universityID, id uint) error {
	return s.deleteChild(ctx, caller, "faculty", func() error { return s.repo.DeleteFaculty(ctx, universityID, id) })
}

func (s *universityService) DeleteDivision(ctx context.Context, caller *auth.Principal, universityID, id uint) error {
	return s.deleteChild(ctx, caller, "division", func() error { return s.repo.DeleteDivision(ctx, universityID, id) })
}

func (s *universityService) DeleteGalleryImage(ctx context.Context, caller *auth.Principal, universityID, id uint) error {
	return s.deleteChild(ctx, caller, "gallery image", func() error { return s.repo.DeleteGallery(ctx, universityID, id) })
}

func (s *universityService) deleteChild(ctx context.Context, caller *auth.Principal, what string, del func() error) error {
	if err := requireStaff(caller); err != nil {
		return err
	}
	if err := del(); err != nil {
		return notFound(err, "delete "+what)
	}
	s.invalidate(ctx)
	return nil
}

func (s *universityService) checkParent(ctx context.Context, caller *auth.Principal, universityID uint) error {
	if err := requireStaff(caller); err != nil {
		return err
	}
	ok, err := s.repo.Exists(ctx, universityID)
	if err != nil {
		return fmt.Errorf("check university: %w", err)
	}
	if !ok {
		return fmt.Errorf("load university: %w", apperrors.ErrNotFound)
	}
	return nil
}
