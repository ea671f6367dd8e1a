package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"uniapply/internal/auth"
	apperrors "uniapply/internal/errors"
	"uniapply/internal/model"
	"uniapply/internal/repository"
	"uniapply/internal/storage"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ApplicationInput carries client-writable application fields. The owner is never part of it.
type ApplicationInput struct {
	University            *uint
	Essay                 *string
	PriorHighestEducation *string
	TargetProgram         *string
	Status                *string
	EducationDocument     *Upload
	RecommendationLetter  *Upload
}

// ApplicationPage is one page of the caller's applications.
type ApplicationPage struct {
	Items    []model.Application
	Total    int64
	Page     int
	PageSize int
}

// ApplicationService manages student applications. Every object operation is limited to the
// owner or staff.
type ApplicationService interface {
	List(ctx context.Context, caller *auth.Principal, page, pageSize int) (*ApplicationPage, error)
	Create(ctx context.Context, caller *auth.Principal, in ApplicationInput) (*model.Application, error)
	Get(ctx context.Context, caller *auth.Principal, id uint) (*model.Application, error)
	Update(ctx context.Context, caller *auth.Principal, id uint, in ApplicationInput) (*model.Application, error)
	Delete(ctx context.Context, caller *auth.Principal, id uint) error
}

type applicationService struct {
	repo           repository.ApplicationRepository
	universityRepo repository.UniversityRepository
	storage        storage.Storage
	log            *zap.Logger
}

// NewApplicationService creates a new application service.
func NewApplicationService(
	repo repository.ApplicationRepository,
	universityRepo repository.UniversityRepository,
	sink storage.Storage,
	log *zap.Logger,
) ApplicationService {
	return &applicationService{
		repo:           repo,
		universityRepo: universityRepo,
		storage:        sink,
		log:            log,
	}
}

// List returns the caller's own applications. Anonymous callers own nothing.
func (s *applicationService) List(ctx context.Context, caller *auth.Principal, page, pageSize int) (*ApplicationPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	result := &ApplicationPage{Items: []model.Application{}, Page: page, PageSize: pageSize}
	if caller == nil {
		return result, nil
	}

	items, total, err := s.repo.ListByUser(ctx, caller.UserID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	result.Items = items
	result.Total = total
	return result, nil
}

// Create files a new application for the caller with status SUBMITTED.
func (s *applicationService) Create(ctx context.Context, caller *auth.Principal, in ApplicationInput) (*model.Application, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}

	application := &model.Application{
		UserID:                caller.UserID,
		PriorHighestEducation: model.PriorEducationNone,
		TargetProgram:         model.TargetProgramBachelor,
		Status:                model.ApplicationStatusSubmitted,
	}

	verr := &apperrors.ValidationError{}
	if in.University == nil {
		verr.Add("university", "This field is required.")
	}
	// status is server-controlled on creation
	in.Status = nil
	if err := s.apply(ctx, application, in, verr); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, application); err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	s.log.Info("application submitted",
		zap.Uint("application_id", application.ID),
		zap.Uint("user_id", caller.UserID),
		zap.Uint("university_id", application.UniversityID),
	)
	return s.reload(ctx, application.ID)
}

func (s *applicationService) Get(ctx context.Context, caller *auth.Principal, id uint) (*model.Application, error) {
	return s.loadAuthorized(ctx, caller, id)
}

// Update applies a partial update. Only staff may change the status.
func (s *applicationService) Update(ctx context.Context, caller *auth.Principal, id uint, in ApplicationInput) (*model.Application, error) {
	application, err := s.loadAuthorized(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.Status != nil && !caller.IsStaff {
		return nil, apperrors.ErrForbidden
	}

	if err := s.apply(ctx, application, in, &apperrors.ValidationError{}); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, application); err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}
	return s.reload(ctx, application.ID)
}

func (s *applicationService) Delete(ctx context.Context, caller *auth.Principal, id uint) error {
	if _, err := s.loadAuthorized(ctx, caller, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return notFound(err, "delete application")
	}
	return nil
}

// loadAuthorized fetches the application and checks the caller owns it or is staff.
func (s *applicationService) loadAuthorized(ctx context.Context, caller *auth.Principal, id uint) (*model.Application, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	application, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "load application")
	}
	if application.UserID != caller.UserID && !caller.IsStaff {
		return nil, apperrors.ErrForbidden
	}
	return application, nil
}

func (s *applicationService) reload(ctx context.Context, id uint) (*model.Application, error) {
	application, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "reload application")
	}
	return application, nil
}

// apply normalizes and validates in, then copies it onto application. Files are stored
// only when every field is valid. verr may already hold errors from the caller.
func (s *applicationService) apply(ctx context.Context, application *model.Application, in ApplicationInput, verr *apperrors.ValidationError) error {
	if in.University != nil {
		ok, err := s.universityRepo.Exists(ctx, *in.University)
		if err != nil {
			return fmt.Errorf("check university: %w", err)
		}
		if !ok {
			verr.Add("university", fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *in.University))
		} else {
			application.UniversityID = *in.University
			application.University = nil
		}
	}
	if in.Essay != nil {
		application.Essay = *in.Essay
	}
	if in.PriorHighestEducation != nil {
		v := model.NormalizeChoice(*in.PriorHighestEducation, model.PriorEducations)
		if !model.IsChoice(v, model.PriorEducations) {
			verr.Add("prior_highest_education", fmt.Sprintf("%q is not a valid choice.", v))
		}
		application.PriorHighestEducation = model.PriorEducation(v)
	}
	if in.TargetProgram != nil {
		v := model.NormalizeChoice(*in.TargetProgram, model.TargetPrograms)
		if !model.IsChoice(v, model.TargetPrograms) {
			verr.Add("target_program", fmt.Sprintf("%q is not a valid choice.", v))
		}
		application.TargetProgram = model.TargetProgram(v)
	}
	if in.Status != nil {
		v := model.NormalizeChoice(*in.Status, model.ApplicationStatuses)
		if !model.IsChoice(v, model.ApplicationStatuses) {
			verr.Add("status", fmt.Sprintf("%q is not a valid choice.", v))
		}
		application.Status = model.ApplicationStatus(v)
	}
	if err := verr.Err(); err != nil {
		return err
	}

	if in.EducationDocument != nil {
		url, err := storeUpload(ctx, s.storage, in.EducationDocument, storage.PrefixDocuments)
		if err != nil {
			return err
		}
		application.EducationDocument = url
	}
	if in.RecommendationLetter != nil {
		url, err := storeUpload(ctx, s.storage, in.RecommendationLetter, storage.PrefixLetters)
		if err != nil {
			return err
		}
		application.RecommendationLetter = url
	}
	return nil
}
