package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "uniapply/internal/errors"
	"uniapply/internal/model"
)

func newApplicationFixture() (*MockApplicationRepository, *MockUniversityRepository, ApplicationService) {
	repo := new(MockApplicationRepository)
	universities := new(MockUniversityRepository)
	return repo, universities, NewApplicationService(repo, universities, newMemStorage(), zap.NewNop())
}

func TestApplicationService_Create(t *testing.T) {
	repo, universities, svc := newApplicationFixture()

	universities.On("Exists", mock.Anything, uint(1)).Return(true, nil)
	var created *model.Application
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Application")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Application)
			created.ID = 11
		}).
		Return(nil)
	repo.On("FindByID", mock.Anything, uint(11)).Return(func(context.Context, uint) *model.Application {
		return created
	}, nil)

	application, err := svc.Create(context.Background(), student, ApplicationInput{
		University:            uintPtr(1),
		Essay:                 strPtr("Why me"),
		PriorHighestEducation: strPtr("i have a Bachelor degree"),
		TargetProgram:         strPtr("master"),
		Status:                strPtr("ACCEPTED"),
		EducationDocument:     &Upload{Filename: "diploma.pdf", Content: strings.NewReader("pdf")},
	})
	require.NoError(t, err)

	assert.Equal(t, student.UserID, application.UserID)
	assert.Equal(t, uint(1), application.UniversityID)
	assert.Equal(t, model.ApplicationStatusSubmitted, application.Status)
	assert.Equal(t, model.PriorEducationBachelor, application.PriorHighestEducation)
	assert.Equal(t, model.TargetProgramMaster, application.TargetProgram)
	assert.Equal(t, "https://files.test/documents/diploma.pdf", application.EducationDocument)
	assert.Empty(t, application.RecommendationLetter)
	repo.AssertExpectations(t)
}

func TestApplicationService_Create_Defaults(t *testing.T) {
	repo, universities, svc := newApplicationFixture()

	universities.On("Exists", mock.Anything, uint(1)).Return(true, nil)
	var created *model.Application
	repo.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(1).(*model.Application) }).
		Return(nil)
	repo.On("FindByID", mock.Anything, uint(0)).Return(func(context.Context, uint) *model.Application {
		return created
	}, nil)

	application, err := svc.Create(context.Background(), student, ApplicationInput{University: uintPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, model.PriorEducationNone, application.PriorHighestEducation)
	assert.Equal(t, model.TargetProgramBachelor, application.TargetProgram)
}

func TestApplicationService_Create_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		in     ApplicationInput
		exists bool
		fields []string
	}{
		{name: "missing university", in: ApplicationInput{}, fields: []string{"university"}},
		{name: "unknown university", in: ApplicationInput{University: uintPtr(99)}, exists: false, fields: []string{"university"}},
		{
			name:   "unrecognized enums",
			in:     ApplicationInput{University: uintPtr(1), PriorHighestEducation: strPtr("kindergarten"), TargetProgram: strPtr("diploma")},
			exists: true,
			fields: []string{"prior_highest_education", "target_program"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, universities, svc := newApplicationFixture()
			universities.On("Exists", mock.Anything, mock.Anything).Return(tt.exists, nil)

			_, err := svc.Create(context.Background(), student, tt.in)

			var verr *apperrors.ValidationError
			require.True(t, errors.As(err, &verr))
			for _, f := range tt.fields {
				assert.Contains(t, verr.Fields, f)
			}
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestApplicationService_Create_Anonymous(t *testing.T) {
	_, _, svc := newApplicationFixture()
	_, err := svc.Create(context.Background(), nil, ApplicationInput{University: uintPtr(1)})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestApplicationService_List(t *testing.T) {
	t.Run("only the caller's applications", func(t *testing.T) {
		repo, _, svc := newApplicationFixture()
		repo.On("ListByUser", mock.Anything, student.UserID, 10, 10).
			Return([]model.Application{{ID: 5, UserID: student.UserID}}, int64(11), nil)

		page, err := svc.List(context.Background(), student, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(11), page.Total)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, DefaultPageSize, page.PageSize)
		require.Len(t, page.Items, 1)
		assert.Equal(t, student.UserID, page.Items[0].UserID)
		repo.AssertExpectations(t)
	})

	t.Run("page size is capped", func(t *testing.T) {
		repo, _, svc := newApplicationFixture()
		repo.On("ListByUser", mock.Anything, student.UserID, 0, MaxPageSize).
			Return([]model.Application{}, int64(0), nil)

		page, err := svc.List(context.Background(), student, 0, 1000)
		require.NoError(t, err)
		assert.Equal(t, MaxPageSize, page.PageSize)
	})

	t.Run("anonymous gets an empty page", func(t *testing.T) {
		repo, _, svc := newApplicationFixture()

		page, err := svc.List(context.Background(), nil, 1, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Zero(t, page.Total)
		repo.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestApplicationService_ObjectPermissions(t *testing.T) {
	owned := &model.Application{ID: 5, UserID: student.UserID, Status: model.ApplicationStatusSubmitted}

	tests := []struct {
		name   string
		call   func(ApplicationService) error
		setup  func(*MockApplicationRepository)
		expect error
	}{
		{
			name:   "stranger cannot read",
			call:   func(s ApplicationService) error { _, err := s.Get(context.Background(), other, 5); return err },
			expect: apperrors.ErrForbidden,
		},
		{
			name:   "stranger cannot delete",
			call:   func(s ApplicationService) error { return s.Delete(context.Background(), other, 5) },
			expect: apperrors.ErrForbidden,
		},
		{
			name: "owner cannot change status",
			call: func(s ApplicationService) error {
				_, err := s.Update(context.Background(), student, 5, ApplicationInput{Status: strPtr("ACCEPTED")})
				return err
			},
			expect: apperrors.ErrForbidden,
		},
		{
			name:   "anonymous cannot read",
			call:   func(s ApplicationService) error { _, err := s.Get(context.Background(), nil, 5); return err },
			expect: apperrors.ErrUnauthenticated,
		},
		{
			name: "owner can read",
			call: func(s ApplicationService) error { _, err := s.Get(context.Background(), student, 5); return err },
		},
		{
			name: "staff can delete",
			call: func(s ApplicationService) error { return s.Delete(context.Background(), staff, 5) },
			setup: func(repo *MockApplicationRepository) {
				repo.On("Delete", mock.Anything, uint(5)).Return(nil)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, _, svc := newApplicationFixture()
			copied := *owned
			repo.On("FindByID", mock.Anything, uint(5)).Return(&copied, nil)
			if tt.setup != nil {
				tt.setup(repo)
			}

			err := tt.call(svc)
			if tt.expect != nil {
				assert.ErrorIs(t, err, tt.expect)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		})
	}
}

func TestApplicationService_Update(t *testing.T) {
	t.Run("staff sets a normalized status", func(t *testing.T) {
		repo, _, svc := newApplicationFixture()
		application := &model.Application{ID: 5, UserID: student.UserID, Status: model.ApplicationStatusSubmitted}
		repo.On("FindByID", mock.Anything, uint(5)).Return(application, nil)
		repo.On("Update", mock.Anything, application).Return(nil)

		updated, err := svc.Update(context.Background(), staff, 5, ApplicationInput{Status: strPtr("under review")})
		require.NoError(t, err)
		assert.Equal(t, model.ApplicationStatusUnderReview, updated.Status)
		assert.Equal(t, student.UserID, updated.UserID)
	})

	t.Run("owner edits essay and letter", func(t *testing.T) {
		repo, _, svc := newApplicationFixture()
		application := &model.Application{ID: 5, UserID: student.UserID, Essay: "draft"}
		repo.On("FindByID", mock.Anything, uint(5)).Return(application, nil)
		repo.On("Update", mock.Anything, application).Return(nil)

		updated, err := svc.Update(context.Background(), student, 5, ApplicationInput{
			Essay:                strPtr("final"),
			RecommendationLetter: &Upload{Filename: "letter.pdf", Content: strings.NewReader("l")},
		})
		require.NoError(t, err)
		assert.Equal(t, "final", updated.Essay)
		assert.Equal(t, "https://files.test/letters/letter.pdf", updated.RecommendationLetter)
	})

	t.Run("missing application", func(t *testing.T) {
		repo, _, svc := newApplicationFixture()
		repo.On("FindByID", mock.Anything, uint(8)).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Update(context.Background(), staff, 8, ApplicationInput{Essay: strPtr("x")})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
