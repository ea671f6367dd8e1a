package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"uniapply/internal/auth"
	"uniapply/internal/model"
	"uniapply/internal/service"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID uint, patch service.ProfilePatch) (*model.User, error) {
	args := m.Called(ctx, userID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(2) == nil {
		return args.String(0), args.String(1), nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*model.User), args.Error(3)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

type MockUniversityService struct {
	mock.Mock
}

func (m *MockUniversityService) List(ctx context.Context) ([]model.University, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.University), args.Error(1)
}

func (m *MockUniversityService) Get(ctx context.Context, id uint) (*model.University, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.University), args.Error(1)
}

func (m *MockUniversityService) Create(ctx context.Context, caller *auth.Principal, in service.UniversityInput) (*model.University, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.University), args.Error(1)
}

func (m *MockUniversityService) Update(ctx context.Context, caller *auth.Principal, id uint, in service.UniversityInput) (*model.University, error) {
	args := m.Called(ctx, caller, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.University), args.Error(1)
}

func (m *MockUniversityService) Delete(ctx context.Context, caller *auth.Principal, id uint) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func (m *MockUniversityService) AddFaculty(ctx context.Context, caller *auth.Principal, universityID uint, name string) (*model.Faculty, error) {
	args := m.Called(ctx, caller, universityID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Faculty), args.Error(1)
}

func (m *MockUniversityService) AddDivision(ctx context.Context, caller *auth.Principal, universityID uint, name string) (*model.Division, error) {
	args := m.Called(ctx, caller, universityID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Division), args.Error(1)
}

func (m *MockUniversityService) AddGalleryImage(ctx context.Context, caller *auth.Principal, universityID uint, image *service.Upload) (*model.Gallery, error) {
	args := m.Called(ctx, caller, universityID, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Gallery), args.Error(1)
}

func (m *MockUniversityService) DeleteFaculty(ctx context.Context, caller *auth.Principal, universityID, id uint) error {
	return m.Called(ctx, caller, universityID, id).Error(0)
}

func (m *MockUniversityService) DeleteDivision(ctx context.Context, caller *auth.Principal, universityID, id uint) error {
	return m.Called(ctx, caller, universityID, id).Error(0)
}

func (m *MockUniversityService) DeleteGalleryImage(ctx context.Context, caller *auth.Principal, universityID, id uint) error {
	return m.Called(ctx, caller, universityID, id).Error(0)
}

type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) List(ctx context.Context, caller *auth.Principal, page, pageSize int) (*service.ApplicationPage, error) {
	args := m.Called(ctx, caller, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ApplicationPage), args.Error(1)
}

func (m *MockApplicationService) Create(ctx context.Context, caller *auth.Principal, in service.ApplicationInput) (*model.Application, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationService) Get(ctx context.Context, caller *auth.Principal, id uint) (*model.Application, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationService) Update(ctx context.Context, caller *auth.Principal, id uint, in service.ApplicationInput) (*model.Application, error) {
	args := m.Called(ctx, caller, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Application), args.Error(1)
}

func (m *MockApplicationService) Delete(ctx context.Context, caller *auth.Principal, id uint) error {
	return m.Called(ctx, caller, id).Error(0)
}

type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) Recommend(ctx context.Context, interestedIn, goodAt string) ([]string, error) {
	args := m.Called(ctx, interestedIn, goodAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
