package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"uniapply/internal/model"
	"uniapply/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) CreateProfile(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// WithTransaction runs fn against the mock itself so the inner calls are recorded too.
func (m *MockUserRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.UserRepository) error) error {
	m.Called(ctx)
	return fn(ctx, m)
}

// MockUniversityRepository is a mock implementation of UniversityRepository.
type MockUniversityRepository struct {
	mock.Mock
}

func (m *MockUniversityRepository) List(ctx context.Context) ([]model.University, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.University), args.Error(1)
}

func (m *MockUniversityRepository) FindByID(ctx context.Context, id uint) (*model.University, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.University), args.Error(1)
}

func (m *MockUniversityRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUniversityRepository) Create(ctx context.Context, university *model.University) error {
	args := m.Called(ctx, university)
	return args.Error(0)
}

func (m *MockUniversityRepository) Update(ctx context.Context, university *model.University) error {
	args := m.Called(ctx, university)
	return args.Error(0)
}

func (m *MockUniversityRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUniversityRepository) AddFaculty(ctx context.Context, faculty *model.Faculty) error {
	args := m.Called(ctx, faculty)
	return args.Error(0)
}

func (m *MockUniversityRepository) AddDivision(ctx context.Context, division *model.Division) error {
	args := m.Called(ctx, division)
	return args.Error(0)
}

func (m *MockUniversityRepository) AddGallery(ctx context.Context, gallery *model.Gallery) error {
	args := m.Called(ctx, gallery)
	return args.Error(0)
}

func (m *MockUniversityRepository) DeleteFaculty(ctx context.Context, universityID, id uint) error {
	args := m.Called(ctx, universityID, id)
	return args.Error(0)
}

func (m *MockUniversityRepository) DeleteDivision(ctx context.Context, universityID, id uint) error {
	args := m.Called(ctx, universityID, id)
	return args.Error(0)
}

func (m *MockUniversityRepository) DeleteGallery(ctx context.Context, universityID, id uint) error {
	args := m.Called(ctx, universityID, id)
	return args.Error(0)
}

func (m *MockUniversityRepository) ListFaculties(ctx context.Context) ([]model.Faculty, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Faculty), args.Error(1)
}

// MockApplicationRepository is a mock implementation of ApplicationRepository.
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, application *model.Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockApplicationRepository) Update(ctx context.Context, application *model.Application) error {
	args := m.Called(ctx, application)
	return args.Error(0)
}

func (m *MockApplicationRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockApplicationRepository) FindByID(ctx context.Context, id uint) (*model.Application, error) {
	args := m.Called(ctx, id)
	switch v := args.Get(0).(type) {
	case nil:
		return nil, args.Error(1)
	case func(context.Context, uint) *model.Application:
		return v(ctx, id), args.Error(1)
	default:
		return v.(*model.Application), args.Error(1)
	}
}

func (m *MockApplicationRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]model.Application, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Application), args.Get(1).(int64), args.Error(2)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// memStorage records stored files and hands out predictable URLs.
type memStorage struct {
	files map[string]string
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string]string{}}
}

func (s *memStorage) Store(_ context.Context, data io.Reader, filename, prefix string) (string, error) {
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	url := "https://files.test/" + prefix + "/" + filename
	s.files[url] = string(b)
	return url, nil
}

// stubCompleter returns a canned completion and remembers the prompt.
type stubCompleter struct {
	text   string
	err    error
	prompt string
}

func (c *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.prompt = prompt
	return c.text, c.err
}
