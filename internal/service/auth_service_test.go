package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"uniapply/internal/auth"
	apperrors "uniapply/internal/errors"
	"uniapply/internal/model"
)

func newTestJWT() *auth.JWTService {
	return auth.NewJWTService("test-secret", 15*time.Minute, time.Hour)
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID:           42,
					Email:        "test@example.com",
					PasswordHash: string(hashedPassword),
					IsActive:     true,
				}, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, uint(42), time.Hour).Return(nil)
			},
		},
		{
			name:     "invalid credentials - user not found",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID: 42, Email: "test@example.com", PasswordHash: string(hashedPassword), IsActive: true,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "inactive user",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(mRepo *MockUserRepository, mToken *MockTokenStore) {
				mRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(&model.User{
					ID: 42, Email: "test@example.com", PasswordHash: string(hashedPassword), IsActive: false,
				}, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			service := NewAuthService(mockRepo, newTestJWT(), mockTokenStore)
			accessToken, refreshToken, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.Equal(t, tt.email, user.Email)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := newTestJWT()
	tokenID, refresh, err := jwtService.GenerateRefreshToken(auth.Principal{UserID: 9, Email: "s@example.com"})
	require.NoError(t, err)

	t.Run("reissues with current staff flag", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(9), nil)
		mockRepo.On("FindByID", mock.Anything, uint(9)).Return(&model.User{ID: 9, Email: "s@example.com", IsStaff: true, IsActive: true}, nil)

		service := NewAuthService(mockRepo, jwtService, mockTokenStore)
		access, err := service.RefreshToken(context.Background(), refresh)
		require.NoError(t, err)

		claims, err := jwtService.ValidateAccessToken(access)
		require.NoError(t, err)
		assert.True(t, claims.IsStaff)
	})

	t.Run("revoked token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(uint(0), assert.AnError)

		service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
		_, err := service.RefreshToken(context.Background(), refresh)
		assert.Equal(t, apperrors.ErrInvalidRefreshToken, err)
	})

	t.Run("access token is not accepted", func(t *testing.T) {
		access, err := jwtService.GenerateAccessToken(auth.Principal{UserID: 9})
		require.NoError(t, err)

		service := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err = service.RefreshToken(context.Background(), access)
		assert.Equal(t, apperrors.ErrInvalidRefreshToken, err)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := newTestJWT()
	tokenID, refresh, err := jwtService.GenerateRefreshToken(auth.Principal{UserID: 1})
	require.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	service := NewAuthService(new(MockUserRepository), jwtService, mockTokenStore)
	assert.NoError(t, service.Logout(context.Background(), refresh))
	assert.Equal(t, apperrors.ErrInvalidRefreshToken, service.Logout(context.Background(), "garbage"))

	mockTokenStore.AssertExpectations(t)
}
