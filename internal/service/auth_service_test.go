package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tms/internal/auth"
	apperrors "tms/internal/errors"
	"tms/internal/model"
	"tms/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
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

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) ListByStatus(ctx context.Context, status model.UserStatus) ([]model.User, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

// MockStore exposes MockUserRepository and runs transactions inline.
type MockStore struct {
	users *MockUserRepository
}

func (m *MockStore) Users() repository.UserRepository         { return m.users }
func (m *MockStore) Folders() repository.FolderRepository     { return nil }
func (m *MockStore) TestCases() repository.TestCaseRepository { return nil }
func (m *MockStore) Plans() repository.PlanRepository         { return nil }
func (m *MockStore) Counters() repository.CounterRepository   { return nil }
func (m *MockStore) Imports() repository.ImportLogRepository  { return nil }
func (m *MockStore) Stats() repository.StatsRepository        { return nil }

func (m *MockStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return fn(ctx, m)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService("test-secret", time.Minute, time.Hour)
}

func userWithPassword(t *testing.T, password string, status model.UserStatus) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{
		ID:           uuid.New(),
		Email:        "test@example.com",
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		Status:       status,
	}
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
		wantRole      model.Role
		wantStatus    model.UserStatus
	}{
		{
			name:     "first user becomes admin",
			email:    "first@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "first@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Count", mock.Anything).Return(int64(0), nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			wantRole:   model.RoleAdmin,
			wantStatus: model.UserStatusActive,
		},
		{
			name:     "later users wait for approval",
			email:    "second@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "second@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Count", mock.Anything).Return(int64(1), nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			wantRole:   model.RoleUser,
			wantStatus: model.UserStatusPending,
		},
		{
			name:     "user already exists",
			email:    "existing@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service := NewAuthService(&MockStore{users: mockRepo}, newJWT(), new(MockTokenStore))
			user, err := service.Register(context.Background(), tt.email, tt.password, "Test User")

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.email, user.Email)
				assert.Equal(t, tt.wantRole, user.Role)
				assert.Equal(t, tt.wantStatus, user.Status)
				assert.NotEqual(t, tt.password, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_RegisterValidation(t *testing.T) {
	service := NewAuthService(&MockStore{users: new(MockUserRepository)}, newJWT(), new(MockTokenStore))

	_, err := service.Register(context.Background(), "a@example.com", "123", "A")
	assert.True(t, apperrors.IsValidation(err))

	_, err = service.Register(context.Background(), "", "password123", "A")
	assert.True(t, apperrors.IsValidation(err))
}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		password      string
		status        model.UserStatus
		found         bool
		expectedError error
	}{
		{name: "successful login", password: "password123", status: model.UserStatusActive, found: true},
		{name: "unknown email", password: "password123", status: model.UserStatusActive, expectedError: apperrors.ErrInvalidCredentials},
		{name: "wrong password", password: "wrong", status: model.UserStatusActive, found: true, expectedError: apperrors.ErrInvalidCredentials},
		{name: "pending account", password: "password123", status: model.UserStatusPending, found: true, expectedError: apperrors.ErrAccountPending},
		{name: "rejected account", password: "password123", status: model.UserStatusRejected, found: true, expectedError: apperrors.ErrAccountRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockTokenStore := new(MockTokenStore)
			user := userWithPassword(t, "password123", tt.status)

			if tt.found {
				mockRepo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
			} else {
				mockRepo.On("FindByEmail", mock.Anything, user.Email).Return(nil, gorm.ErrRecordNotFound)
			}
			if tt.expectedError == nil {
				mockTokenStore.On("StoreRefreshToken", mock.Anything, mock.Anything, user.ID.String(), time.Hour).Return(nil)
			}

			jwtService := newJWT()
			service := NewAuthService(&MockStore{users: mockRepo}, jwtService, mockTokenStore)
			result, err := service.Login(context.Background(), user.Email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.Equal(t, user.ID, result.User.ID)

				claims, err := jwtService.ValidateAccessToken(result.AccessToken)
				require.NoError(t, err)
				assert.Equal(t, user.ID.String(), claims.UserID)
				assert.Equal(t, "Test User", claims.Name)

				_, err = jwtService.ValidateRefreshToken(result.RefreshToken)
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := newJWT()
	user := userWithPassword(t, "password123", model.UserStatusActive)
	id := auth.Identity{UserID: user.ID.String(), Email: user.Email, Name: "Old Name", Role: string(user.Role)}
	tokenID, refresh, err := jwtService.GenerateRefreshToken(id)
	require.NoError(t, err)
	access, err := jwtService.GenerateAccessToken(id)
	require.NoError(t, err)

	t.Run("issues access token with current profile", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(user.ID.String(), nil)
		mockRepo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

		service := NewAuthService(&MockStore{users: mockRepo}, jwtService, mockTokenStore)
		token, err := service.RefreshToken(context.Background(), refresh)
		require.NoError(t, err)

		claims, err := jwtService.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, "Test User", claims.Name)
		mockTokenStore.AssertExpectations(t)
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return("", assert.AnError)

		service := NewAuthService(&MockStore{users: new(MockUserRepository)}, jwtService, mockTokenStore)
		_, err := service.RefreshToken(context.Background(), refresh)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		service := NewAuthService(&MockStore{users: new(MockUserRepository)}, jwtService, new(MockTokenStore))
		_, err := service.RefreshToken(context.Background(), access)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_LogoutAndVerify(t *testing.T) {
	jwtService := newJWT()
	id := auth.Identity{UserID: uuid.NewString(), Email: "a@example.com", Name: "A", Role: "USER"}
	refreshID, refresh, err := jwtService.GenerateRefreshToken(id)
	require.NoError(t, err)
	access, err := jwtService.GenerateAccessToken(id)
	require.NoError(t, err)
	claims, err := jwtService.ValidateAccessToken(access)
	require.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, refreshID).Return(nil)
	mockTokenStore.On("BlacklistAccessToken", mock.Anything, claims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= time.Minute
	})).Return(nil)
	mockTokenStore.On("IsAccessTokenBlacklisted", mock.Anything, claims.ID).Return(true, nil).Once()

	service := NewAuthService(&MockStore{users: new(MockUserRepository)}, jwtService, mockTokenStore)
	require.NoError(t, service.Logout(context.Background(), refresh, claims))

	_, err = service.VerifyAccessToken(context.Background(), access)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = service.VerifyAccessToken(context.Background(), refresh)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized, "refresh tokens are not accepted as access tokens")

	mockTokenStore.AssertExpectations(t)
}
