package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourusername/quizroom-api/internal/domain/entity"
	"github.com/yourusername/quizroom-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizroom-api/internal/pkg/errors"
	"github.com/yourusername/quizroom-api/pkg/auth"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateStats(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) IncrementGamesPlayed(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepository) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	args := m.Called(limit, offset)
	return args.Get(0).([]entity.User), args.Get(1).(int64), args.Error(2)
}

func newTestAuthService(t *testing.T) (*AuthService, *MockUserRepository) {
	userRepo := new(MockUserRepository)
	jwtService, err := auth.NewJWTService("test-secret-key", 1, 60)
	require.NoError(t, err)

	service, err := NewAuthService(userRepo, jwtService)
	require.NoError(t, err)
	return service, userRepo
}

func hashPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	service, userRepo := newTestAuthService(t)

	userRepo.On("GetByEmail", "new@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("GetByUsername", "newuser").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", mock.AnythingOfType("*entity.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.User).ID = 7
	}).Return(nil)

	resp, err := service.Register(&dto.RegisterRequest{
		Username: "newuser",
		Email:    "New@Example.com", // email нормализуется к нижнему регистру
		Password: "password123",
	})
	require.NoError(t, err)

	assert.Equal(t, uint(7), resp.UserID)
	assert.Equal(t, "newuser", resp.Username)
	assert.Equal(t, "new@example.com", resp.Email)
	assert.NotEmpty(t, resp.Token)
	userRepo.AssertExpectations(t)
}

func TestAuthService_Register_Conflicts(t *testing.T) {
	t.Run("email уже занят", func(t *testing.T) {
		service, userRepo := newTestAuthService(t)
		userRepo.On("GetByEmail", "taken@example.com").Return(&entity.User{ID: 1}, nil)

		_, err := service.Register(&dto.RegisterRequest{
			Username: "someone",
			Email:    "taken@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		userRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("username уже занят", func(t *testing.T) {
		service, userRepo := newTestAuthService(t)
		userRepo.On("GetByEmail", "free@example.com").Return(nil, apperrors.ErrNotFound)
		userRepo.On("GetByUsername", "taken").Return(&entity.User{ID: 2}, nil)

		_, err := service.Register(&dto.RegisterRequest{
			Username: "taken",
			Email:    "free@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		userRepo.AssertNotCalled(t, "Create", mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	service, userRepo := newTestAuthService(t)

	user := &entity.User{
		ID:       3,
		Username: "alice",
		Email:    "alice@example.com",
		Password: hashPassword(t, "correct-password"),
	}
	userRepo.On("GetByEmail", "alice@example.com").Return(user, nil)

	resp, err := service.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "correct-password"})
	require.NoError(t, err)
	assert.Equal(t, uint(3), resp.UserID)
	assert.NotEmpty(t, resp.Token)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	service, userRepo := newTestAuthService(t)

	user := &entity.User{
		ID:       3,
		Email:    "alice@example.com",
		Password: hashPassword(t, "correct-password"),
	}
	userRepo.On("GetByEmail", "alice@example.com").Return(user, nil)
	userRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	// Неверный пароль и несуществующий email дают одинаковую ошибку
	_, errWrongPassword := service.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	_, errUnknownEmail := service.Login(&dto.LoginRequest{Email: "ghost@example.com", Password: "wrong"})

	assert.ErrorIs(t, errWrongPassword, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, errUnknownEmail, apperrors.ErrUnauthorized)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestAuthService_GenerateWSTicket(t *testing.T) {
	service, userRepo := newTestAuthService(t)

	userRepo.On("GetByID", uint(3)).Return(&entity.User{ID: 3, Email: "alice@example.com"}, nil)

	resp, err := service.GenerateWSTicket(3)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Ticket)
}
