package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	jwtlib "github.com/magabrotheeeer/study-notes-market/internal/lib/jwt"
	"github.com/magabrotheeeer/study-notes-market/internal/lib/password"
	"github.com/magabrotheeeer/study-notes-market/internal/models"
	"github.com/magabrotheeeer/study-notes-market/internal/storage/repository"
)

// MockUserRepository реализует интерфейс auth.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user models.User) (int, error) {
	args := m.Called(ctx, user)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestService(users *MockUserRepository) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return New(users, jwtlib.NewJWTMaker("test-secret", time.Hour), logger)
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name        string
		setupMock   func(*MockUserRepository)
		expectedID  int
		expectedErr error
	}{
		{
			name: "успешная регистрация со ролью student",
			setupMock: func(m *MockUserRepository) {
				m.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Email == "student@example.com" &&
						u.Role == models.RoleStudent &&
						u.PasswordHash != "secret123"
				})).Return(1, nil)
			},
			expectedID: 1,
		},
		{
			name: "email уже занят",
			setupMock: func(m *MockUserRepository) {
				m.On("CreateUser", mock.Anything, mock.Anything).Return(0, repository.ErrEmailExists)
			},
			expectedErr: ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)

			svc := newTestService(users)
			id, err := svc.Register(context.Background(), "student@example.com", "secret123")

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, id)
			}
			users.AssertExpectations(t)
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	tests := []struct {
		name        string
		rawPassword string
		setupMock   func(*MockUserRepository)
		expectedErr error
	}{
		{
			name:        "успешный вход",
			rawPassword: "secret123",
			setupMock: func(m *MockUserRepository) {
				m.On("GetUserByEmail", mock.Anything, "student@example.com").
					Return(&models.User{Email: "student@example.com", PasswordHash: hash, Role: models.RoleStudent}, nil)
			},
		},
		{
			name:        "пользователь не найден",
			rawPassword: "secret123",
			setupMock: func(m *MockUserRepository) {
				m.On("GetUserByEmail", mock.Anything, "student@example.com").
					Return(nil, repository.ErrUserNotFound)
			},
			expectedErr: ErrInvalidCredentials,
		},
		{
			name:        "неверный пароль",
			rawPassword: "wrongpass",
			setupMock: func(m *MockUserRepository) {
				m.On("GetUserByEmail", mock.Anything, "student@example.com").
					Return(&models.User{Email: "student@example.com", PasswordHash: hash, Role: models.RoleStudent}, nil)
			},
			expectedErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)

			svc := newTestService(users)
			token, role, err := svc.Login(context.Background(), "student@example.com", tt.rawPassword)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, models.RoleStudent, role)

			// Выданный токен принимается обратно
			principal, err := svc.ValidateToken(context.Background(), token)
			require.NoError(t, err)
			assert.Equal(t, "student@example.com", principal.Email)
			assert.Equal(t, models.RoleStudent, principal.Role)
		})
	}
}

func TestValidateToken_UnknownRole(t *testing.T) {
	users := new(MockUserRepository)
	svc := newTestService(users)

	maker := jwtlib.NewJWTMaker("test-secret", time.Hour)
	token, err := maker.GenerateToken("someone@example.com", "superuser")
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestEnsureAdmin(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*MockUserRepository)
		wantErr   bool
	}{
		{
			name: "администратор уже существует",
			setupMock: func(m *MockUserRepository) {
				m.On("GetUserByEmail", mock.Anything, "admin@example.com").
					Return(&models.User{Email: "admin@example.com", Role: models.RoleAdmin}, nil)
			},
		},
		{
			name: "администратор создается при первом старте",
			setupMock: func(m *MockUserRepository) {
				m.On("GetUserByEmail", mock.Anything, "admin@example.com").
					Return(nil, repository.ErrUserNotFound)
				m.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Email == "admin@example.com" && u.Role == models.RoleAdmin
				})).Return(1, nil)
			},
		},
		{
			name: "ошибка хранилища",
			setupMock: func(m *MockUserRepository) {
				m.On("GetUserByEmail", mock.Anything, "admin@example.com").
					Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)

			svc := newTestService(users)
			err := svc.EnsureAdmin(context.Background(), "admin@example.com", "changeme123")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			users.AssertExpectations(t)
		})
	}
}
