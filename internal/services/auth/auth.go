// Package auth содержит бизнес-логику регистрации, входа и проверки JWT.
// Ядро системы не работает с паролями напрямую: хэширование и подпись
// токенов инкапсулированы здесь, обработчики получают готового принципала.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	jwtlib "github.com/magabrotheeeer/study-notes-market/internal/lib/jwt"
	"github.com/magabrotheeeer/study-notes-market/internal/lib/password"
	"github.com/magabrotheeeer/study-notes-market/internal/models"
	"github.com/magabrotheeeer/study-notes-market/internal/storage/repository"
)

var (
	// ErrInvalidCredentials возвращается при неверной паре email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken возвращается при регистрации на занятый email.
	ErrEmailTaken = errors.New("email already taken")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (int, error)

	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwtlib.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwtlib.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Самостоятельная регистрация всегда дает роль student.
func (s *Service) Register(ctx context.Context, email, rawPassword string) (int, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return 0, err
	}
	user := models.User{
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleStudent,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	return id, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (token string, role models.Role, err error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Email, string(user.Role))
	if err != nil {
		return "", "", err
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает принципала запроса.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.User, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	role := models.Role(claims.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role in token: %q", claims.Role)
	}
	return &models.User{
		Email: claims.Email,
		Role:  role,
	}, nil
}

// EnsureAdmin создает административную учетную запись при старте приложения,
// если пользователь с таким email еще не существует.
func (s *Service) EnsureAdmin(ctx context.Context, email, rawPassword string) error {
	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return err
	}
	_, err = s.users.CreateUser(ctx, models.User{
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return err
	}
	s.log.Info("bootstrap admin created", slog.String("email", email))
	return nil
}
