package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/storefront/internal/domain/models"
	security "github.com/linemk/storefront/internal/jwt-new"
	"github.com/linemk/storefront/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

// AuthResult - токен и публичная проекция пользователя
type AuthResult struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*models.UserPublic, error)
}

type AuthService struct {
	log       *slog.Logger
	userRepo  storage.UserStorage
	jwtSecret string
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, jwtSecret string) *AuthService {
	return &AuthService{
		log:       log,
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// Register создаёт покупателя. Пароль хэшируется через bcrypt, который сам добавляет соль.
// Администратором через API стать нельзя.
func (a *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	const op = "auth.Register"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	if name == "" || email == "" || password == "" {
		return nil, newError(ErrValidation, MsgRegisterFieldsRequired)
	}

	_, err := a.userRepo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		logger.Info("email already registered")
		return nil, newError(ErrConflict, MsgEmailInUse)
	case !errors.Is(err, storage.ErrUserNotFound):
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := a.userRepo.CreateUser(ctx, &models.User{
		Name:      name,
		Email:     email,
		PassHash:  passHash,
		IsAdmin:   false,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		// гонка двух регистраций ловится уникальным индексом
		if errors.Is(err, storage.ErrUserExists) {
			return nil, newError(ErrConflict, MsgEmailInUse)
		}
		logger.Error("failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	logger.Info("user registered", slog.String("user_id", user.ID))
	return a.issue(op, user)
}

// Login проверяет пароль. Неизвестный email и неверный пароль дают одинаковую ошибку.
func (a *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	const op = "auth.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Info("user not found")
			return nil, newError(ErrAuth, MsgInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return nil, newError(ErrAuth, MsgInvalidCredentials)
	}

	logger.Info("user logged in successfully", slog.String("user_id", user.ID))
	return a.issue(op, user)
}

func (a *AuthService) Me(ctx context.Context, userID string) (*models.UserPublic, error) {
	const op = "auth.Me"

	user, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, newError(ErrNotFound, MsgUserNotFound)
		}
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	public := user.Public()
	return &public, nil
}

func (a *AuthService) issue(op string, user *models.User) (*AuthResult, error) {
	token, err := security.NewToken(user.ID, a.jwtSecret)
	if err != nil {
		a.log.Error("failed to generate token", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to generate token: %w", op, err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}
