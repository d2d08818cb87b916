// Package services содержит логику бизнес-уровня для работы с принципалами и аутентификацией.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Bharat0709/linkedai-backend/internal/lib/jwt"
	"github.com/Bharat0709/linkedai-backend/internal/lib/password"
	"github.com/Bharat0709/linkedai-backend/internal/models"
)

// StartingCredits баланс, который получает каждый новый принципал.
const StartingCredits = 25

// ErrInvalidCredentials пароль не подошел или принципал не найден.
var ErrInvalidCredentials = errors.New("invalid credentials")

// PrincipalRepository описывает контракт для работы с принципалами в базе данных.
type PrincipalRepository interface {
	// RegisterPrincipal сохраняет нового принципала и возвращает его UID.
	RegisterPrincipal(ctx context.Context, p models.Principal) (string, error)

	// GetPrincipalByUsername возвращает живого принципала по имени или ошибку, если не найден.
	GetPrincipalByUsername(ctx context.Context, username string) (*models.Principal, error)

	// GetPrincipal возвращает живого принципала по UID.
	GetPrincipal(ctx context.Context, principalUID string) (*models.Principal, error)

	// DeactivatePrincipal мягко деактивирует принципала.
	DeactivatePrincipal(ctx context.Context, principalUID string) error
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	principals PrincipalRepository
	jwtMaker   jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(principals PrincipalRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		principals: principals,
		jwtMaker:   jwtMaker,
	}
}

// Register создает нового принципала с хэшированием пароля, стартовым
// балансом кредитов и дефолтной ролью "user".
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	principal := models.Principal{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         "user", // дефолтная роль при регистрации
		Kind:         models.Kind(req.Kind),
		Credits:      StartingCredits,
		LeadToken:    uuid.NewString(),
	}
	return s.principals.RegisterPrincipal(ctx, principal)
}

// Login проверяет пароль принципала и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	principal, err := s.principals.GetPrincipalByUsername(ctx, username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(principal.PasswordHash, rawPassword); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(principal.UID, principal.Kind, principal.Role)
	if err != nil {
		return "", "", err
	}
	return token, principal.Role, nil
}

// ResolvePrincipal проверяет JWT и возвращает живого принципала из хранилища.
// Деактивированный принципал невидим для выборки, его токен перестает работать.
func (s *AuthService) ResolvePrincipal(ctx context.Context, token string) (*models.Principal, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return s.principals.GetPrincipal(ctx, claims.PrincipalUID)
}

// Deactivate мягко деактивирует принципала. Запись остается в хранилище,
// счетчик использованных кредитов не обнуляется.
func (s *AuthService) Deactivate(ctx context.Context, principalUID string) error {
	return s.principals.DeactivatePrincipal(ctx, principalUID)
}
