// Package services содержит бизнес-логику подключения LinkedIn-аккаунта.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Bharat0709/linkedai-backend/internal/linkedin"
)

// Срок жизни state-ключа OAuth-обмена.
const stateTTL = 10 * time.Minute

// ErrUnknownState state не найден: обмен истек или подделан.
var ErrUnknownState = errors.New("unknown oauth state")

// Connector внешний OAuth-клиент LinkedIn.
type Connector interface {
	AuthorizeURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*linkedin.TokenResponse, error)
	GetUserInfo(ctx context.Context, accessToken string) (*linkedin.UserInfo, error)
}

// PrincipalRepository сохраняет привязку LinkedIn-аккаунта.
type PrincipalRepository interface {
	SetLinkedInAccount(ctx context.Context, principalUID, urn, token string) error
}

// Cache хранит state-ключи незавершенных OAuth-обменов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// ConnectService реализует двухшаговое подключение LinkedIn-аккаунта.
type ConnectService struct {
	connector Connector
	repo      PrincipalRepository
	cache     Cache
	log       *slog.Logger
}

// NewConnectService создает новый экземпляр ConnectService.
func NewConnectService(connector Connector, repo PrincipalRepository, cache Cache, log *slog.Logger) *ConnectService {
	return &ConnectService{
		connector: connector,
		repo:      repo,
		cache:     cache,
		log:       log,
	}
}

// BeginConnect начинает OAuth-обмен: запоминает state и возвращает адрес
// страницы согласия, на которую нужно перенаправить пользователя.
func (s *ConnectService) BeginConnect(principalUID string) (string, error) {
	state := uuid.NewString()
	if err := s.cache.Set("linkedin_state:"+state, principalUID, stateTTL); err != nil {
		return "", err
	}
	return s.connector.AuthorizeURL(state), nil
}

// CompleteConnect завершает OAuth-обмен: проверяет state, меняет код на токен
// и сохраняет URN и токен участника у принципала.
func (s *ConnectService) CompleteConnect(ctx context.Context, state, code string) error {
	var principalUID string
	found, err := s.cache.Get("linkedin_state:"+state, &principalUID)
	if err != nil {
		return err
	}
	if !found {
		return ErrUnknownState
	}
	if err := s.cache.Invalidate("linkedin_state:" + state); err != nil {
		s.log.Error("failed to invalidate oauth state", slog.String("state", state))
	}

	tokenResp, err := s.connector.ExchangeCode(ctx, code)
	if err != nil {
		return err
	}
	info, err := s.connector.GetUserInfo(ctx, tokenResp.AccessToken)
	if err != nil {
		return err
	}
	if err := s.repo.SetLinkedInAccount(ctx, principalUID, info.Sub, tokenResp.AccessToken); err != nil {
		return err
	}
	s.log.Info("linkedin account connected", slog.String("principal_uid", principalUID))
	return nil
}
