// Package services содержит бизнес-логику приглашений участников в организацию.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Bharat0709/linkedai-backend/internal/lib/password"
	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
	"github.com/Bharat0709/linkedai-backend/internal/models"
	authservice "github.com/Bharat0709/linkedai-backend/internal/services/auth"
)

// Срок жизни приглашения.
const inviteTTL = 7 * 24 * time.Hour

var (
	// ErrNotOrganization приглашать участников может только организация.
	ErrNotOrganization = errors.New("principal is not an organization")
	// ErrInviteExpired срок действия приглашения истек.
	ErrInviteExpired = errors.New("invite expired")
	// ErrInviteUsed приглашение уже принято.
	ErrInviteUsed = errors.New("invite already accepted")
)

// InviteRepository описывает контракт для работы с приглашениями в базе данных.
type InviteRepository interface {
	CreateInvite(ctx context.Context, invite models.Invite) (int, error)
	GetInviteByToken(ctx context.Context, token string) (*models.Invite, error)
	// MarkInviteAccepted возвращает количество затронутых строк:
	// 0 означает повторное принятие.
	MarkInviteAccepted(ctx context.Context, token string) (int, error)
	RegisterPrincipal(ctx context.Context, p models.Principal) (string, error)
}

// Mailer отправляет письмо с приглашением. Неудача отправки не отменяет
// создание приглашения.
type Mailer interface {
	SendInvite(email, token string) error
}

// InviteService реализует выдачу и принятие приглашений.
type InviteService struct {
	repo   InviteRepository
	mailer Mailer
	log    *slog.Logger
}

// NewInviteService создает новый экземпляр InviteService. mailer может быть nil.
func NewInviteService(repo InviteRepository, mailer Mailer, log *slog.Logger) *InviteService {
	return &InviteService{
		repo:   repo,
		mailer: mailer,
		log:    log,
	}
}

// Create выдает приглашение от имени организации и возвращает одноразовый токен.
func (s *InviteService) Create(ctx context.Context, org *models.Principal, email string) (string, error) {
	if org.Kind != models.KindOrganization {
		return "", ErrNotOrganization
	}
	token := uuid.NewString()
	invite := models.Invite{
		OrgUID:    org.UID,
		Email:     email,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(inviteTTL),
	}
	if _, err := s.repo.CreateInvite(ctx, invite); err != nil {
		return "", err
	}
	if s.mailer != nil {
		if err := s.mailer.SendInvite(email, token); err != nil {
			s.log.Error("failed to send invite email",
				slog.String("email", email), sl.Err(err))
		}
	}
	return token, nil
}

// Accept принимает приглашение: регистрирует участника организации
// со стартовым балансом кредитов и помечает токен использованным.
func (s *InviteService) Accept(ctx context.Context, req models.DummyInviteAccept) (string, error) {
	invite, err := s.repo.GetInviteByToken(ctx, req.Token)
	if err != nil {
		return "", err
	}
	if invite.AcceptedAt != nil {
		return "", ErrInviteUsed
	}
	if time.Now().UTC().After(invite.ExpiresAt) {
		return "", ErrInviteExpired
	}

	affected, err := s.repo.MarkInviteAccepted(ctx, req.Token)
	if err != nil {
		return "", err
	}
	if affected == 0 {
		return "", ErrInviteUsed
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	member := models.Principal{
		Email:        invite.Email,
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         "user",
		Kind:         models.KindMember,
		OrgUID:       &invite.OrgUID,
		Credits:      authservice.StartingCredits,
		LeadToken:    uuid.NewString(),
	}
	return s.repo.RegisterPrincipal(ctx, member)
}
