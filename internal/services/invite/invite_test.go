package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Bharat0709/linkedai-backend/internal/models"
	authservice "github.com/Bharat0709/linkedai-backend/internal/services/auth"
	services "github.com/Bharat0709/linkedai-backend/internal/services/invite"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Мок для InviteRepository
type InviteRepoMock struct {
	mock.Mock
}

func (m *InviteRepoMock) CreateInvite(ctx context.Context, invite models.Invite) (int, error) {
	args := m.Called(ctx, invite)
	return args.Int(0), args.Error(1)
}

func (m *InviteRepoMock) GetInviteByToken(ctx context.Context, token string) (*models.Invite, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invite), args.Error(1)
}

func (m *InviteRepoMock) MarkInviteAccepted(ctx context.Context, token string) (int, error) {
	args := m.Called(ctx, token)
	return args.Int(0), args.Error(1)
}

func (m *InviteRepoMock) RegisterPrincipal(ctx context.Context, p models.Principal) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

// Мок для Mailer
type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) SendInvite(email, token string) error {
	args := m.Called(email, token)
	return args.Error(0)
}

func TestInviteService_Create(t *testing.T) {
	org := &models.Principal{
		UID:      "org-uid",
		Username: "testorg",
		Kind:     models.KindOrganization,
	}
	user := &models.Principal{
		UID:      "user-uid",
		Username: "testuser",
		Kind:     models.KindUser,
	}

	tests := []struct {
		name       string
		principal  *models.Principal
		email      string
		setupMocks func(r *InviteRepoMock, m *MailerMock)
		wantErr    error
	}{
		{
			name:      "successful invite creation",
			principal: org,
			email:     "member@example.com",
			setupMocks: func(r *InviteRepoMock, m *MailerMock) {
				r.On("CreateInvite", mock.Anything, mock.MatchedBy(func(invite models.Invite) bool {
					return invite.OrgUID == "org-uid" &&
						invite.Email == "member@example.com" &&
						invite.Token != "" &&
						invite.ExpiresAt.After(time.Now().UTC())
				})).Return(1, nil).Once()
				m.On("SendInvite", "member@example.com", mock.AnythingOfType("string")).Return(nil).Once()
			},
		},
		{
			name:       "regular user cannot invite",
			principal:  user,
			email:      "member@example.com",
			setupMocks: func(_ *InviteRepoMock, _ *MailerMock) {},
			wantErr:    services.ErrNotOrganization,
		},
		{
			name:      "mailer failure does not cancel invite",
			principal: org,
			email:     "member@example.com",
			setupMocks: func(r *InviteRepoMock, m *MailerMock) {
				r.On("CreateInvite", mock.Anything, mock.Anything).Return(1, nil).Once()
				m.On("SendInvite", "member@example.com", mock.AnythingOfType("string")).
					Return(errors.New("smtp unavailable")).Once()
			},
		},
		{
			name:      "repository error",
			principal: org,
			email:     "member@example.com",
			setupMocks: func(r *InviteRepoMock, _ *MailerMock) {
				r.On("CreateInvite", mock.Anything, mock.Anything).Return(0, errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(InviteRepoMock)
			mailer := new(MailerMock)
			svc := services.NewInviteService(repo, mailer, newNoopLogger())

			tt.setupMocks(repo, mailer)

			token, err := svc.Create(context.Background(), tt.principal, tt.email)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, token)
			}

			repo.AssertExpectations(t)
			mailer.AssertExpectations(t)
		})
	}
}

func TestInviteService_Accept(t *testing.T) {
	acceptedAt := time.Now().UTC().Add(-time.Hour)

	validInvite := func() *models.Invite {
		return &models.Invite{
			ID:        1,
			OrgUID:    "org-uid",
			Email:     "member@example.com",
			Token:     "invite-token",
			ExpiresAt: time.Now().UTC().Add(24 * time.Hour),
		}
	}

	req := models.DummyInviteAccept{
		Token:    "invite-token",
		Username: "newmember",
		Password: "password123",
	}

	tests := []struct {
		name       string
		setupMocks func(r *InviteRepoMock)
		wantUID    string
		wantErr    error
	}{
		{
			name: "successful accept registers member",
			setupMocks: func(r *InviteRepoMock) {
				r.On("GetInviteByToken", mock.Anything, "invite-token").Return(validInvite(), nil).Once()
				r.On("MarkInviteAccepted", mock.Anything, "invite-token").Return(1, nil).Once()
				r.On("RegisterPrincipal", mock.Anything, mock.MatchedBy(func(p models.Principal) bool {
					return p.Email == "member@example.com" &&
						p.Username == "newmember" &&
						p.Kind == models.KindMember &&
						p.OrgUID != nil && *p.OrgUID == "org-uid" &&
						p.Credits == authservice.StartingCredits
				})).Return("member-uid", nil).Once()
			},
			wantUID: "member-uid",
		},
		{
			name: "already accepted invite",
			setupMocks: func(r *InviteRepoMock) {
				invite := validInvite()
				invite.AcceptedAt = &acceptedAt
				r.On("GetInviteByToken", mock.Anything, "invite-token").Return(invite, nil).Once()
			},
			wantErr: services.ErrInviteUsed,
		},
		{
			name: "expired invite",
			setupMocks: func(r *InviteRepoMock) {
				invite := validInvite()
				invite.ExpiresAt = time.Now().UTC().Add(-time.Hour)
				r.On("GetInviteByToken", mock.Anything, "invite-token").Return(invite, nil).Once()
			},
			wantErr: services.ErrInviteExpired,
		},
		{
			name: "concurrent accept loses the race",
			setupMocks: func(r *InviteRepoMock) {
				r.On("GetInviteByToken", mock.Anything, "invite-token").Return(validInvite(), nil).Once()
				r.On("MarkInviteAccepted", mock.Anything, "invite-token").Return(0, nil).Once()
			},
			wantErr: services.ErrInviteUsed,
		},
		{
			name: "unknown token",
			setupMocks: func(r *InviteRepoMock) {
				r.On("GetInviteByToken", mock.Anything, "invite-token").
					Return(nil, errors.New("invite not found")).Once()
			},
			wantErr: errors.New("invite not found"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(InviteRepoMock)
			svc := services.NewInviteService(repo, nil, newNoopLogger())

			tt.setupMocks(repo)

			got, err := svc.Accept(context.Background(), req)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
				assert.Empty(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantUID, got)
			}

			repo.AssertExpectations(t)
		})
	}
}
