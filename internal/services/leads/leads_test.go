package services_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Bharat0709/linkedai-backend/internal/models"
	services "github.com/Bharat0709/linkedai-backend/internal/services/leads"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Мок для LeadRepository
type LeadRepoMock struct {
	mock.Mock
}

func (m *LeadRepoMock) CreateLead(ctx context.Context, lead models.HiringLead) (int, error) {
	args := m.Called(ctx, lead)
	return args.Int(0), args.Error(1)
}

func (m *LeadRepoMock) ListLeads(ctx context.Context, principalUID string, limit, offset int) ([]*models.HiringLead, error) {
	args := m.Called(ctx, principalUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HiringLead), args.Error(1)
}

func (m *LeadRepoMock) GetPrincipalByLeadToken(ctx context.Context, leadToken string) (*models.Principal, error) {
	args := m.Called(ctx, leadToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Principal), args.Error(1)
}

func TestLeadService_Capture(t *testing.T) {
	owner := &models.Principal{UID: "uid-1", Username: "testuser", LeadToken: "lead-token"}

	req := models.DummyLead{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Position: "Backend Engineer",
		Note:     "available from March",
	}

	tests := []struct {
		name       string
		setupMocks func(r *LeadRepoMock)
		wantID     int
		wantErr    bool
		errMsg     string
	}{
		{
			name: "successful capture by public token",
			setupMocks: func(r *LeadRepoMock) {
				r.On("GetPrincipalByLeadToken", mock.Anything, "lead-token").Return(owner, nil).Once()
				r.On("CreateLead", mock.Anything, mock.MatchedBy(func(lead models.HiringLead) bool {
					return lead.PrincipalUID == "uid-1" &&
						lead.Name == "Jane Doe" &&
						lead.Email == "jane@example.com" &&
						lead.Position == "Backend Engineer"
				})).Return(7, nil).Once()
			},
			wantID: 7,
		},
		{
			name: "unknown lead token",
			setupMocks: func(r *LeadRepoMock) {
				r.On("GetPrincipalByLeadToken", mock.Anything, "lead-token").
					Return(nil, errors.New("principal not found")).Once()
			},
			wantErr: true,
			errMsg:  "principal not found",
		},
		{
			name: "repository error on insert",
			setupMocks: func(r *LeadRepoMock) {
				r.On("GetPrincipalByLeadToken", mock.Anything, "lead-token").Return(owner, nil).Once()
				r.On("CreateLead", mock.Anything, mock.Anything).Return(0, errors.New("db error")).Once()
			},
			wantErr: true,
			errMsg:  "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(LeadRepoMock)
			svc := services.NewLeadService(repo, newNoopLogger())

			tt.setupMocks(repo)

			got, err := svc.Capture(context.Background(), "lead-token", req)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestLeadService_ExportCSV(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	leads := []*models.HiringLead{
		{ID: 1, PrincipalUID: "uid-1", Name: "Jane Doe", Email: "jane@example.com",
			Position: "Backend Engineer", Note: "available from March", CreatedAt: createdAt},
		{ID: 2, PrincipalUID: "uid-1", Name: "John Smith", Email: "john@example.com",
			Position: "SRE", CreatedAt: createdAt},
	}

	repo := new(LeadRepoMock)
	repo.On("ListLeads", mock.Anything, "uid-1", 500, 0).Return(leads, nil).Once()
	svc := services.NewLeadService(repo, newNoopLogger())

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), "uid-1", &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,email,position,note,created_at", lines[0])
	assert.Equal(t, "1,Jane Doe,jane@example.com,Backend Engineer,available from March,2026-03-01T12:00:00Z", lines[1])
	assert.Equal(t, "2,John Smith,john@example.com,SRE,,2026-03-01T12:00:00Z", lines[2])
	repo.AssertExpectations(t)
}

func TestLeadService_ExportCSV_Paginated(t *testing.T) {
	// Полная первая страница заставляет сервис запросить следующую.
	firstPage := make([]*models.HiringLead, 500)
	for i := range firstPage {
		firstPage[i] = &models.HiringLead{ID: i + 1, Name: "Lead", Email: "lead@example.com", Position: "Dev"}
	}
	secondPage := []*models.HiringLead{
		{ID: 501, Name: "Last", Email: "last@example.com", Position: "Dev"},
	}

	repo := new(LeadRepoMock)
	repo.On("ListLeads", mock.Anything, "uid-1", 500, 0).Return(firstPage, nil).Once()
	repo.On("ListLeads", mock.Anything, "uid-1", 500, 500).Return(secondPage, nil).Once()
	svc := services.NewLeadService(repo, newNoopLogger())

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), "uid-1", &buf)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 502)
	repo.AssertExpectations(t)
}

func TestLeadService_ExportCSV_RepositoryError(t *testing.T) {
	repo := new(LeadRepoMock)
	repo.On("ListLeads", mock.Anything, "uid-1", 500, 0).Return(nil, errors.New("db error")).Once()
	svc := services.NewLeadService(repo, newNoopLogger())

	var buf bytes.Buffer
	err := svc.ExportCSV(context.Background(), "uid-1", &buf)

	assert.Error(t, err)
	repo.AssertExpectations(t)
}
