package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	customjwt "github.com/Bharat0709/linkedai-backend/internal/lib/jwt"
	"github.com/Bharat0709/linkedai-backend/internal/lib/password"
	"github.com/Bharat0709/linkedai-backend/internal/models"
	services "github.com/Bharat0709/linkedai-backend/internal/services/auth"
)

// Мок для PrincipalRepository
type PrincipalRepoMock struct {
	mock.Mock
}

func (m *PrincipalRepoMock) RegisterPrincipal(ctx context.Context, p models.Principal) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *PrincipalRepoMock) GetPrincipalByUsername(ctx context.Context, username string) (*models.Principal, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Principal), args.Error(1)
}

func (m *PrincipalRepoMock) GetPrincipal(ctx context.Context, principalUID string) (*models.Principal, error) {
	args := m.Called(ctx, principalUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Principal), args.Error(1)
}

func (m *PrincipalRepoMock) DeactivatePrincipal(ctx context.Context, principalUID string) error {
	args := m.Called(ctx, principalUID)
	return args.Error(0)
}

// Мок для jwt.Maker
type JwtMakerMock struct {
	mock.Mock
}

func (m *JwtMakerMock) GenerateToken(principalUID string, kind models.Kind, role string) (string, error) {
	args := m.Called(principalUID, kind, role)
	return args.String(0), args.Error(1)
}

func (m *JwtMakerMock) ParseToken(token string) (*customjwt.CustomClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customjwt.CustomClaims), args.Error(1)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name             string
		req              models.DummyRegister
		setupMocks       func(r *PrincipalRepoMock)
		wantPrincipalUID string
		wantErr          bool
		errMsg           string
	}{
		{
			name: "successful user registration",
			req: models.DummyRegister{
				Email:    "test@example.com",
				Username: "testuser",
				Password: "password123",
				Kind:     "user",
			},
			setupMocks: func(r *PrincipalRepoMock) {
				r.On("RegisterPrincipal", mock.Anything, mock.MatchedBy(func(p models.Principal) bool {
					return p.Email == "test@example.com" &&
						p.Username == "testuser" &&
						p.PasswordHash != "" &&
						p.PasswordHash != "password123" &&
						p.Role == "user" &&
						p.Kind == models.KindUser &&
						p.Credits == services.StartingCredits &&
						p.LeadToken != ""
				})).Return("some-uuid-string", nil).Once()
			},
			wantPrincipalUID: "some-uuid-string",
			wantErr:          false,
		},
		{
			name: "successful organization registration",
			req: models.DummyRegister{
				Email:    "org@example.com",
				Username: "testorg",
				Password: "password123",
				Kind:     "organization",
			},
			setupMocks: func(r *PrincipalRepoMock) {
				r.On("RegisterPrincipal", mock.Anything, mock.MatchedBy(func(p models.Principal) bool {
					return p.Kind == models.KindOrganization
				})).Return("org-uuid-string", nil).Once()
			},
			wantPrincipalUID: "org-uuid-string",
			wantErr:          false,
		},
		{
			name: "repository error",
			req: models.DummyRegister{
				Email:    "test@example.com",
				Username: "testuser",
				Password: "password123",
				Kind:     "user",
			},
			setupMocks: func(r *PrincipalRepoMock) {
				r.On("RegisterPrincipal", mock.Anything, mock.Anything).Return("", errors.New("db error")).Once()
			},
			wantPrincipalUID: "",
			wantErr:          true,
			errMsg:           "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(PrincipalRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo)

			got, err := svc.Register(context.Background(), tt.req)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantPrincipalUID, got)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"

	hashedPassword, err := password.GetHash(rawPassword)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	testPrincipal := &models.Principal{
		UID:          "uid-1",
		Email:        "test@example.com",
		Username:     "testuser",
		PasswordHash: hashedPassword,
		Role:         "user",
		Kind:         models.KindUser,
	}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(r *PrincipalRepoMock, j *JwtMakerMock)
		wantToken  string
		wantRole   string
		wantErr    bool
		errMsg     string
	}{
		{
			name:     "successful login",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *PrincipalRepoMock, j *JwtMakerMock) {
				r.On("GetPrincipalByUsername", mock.Anything, "testuser").Return(testPrincipal, nil).Once()
				j.On("GenerateToken", "uid-1", models.KindUser, "user").Return("signed-token", nil).Once()
			},
			wantToken: "signed-token",
			wantRole:  "user",
			wantErr:   false,
		},
		{
			name:     "principal not found",
			username: "nosuchuser",
			password: rawPassword,
			setupMocks: func(r *PrincipalRepoMock, _ *JwtMakerMock) {
				r.On("GetPrincipalByUsername", mock.Anything, "nosuchuser").
					Return(nil, errors.New("principal not found")).Once()
			},
			wantErr: true,
			errMsg:  "invalid credentials",
		},
		{
			name:     "wrong password",
			username: "testuser",
			password: "wrongpassword",
			setupMocks: func(r *PrincipalRepoMock, _ *JwtMakerMock) {
				r.On("GetPrincipalByUsername", mock.Anything, "testuser").Return(testPrincipal, nil).Once()
			},
			wantErr: true,
			errMsg:  "invalid credentials",
		},
		{
			name:     "token generation error",
			username: "testuser",
			password: rawPassword,
			setupMocks: func(r *PrincipalRepoMock, j *JwtMakerMock) {
				r.On("GetPrincipalByUsername", mock.Anything, "testuser").Return(testPrincipal, nil).Once()
				j.On("GenerateToken", "uid-1", models.KindUser, "user").
					Return("", errors.New("signing error")).Once()
			},
			wantErr: true,
			errMsg:  "signing error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(PrincipalRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo, jwtMock)

			token, role, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
				assert.Equal(t, tt.wantRole, role)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_ResolvePrincipal(t *testing.T) {
	testPrincipal := &models.Principal{
		UID:      "uid-1",
		Username: "testuser",
		Role:     "user",
		Kind:     models.KindUser,
	}

	tests := []struct {
		name       string
		token      string
		setupMocks func(r *PrincipalRepoMock, j *JwtMakerMock)
		want       *models.Principal
		wantErr    bool
		errMsg     string
	}{
		{
			name:  "valid token of live principal",
			token: "valid-token",
			setupMocks: func(r *PrincipalRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "valid-token").
					Return(&customjwt.CustomClaims{PrincipalUID: "uid-1", Kind: models.KindUser, Role: "user"}, nil).Once()
				r.On("GetPrincipal", mock.Anything, "uid-1").Return(testPrincipal, nil).Once()
			},
			want: testPrincipal,
		},
		{
			name:  "invalid token",
			token: "bad-token",
			setupMocks: func(_ *PrincipalRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "bad-token").Return(nil, errors.New("token is malformed")).Once()
			},
			wantErr: true,
			errMsg:  "token is malformed",
		},
		{
			name:  "deactivated principal is invisible",
			token: "valid-token",
			setupMocks: func(r *PrincipalRepoMock, j *JwtMakerMock) {
				j.On("ParseToken", "valid-token").
					Return(&customjwt.CustomClaims{PrincipalUID: "uid-1", Kind: models.KindUser, Role: "user"}, nil).Once()
				r.On("GetPrincipal", mock.Anything, "uid-1").
					Return(nil, errors.New("principal not found")).Once()
			},
			wantErr: true,
			errMsg:  "principal not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(PrincipalRepoMock)
			jwtMock := new(JwtMakerMock)
			svc := services.NewAuthService(repo, jwtMock)

			tt.setupMocks(repo, jwtMock)

			got, err := svc.ResolvePrincipal(context.Background(), tt.token)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			repo.AssertExpectations(t)
			jwtMock.AssertExpectations(t)
		})
	}
}

func TestAuthService_Deactivate(t *testing.T) {
	repo := new(PrincipalRepoMock)
	repo.On("DeactivatePrincipal", mock.Anything, "uid-1").Return(nil).Once()
	svc := services.NewAuthService(repo, new(JwtMakerMock))

	err := svc.Deactivate(context.Background(), "uid-1")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
