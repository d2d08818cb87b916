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
	services "github.com/Bharat0709/linkedai-backend/internal/services/schedule"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Мок для PostRepository
type PostRepoMock struct {
	mock.Mock
}

func (m *PostRepoMock) CreateScheduledPost(ctx context.Context, post models.ScheduledPost) (int, error) {
	args := m.Called(ctx, post)
	return args.Int(0), args.Error(1)
}

func (m *PostRepoMock) ListScheduledPosts(ctx context.Context, principalUID string, limit, offset int) ([]*models.ScheduledPost, error) {
	args := m.Called(ctx, principalUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ScheduledPost), args.Error(1)
}

func (m *PostRepoMock) RemoveScheduledPost(ctx context.Context, id int, principalUID string) (int, error) {
	args := m.Called(ctx, id, principalUID)
	return args.Int(0), args.Error(1)
}

func TestScheduleService_Create(t *testing.T) {
	futureDate := time.Now().Add(24 * time.Hour).UTC().Format(time.RFC3339)

	tests := []struct {
		name       string
		req        models.DummyScheduledPost
		setupMocks func(r *PostRepoMock)
		wantID     int
		wantErr    bool
		errMsg     string
	}{
		{
			name: "successful scheduling",
			req:  models.DummyScheduledPost{Content: "post text", ScheduledAt: futureDate},
			setupMocks: func(r *PostRepoMock) {
				r.On("CreateScheduledPost", mock.Anything, mock.MatchedBy(func(post models.ScheduledPost) bool {
					return post.PrincipalUID == "uid-1" &&
						post.Content == "post text" &&
						post.Status == models.PostStatusScheduled &&
						post.ScheduledAt.Location() == time.UTC
				})).Return(42, nil).Once()
			},
			wantID: 42,
		},
		{
			name:       "invalid date format",
			req:        models.DummyScheduledPost{Content: "post text", ScheduledAt: "03-2024"},
			setupMocks: func(_ *PostRepoMock) {},
			wantErr:    true,
			errMsg:     "invalid scheduled date",
		},
		{
			name: "date in the past",
			req: models.DummyScheduledPost{
				Content:     "post text",
				ScheduledAt: time.Now().Add(-time.Hour).UTC().Format(time.RFC3339),
			},
			setupMocks: func(_ *PostRepoMock) {},
			wantErr:    true,
			errMsg:     "must not be earlier than now",
		},
		{
			name: "repository error",
			req:  models.DummyScheduledPost{Content: "post text", ScheduledAt: futureDate},
			setupMocks: func(r *PostRepoMock) {
				r.On("CreateScheduledPost", mock.Anything, mock.Anything).Return(0, errors.New("db error")).Once()
			},
			wantErr: true,
			errMsg:  "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(PostRepoMock)
			svc := services.NewScheduleService(repo, newNoopLogger())

			tt.setupMocks(repo)

			got, err := svc.Create(context.Background(), "uid-1", tt.req)
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

func TestScheduleService_List(t *testing.T) {
	posts := []*models.ScheduledPost{
		{ID: 1, PrincipalUID: "uid-1", Content: "first"},
		{ID: 2, PrincipalUID: "uid-1", Content: "second"},
	}

	repo := new(PostRepoMock)
	repo.On("ListScheduledPosts", mock.Anything, "uid-1", 10, 0).Return(posts, nil).Once()
	svc := services.NewScheduleService(repo, newNoopLogger())

	got, err := svc.List(context.Background(), "uid-1", 10, 0)

	assert.NoError(t, err)
	assert.Equal(t, posts, got)
	repo.AssertExpectations(t)
}

func TestScheduleService_Remove(t *testing.T) {
	tests := []struct {
		name        string
		setupMocks  func(r *PostRepoMock)
		wantDeleted int
		wantErr     bool
	}{
		{
			name: "successful removal",
			setupMocks: func(r *PostRepoMock) {
				r.On("RemoveScheduledPost", mock.Anything, 42, "uid-1").Return(1, nil).Once()
			},
			wantDeleted: 1,
		},
		{
			name: "post already queued or missing",
			setupMocks: func(r *PostRepoMock) {
				r.On("RemoveScheduledPost", mock.Anything, 42, "uid-1").Return(0, nil).Once()
			},
			wantDeleted: 0,
		},
		{
			name: "repository error",
			setupMocks: func(r *PostRepoMock) {
				r.On("RemoveScheduledPost", mock.Anything, 42, "uid-1").Return(0, errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(PostRepoMock)
			svc := services.NewScheduleService(repo, newNoopLogger())

			tt.setupMocks(repo)

			got, err := svc.Remove(context.Background(), 42, "uid-1")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantDeleted, got)
			}

			repo.AssertExpectations(t)
		})
	}
}
