package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Bharat0709/linkedai-backend/internal/lib/smtp"
	"github.com/Bharat0709/linkedai-backend/internal/models"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishPost(ctx context.Context, accessToken, authorURN, text string) (string, error) {
	args := m.Called(ctx, accessToken, authorURN, text)
	return args.String(0), args.Error(1)
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) UpdatePostStatus(ctx context.Context, id int, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func expectFailureNotice(transport *MockTransport, email string) {
	mockClient := new(MockSMTPClient)
	mockWriter := new(MockSMTPWriter)

	transport.On("GetSMTPUser").Return("sender@example.com")
	transport.On("Connect").Return(mockClient, nil).Once()
	mockClient.On("Mail", "sender@example.com").Return(nil).Once()
	mockClient.On("Rcpt", email).Return(nil).Once()
	mockClient.On("Data").Return(mockWriter, nil).Once()
	mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
	mockWriter.On("Close").Return(nil).Once()
	mockClient.On("Quit").Return(nil).Once()
	mockClient.On("Close").Return(nil).Once()
}

func dueMessage(t *testing.T, info models.PostDueInfo) []byte {
	body, err := json.Marshal(info)
	require.NoError(t, err)
	return body
}

func TestPublisherService_HandleDuePost(t *testing.T) {
	fullInfo := models.PostDueInfo{
		PostID:        42,
		PrincipalUID:  "uid-1",
		Email:         "author@example.com",
		Username:      "testuser",
		Content:       "post text",
		LinkedInURN:   "abc123",
		LinkedInToken: "access-token",
	}

	tests := []struct {
		name       string
		body       []byte
		setupMocks func(p *MockPublisher, r *MockRepository, tr *MockTransport)
		wantErr    bool
	}{
		{
			name: "successful publication",
			body: dueMessage(t, fullInfo),
			setupMocks: func(p *MockPublisher, r *MockRepository, _ *MockTransport) {
				p.On("PublishPost", mock.Anything, "access-token", "urn:li:person:abc123", "post text").
					Return("ugc-post-id", nil).Once()
				r.On("UpdatePostStatus", mock.Anything, 42, models.PostStatusPublished).Return(nil).Once()
			},
		},
		{
			name:       "malformed message is a handler error",
			body:       []byte("not a json"),
			setupMocks: func(_ *MockPublisher, _ *MockRepository, _ *MockTransport) {},
			wantErr:    true,
		},
		{
			name: "missing linkedin account fails post and notifies author",
			body: dueMessage(t, models.PostDueInfo{
				PostID: 42, PrincipalUID: "uid-1", Email: "author@example.com",
				Username: "testuser", Content: "post text",
			}),
			setupMocks: func(_ *MockPublisher, r *MockRepository, tr *MockTransport) {
				r.On("UpdatePostStatus", mock.Anything, 42, models.PostStatusFailed).Return(nil).Once()
				expectFailureNotice(tr, "author@example.com")
			},
		},
		{
			name: "publish error fails post without redelivery",
			body: dueMessage(t, fullInfo),
			setupMocks: func(p *MockPublisher, r *MockRepository, tr *MockTransport) {
				p.On("PublishPost", mock.Anything, "access-token", "urn:li:person:abc123", "post text").
					Return("", errors.New("linkedin api error")).Once()
				r.On("UpdatePostStatus", mock.Anything, 42, models.PostStatusFailed).Return(nil).Once()
				expectFailureNotice(tr, "author@example.com")
			},
		},
		{
			name: "status update error triggers redelivery",
			body: dueMessage(t, fullInfo),
			setupMocks: func(p *MockPublisher, r *MockRepository, _ *MockTransport) {
				p.On("PublishPost", mock.Anything, "access-token", "urn:li:person:abc123", "post text").
					Return("ugc-post-id", nil).Once()
				r.On("UpdatePostStatus", mock.Anything, 42, models.PostStatusPublished).
					Return(errors.New("db error")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := new(MockPublisher)
			repo := new(MockRepository)
			transport := new(MockTransport)
			tt.setupMocks(publisher, repo, transport)

			svc := NewPublisherService(publisher, repo, transport, newNoopLogger())

			err := svc.HandleDuePost(context.Background(), tt.body)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			publisher.AssertExpectations(t)
			repo.AssertExpectations(t)
			transport.AssertExpectations(t)
		})
	}
}
