// Package services содержит воркер публикации: забирает созревшие посты
// из очереди, публикует их в LinkedIn и уведомляет автора при неудаче.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
	"github.com/Bharat0709/linkedai-backend/internal/lib/smtp"
	"github.com/Bharat0709/linkedai-backend/internal/models"
)

// Publisher публикует текстовый пост от имени участника.
type Publisher interface {
	PublishPost(ctx context.Context, accessToken, authorURN, text string) (string, error)
}

// PostRepository переводит публикацию в конечный статус.
type PostRepository interface {
	UpdatePostStatus(ctx context.Context, id int, status string) error
}

// Transport почтовый транспорт для уведомлений о неудачной публикации.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// PublisherService обрабатывает сообщения очереди созревших публикаций.
type PublisherService struct {
	publisher Publisher
	repo      PostRepository
	transport Transport
	log       *slog.Logger
}

// NewPublisherService создает новый экземпляр PublisherService.
func NewPublisherService(publisher Publisher, repo PostRepository, transport Transport, log *slog.Logger) *PublisherService {
	return &PublisherService{
		publisher: publisher,
		repo:      repo,
		transport: transport,
		log:       log,
	}
}

// HandleDuePost обрабатывает одно сообщение очереди: публикует пост
// и фиксирует конечный статус. Ошибка разбора или публикации не возвращается
// наружу как ошибка обработки — пост помечается неудачным, автор получает
// письмо, сообщение подтверждается. Повторная доставка тут не поможет.
func (s *PublisherService) HandleDuePost(ctx context.Context, body []byte) error {
	var message models.PostDueInfo
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	if message.LinkedInURN == "" || message.LinkedInToken == "" {
		s.failPost(ctx, message, errors.New("linkedin account is not connected"))
		return nil
	}

	authorURN := "urn:li:person:" + message.LinkedInURN
	postID, err := s.publisher.PublishPost(ctx, message.LinkedInToken, authorURN, message.Content)
	if err != nil {
		s.failPost(ctx, message, err)
		return nil
	}

	if err := s.repo.UpdatePostStatus(ctx, message.PostID, models.PostStatusPublished); err != nil {
		s.log.Error("failed to mark post published", sl.Err(err))
		return err
	}
	s.log.Info("post published",
		slog.Int("post_id", message.PostID),
		slog.String("linkedin_post_id", postID))
	return nil
}

func (s *PublisherService) failPost(ctx context.Context, message models.PostDueInfo, cause error) {
	s.log.Error("failed to publish post",
		slog.Int("post_id", message.PostID),
		slog.String("principal_uid", message.PrincipalUID),
		sl.Err(cause))
	if err := s.repo.UpdatePostStatus(ctx, message.PostID, models.PostStatusFailed); err != nil {
		s.log.Error("failed to mark post failed", sl.Err(err))
	}
	if err := s.sendFailureNotice(message); err != nil {
		s.log.Error("failed to send failure notice", sl.Err(err))
	}
}

func (s *PublisherService) sendFailureNotice(message models.PostDueInfo) error {
	to := []string{message.Email}
	subject := "Уведомление о неудачной публикации поста"
	bodyText := fmt.Sprintf("Здравствуйте, %s!\n\nЗапланированный пост не удалось опубликовать в LinkedIn.\n\nПроверьте подключение LinkedIn-аккаунта и верните пост в расписание.",
		message.Username)

	return s.sendEmail(to, subject, bodyText)
}

func (s *PublisherService) sendEmail(to []string, subject, bodyText string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	_, err = wc.Write([]byte(msg))
	if err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
