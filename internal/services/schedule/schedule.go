// Package services содержит бизнес-логику отложенных публикаций.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Bharat0709/linkedai-backend/internal/models"
)

// PostRepository определяет методы для работы с отложенными публикациями в хранилище.
type PostRepository interface {
	// CreateScheduledPost добавляет новую публикацию и возвращает её ID.
	CreateScheduledPost(ctx context.Context, post models.ScheduledPost) (int, error)
	// ListScheduledPosts возвращает публикации принципала с пагинацией.
	ListScheduledPosts(ctx context.Context, principalUID string, limit, offset int) ([]*models.ScheduledPost, error)
	// RemoveScheduledPost удаляет публикацию и возвращает количество удалённых записей.
	RemoveScheduledPost(ctx context.Context, id int, principalUID string) (int, error)
}

// ScheduleService реализует бизнес-логику работы с отложенными публикациями.
type ScheduleService struct {
	repo PostRepository
	log  *slog.Logger
}

// NewScheduleService создает новый экземпляр ScheduleService.
func NewScheduleService(repo PostRepository, log *slog.Logger) *ScheduleService {
	return &ScheduleService{
		repo: repo,
		log:  log,
	}
}

// Create ставит публикацию в расписание принципала и возвращает её ID.
// Дата приходит строкой RFC3339 и не может быть в прошлом.
func (s *ScheduleService) Create(ctx context.Context, principalUID string, req models.DummyScheduledPost) (int, error) {
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return 0, fmt.Errorf("invalid scheduled date: %w", err)
	}
	if scheduledAt.Before(time.Now()) {
		return 0, fmt.Errorf("scheduled date must not be earlier than now")
	}

	post := models.ScheduledPost{
		PrincipalUID: principalUID,
		Content:      req.Content,
		ScheduledAt:  scheduledAt.UTC(),
		Status:       models.PostStatusScheduled,
	}
	id, err := s.repo.CreateScheduledPost(ctx, post)
	if err != nil {
		return 0, err
	}
	s.log.Info("post scheduled",
		slog.String("principal_uid", principalUID),
		slog.Int("post_id", id),
		slog.Time("scheduled_at", post.ScheduledAt))
	return id, nil
}

// List возвращает публикации принципала с пагинацией.
func (s *ScheduleService) List(ctx context.Context, principalUID string, limit, offset int) ([]*models.ScheduledPost, error) {
	return s.repo.ListScheduledPosts(ctx, principalUID, limit, offset)
}

// Remove снимает еще не опубликованную публикацию с расписания.
// Возвращает количество удалённых записей: 0 — публикация не найдена
// или уже ушла в очередь.
func (s *ScheduleService) Remove(ctx context.Context, id int, principalUID string) (int, error) {
	return s.repo.RemoveScheduledPost(ctx, id, principalUID)
}
