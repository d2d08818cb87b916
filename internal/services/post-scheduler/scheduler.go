// Package services содержит планировщик, выгребающий созревшие публикации
// в очередь воркера публикации.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
	"github.com/Bharat0709/linkedai-backend/internal/models"
	"github.com/Bharat0709/linkedai-backend/internal/rabbitmq"
)

// PostRepository определяет методы для захвата созревших публикаций.
type PostRepository interface {
	// ClaimDuePosts атомарно помечает созревшие публикации поставленными
	// в очередь и возвращает их. Повторный вызов не вернет уже захваченные.
	ClaimDuePosts(ctx context.Context, now time.Time) ([]*models.PostDueInfo, error)
	// UpdatePostStatus переводит публикацию в конечный статус.
	UpdatePostStatus(ctx context.Context, id int, status string) error
}

// SchedulerService периодически находит созревшие публикации и ставит их
// в очередь RabbitMQ.
type SchedulerService struct {
	repo PostRepository
	log  *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo PostRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo: repo,
		log:  log,
	}
}

// PublishDuePosts запускает цикл планировщика до отмены контекста.
func (s *SchedulerService) PublishDuePosts(ctx context.Context, channel *amqp.Channel) {
	s.runPublishDuePosts(ctx, channel)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runPublishDuePosts(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runPublishDuePosts(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting service to find due scheduled posts")
	duePosts, err := s.repo.ClaimDuePosts(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error("failed to claim due posts", sl.Err(err))
		return
	}
	if len(duePosts) == 0 {
		s.log.Info("no due posts found")
		return
	}
	s.log.Info("found due posts", "count", len(duePosts))
	for _, duePost := range duePosts {
		err = rabbitmq.PublishMessage(channel, rabbitmq.PostsExchange, rabbitmq.DueRoutingKey, duePost)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
			// Пост остается в статусе queued и будет виден в выдаче,
			// вернуть его в расписание безопасно: захват повторится.
			if statusErr := s.repo.UpdatePostStatus(ctx, duePost.PostID, models.PostStatusScheduled); statusErr != nil {
				s.log.Error("failed to return post to schedule", sl.Err(statusErr))
			}
		}
	}
}
