// Package publisher содержит приложение воркера публикации постов.
package publisher

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/Bharat0709/linkedai-backend/internal/config"
	"github.com/Bharat0709/linkedai-backend/internal/lib/smtp"
	"github.com/Bharat0709/linkedai-backend/internal/linkedin"
	"github.com/Bharat0709/linkedai-backend/internal/rabbitmq"
	publisherservice "github.com/Bharat0709/linkedai-backend/internal/services/post-publisher"
	"github.com/Bharat0709/linkedai-backend/internal/storage/repository"
)

// App представляет приложение воркера публикации.
type App struct {
	conn             *amqp.Connection
	ch               *amqp.Channel
	publisherService *publisherservice.PublisherService
	logger           *slog.Logger
}

// New создает новый экземпляр приложения воркера публикации.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	conn, err := rabbitmq.Connect(cfg.RabbitConnectionString, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Error("failed to close connection", slog.Any("err", closeErr))
		}
		return nil, err
	}

	linkedinClient := linkedin.NewClient(cfg.LinkedIn.ClientID, cfg.LinkedIn.ClientSecret, cfg.LinkedIn.RedirectURL)
	newTransport := smtp.NewTransport(cfg, logger)
	publisherService := publisherservice.NewPublisherService(linkedinClient, db, newTransport, logger)

	return &App{
		conn:             conn,
		ch:               ch,
		publisherService: publisherService,
		logger:           logger,
	}, nil
}

// Run запускает потребителя очереди созревших публикаций.
func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.DueQueue, func(body []byte) error {
		return a.publisherService.HandleDuePost(ctx, body)
	})
	if err != nil {
		a.logger.Error("failed to start posts.due consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("publisher service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
