// Package linkedai собирает основное HTTP-приложение: хранилище, кеш,
// кредитный учет, адаптер генерации и маршруты.
package linkedai

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/Bharat0709/linkedai-backend/internal/cache"
	"github.com/Bharat0709/linkedai-backend/internal/config"
	"github.com/Bharat0709/linkedai-backend/internal/credit"
	"github.com/Bharat0709/linkedai-backend/internal/generation"
	"github.com/Bharat0709/linkedai-backend/internal/lib/jwt"
	"github.com/Bharat0709/linkedai-backend/internal/lib/smtp"
	"github.com/Bharat0709/linkedai-backend/internal/linkedin"
	"github.com/Bharat0709/linkedai-backend/internal/migrations"
	authservice "github.com/Bharat0709/linkedai-backend/internal/services/auth"
	generateservice "github.com/Bharat0709/linkedai-backend/internal/services/generate"
	inviteservice "github.com/Bharat0709/linkedai-backend/internal/services/invite"
	leadservice "github.com/Bharat0709/linkedai-backend/internal/services/leads"
	linkedinservice "github.com/Bharat0709/linkedai-backend/internal/services/linkedin"
	scheduleservice "github.com/Bharat0709/linkedai-backend/internal/services/schedule"
	"github.com/Bharat0709/linkedai-backend/internal/storage/repository"
)

// App представляет основное HTTP-приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	gemini *generation.GeminiProvider
}

// New создает приложение: подключает зависимости и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	gemini, err := generation.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}
	var fast generation.Generator
	if cfg.FastProviderURL != "" {
		fast = generation.NewTurboProvider(cfg.FastProviderURL, cfg.FastProviderKey)
	}
	adapter := generation.NewAdapter(fast, gemini)

	ledger := credit.NewLedger(db, logger, cfg.Generation.Timeout)

	linkedinClient := linkedin.NewClient(cfg.LinkedIn.ClientID, cfg.LinkedIn.ClientSecret, cfg.LinkedIn.RedirectURL)
	transport := smtp.NewTransport(cfg, logger)
	mailer := inviteservice.NewSMTPMailer(transport, logger, cfg.InviteAcceptURL)

	authService := authservice.NewAuthService(db, jwtMaker)
	generateService := generateservice.NewGenerateService(ledger, adapter, logger)
	scheduleService := scheduleservice.NewScheduleService(db, logger)
	leadService := leadservice.NewLeadService(db, logger)
	inviteService := inviteservice.NewInviteService(db, mailer, logger)
	connectService := linkedinservice.NewConnectService(linkedinClient, db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg,
		authService, generateService, ledger,
		scheduleService, leadService, inviteService, connectService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		gemini: gemini,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.gemini.Close(); closeErr != nil {
			a.logger.Error("failed to close gemini client", slog.Any("err", closeErr))
		}
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
