// Package linkedai предоставляет маршруты для основного приложения.
package linkedai

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Bharat0709/linkedai-backend/internal/config"
	"github.com/Bharat0709/linkedai-backend/internal/credit"
	"github.com/Bharat0709/linkedai-backend/internal/http/handlers/auth/deactivate"
	"github.com/Bharat0709/linkedai-backend/internal/http/handlers/auth/login"
	"github.com/Bharat0709/linkedai-backend/internal/http/handlers/auth/register"
	"github.com/Bharat0709/linkedai-backend/internal/http/handlers/credits/balance"
	"github.com/Bharat0709/linkedai-backend/internal/http/handlers/credits/grant"
	"github.com/Bharat0709/linkedai-backend/internal/http/handlers/generate"
	"github.com/Bharat0709/linkedai-backend/internal/http/handlers/health"
	inviteaccept "github.com/Bharat0709/linkedai-backend/internal/http/handlers/invite/accept"
	invitecreate "github.com/Bharat0709/linkedai-backend/internal/http/handlers/invite/create"
	leadcapture "github.com/Bharat0709/linkedai-backend/internal/http/handlers/leads/capture"
	leadexport "github.com/Bharat0709/linkedai-backend/internal/http/handlers/leads/export"
	leadlist "github.com/Bharat0709/linkedai-backend/internal/http/handlers/leads/list"
	"github.com/Bharat0709/linkedai-backend/internal/http/handlers/linkedin/callback"
	"github.com/Bharat0709/linkedai-backend/internal/http/handlers/linkedin/connect"
	schedulecreate "github.com/Bharat0709/linkedai-backend/internal/http/handlers/schedule/create"
	schedulelist "github.com/Bharat0709/linkedai-backend/internal/http/handlers/schedule/list"
	scheduleremove "github.com/Bharat0709/linkedai-backend/internal/http/handlers/schedule/remove"
	"github.com/Bharat0709/linkedai-backend/internal/http/middlewarectx"
	authservice "github.com/Bharat0709/linkedai-backend/internal/services/auth"
	generateservice "github.com/Bharat0709/linkedai-backend/internal/services/generate"
	inviteservice "github.com/Bharat0709/linkedai-backend/internal/services/invite"
	leadservice "github.com/Bharat0709/linkedai-backend/internal/services/leads"
	linkedinservice "github.com/Bharat0709/linkedai-backend/internal/services/linkedin"
	scheduleservice "github.com/Bharat0709/linkedai-backend/internal/services/schedule"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Платная генерация живет в отдельной группе со своим, более жестким
// лимитом частоты. Остальные аутентифицированные эндпоинты считаются
// по стандартному лимиту, независимо от лимита генерации.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService,
	generateService *generateservice.GenerateService,
	ledger *credit.Ledger,
	scheduleService *scheduleservice.ScheduleService,
	leadService *leadservice.LeadService,
	inviteService *inviteservice.InviteService,
	connectService *linkedinservice.ConnectService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	generateLimiter := middlewarectx.NewRateLimiter(cfg.GenerateWindow, cfg.GenerateMaxPoints)
	standardLimiter := middlewarectx.NewRateLimiter(cfg.StandardWindow, cfg.StandardMaxPoints)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/invites/accept", inviteaccept.New(logger, inviteService).ServeHTTP)
		r.Post("/leads/{token}", leadcapture.New(logger, leadService).ServeHTTP)
		r.Get("/linkedin/callback", callback.New(logger, connectService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа платной генерации со своим лимитом
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(generateLimiter.Middleware(logger))
			r.Post("/generate/{action}", generate.New(logger, generateService).ServeHTTP)
		})

		// Группа с JWT аутентификацией и стандартным лимитом
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(standardLimiter.Middleware(logger))
			r.Get("/credits", balance.New(logger).ServeHTTP)
			r.Post("/credits/grant", grant.New(logger, ledger).ServeHTTP)
			r.Post("/schedule", schedulecreate.New(logger, scheduleService).ServeHTTP)
			r.Get("/schedule", schedulelist.New(logger, scheduleService).ServeHTTP)
			r.Delete("/schedule/{id}", scheduleremove.New(logger, scheduleService).ServeHTTP)
			r.Get("/leads", leadlist.New(logger, leadService).ServeHTTP)
			r.Get("/leads/export", leadexport.New(logger, leadService).ServeHTTP)
			r.Post("/invites", invitecreate.New(logger, inviteService).ServeHTTP)
			r.Get("/linkedin/connect", connect.New(logger, connectService).ServeHTTP)
			r.Delete("/account", deactivate.New(logger, authService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
