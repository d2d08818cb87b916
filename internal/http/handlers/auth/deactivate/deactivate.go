// Package deactivate реализует HTTP-обработчик мягкой деактивации принципала.
package deactivate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Bharat0709/linkedai-backend/internal/http/middlewarectx"
	"github.com/Bharat0709/linkedai-backend/internal/http/response"
	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы деактивации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики деактивации.
type Service interface {
	Deactivate(ctx context.Context, principalUID string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Деактивация принципала
// @Description Мягко деактивирует текущего принципала. Запись и счетчики сохраняются.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Принципал деактивирован"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /account [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.deactivate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principalUID, ok := r.Context().Value(middlewarectx.PrincipalUID).(string)
	if !ok || principalUID == "" {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Deactivate(r.Context(), principalUID); err != nil {
		log.Error("failed to deactivate principal", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to deactivate principal"))
		return
	}

	log.Info("principal deactivated", slog.String("principal_uid", principalUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "principal deactivated",
	}))
}
