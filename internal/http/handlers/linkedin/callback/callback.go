// Package callback реализует HTTP-обработчик завершения подключения
// LinkedIn-аккаунта. Сюда LinkedIn возвращает пользователя после согласия.
package callback

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Bharat0709/linkedai-backend/internal/http/response"
	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
	linkedinservice "github.com/Bharat0709/linkedai-backend/internal/services/linkedin"
)

// Handler обрабатывает HTTP-запросы завершения OAuth-обмена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подключения LinkedIn.
type Service interface {
	CompleteConnect(ctx context.Context, state, code string) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Завершение подключения LinkedIn-аккаунта
// @Description Завершает OAuth-обмен: проверяет state, меняет код на токен и сохраняет привязку аккаунта.
// @Tags LinkedIn
// @Produce  json
// @Param state query string true "State начатого обмена"
// @Param code query string true "Код авторизации LinkedIn"
// @Success 200 {object} map[string]any "Аккаунт подключен"
// @Failure 400 {object} response.ErrorResponse "Отсутствует state или code"
// @Failure 404 {object} response.ErrorResponse "Обмен не найден или истек"
// @Failure 502 {object} response.ErrorResponse "LinkedIn недоступен"
// @Router /linkedin/callback [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.linkedin.callback"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		log.Error("missing state or code")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing state or code"))
		return
	}

	if err := h.service.CompleteConnect(r.Context(), state, code); err != nil {
		if errors.Is(err, linkedinservice.ErrUnknownState) {
			log.Error("unknown oauth state", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("oauth exchange not found or expired"))
			return
		}
		log.Error("failed to complete linkedin connect", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("failed to complete linkedin connect"))
		return
	}

	log.Info("linkedin account connected")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "linkedin account connected",
	}))
}
