// Package connect реализует HTTP-обработчик начала подключения LinkedIn-аккаунта.
package connect

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Bharat0709/linkedai-backend/internal/http/middlewarectx"
	"github.com/Bharat0709/linkedai-backend/internal/http/response"
	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы начала OAuth-обмена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики подключения LinkedIn.
type Service interface {
	BeginConnect(principalUID string) (string, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Подключение LinkedIn-аккаунта
// @Description Начинает OAuth-обмен и возвращает адрес страницы согласия LinkedIn.
// @Tags LinkedIn
// @Produce  json
// @Success 200 {object} map[string]any "Адрес страницы согласия"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /linkedin/connect [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.linkedin.connect"

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

	authorizeURL, err := h.service.BeginConnect(principalUID)
	if err != nil {
		log.Error("failed to begin linkedin connect", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to begin linkedin connect"))
		return
	}

	log.Info("linkedin connect started", slog.String("principal_uid", principalUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"authorize_url": authorizeURL,
	}))
}
