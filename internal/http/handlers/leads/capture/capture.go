// Package capture реализует публичный HTTP-обработчик захвата лидов.
//
// Эндпоинт доступен без аутентификации: владелец определяется по токену
// публичной страницы в пути запроса.
package capture

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Bharat0709/linkedai-backend/internal/http/response"
	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
	"github.com/Bharat0709/linkedai-backend/internal/models"
)

// Handler обрабатывает HTTP-запросы захвата лидов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики захвата лидов.
type Service interface {
	Capture(ctx context.Context, leadToken string, req models.DummyLead) (int, error)
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Захват лида
// @Description Сохраняет отклик кандидата через публичную страницу. Аутентификация не требуется.
// @Tags Leads
// @Accept  json
// @Produce  json
// @Param token path string true "Токен публичной страницы"
// @Param request body models.DummyLead true "Данные кандидата"
// @Success 200 {object} map[string]any "ID лида"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Страница не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /leads/{token} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.leads.capture"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	leadToken := chi.URLParam(r, "token")

	var req models.DummyLead
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	id, err := h.service.Capture(r.Context(), leadToken, req)
	if err != nil {
		log.Error("failed to capture lead", sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("lead page not found"))
		return
	}

	log.Info("lead captured", slog.Int("lead_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"lead_id": id,
		"message": "thank you, your application has been received",
	}))
}
