// Package generate реализует HTTP-обработчик платной генерации контента.
//
// Имя операции приходит в пути запроса и определяет стоимость и вид контента.
// Списание кредитов атомарно и происходит до обращения к провайдеру,
// неуспешная генерация компенсируется возвратом.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Bharat0709/linkedai-backend/internal/credit"
	"github.com/Bharat0709/linkedai-backend/internal/generation"
	"github.com/Bharat0709/linkedai-backend/internal/http/middlewarectx"
	"github.com/Bharat0709/linkedai-backend/internal/http/response"
	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
)

// Request — входные данные генерации. Стоимость операции в запросе
// не передается и не может быть передана.
type Request struct {
	Content   string `json:"content" validate:"required"`
	Tone      string `json:"tone"`
	WordCount int    `json:"word_count" validate:"omitempty,min=1,max=2000"`
}

// Handler обрабатывает HTTP-запросы генерации.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики платной генерации.
type Service interface {
	Generate(ctx context.Context, principalUID, actionName string,
		content, tone string, wordCount int) (*credit.SpendResult, error)
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
// @Summary Платная генерация контента
// @Description Генерирует пост, комментарий, шаблон или описание профиля. Списывает кредиты по стоимости операции, при неудаче списание компенсируется.
// @Tags Generate
// @Accept  json
// @Produce  json
// @Param action path string true "Имя операции: generate-post, generate-comment, generate-template, generate-profile-summary"
// @Param request body Request true "Параметры генерации"
// @Success 200 {object} map[string]any "Результат и остаток кредитов"
// @Failure 400 {object} response.ErrorResponse "Неизвестная операция или некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно кредитов"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Failure 502 {object} response.ErrorResponse "Провайдер генерации недоступен"
// @Security BearerAuth
// @Router /generate/{action} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.generate"

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

	actionName := chi.URLParam(r, "action")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.String("action", actionName))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	result, err := h.service.Generate(r.Context(), principalUID, actionName,
		req.Content, req.Tone, req.WordCount)
	if err != nil {
		h.renderError(w, r, log, err)
		return
	}

	log.Info("generation success",
		slog.String("action", actionName),
		slog.Int("remaining_credits", result.RemainingCredits))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"result":            result.Result,
		"remaining_credits": result.RemainingCredits,
	}))
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, credit.ErrUnknownAction):
		log.Error("unknown action", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown action"))
	case errors.Is(err, generation.ErrUnknownTone):
		log.Error("unknown tone", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("unknown tone"))
	case errors.Is(err, credit.ErrInsufficientCredits):
		log.Error("insufficient credits", sl.Err(err))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("insufficient credits"))
	case errors.Is(err, credit.ErrGenerationTimeout):
		log.Error("generation timed out", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("generation timed out, credits were not spent"))
	case errors.Is(err, credit.ErrGenerationFailed):
		log.Error("generation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("generation failed, credits were not spent"))
	default:
		log.Error("generation failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal service error"))
	}
}
