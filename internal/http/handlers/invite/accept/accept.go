// Package accept реализует HTTP-обработчик принятия приглашения в организацию.
package accept

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Bharat0709/linkedai-backend/internal/http/response"
	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
	"github.com/Bharat0709/linkedai-backend/internal/models"
	inviteservice "github.com/Bharat0709/linkedai-backend/internal/services/invite"
)

// Handler обрабатывает HTTP-запросы принятия приглашений.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики приглашений.
type Service interface {
	Accept(ctx context.Context, req models.DummyInviteAccept) (string, error)
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
// @Summary Принятие приглашения
// @Description Регистрирует участника организации по одноразовому токену приглашения.
// @Tags Invite
// @Accept  json
// @Produce  json
// @Param request body models.DummyInviteAccept true "Токен и учетные данные участника"
// @Success 200 {object} map[string]any "Участник зарегистрирован"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 409 {object} response.ErrorResponse "Приглашение уже принято или истекло"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /invites/accept [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.invite.accept"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyInviteAccept
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

	uid, err := h.service.Accept(r.Context(), req)
	if err != nil {
		if errors.Is(err, inviteservice.ErrInviteUsed) || errors.Is(err, inviteservice.ErrInviteExpired) {
			log.Error("invite rejected", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("invite is expired or already accepted"))
			return
		}
		log.Error("failed to accept invite", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to accept invite"))
		return
	}

	log.Info("invite accepted", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"uid":      uid,
		"username": req.Username,
		"message":  "member created successfully",
	}))
}
