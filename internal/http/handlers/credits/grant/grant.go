// Package grant реализует HTTP-обработчик начисления кредитов.
//
// Начислять может администратор (любому принципалу) и организация
// (только собственным участникам).
package grant

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Bharat0709/linkedai-backend/internal/credit"
	"github.com/Bharat0709/linkedai-backend/internal/http/middlewarectx"
	"github.com/Bharat0709/linkedai-backend/internal/http/response"
	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
	"github.com/Bharat0709/linkedai-backend/internal/models"
)

// Request — входные данные начисления кредитов.
type Request struct {
	PrincipalUID string `json:"principal_uid" validate:"required,uuid"`
	Amount       int    `json:"amount" validate:"required,min=1"`
}

// Handler обрабатывает HTTP-запросы начисления.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики начисления кредитов.
type Service interface {
	Grant(ctx context.Context, principalUID string, amount int) (int, error)
	GrantToMember(ctx context.Context, orgUID, principalUID string, amount int) (int, error)
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
// @Summary Начисление кредитов
// @Description Начисляет кредиты принципалу. Роль admin начисляет любому, организация — своим участникам.
// @Tags Credits
// @Accept  json
// @Produce  json
// @Param request body Request true "Получатель и сумма"
// @Success 200 {object} map[string]any "Баланс после начисления"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /credits/grant [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.credits.grant"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	grantor, ok := middlewarectx.PrincipalFromContext(r.Context())
	if !ok {
		log.Error("grant denied, principal missing in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("missing or invalid authorization token"))
		return
	}
	isAdmin := grantor.Role == "admin"
	if !isAdmin && grantor.Kind != models.KindOrganization {
		log.Error("grant denied, admin role or organization kind required")
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("admin role or organization principal required"))
		return
	}

	var req Request
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

	var balance int
	var err error
	if isAdmin {
		balance, err = h.service.Grant(r.Context(), req.PrincipalUID, req.Amount)
	} else {
		balance, err = h.service.GrantToMember(r.Context(), grantor.UID, req.PrincipalUID, req.Amount)
	}
	if err != nil {
		if errors.Is(err, credit.ErrNotOrgMember) {
			log.Error("grant denied, target is not a member of the organization", sl.Err(err))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("principal is not a member of your organization"))
			return
		}
		log.Error("failed to grant credits", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to grant credits"))
		return
	}

	log.Info("credits granted",
		slog.String("principal_uid", req.PrincipalUID),
		slog.Int("amount", req.Amount))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"principal_uid": req.PrincipalUID,
		"balance":       balance,
	}))
}
