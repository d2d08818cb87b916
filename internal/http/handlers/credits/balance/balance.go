// Package balance реализует HTTP-обработчик выдачи баланса кредитов.
package balance

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Bharat0709/linkedai-backend/internal/credit"
	"github.com/Bharat0709/linkedai-backend/internal/http/middlewarectx"
	"github.com/Bharat0709/linkedai-backend/internal/http/response"
)

// Handler обрабатывает HTTP-запросы баланса.
type Handler struct {
	log *slog.Logger
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Баланс кредитов
// @Description Возвращает текущий баланс, суммарно списанные кредиты и прайс-лист операций.
// @Tags Credits
// @Produce  json
// @Success 200 {object} map[string]any "Баланс и прайс-лист"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Security BearerAuth
// @Router /credits [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.credits.balance"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFromContext(r.Context())
	if !ok {
		log.Error("principal not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	actions := make(map[string]int)
	for _, action := range credit.Actions() {
		actions[action.Name] = action.Cost
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"credits":            principal.Credits,
		"total_credits_used": principal.TotalCreditsUsed,
		"action_costs":       actions,
	}))
}
