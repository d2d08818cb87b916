// Package export реализует HTTP-обработчик выгрузки лидов в CSV.
package export

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Bharat0709/linkedai-backend/internal/http/middlewarectx"
	"github.com/Bharat0709/linkedai-backend/internal/http/response"
	"github.com/Bharat0709/linkedai-backend/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы выгрузки лидов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выгрузки лидов.
type Service interface {
	ExportCSV(ctx context.Context, principalUID string, w io.Writer) error
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выгрузка лидов в CSV
// @Description Выгружает все лиды принципала одним CSV-файлом.
// @Tags Leads
// @Produce  text/csv
// @Success 200 {string} string "CSV-файл"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Security BearerAuth
// @Router /leads/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.leads.export"

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

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)

	if err := h.service.ExportCSV(r.Context(), principalUID, w); err != nil {
		// Заголовки уже ушли, сменить статус нельзя. Обрыв выгрузки
		// фиксируется в логе.
		log.Error("failed to export leads", sl.Err(err))
		return
	}

	log.Info("leads exported", slog.String("principal_uid", principalUID))
}
