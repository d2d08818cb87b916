// Package services содержит бизнес-логику захвата откликов кандидатов.
package services

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/Bharat0709/linkedai-backend/internal/models"
)

// LeadRepository определяет методы для работы с лидами в хранилище.
type LeadRepository interface {
	// CreateLead добавляет новый лид и возвращает его ID.
	CreateLead(ctx context.Context, lead models.HiringLead) (int, error)
	// ListLeads возвращает лиды принципала с пагинацией, свежие первыми.
	ListLeads(ctx context.Context, principalUID string, limit, offset int) ([]*models.HiringLead, error)
	// GetPrincipalByLeadToken возвращает владельца публичной страницы лидов.
	GetPrincipalByLeadToken(ctx context.Context, leadToken string) (*models.Principal, error)
}

// LeadService реализует захват лидов через публичный токен и их выгрузку.
type LeadService struct {
	repo LeadRepository
	log  *slog.Logger
}

// NewLeadService создает новый экземпляр LeadService.
func NewLeadService(repo LeadRepository, log *slog.Logger) *LeadService {
	return &LeadService{
		repo: repo,
		log:  log,
	}
}

// Capture сохраняет отклик кандидата, пришедший на публичную страницу.
// Владелец страницы определяется по токену, аутентификация не требуется.
func (s *LeadService) Capture(ctx context.Context, leadToken string, req models.DummyLead) (int, error) {
	principal, err := s.repo.GetPrincipalByLeadToken(ctx, leadToken)
	if err != nil {
		return 0, err
	}
	lead := models.HiringLead{
		PrincipalUID: principal.UID,
		Name:         req.Name,
		Email:        req.Email,
		Position:     req.Position,
		Note:         req.Note,
	}
	id, err := s.repo.CreateLead(ctx, lead)
	if err != nil {
		return 0, err
	}
	s.log.Info("lead captured",
		slog.String("principal_uid", principal.UID),
		slog.Int("lead_id", id))
	return id, nil
}

// List возвращает лиды принципала с пагинацией.
func (s *LeadService) List(ctx context.Context, principalUID string, limit, offset int) ([]*models.HiringLead, error) {
	return s.repo.ListLeads(ctx, principalUID, limit, offset)
}

// exportBatchSize размер страницы при постраничной выгрузке.
const exportBatchSize = 500

// ExportCSV выгружает все лиды принципала в CSV. Лиды читаются постранично,
// чтобы не держать весь список в памяти.
func (s *LeadService) ExportCSV(ctx context.Context, principalUID string, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "name", "email", "position", "note", "created_at"}); err != nil {
		return err
	}
	offset := 0
	for {
		leads, err := s.repo.ListLeads(ctx, principalUID, exportBatchSize, offset)
		if err != nil {
			return err
		}
		for _, lead := range leads {
			record := []string{
				strconv.Itoa(lead.ID),
				lead.Name,
				lead.Email,
				lead.Position,
				lead.Note,
				lead.CreatedAt.Format(time.RFC3339),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
		if len(leads) < exportBatchSize {
			break
		}
		offset += exportBatchSize
	}
	writer.Flush()
	return writer.Error()
}
