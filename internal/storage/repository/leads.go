package repository

import (
	"context"
	"fmt"

	"github.com/Bharat0709/linkedai-backend/internal/models"
)

// CreateLead вставляет новый лид и возвращает его ID.
func (s *Storage) CreateLead(ctx context.Context, lead models.HiringLead) (int, error) {
	const op = "storage.CreateLead"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO hiring_leads (principal_uid, name, email, position, note)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		lead.PrincipalUID, lead.Name, lead.Email, lead.Position, lead.Note).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListLeads возвращает лиды принципала с пагинацией, свежие первыми.
func (s *Storage) ListLeads(ctx context.Context, principalUID string, limit, offset int) ([]*models.HiringLead, error) {
	const op = "storage.ListLeads"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, principal_uid, name, email, position, note, created_at
			  FROM hiring_leads
			  WHERE principal_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, principalUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.HiringLead
	for rows.Next() {
		var lead models.HiringLead
		if err = rows.Scan(&lead.ID, &lead.PrincipalUID, &lead.Name, &lead.Email,
			&lead.Position, &lead.Note, &lead.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &lead)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
