package repository

import (
	"context"
	"fmt"

	"github.com/Bharat0709/linkedai-backend/internal/models"
)

// CreateInvite вставляет приглашение участника и возвращает его ID.
func (s *Storage) CreateInvite(ctx context.Context, invite models.Invite) (int, error) {
	const op = "storage.CreateInvite"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO invites (org_uid, email, token, expires_at)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		invite.OrgUID, invite.Email, invite.Token, invite.ExpiresAt).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetInviteByToken возвращает приглашение по токену.
func (s *Storage) GetInviteByToken(ctx context.Context, token string) (*models.Invite, error) {
	const op = "storage.GetInviteByToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, org_uid, email, token, expires_at, accepted_at, created_at
			  FROM invites
			  WHERE token = $1`
	invite := &models.Invite{}
	row := s.DB.QueryRowContext(ctx, query, token)
	if err := row.Scan(&invite.ID, &invite.OrgUID, &invite.Email, &invite.Token,
		&invite.ExpiresAt, &invite.AcceptedAt, &invite.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return invite, nil
}

// MarkInviteAccepted помечает приглашение принятым, если оно еще не принято.
// Возвращает количество затронутых строк: 0 означает повторное принятие.
func (s *Storage) MarkInviteAccepted(ctx context.Context, token string) (int, error) {
	const op = "storage.MarkInviteAccepted"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE invites
			  SET accepted_at = NOW()
			  WHERE token = $1 AND accepted_at IS NULL`
	result, err := s.DB.ExecContext(ctx, query, token)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
