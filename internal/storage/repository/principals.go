package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Bharat0709/linkedai-backend/internal/models"
)

// RegisterPrincipal сохраняет нового принципала и возвращает его UID.
func (s *Storage) RegisterPrincipal(ctx context.Context, p models.Principal) (string, error) {
	const op = "storage.RegisterPrincipal"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO principals (email, username, password_hash, role, kind,
			      org_uid, credits, total_credits_used, lead_token)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		p.Email, p.Username, p.PasswordHash, p.Role, p.Kind,
		p.OrgUID, p.Credits, p.TotalCreditsUsed, p.LeadToken).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetPrincipalByUsername возвращает живого принципала по имени пользователя.
func (s *Storage) GetPrincipalByUsername(ctx context.Context, username string) (*models.Principal, error) {
	const op = "storage.GetPrincipalByUsername"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, kind, org_uid,
			      credits, total_credits_used, linkedin_urn, linkedin_token,
			      lead_token, created_at
			  FROM principals
			  WHERE username = $1 AND deactivated_at IS NULL`
	return s.scanPrincipal(s.DB.QueryRowContext(ctx, query, username), op)
}

// GetPrincipal возвращает живого принципала по его UID.
func (s *Storage) GetPrincipal(ctx context.Context, principalUID string) (*models.Principal, error) {
	const op = "storage.GetPrincipal"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, kind, org_uid,
			      credits, total_credits_used, linkedin_urn, linkedin_token,
			      lead_token, created_at
			  FROM principals
			  WHERE uid = $1 AND deactivated_at IS NULL`
	return s.scanPrincipal(s.DB.QueryRowContext(ctx, query, principalUID), op)
}

// GetPrincipalByLeadToken возвращает живого принципала по токену страницы лидов.
func (s *Storage) GetPrincipalByLeadToken(ctx context.Context, leadToken string) (*models.Principal, error) {
	const op = "storage.GetPrincipalByLeadToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, role, kind, org_uid,
			      credits, total_credits_used, linkedin_urn, linkedin_token,
			      lead_token, created_at
			  FROM principals
			  WHERE lead_token = $1 AND deactivated_at IS NULL`
	return s.scanPrincipal(s.DB.QueryRowContext(ctx, query, leadToken), op)
}

func (s *Storage) scanPrincipal(row *sql.Row, op string) (*models.Principal, error) {
	p := &models.Principal{}
	var orgUID, linkedInURN, linkedInToken sql.NullString
	if err := row.Scan(&p.UID, &p.Email, &p.Username, &p.PasswordHash, &p.Role,
		&p.Kind, &orgUID, &p.Credits, &p.TotalCreditsUsed, &linkedInURN,
		&linkedInToken, &p.LeadToken, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if orgUID.Valid {
		p.OrgUID = &orgUID.String
	}
	if linkedInURN.Valid {
		p.LinkedInURN = &linkedInURN.String
	}
	if linkedInToken.Valid {
		p.LinkedInToken = &linkedInToken.String
	}
	return p, nil
}

// DebitCredits атомарно списывает cost кредитов, только если текущий баланс
// не меньше стоимости. Второй результат false — условие не выполнено, запись
// не тронута. Счетчик использованных кредитов здесь не меняется: он растет
// только в CommitCreditsUsed после успешной работы и потому никогда не убывает.
func (s *Storage) DebitCredits(ctx context.Context, principalUID string, cost int) (int, bool, error) {
	const op = "storage.DebitCredits"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE principals
			  SET credits = credits - $1
			  WHERE uid = $2 AND credits >= $1 AND deactivated_at IS NULL
			  RETURNING credits`
	var remaining int
	err := s.DB.QueryRowContext(ctx, query, cost, principalUID).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return remaining, true, nil
}

// CommitCreditsUsed фиксирует успешное списание, увеличивая счетчик
// использованных кредитов. Вызывается только после успешной работы,
// поэтому счетчик монотонно растет.
func (s *Storage) CommitCreditsUsed(ctx context.Context, principalUID string, cost int) error {
	const op = "storage.CommitCreditsUsed"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE principals
			  SET total_credits_used = total_credits_used + $1
			  WHERE uid = $2`
	res, err := s.DB.ExecContext(ctx, query, cost, principalUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: principal not found", op)
	}
	return nil
}

// RefundCredits обращает ранее примененное списание, возвращая кредиты на
// баланс. Счетчик использованных не трогается: неуспешная работа его
// не увеличивала.
func (s *Storage) RefundCredits(ctx context.Context, principalUID string, cost int) (int, error) {
	const op = "storage.RefundCredits"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE principals
			  SET credits = credits + $1
			  WHERE uid = $2
			  RETURNING credits`
	var balance int
	if err := s.DB.QueryRowContext(ctx, query, cost, principalUID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// GrantCredits атомарно начисляет кредиты принципалу.
func (s *Storage) GrantCredits(ctx context.Context, principalUID string, amount int) (int, error) {
	const op = "storage.GrantCredits"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE principals
			  SET credits = credits + $1
			  WHERE uid = $2 AND deactivated_at IS NULL
			  RETURNING credits`
	var balance int
	if err := s.DB.QueryRowContext(ctx, query, amount, principalUID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return balance, nil
}

// GrantMemberCredits атомарно начисляет кредиты участнику организации.
// Второй результат false — принципал не найден, деактивирован или
// не принадлежит этой организации; запись не изменена.
func (s *Storage) GrantMemberCredits(ctx context.Context, orgUID, principalUID string, amount int) (int, bool, error) {
	const op = "storage.GrantMemberCredits"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE principals
			  SET credits = credits + $1
			  WHERE uid = $2 AND org_uid = $3 AND deactivated_at IS NULL
			  RETURNING credits`
	var balance int
	err := s.DB.QueryRowContext(ctx, query, amount, principalUID, orgUID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return balance, true, nil
}

// SetLinkedInAccount сохраняет URN и токен подключенного LinkedIn-аккаунта.
func (s *Storage) SetLinkedInAccount(ctx context.Context, principalUID, urn, token string) error {
	const op = "storage.SetLinkedInAccount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE principals
			  SET linkedin_urn = $1, linkedin_token = $2
			  WHERE uid = $3 AND deactivated_at IS NULL`
	_, err := s.DB.ExecContext(ctx, query, urn, token, principalUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeactivatePrincipal мягко деактивирует принципала, запись не удаляется.
func (s *Storage) DeactivatePrincipal(ctx context.Context, principalUID string) error {
	const op = "storage.DeactivatePrincipal"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE principals
			  SET deactivated_at = NOW()
			  WHERE uid = $1 AND deactivated_at IS NULL`
	_, err := s.DB.ExecContext(ctx, query, principalUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
