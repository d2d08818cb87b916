package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Bharat0709/linkedai-backend/internal/models"
)

// CreateScheduledPost вставляет новую отложенную публикацию и возвращает её ID.
func (s *Storage) CreateScheduledPost(ctx context.Context, post models.ScheduledPost) (int, error) {
	const op = "storage.CreateScheduledPost"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO scheduled_posts (principal_uid, content, scheduled_at, status)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		post.PrincipalUID, post.Content, post.ScheduledAt, post.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListScheduledPosts возвращает публикации принципала с пагинацией.
func (s *Storage) ListScheduledPosts(ctx context.Context, principalUID string, limit, offset int) ([]*models.ScheduledPost, error) {
	const op = "storage.ListScheduledPosts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, principal_uid, content, scheduled_at, status, created_at
			  FROM scheduled_posts
			  WHERE principal_uid = $1
			  ORDER BY scheduled_at
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, principalUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.ScheduledPost
	for rows.Next() {
		var post models.ScheduledPost
		if err = rows.Scan(&post.ID, &post.PrincipalUID, &post.Content,
			&post.ScheduledAt, &post.Status, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &post)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveScheduledPost удаляет еще не опубликованную публикацию принципала
// и возвращает количество удалённых строк.
func (s *Storage) RemoveScheduledPost(ctx context.Context, id int, principalUID string) (int, error) {
	const op = "storage.RemoveScheduledPost"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM scheduled_posts
			  WHERE id = $1 AND principal_uid = $2 AND status = $3`
	result, err := s.DB.ExecContext(ctx, query, id, principalUID, models.PostStatusScheduled)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ClaimDuePosts атомарно помечает созревшие публикации как поставленные
// в очередь и возвращает всё нужное воркеру публикации. Повторный вызов
// не вернет уже захваченные записи.
func (s *Storage) ClaimDuePosts(ctx context.Context, now time.Time) ([]*models.PostDueInfo, error) {
	const op = "storage.ClaimDuePosts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE scheduled_posts AS sp
			  SET status = $1
			  FROM principals AS p
			  WHERE sp.principal_uid = p.uid
			      AND sp.status = $2
			      AND sp.scheduled_at <= $3
			  RETURNING sp.id, sp.principal_uid, p.email, p.username, sp.content,
			      COALESCE(p.linkedin_urn, ''), COALESCE(p.linkedin_token, '')`
	rows, err := s.DB.QueryContext(ctx, query, models.PostStatusQueued, models.PostStatusScheduled, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	var result []*models.PostDueInfo
	for rows.Next() {
		var info models.PostDueInfo
		if err = rows.Scan(&info.PostID, &info.PrincipalUID, &info.Email,
			&info.Username, &info.Content, &info.LinkedInURN, &info.LinkedInToken); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePostStatus переводит публикацию в конечный статус.
func (s *Storage) UpdatePostStatus(ctx context.Context, id int, status string) error {
	const op = "storage.UpdatePostStatus"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE scheduled_posts SET status = $1 WHERE id = $2`
	_, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
