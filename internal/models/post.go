// Package models содержит доменные структуры отложенных публикаций,
// а также вспомогательные типы для работы с данными из JSON-запросов.
package models

import "time"

// Статусы отложенной публикации.
const (
	PostStatusScheduled = "scheduled"
	PostStatusQueued    = "queued"
	PostStatusPublished = "published"
	PostStatusFailed    = "failed"
)

// ScheduledPost представляет собой отложенную публикацию в LinkedIn.
type ScheduledPost struct {
	ID           int       // Идентификатор записи
	PrincipalUID string    // Владелец публикации
	Content      string    // Текст поста
	ScheduledAt  time.Time // Когда публиковать
	Status       string    // scheduled, queued, published, failed
	CreatedAt    time.Time
}

// DummyScheduledPost используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в ScheduledPost. Дата приходит строкой
// в формате RFC3339, чтобы её можно было валидировать и парсить вручную.
type DummyScheduledPost struct {
	Content     string `json:"content" validate:"required"`
	ScheduledAt string `json:"scheduled_at" validate:"required"`
}

// PostDueInfo сообщение для очереди публикации: всё, что нужно воркеру,
// чтобы опубликовать пост и уведомить автора при неудаче.
type PostDueInfo struct {
	PostID        int    `json:"post_id"`
	PrincipalUID  string `json:"principal_uid"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Content       string `json:"content"`
	LinkedInURN   string `json:"linkedin_urn"`
	LinkedInToken string `json:"linkedin_token"`
}
