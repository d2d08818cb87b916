package models

import "time"

// HiringLead представляет отклик кандидата, захваченный через публичную
// страницу принципала.
type HiringLead struct {
	ID           int       `json:"id"`
	PrincipalUID string    `json:"principal_uid"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Position     string    `json:"position"`
	Note         string    `json:"note"`
	CreatedAt    time.Time `json:"created_at"`
}

// DummyLead используется для приёма данных лида из JSON-запроса.
type DummyLead struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Position string `json:"position" validate:"required"`
	Note     string `json:"note"`
}
