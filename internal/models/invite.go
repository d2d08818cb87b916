package models

import "time"

// Invite представляет приглашение участника в организацию.
// Токен одноразовый, срок действия ограничен.
type Invite struct {
	ID         int        `json:"id"`
	OrgUID     string     `json:"org_uid"`
	Email      string     `json:"email"`
	Token      string     `json:"token"`
	ExpiresAt  time.Time  `json:"expires_at"`
	AcceptedAt *time.Time `json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// DummyInvite используется для приёма данных приглашения из JSON-запроса.
type DummyInvite struct {
	Email string `json:"email" validate:"required,email"`
}

// DummyInviteAccept используется для приёма данных принятия приглашения.
type DummyInviteAccept struct {
	Token    string `json:"token" validate:"required,uuid"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
}
