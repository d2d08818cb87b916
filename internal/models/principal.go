// Package models содержит доменную модель принципала — держателя кредитного
// баланса. Принципалом может быть обычный пользователь, организация или
// участник организации; вид задается единственным дискриминантом Kind.
package models

import "time"

// Kind вид принципала. Единственный дискриминант вместо набора булевых флагов.
type Kind string

const (
	// KindUser — самостоятельный пользователь.
	KindUser Kind = "user"
	// KindOrganization — организация.
	KindOrganization Kind = "organization"
	// KindMember — участник организации, приглашенный по инвайту.
	KindMember Kind = "member"
)

// Valid сообщает, известен ли вид принципала.
func (k Kind) Valid() bool {
	switch k {
	case KindUser, KindOrganization, KindMember:
		return true
	}
	return false
}

// Principal представляет держателя кредитного баланса.
//
// Инварианты: Credits >= 0 во всех наблюдаемых состояниях,
// TotalCreditsUsed только растет. Оба поля меняются только атомарными
// условными апдейтами в хранилище, никогда слепой перезаписью записи.
type Principal struct {
	UID              string     // Уникальный идентификатор
	Email            string     // Электронная почта
	Username         string     // Имя пользователя (уникальное)
	PasswordHash     string     // Хэш пароля
	Role             string     // Роль, admin или user
	Kind             Kind       // Вид принципала
	OrgUID           *string    // UID организации для участников, иначе nil
	Credits          int        // Текущий баланс кредитов
	TotalCreditsUsed int        // Суммарно списанные кредиты
	LinkedInURN      *string    // URN подключенного LinkedIn-аккаунта
	LinkedInToken    *string    // Токен доступа LinkedIn для публикации
	LeadToken        string     // Токен публичной страницы захвата лидов
	DeactivatedAt    *time.Time // Дата мягкой деактивации, nil для живых записей
	CreatedAt        time.Time
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required,min=8"`
	Kind     string `json:"kind" validate:"required,oneof=user organization"`
}

// DummyLogin используется для приёма данных входа из JSON-запроса.
type DummyLogin struct {
	Username string `json:"username" validate:"required,alphanum"`
	Password string `json:"password" validate:"required"`
}
