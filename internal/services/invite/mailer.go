package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Bharat0709/linkedai-backend/internal/lib/smtp"
)

// Transport почтовый транспорт для писем с приглашениями.
type Transport interface {
	Connect() (smtp.Client, error)
	GetSMTPUser() string
}

// SMTPMailer отправляет письма с приглашениями через SMTP.
type SMTPMailer struct {
	transport Transport
	log       *slog.Logger
	// Адрес страницы принятия приглашения, токен подставляется в конец.
	acceptURL string
}

// NewSMTPMailer создает новый экземпляр SMTPMailer.
func NewSMTPMailer(transport Transport, log *slog.Logger, acceptURL string) *SMTPMailer {
	return &SMTPMailer{
		transport: transport,
		log:       log,
		acceptURL: acceptURL,
	}
}

// SendInvite отправляет письмо с одноразовой ссылкой на принятие приглашения.
func (m *SMTPMailer) SendInvite(email, token string) error {
	subject := "Приглашение в организацию на LinkedAI"
	bodyText := fmt.Sprintf("Здравствуйте!\n\nВас пригласили присоединиться к организации на LinkedAI.\n\nДля принятия приглашения перейдите по ссылке: %s%s\n\nСсылка действительна 7 дней.",
		m.acceptURL, token)

	msg := strings.Join([]string{
		"From: " + m.transport.GetSMTPUser(),
		"To: " + email,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := m.transport.Connect()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(m.transport.GetSMTPUser()); err != nil {
		return err
	}
	if err := client.Rcpt(email); err != nil {
		return err
	}
	wc, err := client.Data()
	if err != nil {
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		return err
	}
	if err = wc.Close(); err != nil {
		return err
	}
	if err = client.Quit(); err != nil {
		return err
	}

	m.log.Info("invite email sent", slog.String("email", email))
	return nil
}
