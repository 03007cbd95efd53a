// Пакет mailer отправляет администратору уведомления о новых сообщениях по SMTP
package mailer

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"CoffeeMill/internal/model"
)

// Sender - минимальный интерфейс отправки писем (*gomail.Dialer)
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Config описывает SMTP-сервер и адреса писем
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
	AdminURL string
}

// Mailer формирует HTML-письмо и отправляет его через Sender
type Mailer struct {
	sender Sender
	cfg    Config
}

// New создаёт Mailer с SMTP-диалером gomail
func New(cfg Config) *Mailer {
	return &Mailer{sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password), cfg: cfg}
}

// NewWithSender создаёт Mailer с произвольным Sender
func NewWithSender(sender Sender, cfg Config) *Mailer {
	return &Mailer{sender: sender, cfg: cfg}
}

// Notify отправляет письмо о новом сообщении msg
func (m *Mailer) Notify(ctx context.Context, msg model.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	email := gomail.NewMessage()
	email.SetHeader("From", m.cfg.From)
	email.SetHeader("To", m.cfg.To)
	email.SetHeader("Subject", "New Message!")
	email.SetBody("text/html", renderBody(msg, m.cfg.AdminURL))
	if err := m.sender.DialAndSend(email); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// renderBody собирает HTML письма; пользовательский ввод экранируется
func renderBody(msg model.Message, adminURL string) string {
	name := "Unknown"
	if msg.Name != nil && *msg.Name != "" {
		name = *msg.Name
	}
	var b strings.Builder
	b.WriteString("<h2><b>You have a new message!</b></h2>")
	fmt.Fprintf(&b, "<p><b>From: </b> %s</p>", html.EscapeString(name))
	fmt.Fprintf(&b, "<p><b>Their Contact info: </b> %s</p>", html.EscapeString(msg.ContactInfo))
	fmt.Fprintf(&b, "<p><b>Their Message: </b> %s</p></br></br>", html.EscapeString(msg.Body))
	fmt.Fprintf(&b, `<p><i>Alternatively, to view and manage all your messages, go to your <a href="%s">admin page</a></i></p>`, adminURL)
	return b.String()
}
