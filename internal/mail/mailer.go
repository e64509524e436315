package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"time"

	"github.com/rs/zerolog"

	model "taskflow.com/taskflow/internal/models"
)

// Mailer sends the due-date reminder mail the daily scan produces for users
// who opted into email notifications.
type Mailer interface {
	SendDueDateReminder(ctx context.Context, user *model.User, task *model.Task) error
}

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	User     string
	Password string
}

type SMTPMailer struct {
	cfg    SMTPConfig
	logger zerolog.Logger
}

func NewSMTPMailer(cfg SMTPConfig, logger zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) SendDueDateReminder(_ context.Context, user *model.User, task *model.Task) error {
	due := ""
	if task.DueDate != nil {
		due = task.DueDate.Format(time.DateOnly)
	}

	body := fmt.Sprintf(
		"To: %s\r\nFrom: %s\r\nSubject: Task Due Tomorrow\r\n\r\nHi %s,\r\n\r\nYour task \"%s\" is due on %s.\r\n",
		user.Email, m.cfg.From, user.Name, task.Title, due,
	)

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	addr := m.cfg.Host + ":" + m.cfg.Port
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{user.Email}, []byte(body)); err != nil {
		return fmt.Errorf("send reminder to %s: %w", user.Email, err)
	}

	m.logger.Debug().Str("to", user.Email).Str("task", task.ID).Msg("reminder mail sent")
	return nil
}

// NoopMailer stands in when SMTP is not configured.
type NoopMailer struct{}

func (NoopMailer) SendDueDateReminder(context.Context, *model.User, *model.Task) error {
	return nil
}
