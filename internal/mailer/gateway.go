// Package mailer delivers the transactional emails sent by the backends.
package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/eatwell/eatwell-backend/config"
	"github.com/eatwell/eatwell-backend/pkg/logger"
)

var ErrNotConfigured = errors.New("smtp not configured")

// Gateway sends a plain text email. Implementations must be safe for concurrent use.
type Gateway interface {
	Send(to, subject, body string) error
}

// SMTPGateway sends mail through an authenticated SMTP relay.
type SMTPGateway struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

func NewSMTPGateway(host string, port int, user, password, from string) *SMTPGateway {
	if from == "" {
		from = user
	}
	return &SMTPGateway{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
	}
}

func (g *SMTPGateway) Send(to, subject, body string) error {
	if g == nil || g.host == "" || g.user == "" {
		return ErrNotConfigured
	}

	addr := fmt.Sprintf("%s:%d", g.host, g.port)
	auth := smtp.PlainAuth("", g.user, g.password, g.host)
	if err := smtp.SendMail(addr, auth, g.from, []string{to}, buildMessage(g.from, to, subject, body)); err != nil {
		logger.Error("Failed to send email", err, map[string]interface{}{
			"to":      to,
			"subject": subject,
		})
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	logger.Info("Email sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// LogGateway writes messages to the log instead of sending them.
// Used in development when no SMTP credentials are configured.
type LogGateway struct{}

func (LogGateway) Send(to, subject, body string) error {
	logger.Info("[DEV MODE] Email not sent", map[string]interface{}{
		"to":      to,
		"subject": subject,
		"body":    body,
	})
	return nil
}

// NewGateway picks the SMTP gateway when credentials exist and the log gateway otherwise.
func NewGateway(cfg *config.MailConfig) Gateway {
	if cfg.SMTPConfigured() {
		return NewSMTPGateway(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.From)
	}
	logger.Warn("SMTP credentials missing, emails will only be logged", map[string]interface{}{
		"host": cfg.Host,
	})
	return LogGateway{}
}
