package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer builds a mailer for host:port. Username may be empty for
// relays that accept unauthenticated mail.
func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

func (m *SMTPMailer) Send(_ context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return nil
	}

	msg := strings.Builder{}
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	return smtp.SendMail(m.addr, m.auth, m.from, to, []byte(msg.String()))
}

// DevConsoleMailer logs mail instead of sending it, for local development.
type DevConsoleMailer struct {
	log *zap.Logger
}

func NewDevConsoleMailer(log *zap.Logger) *DevConsoleMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &DevConsoleMailer{log: log}
}

func (m *DevConsoleMailer) Send(_ context.Context, to []string, subject, body string) error {
	m.log.Info("dev email",
		zap.Strings("to", to),
		zap.String("subject", subject),
		zap.String("body", body))
	return nil
}
