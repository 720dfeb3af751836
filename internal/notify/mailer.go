package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("internal/notify")

// Message is a single plain text email.
type Message struct {
	To      string
	Subject string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type SMTPMailer struct {
	config SmtpConfig
}

func NewSMTPMailer(config SmtpConfig) SMTPMailer {
	return SMTPMailer{config: config}
}

func (m SMTPMailer) Send(ctx context.Context, msg Message) error {
	_, span := tracer.Start(ctx, "Send")
	defer span.End()
	span.SetAttributes(attribute.String("subject", msg.Subject))

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Göteborg Farligt Avfall <%s>", m.config.EmailAddress)
	mail.To = []string{msg.To}
	mail.Subject = msg.Subject
	mail.Text = []byte(msg.Text)

	addr := fmt.Sprintf("%s:%d", m.config.Server, m.config.Port)
	err := mail.Send(
		addr,
		smtp.PlainAuth("", m.config.EmailAddress, m.config.Password, m.config.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
