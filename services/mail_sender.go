package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	FromName  string
	FromEmail string
}

// MailSender mirrors reservation notifications by email. Recipients without
// an address are skipped.
type MailSender struct {
	cfg     SMTPConfig
	deliver func(ctx context.Context, m *mail.Msg) error
}

func NewMailSender(cfg SMTPConfig) *MailSender {
	s := &MailSender{cfg: cfg}
	s.deliver = s.dialAndSend
	return s
}

func (s *MailSender) Send(ctx context.Context, to Recipient, message string) error {
	if strings.TrimSpace(to.Email) == "" {
		return nil
	}
	m, err := s.buildMessage(to, message)
	if err != nil {
		return err
	}
	return s.deliver(ctx, m)
}

func (s *MailSender) buildMessage(to Recipient, message string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail)); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(to.Email); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", to.Email, err)
	}
	m.Subject(mailSubject(message))

	greeting := "Hello"
	if to.Name != "" {
		greeting = "Hello " + to.Name
	}
	m.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("%s,\n\n%s\n\n%s\n", greeting, message, s.cfg.FromName))
	return m, nil
}

// mailSubject is the event part of the message, before the first bullet.
func mailSubject(message string) string {
	head, _, _ := strings.Cut(message, " • ")
	return fmt.Sprintf("[Reservation] %s", strings.TrimSpace(head))
}

func (s *MailSender) dialAndSend(ctx context.Context, m *mail.Msg) error {
	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.User),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("create SMTP client (host=%s port=%d): %w", s.cfg.Host, s.cfg.Port, err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		log.Printf("SMTP: send via %s:%d failed: %v", s.cfg.Host, s.cfg.Port, err)
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
