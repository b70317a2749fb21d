// Package mailer delivers ranking results by email.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/wneessen/go-mail"
)

const DefaultSubject = "TOPSIS Result"

var (
	ErrNotConfigured  = errors.New("email credentials not configured")
	ErrInvalidAddress = errors.New("invalid email address")
)

var addressRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidAddress is a shape check only: one @ and a dotted domain.
func ValidAddress(addr string) bool {
	return addressRe.MatchString(strings.TrimSpace(addr))
}

type Attachment struct {
	Name string
	Path string
	Data []byte
}

type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPSender sends through one SMTP server with STARTTLS and plain auth. The
// account name doubles as the From address.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if strings.TrimSpace(cfg.Username) == "" || cfg.Password == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Host == "" {
		cfg.Host = "smtp.gmail.com"
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := s.build(msg)
	if err != nil {
		return err
	}
	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message) (*mail.Msg, error) {
	if !ValidAddress(msg.To) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, msg.To)
	}
	m := mail.NewMsg()
	if err := m.From(s.cfg.Username); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(strings.TrimSpace(msg.To)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	subject := msg.Subject
	if subject == "" {
		subject = DefaultSubject
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	for _, a := range msg.Attachments {
		switch {
		case a.Path != "":
			if a.Name != "" {
				m.AttachFile(a.Path, mail.WithFileName(a.Name))
			} else {
				m.AttachFile(a.Path)
			}
		case a.Data != nil:
			if err := m.AttachReader(a.Name, bytes.NewReader(a.Data)); err != nil {
				return nil, fmt.Errorf("attach %s: %w", a.Name, err)
			}
		}
	}
	return m, nil
}
