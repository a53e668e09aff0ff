package auth

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/nashikconnect/vyapaar/config"
)

// Mailer delivers plain text mail.
type Mailer interface {
	Send(to, subject, body string) error
}

// SMTPMailer sends through the configured SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Passwd),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return errors.Wrap(m.dialer.DialAndSend(msg), "send mail")
}

// LogMailer writes mail to the log, used when no SMTP host is configured.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	zap.L().Info("mail", zap.String("to", to), zap.String("subject", subject), zap.String("body", body),
		zap.String("namespace", "auth"))
	return nil
}

// NewMailer picks SMTP when a host is configured.
func NewMailer(cfg config.MailConfig) Mailer {
	if cfg.Host == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

// MemoryMailer keeps sent mail in memory.
type MemoryMailer struct {
	mu   sync.Mutex
	Sent []Mail
}

type Mail struct {
	To      string
	Subject string
	Body    string
}

func (m *MemoryMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, Mail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *MemoryMailer) Last() (Mail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return Mail{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}
