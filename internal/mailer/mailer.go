package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ErrIncompleteConfig is returned before any connection attempt when
// the transport settings are missing required fields.
var ErrIncompleteConfig = errors.New("mail transport is not configured")

// Config is the resolved SMTP transport configuration, merged from the
// persisted company settings and the environment defaults.
type Config struct {
	Host     string
	Port     int
	Secure   bool
	User     string
	Password string
	FromName string
	FromAddr string
}

// Validate fails fast on settings that cannot possibly send.
func (c Config) Validate() error {
	if c.Host == "" || c.Port == 0 || c.FromAddr == "" {
		return ErrIncompleteConfig
	}
	return nil
}

// Attachment is a file attached to an outgoing message.
type Attachment struct {
	Filename string
	Content  []byte
}

// Message is one outbound notification email.
type Message struct {
	To          string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

// Sender transmits a message. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ConfigResolver supplies the transport settings at send time, so
// changes saved through the settings API apply without a restart.
type ConfigResolver func() (Config, error)

// SMTPSender sends mail over SMTP with bounded retries and exponential
// backoff between attempts.
type SMTPSender struct {
	resolve     ConfigResolver
	logger      *zap.Logger
	maxAttempts int
	baseBackoff time.Duration

	// dial is swapped out in tests
	dial func(cfg Config, m *gomail.Message) error
}

func NewSMTPSender(resolve ConfigResolver, logger *zap.Logger) *SMTPSender {
	return &SMTPSender{
		resolve:     resolve,
		logger:      logger,
		maxAttempts: 3,
		baseBackoff: 500 * time.Millisecond,
		dial:        dialAndSend,
	}
}

func dialAndSend(cfg Config, m *gomail.Message) error {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	d.SSL = cfg.Secure
	return d.DialAndSend(m)
}

// Send resolves the transport config, builds the message and transmits
// it, retrying transient failures. The error of the last attempt is
// returned once retries are exhausted.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	cfg, err := s.resolve()
	if err != nil {
		return fmt.Errorf("resolve mail config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", cfg.FromAddr, cfg.FromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)
	for _, att := range msg.Attachments {
		content := att.Content
		m.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	var lastErr error
	backoff := s.baseBackoff
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = s.dial(cfg, m)
		if lastErr == nil {
			return nil
		}
		s.logger.Warn("mail send attempt failed",
			zap.Int("attempt", attempt),
			zap.String("to", msg.To),
			zap.Error(lastErr),
		)
		if attempt < s.maxAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return fmt.Errorf("send mail to %s: %w", msg.To, lastErr)
}
