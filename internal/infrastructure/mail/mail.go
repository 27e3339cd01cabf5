// Package mail delivers notification messages over SMTP with go-mail.
package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/application/notification"
	"github.com/storefront/backend/internal/infrastructure/config"
)

const defaultSendTimeout = 10 * time.Second

// SMTPMailer sends messages through an SMTP relay
type SMTPMailer struct {
	client   *gomail.Client
	from     string
	fromName string
	timeout  time.Duration
}

// NewSMTPMailer builds a mailer from configuration. No connection is made
// until the first Send.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(tlsPolicy(cfg.TLSPolicy)),
		gomail.WithTimeout(timeout),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &SMTPMailer{
		client:   client,
		from:     cfg.From,
		fromName: cfg.FromName,
		timeout:  timeout,
	}, nil
}

func tlsPolicy(policy string) gomail.TLSPolicy {
	switch strings.ToLower(policy) {
	case "none":
		return gomail.NoTLS
	case "opportunistic":
		return gomail.TLSOpportunistic
	default:
		return gomail.TLSMandatory
	}
}

// Send delivers one message, bounded by the configured send timeout
func (m *SMTPMailer) Send(ctx context.Context, msg notification.Message) error {
	built, err := m.build(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.client.DialAndSendWithContext(ctx, built); err != nil {
		return fmt.Errorf("failed to send %q to %s: %w", msg.Subject, msg.To, err)
	}
	return nil
}

func (m *SMTPMailer) build(msg notification.Message) (*gomail.Msg, error) {
	out := gomail.NewMsg()
	if err := out.FromFormat(m.fromName, m.from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.from, err)
	}
	if err := out.AddToFormat(msg.ToName, msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	out.Subject(msg.Subject)

	switch {
	case msg.HTML != "" && msg.Text != "":
		out.SetBodyString(gomail.TypeTextPlain, msg.Text)
		out.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		out.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	default:
		out.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}
	return out, nil
}

// LogMailer logs messages instead of sending them. It is used when SMTP is disabled.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a logging mailer
func NewLogMailer(l *zap.Logger) *LogMailer {
	return &LogMailer{logger: l}
}

// Send logs the envelope of the message
func (m *LogMailer) Send(_ context.Context, msg notification.Message) error {
	m.logger.Info("email not sent, SMTP disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTML)),
		zap.Int("text_bytes", len(msg.Text)),
	)
	return nil
}

// New returns an SMTP mailer when enabled, otherwise a LogMailer
func New(cfg config.SMTPConfig, l *zap.Logger) (notification.Mailer, error) {
	if !cfg.Enabled {
		return NewLogMailer(l), nil
	}
	return NewSMTPMailer(cfg)
}

var (
	_ notification.Mailer = (*SMTPMailer)(nil)
	_ notification.Mailer = (*LogMailer)(nil)
)
