package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"commencement-tickets/internal/metrics"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Suffix   string
	Timeout  time.Duration
}

// SMTPNotifier delivers confirmations over an authenticated STARTTLS session.
type SMTPNotifier struct {
	cfg      SMTPConfig
	composer *composer
	logger   *slog.Logger
}

func NewSMTPNotifier(cfg SMTPConfig, logger *slog.Logger) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.Port == 0 {
		cfg.Port = mail.DefaultPortTLS
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = mail.DefaultTimeout
	}
	c, err := newComposer(cfg.From, cfg.Suffix)
	if err != nil {
		return nil, err
	}
	return &SMTPNotifier{
		cfg:      cfg,
		composer: c,
		logger:   logger.With("component", "notify", "transport", "smtp"),
	}, nil
}

func (n *SMTPNotifier) Send(ctx context.Context, domain, recipient string, token int64) (err error) {
	defer func() {
		metrics.NotificationsTotal.WithLabelValues("smtp", metrics.Result(err)).Inc()
	}()

	msg, info, err := n.composer.compose(domain, recipient, token)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(n.cfg.Host,
		mail.WithTLSPortPolicy(mail.TLSMandatory),
		mail.WithPort(n.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(n.cfg.Username),
		mail.WithPassword(n.cfg.Password),
		mail.WithTimeout(n.cfg.Timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	n.logger.InfoContext(ctx, "sending confirmation", "message_id", info.ID, "to", info.To)
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to deliver confirmation to %s: %w", info.To, err)
	}
	return nil
}
