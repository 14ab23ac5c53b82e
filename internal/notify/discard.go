package notify

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"commencement-tickets/internal/metrics"
)

const discardSender = "mock-emailer@localhost"

// DiscardNotifier composes confirmations exactly like SMTPNotifier but only
// logs them. It is used when no mail credentials are configured.
type DiscardNotifier struct {
	composer *composer
	logger   *slog.Logger

	mu   sync.Mutex
	sent []Message
}

func NewDiscardNotifier(suffix string, logger *slog.Logger) (*DiscardNotifier, error) {
	c, err := newComposer(discardSender, suffix)
	if err != nil {
		return nil, err
	}
	return &DiscardNotifier{
		composer: c,
		logger:   logger.With("component", "notify", "transport", "discard"),
	}, nil
}

func (n *DiscardNotifier) Send(ctx context.Context, domain, recipient string, token int64) (err error) {
	defer func() {
		metrics.NotificationsTotal.WithLabelValues("discard", metrics.Result(err)).Inc()
	}()

	msg, info, err := n.composer.compose(domain, recipient, token)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return err
	}
	n.logger.InfoContext(ctx, "would have sent confirmation",
		"message_id", info.ID, "to", info.To, "message", buf.String())

	n.mu.Lock()
	n.sent = append(n.sent, info)
	n.mu.Unlock()
	return nil
}

// Sent returns a copy of every message composed so far.
func (n *DiscardNotifier) Sent() []Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Message, len(n.sent))
	copy(out, n.sent)
	return out
}
