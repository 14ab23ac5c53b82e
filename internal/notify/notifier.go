// Package notify delivers confirmation tokens to the users who registered them.
package notify

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jaevor/go-nanoid"
	"github.com/wneessen/go-mail"
)

const (
	Subject       = "Commencement Ticket Resell Confirmation"
	DefaultSuffix = "@husky.neu.edu"
)

// Notifier sends a confirmation token to recipient. A returned error means the
// token was not delivered and the registration must not be persisted.
type Notifier interface {
	Send(ctx context.Context, domain, recipient string, token int64) error
}

// ConfirmationURL is the link embedded in every confirmation message.
func ConfirmationURL(domain, username string, token int64) string {
	return fmt.Sprintf("https://%s/api/confirm?username=%s&token=%d",
		domain, url.QueryEscape(username), token)
}

func confirmationText(username, link string) string {
	return fmt.Sprintf("Hey %s, thanks for registering. Login with this url %s", username, link)
}

// Message is a composed confirmation, kept alongside the wire form for logging
// and inspection.
type Message struct {
	ID        string
	From      string
	To        string
	Recipient string
	Token     int64
	URL       string
	Body      string
}

type composer struct {
	from   string
	suffix string
	newID  func() string
}

func newComposer(from, suffix string) (*composer, error) {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	gen, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize message id generator: %w", err)
	}
	return &composer{from: from, suffix: suffix, newID: gen}, nil
}

func (c *composer) compose(domain, recipient string, token int64) (*mail.Msg, Message, error) {
	link := ConfirmationURL(domain, recipient, token)
	info := Message{
		ID:        c.newID(),
		From:      c.from,
		To:        recipient + c.suffix,
		Recipient: recipient,
		Token:     token,
		URL:       link,
		Body:      confirmationText(recipient, link),
	}

	m := mail.NewMsg()
	if err := m.From(info.From); err != nil {
		return nil, info, fmt.Errorf("invalid sender address %q: %w", info.From, err)
	}
	if err := m.To(info.To); err != nil {
		return nil, info, fmt.Errorf("invalid recipient address %q: %w", info.To, err)
	}
	m.Subject(Subject)
	m.SetDate()
	m.SetGenHeader(mail.HeaderMessageID, fmt.Sprintf("<%s@%s>", info.ID, domain))
	m.SetBodyString(mail.TypeTextPlain, info.Body)
	return m, info, nil
}
