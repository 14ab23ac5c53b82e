package notify

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConfirmationURL(t *testing.T) {
	require.Equal(t,
		"https://tickets.example.com/api/confirm?username=alice&token=-17",
		ConfirmationURL("tickets.example.com", "alice", -17))

	require.Equal(t,
		"https://localhost/api/confirm?username=a%26b&token=5",
		ConfirmationURL("localhost", "a&b", 5))
}

func TestDiscardNotifier_RecordsMessage(t *testing.T) {
	n, err := NewDiscardNotifier("", testLogger())
	require.NoError(t, err)

	err = n.Send(context.Background(), "localhost", "alice", 1234)
	require.NoError(t, err)

	sent := n.Sent()
	require.Len(t, sent, 1)
	msg := sent[0]
	require.Equal(t, "alice@husky.neu.edu", msg.To)
	require.Equal(t, "alice", msg.Recipient)
	require.Equal(t, int64(1234), msg.Token)
	require.Equal(t, "https://localhost/api/confirm?username=alice&token=1234", msg.URL)
	require.Contains(t, msg.Body, msg.URL)
	require.True(t, strings.HasPrefix(msg.Body, "Hey alice"))
	require.NotEmpty(t, msg.ID)
}

func TestDiscardNotifier_CustomSuffix(t *testing.T) {
	n, err := NewDiscardNotifier("@example.org", testLogger())
	require.NoError(t, err)

	require.NoError(t, n.Send(context.Background(), "localhost", "bob", 1))
	require.Equal(t, "bob@example.org", n.Sent()[0].To)
}

func TestDiscardNotifier_RejectsUnaddressableRecipient(t *testing.T) {
	n, err := NewDiscardNotifier("", testLogger())
	require.NoError(t, err)

	err = n.Send(context.Background(), "localhost", "", 1)
	require.Error(t, err)
	require.Empty(t, n.Sent())
}

func TestNewSMTPNotifier_RequiresHost(t *testing.T) {
	_, err := NewSMTPNotifier(SMTPConfig{Username: "u", Password: "p"}, testLogger())
	require.Error(t, err)
}

func TestSMTPNotifier_FailsWhenUnreachable(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())

	n, err := NewSMTPNotifier(SMTPConfig{
		Host:     "127.0.0.1",
		Port:     port,
		Username: "sender@example.org",
		Password: "secret",
		Timeout:  2 * time.Second,
	}, testLogger())
	require.NoError(t, err)

	err = n.Send(context.Background(), "localhost", "alice", 1)
	require.Error(t, err)
}
