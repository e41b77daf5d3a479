package notify

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	subject, body := PasswordResetMessage("Alice", "https://slipwise.test/reset-password?token=abc", time.Hour)

	msg, err := newMessage("Slipwise <bills@slipwise.test>", "alice@example.com", subject, body)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	raw := buf.String()
	assert.Contains(t, raw, "Subject: Reset your Slipwise password")
	assert.Contains(t, raw, "<alice@example.com>")
	assert.Contains(t, raw, "<bills@slipwise.test>")
	assert.Contains(t, raw, "Hi Alice,")
	assert.Contains(t, raw, "https://slipwise.test/reset-password?token=abc")
	assert.Contains(t, raw, "expires in 1h0m0s")
}

func TestNewMessageRejectsBadAddresses(t *testing.T) {
	_, err := newMessage("not an address", "alice@example.com", "s", "b")
	assert.ErrorContains(t, err, "invalid sender")

	_, err = newMessage("bills@slipwise.test", "", "s", "b")
	assert.ErrorContains(t, err, "invalid recipient")
}

func TestNewSMTPMailer(t *testing.T) {
	t.Run("missing host", func(t *testing.T) {
		_, err := NewSMTPMailer(SMTPConfig{Port: 587, From: "bills@slipwise.test"})
		assert.Error(t, err)
	})

	t.Run("bad sender", func(t *testing.T) {
		_, err := NewSMTPMailer(SMTPConfig{Host: "localhost", Port: 587, From: "nope"})
		assert.ErrorContains(t, err, "invalid sender")
	})

	t.Run("unreachable relay", func(t *testing.T) {
		m, err := NewSMTPMailer(SMTPConfig{Host: "127.0.0.1", Port: 1, From: "bills@slipwise.test"})
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		assert.ErrorContains(t, m.Send(ctx, "alice@example.com", "s", "b"), "failed to send mail")
	})
}
