package mail

import (
	"bytes"
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ayursutra/clinic/internal/core/domain"
)

func TestSMTPMailer_Send(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	var gotAuth smtp.Auth

	m := NewSMTPMailer(SMTPConfig{Host: "smtp.local", Port: 2525, User: "u", Password: "p", From: "clinic@local"})
	m.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotFrom, gotTo, gotMsg = addr, a, from, to, msg
		return nil
	}

	err := m.Send(context.Background(), domain.Email{To: "a@b.c", Subject: "AyurSutra Notification", Message: "hello"})
	require.NoError(t, err)
	require.Equal(t, "smtp.local:2525", gotAddr)
	require.NotNil(t, gotAuth)
	require.Equal(t, "clinic@local", gotFrom)
	require.Equal(t, []string{"a@b.c"}, gotTo)

	body := string(gotMsg)
	require.True(t, strings.Contains(body, "Subject: AyurSutra Notification\r\n"))
	require.True(t, strings.HasSuffix(body, "\r\n\r\nhello\r\n"))
}

func TestSMTPMailer_SendError(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.local", Port: 25})
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	err := m.Send(context.Background(), domain.Email{To: "a@b.c"})
	require.ErrorContains(t, err, "refused")
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	m := NewSMTPMailer(SMTPConfig{Host: "smtp.local", Port: 25})
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("send must not be called")
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, m.Send(ctx, domain.Email{To: "a@b.c"}), context.Canceled)
}

func TestNew_SelectsLogMailerWithoutHost(t *testing.T) {
	var buf bytes.Buffer
	m := New(SMTPConfig{}, zerolog.New(&buf))
	_, ok := m.(*LogMailer)
	require.True(t, ok)

	require.NoError(t, m.Send(context.Background(), domain.Email{To: "a@b.c", Message: "hi"}))
	require.Contains(t, buf.String(), `"to":"a@b.c"`)
}
