package smtp

import (
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bharat0709/linkedai-backend/internal/config"
)

func TestTransport_Connect_DialError(t *testing.T) {
	// Занимаем порт и сразу освобождаем, чтобы соединение гарантированно не удалось.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	cfg := &config.Config{SMTP: config.SMTP{SMTPHost: "127.0.0.1", SMTPPort: port}}
	transport := NewTransport(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

	client, err := transport.Connect()
	assert.Nil(t, client)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp.Connect: failed to dial SMTP server")
}
