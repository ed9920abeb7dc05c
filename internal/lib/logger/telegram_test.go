package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	messages []string
}

func (s *recordingSender) SendMessage(msg string) {
	s.messages = append(s.messages, msg)
}

func TestTelegramHandlerForwardsOnlyAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	sender := &recordingSender{}

	lg := SetupTelegramHandler(base, sender, slog.LevelError)
	lg = lg.With(slog.String("module", "executor"))

	lg.Info("session started")
	lg.Error("state failed", slog.String("command", "/block"))

	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "ERROR: state failed")
	assert.Contains(t, sender.messages[0], "module: executor")
	assert.Contains(t, sender.messages[0], "command: /block")
	assert.Contains(t, buf.String(), "session started")
}
