package internal

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedLogger(buf *bytes.Buffer, level LogLevel) *Logger {
	l := NewLogger(buf, level)
	l.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return l
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, WARNING)

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("shown %d", 1)
	l.Error("shown %d\n", 2)

	assert.Equal(t,
		"2024-05-01 10:00:00 [WARNING] shown 1\n2024-05-01 10:00:00 [ERROR] shown 2\n",
		buf.String())
}

func TestLoggerWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := fixedLogger(&buf, DEBUG).With("assembler").With("simple")

	l.Success("done")

	assert.Equal(t, "2024-05-01 10:00:00 [SUCCESS] assembler/simple: done\n", buf.String())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{
		"debug": DEBUG, "":      INFO, "INFO": INFO,
		"warn":  WARNING, "error": ERROR, " success ": SUCCESS,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
