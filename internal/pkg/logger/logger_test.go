package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	cases := []struct {
		name    string
		level   string
		format  string
		enabled zap.AtomicLevel
	}{
		{name: "console warn", level: "warn", format: "console", enabled: zap.NewAtomicLevelAt(zap.WarnLevel)},
		{name: "json info", level: "info", format: "json", enabled: zap.NewAtomicLevelAt(zap.InfoLevel)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := New(tc.level, tc.format)
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tc.enabled.Level()))
			assert.False(t, l.Core().Enabled(tc.enabled.Level()-1))
		})
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("loud", "console")
	require.Error(t, err)
}
