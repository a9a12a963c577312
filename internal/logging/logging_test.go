package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/aidanlsb/sift/internal/config"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Log
		verbose bool
		want    zapcore.Level
	}{
		{name: "default warn", cfg: config.Log{}, want: zapcore.WarnLevel},
		{name: "configured info", cfg: config.Log{Level: "info"}, want: zapcore.InfoLevel},
		{name: "json error", cfg: config.Log{Level: "error", Format: "json"}, want: zapcore.ErrorLevel},
		{name: "verbose wins", cfg: config.Log{Level: "error"}, verbose: true, want: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg, tt.verbose)
			require.NoError(t, err)
			require.True(t, log.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				require.False(t, log.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNewRejectsUnknown(t *testing.T) {
	_, err := New(config.Log{Level: "loud"}, false)
	require.Error(t, err)

	_, err = New(config.Log{Format: "xml"}, false)
	require.Error(t, err)
}
