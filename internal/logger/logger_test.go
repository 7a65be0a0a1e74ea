package logger

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	testCases := []struct {
		name          string
		level         string
		expectedLevel logrus.Level
		textFormatter bool
	}{
		{name: "debug level switches to text formatter", level: "debug", expectedLevel: logrus.DebugLevel, textFormatter: true},
		{name: "info level keeps json formatter", level: "info", expectedLevel: logrus.InfoLevel},
		{name: "warn level keeps json formatter", level: "warn", expectedLevel: logrus.WarnLevel},
		{name: "unknown level falls back to info", level: "loud", expectedLevel: logrus.InfoLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := New(io.Discard, tc.level)

			assert.Equal(t, tc.expectedLevel, l.GetLevel())
			if tc.textFormatter {
				assert.IsType(t, new(logrus.TextFormatter), l.Formatter)
			} else {
				assert.IsType(t, new(logrus.JSONFormatter), l.Formatter)
			}
		})
	}
}
