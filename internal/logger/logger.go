package logger

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New инициализирует логгер. Уровень приходит из конфигурации; нераспознанное
// значение откатывается к info. На debug включается текстовый формат вместо JSON.
func New(output io.Writer, level string) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(output)
	l.SetFormatter(new(logrus.JSONFormatter))

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	if parsed >= logrus.DebugLevel {
		l.SetFormatter(new(logrus.TextFormatter))
	}

	return l
}
