package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"

	"github.com/avoronov/sudoku-server/internal/config"
)

// New builds the application logger: colored text on stderr, debug level in
// development, plus a rotating JSON file when LOG_FILE is set.
func New() (*logrus.Logger, error) {
	log := logrus.New()

	level := logrus.InfoLevel
	if config.Development() {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	logFile, ok := os.LookupEnv("LOG_FILE")
	if !ok {
		return log, nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   logFile,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      level,
		Formatter: &logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		},
	})
	if err != nil {
		return nil, err
	}
	log.AddHook(hook)

	return log, nil
}
