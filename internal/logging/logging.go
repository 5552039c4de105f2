// Package logging builds the application logger. The terminal belongs to
// the TUI, so all logging goes to a rotating file.
package logging

import (
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	rotateMaxSize    = 30 // MB
	rotateMaxAge     = 30 // days
	rotateMaxBackups = 10
)

// New creates a logrus logger writing to the given file with rotation.
func New(path string, level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		DisableColors:   true,
	})
	log.SetOutput(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotateMaxSize,
		MaxAge:     rotateMaxAge,
		MaxBackups: rotateMaxBackups,
		LocalTime:  true,
		Compress:   true,
	})
	return log
}
