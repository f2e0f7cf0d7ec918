package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var logg *logrus.Logger

func init() {
	logg = logrus.New()
	logg.SetFormatter(&logrus.JSONFormatter{})
	logg.SetOutput(os.Stdout)
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logg.SetLevel(lvl)
	} else {
		logg.SetLevel(logrus.InfoLevel)
	}
}

func Get() *logrus.Logger {
	return logg
}

// LogError logs an internal error with enough context to trace it.
// Handlers call this before returning a sanitized message to clients.
func LogError(module, funcName string, err error, fields logrus.Fields) {
	entry := logg.WithFields(logrus.Fields{
		"module":   module,
		"funcName": funcName,
	})
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(err.Error())
}
