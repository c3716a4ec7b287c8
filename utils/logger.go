package utils

import (
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = logrus.New()
	ErrorLogger = logrus.New()
)

// InitLogger configures both loggers. Safe to call more than once.
func InitLogger() {
	InfoLogger = logrus.New()
	ErrorLogger = logrus.New()

	// Info goes to stdout
	InfoLogger.SetOutput(os.Stdout)
	InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Errors go to stderr
	ErrorLogger.SetOutput(os.Stderr)
	ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	InfoLogger.SetLevel(logrus.InfoLevel)
	ErrorLogger.SetLevel(logrus.WarnLevel)
}

// SetLevel parses a logrus level name and applies it to the info logger.
// Unknown names leave the level untouched.
func SetLevel(name string) {
	if name == "" {
		return
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		ErrorLogger.Warnf("Unknown log level %q, keeping %s", name, InfoLogger.GetLevel())
		return
	}
	InfoLogger.SetLevel(level)
}
