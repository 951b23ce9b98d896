package logger

import (
	"github.com/gruntwork-io/go-commons/logging"
	"github.com/sirupsen/logrus"
)

// GetProjectLogger returns the project logger with standard fields applied.
func GetProjectLogger() *logrus.Entry {
	logger := logging.GetLogger("")
	return logger.WithField("name", "pulse")
}
