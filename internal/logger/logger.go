package logger

import (
	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// Init configures the shared structured logger.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)

	// JSON output by default; development switches to text via SetTextFormatter.
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter switches logs to a human-readable format (development).
func SetTextFormatter() {
	if Log != nil {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}
