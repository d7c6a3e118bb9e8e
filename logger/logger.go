package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. Packages use it directly instead of
// threading a logger through every constructor.
var Log = logrus.New()

func Init() {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
