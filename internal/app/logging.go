package app

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. Logs go to the log file when one is set,
// else to stderr when debug is on and stderr is non-nil, else nowhere.
// Completion passes a nil stderr so the calling shell never sees log lines.
// The returned closer releases the log file.
func NewLogger(s Settings, stderr io.Writer) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	log.SetLevel(logrus.InfoLevel)
	if s.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	switch {
	case s.LogFile != "":
		f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, FilePerm)
		if err != nil {
			return nil, nil, err
		}
		log.SetOutput(f)
		return log, f, nil
	case s.Debug && stderr != nil:
		log.SetOutput(stderr)
	default:
		log.SetOutput(io.Discard)
	}
	return log, nopCloser{}, nil
}

// discardLogger returns a logger that drops everything.
func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
