package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	log "github.com/sirupsen/logrus"
)

var Log = logrus.New()

// LogLevels lists the accepted --log-level values.
var LogLevels = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

func init() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		TimestampFormat:  "2006/01/02 15:04:05",
		DisableColors:    true,
		QuoteEmptyFields: true,
	})
}

func SetLogLevel(level string) error {
	// We are not using logrus' trace and panic levels
	switch strings.ToLower(level) {
	case "debug":
		Log.SetLevel(log.DebugLevel)
	case "", "info":
		Log.SetLevel(log.InfoLevel)
	case "warning", "warn":
		Log.SetLevel(log.WarnLevel)
	case "error":
		Log.SetLevel(log.ErrorLevel)
	case "critical", "fatal":
		Log.SetLevel(log.FatalLevel)
	default:
		return fmt.Errorf("bad log level %q, available: %s", level, strings.Join(LogLevels, ", "))
	}
	return nil
}

// SetLogFile writes the log both to stderr and to a fresh file at path.
// The returned closer flushes the file and restores stderr only.
func SetLogFile(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create the log file: %w", err)
	}
	Log.SetOutput(io.MultiWriter(os.Stderr, f))
	return closerFunc(func() error {
		Log.SetOutput(os.Stderr)
		if err := f.Sync(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}), nil
}

type closerFunc func() error

func (c closerFunc) Close() error {
	return c()
}

// ExpandPath resolves a leading ~ to the home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return homedir.Expand(path)
}
