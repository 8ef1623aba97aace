package core

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var once sync.Once

type logger struct {
	*log.Logger
	file *os.File
}

var singleton *logger

// LogConfig selects the verbosity of the engine logger and, optionally, a
// file that receives a copy of every line.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		CallerOffset:    1,
		Prefix:          "Anima 🎬 ",
	})
}

func getLogger() *logger {
	if singleton == nil {
		once.Do(
			func() {
				l := newLogger(os.Stderr)
				l.SetLevel(log.DebugLevel)
				singleton = &logger{Logger: l}
			})
	}
	return singleton
}

/**
 * @brief Configures the process-wide logger. When a file is given it is
 * truncated and started with a local-time header, then every log line is
 * written to both stderr and the file.
 */
func LogInitialize(config LogConfig) error {
	l := getLogger()

	level := log.DebugLevel
	if config.Level != "" {
		lvl, err := log.ParseLevel(config.Level)
		if err != nil {
			return fmt.Errorf("log level %q: %w", config.Level, err)
		}
		level = lvl
	}

	if config.File != "" {
		f, err := os.Create(config.File)
		if err != nil {
			return fmt.Errorf("could not open log file %s for writing: %w", config.File, err)
		}
		if _, err := fmt.Fprintf(f, "%s log. local time %s\n", config.File, time.Now().Format(time.ANSIC)); err != nil {
			f.Close()
			return err
		}
		if l.file != nil {
			l.file.Close()
		}
		l.file = f
		l.Logger = newLogger(io.MultiWriter(os.Stderr, f))
	}
	l.SetLevel(level)
	return nil
}

// LogShutdown closes the log file, if one was opened.
func LogShutdown() error {
	l := getLogger()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	level := l.GetLevel()
	l.file = nil
	l.Logger = newLogger(os.Stderr)
	l.SetLevel(level)
	return err
}

func LogDebug(msg string, args ...interface{}) {
	getLogger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...interface{}) {
	getLogger().Infof(msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	getLogger().Warnf(msg, args...)
}

func LogError(msg string, args ...interface{}) {
	getLogger().Errorf(msg, args...)
}

func LogFatal(msg string, args ...interface{}) {
	getLogger().Fatalf(msg, args...)
}
