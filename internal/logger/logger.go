// Package logger provides levelled logging for aipsync.
// Messages go to stderr; --verbose enables debug output and --quiet
// limits output to warnings and errors. An optional rotating log file
// receives the same stream.
package logger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeLayout = "2006-01-02 15:04:05"

var (
	mu         sync.RWMutex
	verbose    bool
	quiet      bool
	output     io.Writer = os.Stderr
	file       *lumberjack.Logger
	timestamps atomic.Bool
	log        = newLogrus()
)

func init() {
	timestamps.Store(true)
}

func newLogrus() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&lineFormatter{})
	return l
}

// lineFormatter renders "<time> [LEVEL] message".
type lineFormatter struct{}

// Format implements logrus.Formatter.
func (f *lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	if timestamps.Load() {
		b.WriteString(e.Time.Format(timeLayout))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "[%s] %s\n", levelName(e.Level), e.Message)
	return b.Bytes(), nil
}

func levelName(l logrus.Level) string {
	switch l {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.WarnLevel:
		return "WARN"
	default:
		return "ERROR"
	}
}

// applyLocked recomputes level and outputs. Caller must hold mu.
func applyLocked() {
	switch {
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	case quiet:
		log.SetLevel(logrus.WarnLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}
	if file != nil {
		log.SetOutput(io.MultiWriter(output, file))
	} else {
		log.SetOutput(output)
	}
}

// SetVerbose enables or disables verbose logging.
// Verbose takes precedence over quiet.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	applyLocked()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetQuiet limits output to warnings and errors.
func SetQuiet(q bool) {
	mu.Lock()
	defer mu.Unlock()
	quiet = q
	applyLocked()
}

// SetTimestamps toggles the time prefix on each line.
func SetTimestamps(on bool) {
	timestamps.Store(on)
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	applyLocked()
}

// SetFile additionally writes logs to a size-rotated file.
// An empty path disables the file.
func SetFile(path string, maxSizeMB, maxBackups int) error {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		if err := file.Close(); err != nil {
			return err
		}
		file = nil
	}
	if path != "" {
		file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
		}
	}
	applyLocked()
	return nil
}

// Close releases the log file, if any.
func Close() error {
	return SetFile("", 0, 0)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	log.Debugf(format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	log.Debugf("=== %s ===", name)
}

// Info prints an informational message unless quiet mode is enabled.
func Info(format string, args ...any) {
	log.Infof(format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	log.Warnf(format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	log.Errorf(format, args...)
}
