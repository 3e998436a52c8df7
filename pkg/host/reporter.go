package host

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"libinterpreter/interpreter-go/pkg/interpreter"
)

// Reporter writes console output as plain lines and diagnostics through slog.
type Reporter struct {
	console io.Writer
	logger  *slog.Logger
}

func NewReporter(console, diagnostics io.Writer, level slog.Level) *Reporter {
	handler := slog.NewTextHandler(diagnostics, &slog.HandlerOptions{Level: level})
	return &Reporter{console: console, logger: slog.New(handler)}
}

// NewReporterWithLogger reuses an existing logger for diagnostics.
func NewReporterWithLogger(console io.Writer, logger *slog.Logger) *Reporter {
	return &Reporter{console: console, logger: logger}
}

func (r *Reporter) Debug(message string) {
	r.logger.Debug(message)
}

func (r *Reporter) Info(message string) {
	r.logger.Info(message)
}

func (r *Reporter) Console(message string) {
	fmt.Fprintln(r.console, message)
}

func (r *Reporter) Error(message string, err error) {
	attrs := []any{}
	if kind := interpreter.KindOf(err); kind != "" {
		attrs = append(attrs, slog.String("kind", string(kind)))
	}
	r.logger.Error(message, attrs...)
}

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("host: unknown log level %q", name)
	}
}
