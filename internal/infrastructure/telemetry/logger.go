package telemetry

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetupLogger creates a JSON logger on stdout that stamps trace context
func SetupLogger(level string) (*slog.Logger, error) {
	return SetupLoggerTo(os.Stdout, level), nil
}

// SetupLoggerTo is SetupLogger with an explicit destination.
func SetupLoggerTo(w io.Writer, level string) *slog.Logger {
	logLevel := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: logLevel == slog.LevelDebug,
	}

	return slog.New(&TracedHandler{
		Handler: slog.NewJSONHandler(w, opts),
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewZapLogger builds the logger handed to infrastructure components.
// Development environments get the console encoder.
func NewZapLogger(level, environment string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if environment == "development" || environment == "test" {
		cfg = zap.NewDevelopmentConfig()
	}
	var zl zapcore.Level
	switch parseLevel(level) {
	case slog.LevelDebug:
		zl = zapcore.DebugLevel
	case slog.LevelWarn:
		zl = zapcore.WarnLevel
	case slog.LevelError:
		zl = zapcore.ErrorLevel
	default:
		zl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(zl)
	return cfg.Build()
}

// TracedHandler is a custom slog handler that adds OpenTelemetry trace context
type TracedHandler struct {
	slog.Handler
}

// Handle adds trace context to log records
func (h *TracedHandler) Handle(ctx context.Context, r slog.Record) error {
	// Extract span from context
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		// Add trace ID and span ID as attributes
		r.AddAttrs(
			slog.String("trace_id", span.SpanContext().TraceID().String()),
			slog.String("span_id", span.SpanContext().SpanID().String()),
		)

		// Add trace flags if sampled
		if span.SpanContext().IsSampled() {
			r.AddAttrs(slog.Bool("sampled", true))
		}
	}

	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the trace stamping on derived loggers.
func (h *TracedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TracedHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the trace stamping on derived loggers.
func (h *TracedHandler) WithGroup(name string) slog.Handler {
	return &TracedHandler{Handler: h.Handler.WithGroup(name)}
}

// WithContext returns a new logger with the context
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	return logger.With(extractTraceAttrs(ctx)...)
}

// extractTraceAttrs extracts trace attributes from context
func extractTraceAttrs(ctx context.Context) []any {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return nil
	}

	attrs := []any{
		"trace_id", span.SpanContext().TraceID().String(),
		"span_id", span.SpanContext().SpanID().String(),
	}

	if span.SpanContext().IsSampled() {
		attrs = append(attrs, "sampled", true)
	}

	return attrs
}

// LoggerWithTrace creates a logger that automatically includes trace context
type LoggerWithTrace struct {
	logger *slog.Logger
}

// NewLoggerWithTrace creates a new logger wrapper that includes trace context
func NewLoggerWithTrace(logger *slog.Logger) *LoggerWithTrace {
	return &LoggerWithTrace{logger: logger}
}

// Debug logs at debug level with trace context
func (l *LoggerWithTrace) Debug(ctx context.Context, msg string, args ...any) {
	WithContext(ctx, l.logger).Debug(msg, args...)
}

// Info logs at info level with trace context
func (l *LoggerWithTrace) Info(ctx context.Context, msg string, args ...any) {
	WithContext(ctx, l.logger).Info(msg, args...)
}

// Warn logs at warn level with trace context
func (l *LoggerWithTrace) Warn(ctx context.Context, msg string, args ...any) {
	WithContext(ctx, l.logger).Warn(msg, args...)
}

// Error logs at error level with trace context
func (l *LoggerWithTrace) Error(ctx context.Context, msg string, args ...any) {
	WithContext(ctx, l.logger).Error(msg, args...)
}

// With returns a new logger with additional attributes
func (l *LoggerWithTrace) With(args ...any) *LoggerWithTrace {
	return &LoggerWithTrace{logger: l.logger.With(args...)}
}
