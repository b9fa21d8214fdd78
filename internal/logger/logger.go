package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

type ctxKey struct{}

// WithRequestID stores a request id in ctx. Records logged with a *Context helper carry it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request id stored in ctx, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// requestIDHandler adds the request_id attribute to records whose context carries one
type requestIDHandler struct {
	slog.Handler
}

func (h requestIDHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestID(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h requestIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return requestIDHandler{h.Handler.WithAttrs(attrs)}
}

func (h requestIDHandler) WithGroup(name string) slog.Handler {
	return requestIDHandler{h.Handler.WithGroup(name)}
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

// Initialize sets up the global logger on stdout with the specified level and format
func Initialize(level, format string) {
	InitializeWithWriter(os.Stdout, level, format)
}

// InitializeWithWriter sets up the global logger writing to w
func InitializeWithWriter(w io.Writer, level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(requestIDHandler{handler})
	slog.SetDefault(defaultLogger)
}

// Get returns the default logger
func Get() *slog.Logger {
	if defaultLogger == nil {
		// Initialize with default settings if not yet initialized
		Initialize("info", "text")
	}
	return defaultLogger
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// InfoContext logs an info message with context
func InfoContext(ctx context.Context, msg string, args ...any) {
	Get().InfoContext(ctx, msg, args...)
}

// WarnContext logs a warning message with context
func WarnContext(ctx context.Context, msg string, args ...any) {
	Get().WarnContext(ctx, msg, args...)
}

// ErrorContext logs an error message with context
func ErrorContext(ctx context.Context, msg string, args ...any) {
	Get().ErrorContext(ctx, msg, args...)
}

// WithService returns a logger with service name attached
func WithService(serviceName string) *slog.Logger {
	return Get().With("service", serviceName)
}

// trace writes a process-tracking record. Records carrying an error go out at Error
// level, everything else at Debug.
func trace(msg, failedMsg string, err error, head []any, args []any) {
	attrs := append(head, args...)
	if err != nil {
		Get().Error(failedMsg, append(attrs, "error", err)...)
		return
	}
	Get().Debug(msg, attrs...)
}

// EnterMethod logs method entry
func EnterMethod(methodName string, args ...any) {
	trace("→ Method entered", "", nil, []any{"method", methodName, "event", "enter"}, args)
}

// ExitMethod logs method exit
func ExitMethod(methodName string, args ...any) {
	trace("← Method exited", "", nil, []any{"method", methodName, "event", "exit"}, args)
}

// ExitMethodWithError logs method exit with error
func ExitMethodWithError(methodName string, err error, args ...any) {
	trace("← Method exited", "← Method exited with error", err, []any{"method", methodName, "event", "exit"}, args)
}

// DatabaseCall logs a query before it runs
func DatabaseCall(operation, query string, args ...any) {
	trace("→ Database call", "", nil, []any{"operation", operation, "query", query}, args)
}

// DatabaseResult logs the outcome of a query
func DatabaseResult(operation string, rowsAffected int64, err error, args ...any) {
	trace("← Database call succeeded", "← Database call failed", err, []any{"operation", operation, "rows_affected", rowsAffected}, args)
}

// ExternalServiceCall logs a call to a remote API
func ExternalServiceCall(service, operation string, args ...any) {
	trace("→ External service call", "", nil, []any{"service", service, "operation", operation}, args)
}

// ExternalServiceResult logs the outcome of a remote API call
func ExternalServiceResult(service, operation string, err error, args ...any) {
	trace("← External service call succeeded", "← External service call failed", err, []any{"service", service, "operation", operation}, args)
}
