package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"
	"time"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	UserIDKey    contextKey = "user_id"
	RoleKey      contextKey = "role"
	// CallerTeamKey is the team on the caller's session, kept apart from the
	// team_id attribute services log for the team being changed.
	CallerTeamKey contextKey = "caller_team_id"
)

// contextKeys are copied onto every record, in this order, when present.
var contextKeys = []contextKey{RequestIDKey, UserIDKey, RoleKey, CallerTeamKey}

// Config holds logger configuration
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // json, text
	Output      io.Writer
	AddSource   bool
	ServiceName string
	Environment string
}

// NewLogger builds the process logger. Every record carries the service and
// environment, plus whichever caller values the context holds.
func NewLogger(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(a.Key, a.Value.Time().UTC().Format(time.RFC3339Nano))
			}
			return a
		},
	}

	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(output, opts)
	} else {
		handler = slog.NewJSONHandler(output, opts)
	}

	var meta []slog.Attr
	if cfg.ServiceName != "" {
		meta = append(meta, slog.String("service", cfg.ServiceName))
	}
	if cfg.Environment != "" {
		meta = append(meta, slog.String("environment", cfg.Environment))
	}
	if len(meta) > 0 {
		handler = handler.WithAttrs(meta)
	}

	return slog.New(contextHandler{next: handler})
}

// ParseLevel maps a config level name to a slog level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

type contextHandler struct {
	next slog.Handler
}

func (h contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(contextAttrs(ctx)...)
	return h.next.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{next: h.next.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{next: h.next.WithGroup(name)}
}

func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	for _, key := range contextKeys {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}
	return attrs
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, RoleKey, role)
}

// WithCallerTeam tags the context with the team on the caller's session.
func WithCallerTeam(ctx context.Context, teamID string) context.Context {
	return context.WithValue(ctx, CallerTeamKey, teamID)
}

func GetRequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(RequestIDKey).(string)
	return requestID
}

// LoggerFromContext binds the context's caller values to logger. Use it for
// loggers that were not built by NewLogger.
func LoggerFromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	attrs := contextAttrs(ctx)
	if len(attrs) == 0 {
		return logger
	}
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return logger.With(args...)
}

// LogPanic logs a recovered panic value with the current goroutine's stack.
func LogPanic(logger *slog.Logger, panicValue any) {
	logger.Error("panic recovered",
		"panic", panicValue,
		"stack_trace", string(debug.Stack()),
	)
}

// RequestRecord is one finished HTTP request.
type RequestRecord struct {
	Method       string
	Path         string
	Route        string
	Status       int
	Duration     time.Duration
	BytesWritten int64
	ClientIP     string
	UserAgent    string
}

// Level is error for 5xx, warn for 4xx and info otherwise.
func (rec RequestRecord) Level() slog.Level {
	switch {
	case rec.Status >= 500:
		return slog.LevelError
	case rec.Status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// LogRequest writes rec as a single "http request" line.
func LogRequest(ctx context.Context, logger *slog.Logger, rec RequestRecord) {
	attrs := []slog.Attr{
		slog.String("method", rec.Method),
		slog.String("path", rec.Path),
		slog.Int("status_code", rec.Status),
		slog.Int64("duration_ms", rec.Duration.Milliseconds()),
		slog.Int64("bytes_written", rec.BytesWritten),
		slog.String("client_ip", rec.ClientIP),
		slog.String("user_agent", rec.UserAgent),
	}
	if rec.Route != "" {
		attrs = append(attrs, slog.String("route", rec.Route))
	}
	logger.LogAttrs(ctx, rec.Level(), "http request", attrs...)
}
