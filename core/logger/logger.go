// Package logger configures the process-wide structured logger and carries
// per-update metadata (rid, user, chat) through context so every layer logs
// consistently.
package logger

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/finvik/finbot/core/buildinfo"
	coreconfig "github.com/finvik/finbot/core/config"
)

var (
	initOnce   sync.Once
	shutdownMu sync.Mutex
	shutdowned bool

	logClosers []io.Closer
	levelVar   slog.LevelVar

	// L is the base logger shared by packages that do not carry a context.
	L *slog.Logger

	// DB logs database events.
	DB *slog.Logger
	// TG logs Telegram transport events.
	TG *slog.Logger
	// MIG logs database migration events.
	MIG *slog.Logger
	// TWire logs Telegram wiring steps.
	TWire *slog.Logger
)

// InitLogger configures the global structured logger. It may be called only once.
func InitLogger(cfg *coreconfig.Config) error {
	var initErr error
	initOnce.Do(func() {
		levelVar.Set(selectLevel(cfg))

		out, closers, err := buildOutput(cfg)
		if err != nil {
			initErr = err
			return
		}
		logClosers = closers

		opts := &slog.HandlerOptions{
			Level: &levelVar,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if len(groups) == 0 && a.Key == slog.TimeKey {
					a.Key = "ts"
				}
				return a
			},
		}

		var handler slog.Handler
		if selectFormat(cfg) == formatKV {
			handler = slog.NewTextHandler(out, opts)
		} else {
			handler = slog.NewJSONHandler(out, opts)
		}

		L = slog.New(handler)
		slog.SetDefault(L)

		DB = L.With("component", "db")
		TG = L.With("component", "tg")
		MIG = L.With("component", "db.migrate")
		TWire = L.With("component", "tg.wire")

		logStartup(cfg)
	})
	return initErr
}

func logStartup(cfg *coreconfig.Config) {
	attrs := []slog.Attr{
		slog.String("component", "app"),
		slog.String("event", "startup"),
		slog.String("instance_id", uuid.NewString()),
		slog.String("go_version", runtime.Version()),
		slog.String("build_commit", buildinfo.Commit),
		slog.String("build_time", buildinfo.Date),
	}
	if cfg != nil {
		attrs = append(attrs, slog.String("cfg_profile", selectProfile(cfg)))
	}
	L.LogAttrs(context.Background(), slog.LevelInfo, "startup", attrs...)
}

// Shutdown closes opened log sinks.
func Shutdown() error {
	shutdownMu.Lock()
	defer shutdownMu.Unlock()
	if shutdowned {
		return nil
	}
	shutdowned = true

	var errs []error
	for _, c := range logClosers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type logFormat int

const (
	formatJSON logFormat = iota
	formatKV
)

func selectFormat(cfg *coreconfig.Config) logFormat {
	if cfg == nil {
		return formatJSON
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Format)) {
	case "kv", "text", "pretty":
		return formatKV
	case "json":
		return formatJSON
	}
	// Prefer human-friendly format when profile indicates debug/dev mode.
	if strings.EqualFold(cfg.Logging.Profile, "debug") || strings.EqualFold(cfg.Logging.Profile, "dev") {
		return formatKV
	}
	return formatJSON
}

func selectLevel(cfg *coreconfig.Config) slog.Level {
	if cfg == nil {
		return slog.LevelInfo
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Logging.Level)) {
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

func selectProfile(cfg *coreconfig.Config) string {
	if cfg == nil {
		return ""
	}
	if profile := strings.TrimSpace(cfg.Logging.Profile); profile != "" {
		return strings.ToLower(profile)
	}
	return "prod"
}

func buildOutput(cfg *coreconfig.Config) (io.Writer, []io.Closer, error) {
	writers := []io.Writer{os.Stdout}
	var closers []io.Closer
	if cfg != nil {
		dir := strings.TrimSpace(cfg.Logging.Dir)
		file := strings.TrimSpace(cfg.Logging.BotFile)
		if dir != "" && file != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Printf("logger: failed to create log dir %s: %v", dir, err)
			} else {
				path := filepath.Join(dir, file)
				f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					log.Printf("logger: failed to open log file %s: %v", path, err)
				} else {
					writers = append(writers, f)
					closers = append(closers, f)
				}
			}
		}
	}
	if len(writers) == 1 {
		return writers[0], closers, nil
	}
	return io.MultiWriter(writers...), closers, nil
}

// Background returns context.Background(); kept so call sites read uniformly.
func Background() context.Context {
	return context.Background()
}

// Component constructs a logger scoped to the provided component attribute.
func Component(name string) *slog.Logger {
	base := L
	if base == nil {
		base = slog.Default()
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return base
	}
	return base.With("component", trimmed)
}

// LogEvent emits an event-tagged record enriched with metadata carried by ctx.
func LogEvent(ctx context.Context, logg *slog.Logger, level slog.Level, event string, attrs ...slog.Attr) {
	if logg == nil {
		logg = FromContext(ctx)
	}
	if logg == nil {
		return
	}
	all := make([]slog.Attr, 0, len(attrs)+4)
	if event != "" {
		all = append(all, slog.String("event", event))
	}
	if rid := RIDFrom(ctx); rid != "" {
		all = append(all, slog.String("rid", rid))
	}
	if handler := HandlerFrom(ctx); handler != "" {
		all = append(all, slog.String("handler", handler))
	}
	if userID := UserIDFrom(ctx); userID != 0 {
		all = append(all, slog.Int64("user_id", userID))
	}
	all = append(all, attrs...)
	logg.LogAttrs(ctx, level, event, all...)
}

// Event logs with component scope resolved automatically.
func Event(ctx context.Context, component string, level slog.Level, event string, attrs ...slog.Attr) {
	LogEvent(ctx, Component(component), level, event, attrs...)
}

// Debug logs a debug-level event for the given component.
func Debug(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelDebug, event, attrs...)
}

// Info logs an info-level event for the given component.
func Info(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelInfo, event, attrs...)
}

// Warn logs a warn-level event for the given component.
func Warn(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelWarn, event, attrs...)
}

// Error logs an error-level event for the given component.
func Error(ctx context.Context, component, event string, attrs ...slog.Attr) {
	Event(ctx, component, slog.LevelError, event, attrs...)
}
