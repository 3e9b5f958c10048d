package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/finvik/finbot/core/logger"
	"github.com/finvik/finbot/core/metrics"
	tghelpers "github.com/finvik/finbot/core/telegram/helpers"
)

func handleWithSummary(c tele.Context, handlerName string, start time.Time, rec metrics.Recorder, fn func() error) error {
	tghelpers.WithHandler(c, handlerName)
	err := fn()
	logHandlerSummary(c, handlerName, start, rec, err, "")
	return err
}

func logHandlerSummary(c tele.Context, handlerName string, start time.Time, rec metrics.Recorder, err error, statusOverride string) {
	ctx := tghelpers.WithHandler(c, handlerName)

	status := statusOverride
	if status == "" {
		if err != nil {
			status = "fail"
		} else {
			status = "ok"
		}
	}

	took := time.Since(start)
	if rec != nil {
		rec.RecordTurn(handlerName, status, took)
	}

	attrs := []slog.Attr{
		slog.String("status", status),
		slog.String("outcome", status),
		slog.Int64("duration_ms", logger.RoundMS(took).Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", deriveErrorCode(err)),
		)
	}
	logger.LogEvent(ctx, logger.Component("tg"), slog.LevelInfo, "handler.handled", attrs...)
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}

func deriveErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		code := strings.TrimSpace(coded.Code())
		if code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t != nil && t.Name() != "" {
		return strings.ToUpper(strings.ReplaceAll(t.Name(), " ", "_"))
	}
	return "UNKNOWN_ERROR"
}
