package router

import (
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/finvik/finbot/core/metrics"
	tg "github.com/finvik/finbot/core/telegram"
)

// FSM defines the minimal interface for a dialogue manager.
type FSM interface {
	InProgress(userID int64) bool
	HandleTurn(c tele.Context) error
}

// TextOptions controls fallback behaviour and instrumentation for text routing.
type TextOptions struct {
	UnknownText tele.HandlerFunc
	Metrics     metrics.Recorder
}

// TextRoute builds the single OnText handler implementing dispatch precedence:
// an active dialogue claims the turn outright; otherwise slash commands, then
// reply-menu labels, then the optional UnknownText handler.
func TextRoute(fsmMgr FSM, reg *tg.Registry, opts TextOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if fsmMgr != nil && c.Sender() != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm", start, opts.Metrics, func() error {
				return fsmMgr.HandleTurn(c)
			})
		}

		if reg != nil && strings.HasPrefix(text, "/") {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, opts.Metrics, func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if h, ok := reg.LookupMenu(text); ok {
				name := normalizeHandlerName(text)
				return handleWithSummary(c, name, start, opts.Metrics, func() error {
					return h(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, opts.Metrics, func() error {
				return opts.UnknownText(c)
			})
		}

		// No session, no match: drop the message.
		logHandlerSummary(c, "unknown_text", start, opts.Metrics, nil, "skip")
		return nil
	}

	return tg.Route{Endpoint: tele.OnText, Handler: handler}
}
