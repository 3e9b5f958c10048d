package telegram

import (
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/finvik/finbot/core/config"
	"github.com/finvik/finbot/core/metrics"
	"github.com/finvik/finbot/core/telegram/middleware"
)

// DefaultMiddlewares builds the shared middleware chain: panic recovery first,
// then optional per-user rate limiting, update logging, and per-user turn
// serialization innermost so a slow turn never blocks other users earlier in
// the chain.
func DefaultMiddlewares(cfg *coreconfig.Config, rec metrics.Recorder, onLimited func(tele.Context) error) []Middleware {
	mws := []Middleware{
		{Name: "recover", Use: middleware.RecoverMiddleware},
	}

	if cfg != nil {
		interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond
		if interval > 0 {
			opts := middleware.RateLimitOptions{Interval: interval}
			if onLimited != nil {
				opts.OnLimited = onLimited
			}
			mws = append(mws, Middleware{
				Name: "rate_limit",
				Use:  middleware.RateLimitMiddleware(opts),
			})
		}
	}

	mws = append(mws,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware(rec)},
		Middleware{Name: "serialize", Use: middleware.SerializeMiddleware()},
	)

	return mws
}
