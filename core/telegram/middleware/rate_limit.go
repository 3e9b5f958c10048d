package middleware

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	"github.com/finvik/finbot/core/logger"
)

// RateLimitOptions configures behaviour of the rate limit middleware.
type RateLimitOptions struct {
	Interval  time.Duration
	OnLimited tele.HandlerFunc
}

// RateLimitMiddleware returns a middleware that enforces a minimum interval
// between messages from the same user. Limiters are created lazily per user.
func RateLimitMiddleware(opts RateLimitOptions) tele.MiddlewareFunc {
	var (
		limiters   = make(map[int64]*rate.Limiter)
		limitersMu sync.Mutex
	)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || opts.Interval <= 0 {
				return next(c)
			}

			limitersMu.Lock()
			lim, ok := limiters[user.ID]
			if !ok {
				lim = rate.NewLimiter(rate.Every(opts.Interval), 1)
				limiters[user.ID] = lim
			}
			limitersMu.Unlock()

			if !lim.Allow() {
				logger.TG.Warn("rate limit",
					slog.String("event", "tg.rate_limit"),
					slog.Int64("user_id", user.ID),
				)
				if opts.OnLimited != nil {
					_ = opts.OnLimited(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
