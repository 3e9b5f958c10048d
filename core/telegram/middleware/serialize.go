package middleware

import (
	"sync"

	tele "gopkg.in/telebot.v4"
)

// userLocks serializes work per user key.
type userLocks struct {
	locks sync.Map // int64 -> *sync.Mutex
}

// Do runs fn while holding the lock for userID.
func (u *userLocks) Do(userID int64, fn func() error) error {
	v, _ := u.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()
	return fn()
}

// SerializeMiddleware processes each user's updates strictly one at a time.
// Dialogue step transitions are not commutative, so concurrent turns from the
// same sender must queue behind each other while other users proceed freely.
func SerializeMiddleware() tele.MiddlewareFunc {
	var locks userLocks
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil {
				return next(c)
			}
			return locks.Do(user.ID, func() error {
				return next(c)
			})
		}
	}
}
