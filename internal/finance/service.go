package finance

import (
	"context"
	"errors"
	"strings"

	"github.com/finvik/finbot/internal/storage"
)

const (
	msgRegistered        = "You are registered!"
	msgAlreadyRegistered = "You are already registered."
)

// Registrar handles user registration.
type Registrar struct {
	users storage.Users
}

// NewRegistrar builds a Registrar over the given user store.
func NewRegistrar(users storage.Users) *Registrar {
	return &Registrar{users: users}
}

// Register creates a user record for the Telegram id and returns the reply to
// send. Registering twice is not an error for the caller: the user just gets
// told they already have an account.
func (r *Registrar) Register(ctx context.Context, telegramID int64, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "user"
	}

	_, err := r.users.Create(ctx, telegramID, name)
	switch {
	case err == nil:
		return msgRegistered, nil
	case errors.Is(err, storage.ErrAlreadyExists):
		return msgAlreadyRegistered, nil
	default:
		return "", err
	}
}
