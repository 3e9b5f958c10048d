// Package storage persists registered users and their committed expense
// records, keyed uniquely by Telegram user id.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAlreadyExists is returned when a user record for the Telegram id exists.
	ErrAlreadyExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no user record matches the Telegram id.
	ErrUserNotFound = errors.New("user not found")
)

// User is a registered user record. Expense fields stay nil until the user
// completes the expense dialogue.
type User struct {
	ID         int64     `db:"id"`
	TelegramID int64     `db:"telegram_id"`
	Name       string    `db:"name"`
	Category1  *string   `db:"category1"`
	Category2  *string   `db:"category2"`
	Category3  *string   `db:"category3"`
	Expenses1  *float64  `db:"expenses1"`
	Expenses2  *float64  `db:"expenses2"`
	Expenses3  *float64  `db:"expenses3"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// Expenses carries the six fields written by a completed expense dialogue.
type Expenses struct {
	Category1 string
	Amount1   float64
	Category2 string
	Amount2   float64
	Category3 string
	Amount3   float64
}

// Users is the user-record store.
type Users interface {
	// FindByTelegramID returns the record or ErrUserNotFound.
	FindByTelegramID(ctx context.Context, telegramID int64) (*User, error)
	// Create inserts a new record; ErrAlreadyExists when the id is taken.
	// Uniqueness is enforced by the store itself, never check-then-insert.
	Create(ctx context.Context, telegramID int64, name string) (*User, error)
	// UpdateExpenses overwrites the six expense fields of an existing record;
	// ErrUserNotFound when no record matches.
	UpdateExpenses(ctx context.Context, telegramID int64, exp Expenses) error
}
