package storage

import (
	"context"
	"sync"
	"time"
)

// MemoryUsers is an in-memory Users implementation for tests and development.
type MemoryUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*User
}

// NewMemoryUsers constructs an empty in-memory user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{users: make(map[int64]*User)}
}

// FindByTelegramID returns a copy of the record or ErrUserNotFound.
func (r *MemoryUsers) FindByTelegramID(_ context.Context, telegramID int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[telegramID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return cloneUser(u), nil
}

// Create inserts a new record or fails with ErrAlreadyExists.
func (r *MemoryUsers) Create(_ context.Context, telegramID int64, name string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[telegramID]; ok {
		return nil, ErrAlreadyExists
	}
	r.nextID++
	now := time.Now()
	u := &User{
		ID:         r.nextID,
		TelegramID: telegramID,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	r.users[telegramID] = u
	return cloneUser(u), nil
}

// UpdateExpenses overwrites the six expense fields or fails with ErrUserNotFound.
func (r *MemoryUsers) UpdateExpenses(_ context.Context, telegramID int64, exp Expenses) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[telegramID]
	if !ok {
		return ErrUserNotFound
	}
	c1, c2, c3 := exp.Category1, exp.Category2, exp.Category3
	a1, a2, a3 := exp.Amount1, exp.Amount2, exp.Amount3
	u.Category1, u.Category2, u.Category3 = &c1, &c2, &c3
	u.Expenses1, u.Expenses2, u.Expenses3 = &a1, &a2, &a3
	u.UpdatedAt = time.Now()
	return nil
}

// cloneUser copies the record including its pointer fields, so writes through
// a returned record never reach the stored one.
func cloneUser(u *User) *User {
	cp := *u
	cp.Category1 = cloneptr(u.Category1)
	cp.Category2 = cloneptr(u.Category2)
	cp.Category3 = cloneptr(u.Category3)
	cp.Expenses1 = cloneptr(u.Expenses1)
	cp.Expenses2 = cloneptr(u.Expenses2)
	cp.Expenses3 = cloneptr(u.Expenses3)
	return &cp
}

func cloneptr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
