package storage

import (
	"context"
	"errors"
	"testing"
)

func TestCreateThenFind(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUsers()

	created, err := store.Create(ctx, 100, "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.TelegramID != 100 || created.Name != "Alice" {
		t.Fatalf("unexpected record: %+v", created)
	}
	if created.Category1 != nil || created.Expenses1 != nil {
		t.Fatal("expense fields must be empty on registration")
	}

	found, err := store.FindByTelegramID(ctx, 100)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != created.ID {
		t.Fatalf("ids differ: %d vs %d", found.ID, created.ID)
	}
}

func TestCreateDuplicateFails(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUsers()

	if _, err := store.Create(ctx, 100, "Alice"); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := store.Create(ctx, 100, "Impostor")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("err = %v, expected ErrAlreadyExists", err)
	}

	// The original record is untouched.
	u, err := store.FindByTelegramID(ctx, 100)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.Name != "Alice" {
		t.Fatalf("name = %q, duplicate create mutated the record", u.Name)
	}
}

func TestFindMissingUser(t *testing.T) {
	store := NewMemoryUsers()
	_, err := store.FindByTelegramID(context.Background(), 1)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, expected ErrUserNotFound", err)
	}
}

func TestUpdateExpenses(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUsers()
	if _, err := store.Create(ctx, 100, "Alice"); err != nil {
		t.Fatalf("create: %v", err)
	}

	exp := Expenses{
		Category1: "Food", Amount1: 12.50,
		Category2: "Transport", Amount2: 7.30,
		Category3: "Rent", Amount3: 450,
	}
	if err := store.UpdateExpenses(ctx, 100, exp); err != nil {
		t.Fatalf("update: %v", err)
	}

	u, err := store.FindByTelegramID(ctx, 100)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if *u.Category1 != "Food" || *u.Expenses1 != 12.50 ||
		*u.Category2 != "Transport" || *u.Expenses2 != 7.30 ||
		*u.Category3 != "Rent" || *u.Expenses3 != 450 {
		t.Fatalf("committed fields mismatch: %+v", u)
	}
}

func TestUpdateExpensesMissingUser(t *testing.T) {
	store := NewMemoryUsers()
	err := store.UpdateExpenses(context.Background(), 999, Expenses{})
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, expected ErrUserNotFound", err)
	}
}

func TestFindReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUsers()
	if _, err := store.Create(ctx, 100, "Alice"); err != nil {
		t.Fatalf("create: %v", err)
	}

	u, _ := store.FindByTelegramID(ctx, 100)
	u.Name = "mutated"

	again, _ := store.FindByTelegramID(ctx, 100)
	if again.Name != "Alice" {
		t.Fatal("mutation of returned record leaked into the store")
	}
}

func TestFindCopiesExpenseFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryUsers()
	if _, err := store.Create(ctx, 100, "Alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	exp := Expenses{
		Category1: "Food", Amount1: 12.50,
		Category2: "Transport", Amount2: 7.30,
		Category3: "Rent", Amount3: 450,
	}
	if err := store.UpdateExpenses(ctx, 100, exp); err != nil {
		t.Fatalf("update: %v", err)
	}

	u, _ := store.FindByTelegramID(ctx, 100)
	*u.Category1 = "mutated"
	*u.Expenses1 = -1

	again, _ := store.FindByTelegramID(ctx, 100)
	if *again.Category1 != "Food" || *again.Expenses1 != 12.50 {
		t.Fatal("writes through returned pointer fields leaked into the store")
	}
}
