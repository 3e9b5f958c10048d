package finance

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/finvik/finbot/internal/session"
	"github.com/finvik/finbot/internal/storage"
)

func newTestForm(t *testing.T) (*Form, session.Store, *storage.MemoryUsers) {
	t.Helper()
	sessions := session.NewMemoryStore(0)
	users := storage.NewMemoryUsers()
	return NewForm(sessions, users, nil), sessions, users
}

func feed(t *testing.T, f *Form, userID int64, inputs ...string) string {
	t.Helper()
	var reply string
	for _, in := range inputs {
		var err error
		reply, err = f.HandleText(context.Background(), userID, in)
		if err != nil {
			t.Fatalf("input %q: %v", in, err)
		}
	}
	return reply
}

func TestFullDialogueCommits(t *testing.T) {
	ctx := context.Background()
	f, _, users := newTestForm(t)
	if _, err := users.Create(ctx, 7, "Alice"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if got := f.Start(7); got != steps[0].prompt {
		t.Fatalf("start prompt = %q", got)
	}
	if !f.InProgress(7) {
		t.Fatal("dialogue must be in progress after Start")
	}

	reply := feed(t, f, 7, "Food", "12.50", "Transport", "7.30", "Rent", "450")
	if reply != msgSaved {
		t.Fatalf("final reply = %q, want %q", reply, msgSaved)
	}
	if f.InProgress(7) {
		t.Fatal("session must be cleared after commit")
	}

	u, err := users.FindByTelegramID(ctx, 7)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if *u.Category1 != "Food" || *u.Expenses1 != 12.50 ||
		*u.Category2 != "Transport" || *u.Expenses2 != 7.30 ||
		*u.Category3 != "Rent" || *u.Expenses3 != 450 {
		t.Fatalf("committed record mismatch: %+v", u)
	}
}

func TestInvalidAmountRepromptsWithoutAdvancing(t *testing.T) {
	f, sessions, users := newTestForm(t)
	if _, err := users.Create(context.Background(), 7, "Alice"); err != nil {
		t.Fatalf("create: %v", err)
	}

	f.Start(7)
	feed(t, f, 7, "Food", "12.50", "Transport")

	reply, err := f.HandleText(context.Background(), 7, "not-a-number")
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(reply, msgInvalidAmount) {
		t.Fatalf("reply = %q, want invalid-amount re-prompt", reply)
	}

	sess, ok := sessions.Get(7)
	if !ok {
		t.Fatal("session must survive a rejected amount")
	}
	if sess.State != StateExpenses2 {
		t.Fatalf("state = %q, want %q", sess.State, StateExpenses2)
	}
	if c, _ := sess.String("category1"); c != "Food" {
		t.Fatalf("category1 = %q", c)
	}
	if a, _ := sess.Float("expenses1"); a != 12.50 {
		t.Fatalf("expenses1 = %v", a)
	}
	if c, _ := sess.String("category2"); c != "Transport" {
		t.Fatalf("category2 = %q", c)
	}
	if _, ok := sess.Float("expenses2"); ok {
		t.Fatal("rejected amount must not be stored")
	}

	// A valid retry advances normally.
	reply = feed(t, f, 7, "7.30")
	if reply != stepIndex[StateCategory3].prompt {
		t.Fatalf("reply = %q, want third category prompt", reply)
	}
}

func TestBlankCategoryRejected(t *testing.T) {
	f, sessions, _ := newTestForm(t)
	f.Start(7)

	reply, err := f.HandleText(context.Background(), 7, "   ")
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(reply, msgEmptyCategory) {
		t.Fatalf("reply = %q, want empty-category re-prompt", reply)
	}
	sess, _ := sessions.Get(7)
	if sess.State != StateCategory1 {
		t.Fatalf("state = %q, blank input must not advance", sess.State)
	}
}

func TestCommitForUnregisteredUserRetainsSession(t *testing.T) {
	ctx := context.Background()
	f, sessions, users := newTestForm(t)

	f.Start(7)
	feed(t, f, 7, "Food", "12.50", "Transport", "7.30", "Rent")

	reply, err := f.HandleText(ctx, 7, "450")
	if !errors.Is(err, storage.ErrUserNotFound) {
		t.Fatalf("err = %v, expected ErrUserNotFound", err)
	}
	if reply != msgNotRegistered {
		t.Fatalf("reply = %q", reply)
	}

	sess, ok := sessions.Get(7)
	if !ok {
		t.Fatal("session must be retained after a failed commit")
	}
	if sess.State != StateExpenses3 {
		t.Fatalf("state = %q, want %q", sess.State, StateExpenses3)
	}

	// Registering and resending the last amount completes the dialogue.
	if _, err := users.Create(ctx, 7, "Alice"); err != nil {
		t.Fatalf("create: %v", err)
	}
	reply = feed(t, f, 7, "450")
	if reply != msgSaved {
		t.Fatalf("reply = %q, want %q", reply, msgSaved)
	}
	if f.InProgress(7) {
		t.Fatal("session must be cleared after the retried commit")
	}
}

func TestHandleTextWithoutDialogue(t *testing.T) {
	f, _, _ := newTestForm(t)
	_, err := f.HandleText(context.Background(), 7, "hello")
	if !errors.Is(err, ErrNoDialogue) {
		t.Fatalf("err = %v, expected ErrNoDialogue", err)
	}
}

func TestStartDiscardsPreviousDialogue(t *testing.T) {
	f, sessions, _ := newTestForm(t)
	f.Start(7)
	feed(t, f, 7, "Food", "12.50")

	f.Start(7)
	sess, _ := sessions.Get(7)
	if sess.State != StateCategory1 {
		t.Fatalf("state = %q, restart must rewind to the first step", sess.State)
	}
	if len(sess.Data) != 0 {
		t.Fatalf("restart must drop collected answers, got %v", sess.Data)
	}
}

func TestDialoguesAreIndependentPerUser(t *testing.T) {
	f, sessions, _ := newTestForm(t)
	f.Start(1)
	f.Start(2)
	feed(t, f, 1, "Food")

	s1, _ := sessions.Get(1)
	s2, _ := sessions.Get(2)
	if s1.State != StateExpenses1 {
		t.Fatalf("user 1 state = %q", s1.State)
	}
	if s2.State != StateCategory1 {
		t.Fatalf("user 2 state = %q, must be unaffected by user 1", s2.State)
	}
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.50", 12.50, true},
		{" 7 ", 7, true},
		{"0", 0, true},
		{"1e2", 100, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12,50", 0, false},
		{"NaN", 0, false},
		{"+Inf", 0, false},
	}
	for _, tc := range cases {
		got, err := parseAmount(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("parseAmount(%q) = %v, %v; want %v", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("parseAmount(%q) accepted, want rejection", tc.in)
		}
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	users := storage.NewMemoryUsers()
	reg := NewRegistrar(users)

	reply, err := reg.Register(ctx, 7, "Alice")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reply != msgRegistered {
		t.Fatalf("reply = %q", reply)
	}

	reply, err = reg.Register(ctx, 7, "Alice")
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if reply != msgAlreadyRegistered {
		t.Fatalf("reply = %q, want already-registered notice", reply)
	}
}
