// Package finance implements the expense dialogue and user registration on
// top of the session and user stores.
package finance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/finvik/finbot/core/metrics"
	"github.com/finvik/finbot/internal/session"
	"github.com/finvik/finbot/internal/storage"
)

// Dialogue steps, in order. Each one waits for the answer named by its field.
const (
	StateCategory1 session.State = "form_category1"
	StateExpenses1 session.State = "form_expenses1"
	StateCategory2 session.State = "form_category2"
	StateExpenses2 session.State = "form_expenses2"
	StateCategory3 session.State = "form_category3"
	StateExpenses3 session.State = "form_expenses3"
)

var (
	// ErrNoDialogue is returned when input arrives for a user without an
	// active dialogue, e.g. after the session expired mid-form.
	ErrNoDialogue = errors.New("no active dialogue")
	// ErrInvalidAmount marks input that does not parse as a positive-or-zero
	// finite number on an amount step.
	ErrInvalidAmount = errors.New("invalid amount")
)

const (
	msgInvalidAmount  = "That doesn't look like a number. Enter the amount using digits, e.g. 12.50."
	msgEmptyCategory  = "The category name cannot be empty."
	msgSaved          = "Categories and expenses saved!"
	msgNotRegistered  = "You are not registered yet. Tap \"Registration\" first, then send the amount again."
	msgCommitFailed   = "Could not save your expenses right now, please try again."
	msgDialogueBroken = "Something went wrong with the form, please start it again."
)

type stepKind int

const (
	stepText stepKind = iota
	stepAmount
)

type step struct {
	state  session.State
	field  string
	kind   stepKind
	prompt string
	// next is the step that follows once this one's answer is accepted;
	// empty means the dialogue commits and ends here.
	next session.State
}

var steps = []step{
	{StateCategory1, "category1", stepText, "Enter the first expense category:", StateExpenses1},
	{StateExpenses1, "expenses1", stepAmount, "Enter the amount spent on the first category:", StateCategory2},
	{StateCategory2, "category2", stepText, "Enter the second expense category:", StateExpenses2},
	{StateExpenses2, "expenses2", stepAmount, "Enter the amount spent on the second category:", StateCategory3},
	{StateCategory3, "category3", stepText, "Enter the third expense category:", StateExpenses3},
	{StateExpenses3, "expenses3", stepAmount, "Enter the amount spent on the third category:", ""},
}

var stepIndex = func() map[session.State]step {
	m := make(map[session.State]step, len(steps))
	for _, s := range steps {
		m[s.state] = s
	}
	return m
}()

// Form drives the six-step expense dialogue. Answers accumulate in the
// session store and are written to the user store in a single commit on the
// final step.
type Form struct {
	sessions session.Store
	users    storage.Users
	rec      metrics.Recorder
}

// NewForm builds a Form. A nil recorder falls back to a no-op one.
func NewForm(sessions session.Store, users storage.Users, rec metrics.Recorder) *Form {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Form{sessions: sessions, users: users, rec: rec}
}

// InProgress reports whether the user has an active dialogue.
func (f *Form) InProgress(userID int64) bool {
	return f.sessions.InProgress(userID)
}

// Start begins a fresh dialogue for the user, discarding any previous one,
// and returns the first prompt.
func (f *Form) Start(userID int64) string {
	f.sessions.Put(userID, session.New(StateCategory1))
	return steps[0].prompt
}

// HandleText feeds one message into the user's dialogue and returns the reply
// to send. Rejected input re-prompts the same step without touching the
// session; the final accepted amount triggers the commit.
func (f *Form) HandleText(ctx context.Context, userID int64, text string) (string, error) {
	sess, ok := f.sessions.Get(userID)
	if !ok {
		return "", ErrNoDialogue
	}
	st, ok := stepIndex[sess.State]
	if !ok {
		f.sessions.Clear(userID)
		return msgDialogueBroken, fmt.Errorf("unknown dialogue step %q", sess.State)
	}

	switch st.kind {
	case stepText:
		answer := strings.TrimSpace(text)
		if answer == "" {
			return msgEmptyCategory + "\n" + st.prompt, nil
		}
		sess.Set(st.field, answer)
	case stepAmount:
		amount, err := parseAmount(text)
		if err != nil {
			return msgInvalidAmount + "\n" + st.prompt, nil
		}
		sess.Set(st.field, amount)
	}

	if st.next != "" {
		sess.State = st.next
		f.sessions.Put(userID, sess)
		return stepIndex[st.next].prompt, nil
	}
	return f.commit(ctx, userID, sess)
}

// commit writes the six collected answers to the user store, then marks the
// session done and clears it. On failure the stored session is left at the
// final step, so the user can resend the last amount after fixing the cause.
func (f *Form) commit(ctx context.Context, userID int64, sess *session.Session) (string, error) {
	exp, err := collectExpenses(sess)
	if err != nil {
		f.sessions.Clear(userID)
		return msgDialogueBroken, err
	}

	if err := f.users.UpdateExpenses(ctx, userID, exp); err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return msgNotRegistered, err
		}
		return msgCommitFailed, err
	}

	sess.State = session.StateDone
	f.sessions.Put(userID, sess)
	f.sessions.Clear(userID)
	f.rec.RecordFormCommit()
	return msgSaved, nil
}

func collectExpenses(sess *session.Session) (storage.Expenses, error) {
	var exp storage.Expenses
	var ok [6]bool
	exp.Category1, ok[0] = sess.String("category1")
	exp.Amount1, ok[1] = sess.Float("expenses1")
	exp.Category2, ok[2] = sess.String("category2")
	exp.Amount2, ok[3] = sess.Float("expenses2")
	exp.Category3, ok[4] = sess.String("category3")
	exp.Amount3, ok[5] = sess.Float("expenses3")
	for i, present := range ok {
		if !present {
			return storage.Expenses{}, fmt.Errorf("dialogue answer %d missing at commit", i+1)
		}
	}
	return exp, nil
}

func parseAmount(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}
