package app

import (
	"errors"

	tele "gopkg.in/telebot.v4"

	"github.com/finvik/finbot/core/telegram/helpers"
	"github.com/finvik/finbot/internal/finance"
)

// formFSM adapts the expense dialogue to the text router's FSM interface.
type formFSM struct {
	form *finance.Form
}

func (f *formFSM) InProgress(userID int64) bool {
	return f.form.InProgress(userID)
}

func (f *formFSM) HandleTurn(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := helpers.BuildContext(c)

	reply, err := f.form.HandleText(ctx, sender.ID, c.Text())
	if errors.Is(err, finance.ErrNoDialogue) {
		// The session expired between the InProgress check and the turn.
		return nil
	}
	if reply != "" {
		if sendErr := helpers.SendText(c, reply); sendErr != nil {
			return sendErr
		}
	}
	return err
}
