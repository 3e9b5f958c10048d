package helpers

import (
	tele "gopkg.in/telebot.v4"
)

// SendText sends raw text to the current recipient with an optional keyboard markup.
func SendText(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	if len(markup) > 0 && markup[0] != nil {
		return c.Send(text, &tele.SendOptions{ReplyMarkup: markup[0]})
	}
	return c.Send(text)
}
