package app

import (
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/finvik/finbot/core/logger"
	tg "github.com/finvik/finbot/core/telegram"
	"github.com/finvik/finbot/core/telegram/commands"
	"github.com/finvik/finbot/core/telegram/helpers"
	"github.com/finvik/finbot/core/telegram/keyboard"
	"github.com/finvik/finbot/internal/rates"
)

// Reply-menu labels. The router matches incoming text against these verbatim.
const (
	menuRegistration = "Registration"
	menuExchangeRate = "Exchange rate"
	menuTips         = "Saving tips"
	menuFinances     = "Personal finances"
)

const (
	msgGreeting        = "Hello! I am your personal finance assistant. Pick an option:"
	msgRateUnavailable = "Could not fetch the exchange rate right now, try again later."
	msgSlowDown        = "Too many messages, give me a second."
)

func (a *App) mainMenu() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(
		[]string{menuRegistration, menuExchangeRate},
		[]string{menuTips, menuFinances},
	)
}

func (a *App) buildRegistry() *tg.Registry {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Show the main menu",
	})

	_ = reg.RegisterMenu(menuRegistration, a.handleRegistration)
	_ = reg.RegisterMenu(menuExchangeRate, a.handleExchangeRate)
	_ = reg.RegisterMenu(menuTips, a.handleTips)
	_ = reg.RegisterMenu(menuFinances, a.handleFinances)

	return reg
}

func (a *App) handleStart(c tele.Context) error {
	return helpers.SendText(c, msgGreeting, a.mainMenu())
}

func (a *App) handleRegistration(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	ctx := helpers.BuildContext(c)

	reply, err := a.registrar.Register(ctx, sender.ID, sender.FirstName)
	if err != nil {
		return err
	}
	return helpers.SendText(c, reply)
}

func (a *App) handleExchangeRate(c tele.Context) error {
	ctx := helpers.BuildContext(c)

	q, err := a.rates.Quote(ctx, a.cfg.Rates.Target, a.cfg.Rates.Cross)
	a.collector.RecordRateFetch(err)
	if err != nil {
		if sendErr := helpers.SendText(c, msgRateUnavailable); sendErr != nil {
			return sendErr
		}
		return err
	}
	return helpers.SendText(c, formatQuote(q))
}

func (a *App) handleTips(c tele.Context) error {
	return helpers.SendText(c, a.tips.Pick())
}

func (a *App) handleFinances(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	return helpers.SendText(c, a.form.Start(sender.ID))
}

func (a *App) onRateLimited(c tele.Context) error {
	if sender := c.Sender(); sender != nil {
		logger.TG.Debug("rate limited",
			slog.String("event", "rate_limited"),
			slog.Int64("user_id", sender.ID),
		)
	}
	return helpers.SendText(c, msgSlowDown)
}

func formatQuote(q rates.Quote) string {
	return fmt.Sprintf("1 %s - %.2f %s\n1 %s - %.2f %s",
		q.Base, q.TargetRate, q.Target,
		q.Cross, q.CrossRate, q.Target,
	)
}
