package telegram

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/finvik/finbot/core/logger"
	"github.com/finvik/finbot/core/telegram/commands"
)

// Registry holds slash commands and reply-menu label handlers.
type Registry struct {
	commands  map[string]commands.Command
	menu      map[string]tele.HandlerFunc
	menuOrder []string
	menuMu    sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]commands.Command),
		menu:     make(map[string]tele.HandlerFunc),
	}
}

// RegisterCommand adds a new slash command.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) {
	if r == nil || name == "" || cmd.Handler == nil || cmd.Description == "" {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "invalid"),
		)
		return
	}
	if name[0] != '/' {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "no_slash_prefix"),
		)
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.command.duplicate",
			slog.String("name", name),
		)
		return
	}
	r.commands[name] = cmd
}

// ListCommands returns a slice of tele.Command, optionally filtering out hidden commands.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for cmd, meta := range r.commands {
		if visibleOnly && meta.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: cmd, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand searches for a command by name or its aliases and returns the canonical key with metadata if found.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		for _, alias := range cmd.Aliases {
			if alias == name || "/"+alias == name {
				return key, cmd, true
			}
		}
	}
	return "", commands.Command{}, false
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	return r.commands
}

// RegisterMenu maps a reply-keyboard label to its handler.
func (r *Registry) RegisterMenu(label string, handler tele.HandlerFunc) error {
	if r == nil || strings.TrimSpace(label) == "" || handler == nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.menu.skip",
			slog.String("label", label),
			slog.Bool("handler_nil", handler == nil),
		)
		return errors.New("invalid menu registration")
	}
	r.menuMu.Lock()
	defer r.menuMu.Unlock()
	if _, exists := r.menu[label]; exists {
		logger.TWire.LogAttrs(context.Background(), slog.LevelWarn, "register.menu.duplicate",
			slog.String("label", label),
		)
		return errors.New("menu label already registered: " + label)
	}
	r.menu[label] = handler
	r.menuOrder = append(r.menuOrder, label)
	return nil
}

// LookupMenu safely returns a handler by its keyboard label.
func (r *Registry) LookupMenu(label string) (tele.HandlerFunc, bool) {
	r.menuMu.RLock()
	defer r.menuMu.RUnlock()
	h, ok := r.menu[label]
	return h, ok
}

// MenuLabels returns labels in registration order (for keyboard construction and diagnostics).
func (r *Registry) MenuLabels() []string {
	r.menuMu.RLock()
	defer r.menuMu.RUnlock()
	return append([]string(nil), r.menuOrder...)
}

// InitBotCommands sets the Telegram bot commands shown in the command menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	cmds := reg.ListCommands(true)
	if err := bot.SetCommands(cmds); err != nil {
		logger.TWire.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
	}
}
