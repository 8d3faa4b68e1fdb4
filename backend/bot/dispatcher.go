// Package bot is the chat front end. A single default handler receives every
// Telegram update and dispatches it through a table of command and attachment
// handlers; each update runs in its own goroutine, and a failing handler is
// logged and answered with an apology instead of taking the process down.
package bot

import (
	"context"
	"fmt"
	"strings"

	"abrino-storage/backend/common"
	"abrino-storage/backend/model"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const apologyMessage = "Sorry, something went wrong. Please try again later."

// replyFunc sends text back to the chat an update came from. It is a closure
// bound per update so handlers never deal with chat IDs.
type replyFunc func(ctx context.Context, text string) error

// commandFunc handles one slash command. user is nil when the sender has no
// account yet; only /start and /help accept that.
type commandFunc func(ctx context.Context, user *model.User, args string, reply replyFunc) error

type Dispatcher struct {
	commands map[string]commandFunc
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{}
	d.commands = map[string]commandFunc{
		"/start":      d.handleStart,
		"/help":       d.handleHelp,
		"/files":      d.handleFiles,
		"/categories": d.handleCategories,
		"/search":     d.handleSearch,
		"/recent":     d.handleRecent,
	}
	return d
}

// Handle is the bot's default handler. It spawns one goroutine per update.
func (d *Dispatcher) Handle(ctx context.Context, b *tgbot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	reply := func(sendCtx context.Context, text string) error {
		_, err := b.SendMessage(sendCtx, &tgbot.SendMessageParams{
			ChatID: msg.Chat.ID,
			Text:   text,
		})
		return err
	}
	go d.dispatch(ctx, msg, reply)
}

func (d *Dispatcher) dispatch(ctx context.Context, msg *models.Message, reply replyFunc) {
	defer func() {
		if r := recover(); r != nil {
			common.SysError(fmt.Sprintf("bot: panic handling update from %d: %v", msg.From.ID, r))
			_ = reply(ctx, apologyMessage)
		}
	}()

	var err error
	switch {
	case msg.Document != nil:
		err = d.handleDocument(ctx, msg, reply)
	case len(msg.Photo) > 0:
		err = d.handlePhoto(ctx, msg, reply)
	case msg.Audio != nil:
		err = d.handleAudio(ctx, msg, reply)
	case msg.Video != nil:
		err = d.handleVideo(ctx, msg, reply)
	case msg.Voice != nil:
		err = d.handleVoice(ctx, msg, reply)
	case strings.HasPrefix(msg.Text, "/"):
		err = d.dispatchCommand(ctx, msg, reply)
	default:
		// Plain text that is not a command; nudge towards /help.
		err = reply(ctx, "Send me a file to store it, or type /help to see what I can do.")
	}
	if err != nil {
		common.SysError("bot: handler failed: " + err.Error())
		_ = reply(ctx, apologyMessage)
	}
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, msg *models.Message, reply replyFunc) error {
	name, args := splitCommand(msg.Text)
	handler, ok := d.commands[name]
	if !ok {
		return reply(ctx, "Unknown command. Type /help to see available commands.")
	}

	user, err := model.GetUserByTelegramID(msg.From.ID)
	if err != nil {
		user = nil
	}
	if user == nil {
		switch name {
		case "/start":
			if _, err := model.RegisterTelegramUser(msg.From.ID); err != nil {
				return err
			}
			return reply(ctx, "Hi! I store your files and let you find them again later.\n\nSend me any file to get started, or type /help for the command list.")
		case "/help":
		default:
			return reply(ctx, "Please use /start to register first.")
		}
	}
	return handler(ctx, user, args, reply)
}

// resolveOrProvision returns the sender's account, creating a chat-only one on
// first contact.
func resolveOrProvision(telegramID int64) (*model.User, error) {
	user, err := model.GetUserByTelegramID(telegramID)
	if err == nil {
		return user, nil
	}
	return model.RegisterTelegramUser(telegramID)
}

// splitCommand separates "/files docs extra" into "/files" and "docs extra",
// stripping the @botname suffix Telegram appends in groups.
func splitCommand(text string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	name := parts[0]
	if at := strings.Index(name, "@"); at > 0 {
		name = name[:at]
	}
	args := ""
	if len(parts) == 2 {
		args = strings.TrimSpace(parts[1])
	}
	return name, args
}
