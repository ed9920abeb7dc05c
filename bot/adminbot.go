package bot

import (
	"ProgJulia/bot/admin"
	"ProgJulia/entity"
	"ProgJulia/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/PaulSonOfLars/gotgbot/v2/ext"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers"
	"github.com/PaulSonOfLars/gotgbot/v2/ext/handlers/filters/message"
)

var commandKeyboard = [][]string{
	{"/help", admin.ExitCommand},
	{"/group_list", "/users_list"},
	{"/users_list_web", "/web"},
}

// AccountService resolves the operator behind a chat.
type AccountService interface {
	FindByChatID(ctx context.Context, chatID string) (*entity.User, error)
	LinkChat(ctx context.Context, uniqueID, chatID string) (bool, error)
}

// Executor runs admin commands for a resolved operator.
type Executor interface {
	Execute(ctx context.Context, operator *entity.User, u admin.Update)
}

// AdminBot is the Telegram front of the admin command engine.
type AdminBot struct {
	log         *slog.Logger
	api         *tgbotapi.Bot
	botUsername string
	adminId     int64
	messenger   *Messenger
	accounts    AccountService
	executor    Executor
}

func NewAdminBot(botName, apiKey string, adminId, maxFileSize int64, log *slog.Logger) (*AdminBot, error) {
	bot := &AdminBot{
		log:         log.With(sl.Module("adminbot")),
		adminId:     adminId,
		botUsername: botName,
	}

	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	bot.api = api
	bot.messenger = NewMessenger(api, apiKey, maxFileSize)

	return bot, nil
}

func (b *AdminBot) Messenger() *Messenger {
	return b.messenger
}

func (b *AdminBot) SetAccountService(accounts AccountService) {
	b.accounts = accounts
}

func (b *AdminBot) SetExecutor(executor Executor) {
	b.executor = executor
}

// Start begins polling for updates and blocks while the bot runs.
func (b *AdminBot) Start() error {
	dispatcher := ext.NewDispatcher(&ext.DispatcherOpts{
		Error: func(bot *tgbotapi.Bot, ctx *ext.Context, err error) ext.DispatcherAction {
			b.log.Error("handling update", sl.Err(err))
			return ext.DispatcherActionNoop
		},
		MaxRoutines: ext.DefaultMaxRoutines,
	})
	updater := ext.NewUpdater(dispatcher, nil)

	dispatcher.AddHandler(handlers.NewCommand("start", b.handleStart))
	dispatcher.AddHandler(handlers.NewMessage(message.Text, b.handleMessage))
	dispatcher.AddHandler(handlers.NewMessage(hasDocument, b.handleMessage))

	err := updater.StartPolling(b.api, &ext.PollingOpts{
		DropPendingUpdates: true,
		GetUpdatesOpts: &tgbotapi.GetUpdatesOpts{
			Timeout: 9,
			RequestOpts: &tgbotapi.RequestOpts{
				Timeout: time.Second * 10,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to start polling: %w", err)
	}

	b.log.Info("admin bot started", slog.String("username", b.botUsername))

	updater.Idle()

	return nil
}

func hasDocument(msg *tgbotapi.Message) bool {
	return msg.Document != nil
}

// SendMessage delivers a service message to the bot admin.
func (b *AdminBot) SendMessage(msg string) {
	if b.adminId == 0 {
		return
	}
	if err := b.messenger.SendText(strconv.FormatInt(b.adminId, 10), msg); err != nil {
		b.log.With(slog.Int64("id", b.adminId)).Warn("sending admin message", sl.Err(err))
	}
}

// handleStart links the chat to an account when a registration code follows /start.
func (b *AdminBot) handleStart(_ *tgbotapi.Bot, ctx *ext.Context) error {
	chatID := ctx.EffectiveChat.Id
	text := "Welcome to Prog Academy!"

	args := strings.Fields(ctx.EffectiveMessage.Text)
	if len(args) > 1 && b.accounts != nil {
		linked, err := b.accounts.LinkChat(context.Background(), args[1], strconv.FormatInt(chatID, 10))
		if err != nil {
			b.log.With(slog.Int64("chat_id", chatID), sl.Err(err)).Error("link chat")
			return err
		}
		if !linked {
			text = "Registration code not found"
		}
	}

	return b.messenger.SendKeyboard(chatID, text, commandKeyboard)
}

func (b *AdminBot) handleMessage(_ *tgbotapi.Bot, ctx *ext.Context) error {
	msg := ctx.EffectiveMessage
	update := admin.Update{
		ChatID: ctx.EffectiveChat.Id,
		Text:   strings.TrimSpace(msg.Text),
	}
	if msg.Document != nil {
		update.Document = &admin.Document{
			FileID:   msg.Document.FileId,
			FileName: msg.Document.FileName,
			Size:     msg.Document.FileSize,
		}
		update.Text = strings.TrimSpace(msg.Caption)
	}
	b.dispatch(context.Background(), update)
	return nil
}

// dispatch authorises the chat and hands the update to the executor.
func (b *AdminBot) dispatch(ctx context.Context, u admin.Update) {
	chatID := strconv.FormatInt(u.ChatID, 10)
	reply := func(text string) {
		if err := b.messenger.SendText(chatID, text); err != nil {
			b.log.With(slog.Int64("chat_id", u.ChatID), sl.Err(err)).Warn("send reply")
		}
	}

	if b.accounts == nil || b.executor == nil {
		b.log.Warn("admin bot is not initialized")
		return
	}

	user, err := b.accounts.FindByChatID(ctx, chatID)
	if err != nil {
		b.log.With(slog.Int64("chat_id", u.ChatID), sl.Err(err)).Error("find operator")
		reply("Service is temporarily unavailable, please try again later")
		return
	}
	if user == nil {
		reply("No user registered to execute the command")
		return
	}
	if user.Banned {
		reply("Your Account is Blocked")
		return
	}

	b.executor.Execute(ctx, user, u)
}
