package main

import (
	"context"

	"github.com/apex/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"firedev/bot/client"
	"firedev/bot/config"
	"firedev/bot/relay"
	"firedev/bot/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	log.Infof("Authorized on account %s", bot.Self.UserName)

	var sessions session.Store
	if cfg.RedisAddr != "" {
		sessions, err = session.NewRedisStore(context.Background(), cfg.RedisAddr, cfg.SessionTTL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Infof("Using Redis session store at %s", cfg.RedisAddr)
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	rl := relay.New(sessions, client.New(cfg.BackendURL), &telegramMessenger{bot: bot})

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := bot.GetUpdatesChan(u)

	log.Info("Starting Fire Coordination Bot...")
	for update := range updates {
		dispatch(rl, update)
	}
}

// dispatch routes one Telegram update to the relay. Updates arrive
// serially per conversation, so handlers run without coordination.
func dispatch(rl *relay.Relay, update tgbotapi.Update) {
	ctx := context.Background()

	switch {
	case update.CallbackQuery != nil:
		cq := update.CallbackQuery
		if cq.Message == nil || !relay.IsCategory(cq.Data) {
			return
		}
		rl.HandleCategory(ctx, userOf(cq.From), cq.Message.Chat.ID, cq.Message.MessageID, cq.ID, cq.Data)

	case update.EditedMessage != nil && update.EditedMessage.Location != nil:
		m := update.EditedMessage
		rl.HandleEditedLocation(ctx, userOf(m.From), m.Location.Latitude, m.Location.Longitude)

	case update.Message != nil:
		m := update.Message
		switch {
		case m.IsCommand():
			switch m.Command() {
			case "start":
				rl.HandleStart(m.Chat.ID)
			case "help":
				rl.HandleHelp(m.Chat.ID)
			case "cancel":
				rl.HandleCancel(ctx, userOf(m.From), m.Chat.ID)
			case "stop_live":
				rl.HandleStopLive(ctx, userOf(m.From), m.Chat.ID)
			}
		case m.Location != nil:
			live := m.Location.LivePeriod > 0
			rl.HandleLocation(ctx, userOf(m.From), m.Chat.ID, m.Location.Latitude, m.Location.Longitude, live)
		}
	}
}

func userOf(u *tgbotapi.User) relay.User {
	if u == nil {
		return relay.User{}
	}
	return relay.User{ID: u.ID, Username: u.UserName}
}

// telegramMessenger adapts the bot API to the relay's Messenger.
type telegramMessenger struct {
	bot *tgbotapi.BotAPI
}

func (t *telegramMessenger) SendText(chatID int64, text string) error {
	_, err := t.bot.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (t *telegramMessenger) SendCategoryPrompt(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = categoryKeyboard()
	_, err := t.bot.Send(msg)
	return err
}

func (t *telegramMessenger) EditText(chatID int64, messageID int, text string) error {
	_, err := t.bot.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}

func (t *telegramMessenger) AnswerCallback(callbackID, text string) error {
	_, err := t.bot.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

// categoryKeyboard lays the four choices out one per row, same as the
// map legend ordering.
func categoryKeyboard() tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(relay.CategoryOptions))
	for _, opt := range relay.CategoryOptions {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(opt.Label, opt.Data)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
