package bot

import (
	"tg_quiz_backend/internal/config"
	"tg_quiz_backend/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	startMessage = "Привет! Это квиз-бот. Нажми кнопку ниже, чтобы начать викторину."
	menuMessage  = "Команды:\n/start — открыть квиз\n/help — помощь"
	helpMessage  = "Открой мини-приложение кнопкой в /start, выбери сложность и отвечай на вопросы."
)

// Bot Telegram 命令层：只负责把用户引导进 Mini App，
// 测验本身完全在 HTTP API 里进行
type Bot struct {
	api       *tgbotapi.BotAPI
	webAppURL string
}

func NewBot(cfg *config.TelegramConfig) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:       api,
		webAppURL: cfg.WebAppURL,
	}, nil
}

// Run 长轮询处理命令，直到 Stop 被调用
func (b *Bot) Run() {
	logger.Log.Info("Telegram bot authorised", zap.String("username", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		switch update.Message.Command() {
		case "start":
			b.sendStart(update.Message.Chat.ID)
		case "menu":
			b.sendMessage(update.Message.Chat.ID, menuMessage)
		case "help":
			b.sendMessage(update.Message.Chat.ID, helpMessage)
		default:
			b.sendMessage(update.Message.Chat.ID, "Неизвестная команда. Попробуй /help")
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

func (b *Bot) sendStart(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, startMessage)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Открыть квиз", b.webAppURL),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		logger.Log.Error("failed to send start message", zap.Error(err))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logger.Log.Error("failed to send message", zap.Error(err))
	}
}
