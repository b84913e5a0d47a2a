package bot

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/support-bot/internal/models"
	"github.com/xaenox/support-bot/internal/resolver"
	"go.uber.org/zap"
)

// historyLimit bounds the per-chat history kept for LLM context. The
// resolver trims further to its own window.
const historyLimit = 12

// Bot is the Telegram front-end. It forwards user messages to the resolver
// and keeps a short per-chat history for context.
type Bot struct {
	api      *tgbotapi.BotAPI
	resolver *resolver.Resolver
	logger   *zap.Logger

	mu      sync.Mutex
	history map[int64][]models.ChatMessage
}

func New(token string, res *resolver.Resolver, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:      api,
		resolver: res,
		logger:   logger,
		history:  make(map[int64][]models.ChatMessage),
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("telegram bot polling", zap.String("username", b.api.Self.UserName))
	for update := range updates {
		if update.Message == nil {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	query := message.Text
	if query == "" {
		return
	}

	resp := b.resolver.GetResponse(ctx, query, b.historyFor(message.Chat.ID))
	b.remember(message.Chat.ID, query, resp.Answer)

	reply := resp.Answer
	if resp.OfferTicket {
		reply += "\n\nYou can open a support ticket with /ticket <describe your issue>."
	}
	b.sendMessage(message.Chat.ID, reply)
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "ticket":
		b.handleTicket(ctx, message)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handleStart(message *tgbotapi.Message) {
	b.sendMessage(message.Chat.ID, "Hi! How can I help you today?")
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	help := `Available commands:
/start - Start the bot
/help - Show this help message
/ticket <text> - Open a support ticket

Just type your question and I'll answer from our FAQ or find out for you.
If I can't help, I'll offer to open a support ticket for our team.`

	b.sendMessage(message.Chat.ID, help)
}

func (b *Bot) handleTicket(ctx context.Context, message *tgbotapi.Message) {
	text := message.CommandArguments()
	if text == "" {
		b.sendMessage(message.Chat.ID, "Usage: /ticket <describe your issue>")
		return
	}

	contact := strconv.FormatInt(message.From.ID, 10)
	ticket, err := b.resolver.CreateTicket(ctx, text, contact)
	if err != nil {
		b.logger.Error("failed to create ticket",
			zap.Error(err),
			zap.Int64("user_id", message.From.ID))
		b.sendMessage(message.Chat.ID, "Sorry, I couldn't create the ticket. Please try again.")
		return
	}

	b.sendMessage(message.Chat.ID, fmt.Sprintf("Ticket created: %d. Our team will follow up.", ticket.ID))
}

func (b *Bot) historyFor(chatID int64) []models.ChatMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.ChatMessage(nil), b.history[chatID]...)
}

func (b *Bot) remember(chatID int64, query, answer string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	h := append(b.history[chatID],
		models.ChatMessage{Role: models.RoleUser, Content: query},
		models.ChatMessage{Role: models.RoleAssistant, Content: answer},
	)
	if len(h) > historyLimit {
		h = h[len(h)-historyLimit:]
	}
	b.history[chatID] = h
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
