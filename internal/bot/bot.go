// Package bot is a Telegram front end for the chat router. Each incoming text
// message is answered the same way the HTTP chatbot endpoint would answer it.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"fintrack/internal/ai"
	"fintrack/internal/chat"
	"fintrack/internal/core"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	router *chat.Router
}

func New(token string, router *chat.Router) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Bot{api: api, router: router}, nil
}

// Run long-polls Telegram until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	slog.InfoContext(ctx, "Telegram bot started", "username", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.IsCommand() {
		b.handleCommand(ctx, message)
		return
	}

	userID := strconv.FormatInt(message.From.ID, 10)
	exchange, err := b.router.Handle(ctx, userID, message.Text)
	b.reply(ctx, message.Chat.ID, replyText(exchange, err))
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	userID := strconv.FormatInt(message.From.ID, 10)

	switch message.Command() {
	case "start", "help":
		b.reply(ctx, message.Chat.ID,
			"Hi! Ask me about your finances, for example:\n"+
				"- what is my balance\n"+
				"- how much did I spend this month\n"+
				"- what is my planned budget")
	case "summary":
		summary, err := b.router.Summary(ctx, userID)
		if err != nil {
			slog.ErrorContext(ctx, "Summary command failed", "user_id", userID, "error", err)
			b.reply(ctx, message.Chat.ID, "Sorry, I could not load your summary.")
			return
		}
		b.reply(ctx, message.Chat.ID, formatSummary(summary))
	default:
		b.reply(ctx, message.Chat.ID, "Unknown command. Try /summary or just ask a question.")
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		slog.ErrorContext(ctx, "Failed to send telegram message", "chat_id", chatID, "error", err)
	}
}

// replyText maps router outcomes to user-facing text, mirroring the HTTP
// error mapping.
func replyText(exchange core.ChatExchange, err error) string {
	switch {
	case err == nil:
		return exchange.Reply
	case errors.Is(err, chat.ErrEmptyMessage):
		return "Please send me a question about your finances."
	default:
		var upstream *ai.UpstreamError
		if errors.As(err, &upstream) {
			return "The assistant is unavailable right now. Please try again later."
		}
		return "Something went wrong. Please try again."
	}
}

func formatSummary(s core.MonthlySummary) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d\n", s.Window.Month, s.Window.Year)
	fmt.Fprintf(&sb, "Income: %s\n", s.IncomeTotal.Format())
	fmt.Fprintf(&sb, "Expenses: %s\n", s.ExpenseTotal.Format())
	fmt.Fprintf(&sb, "Balance: %s\n", s.Balance.Format())
	fmt.Fprintf(&sb, "Planned budget: %s\n", s.PlannedBudget.Format())
	fmt.Fprintf(&sb, "Actual budget: %s", s.ActualBudget.Format())
	for _, w := range core.Warnings(s) {
		sb.WriteString("\n⚠ ")
		sb.WriteString(w)
	}
	return sb.String()
}
