// Package telegram exposes the planner over a Telegram webhook bot.
package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mealmind/internal/app"
	"mealmind/internal/config"
	"mealmind/internal/logging"
	"mealmind/internal/metrics"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `Commands:
/plan <household-id> [days] - generate a weekly meal plan
/dislike <household-id> <ingredient> - remember a rejected ingredient
/metrics - usage and health report

Send a recipe URL to save it to the library.`

// Bot wraps the Telegram API around the planning application.
type Bot struct {
	api          *tgbotapi.BotAPI
	app          *app.App
	metricsStore *metrics.Store
	cfg          *config.Config
	logger       *logging.Logger
}

// NewBot initializes the Telegram Bot and sets the webhook.
func NewBot(cfg *config.Config, application *app.App, metricsStore *metrics.Store, logger *logging.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	logger.Info("telegram_authorized", "account", api.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("telegram_webhook_set", "response", resp.Description)

	return &Bot{
		api:          api,
		app:          application,
		metricsStore: metricsStore,
		cfg:          cfg,
		logger:       logger,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("telegram_update_parse_failed", "error", err)
		return
	}

	if update.Message == nil {
		return
	}

	if update.Message.From.ID != b.cfg.TelegramAllowUserID {
		b.logger.Warn("telegram_unauthorized_access",
			"user_id", update.Message.From.ID,
			"username", update.Message.From.UserName,
		)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/plan"):
		b.handlePlanRequest(msg, text)
	case strings.HasPrefix(text, "/dislike"):
		b.handleDislikeRequest(msg, text)
	case text == "/metrics":
		b.handleMetricsCommand(msg.Chat.ID)
	case strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://"):
		b.handleImportRequest(msg)
	default:
		b.send(msg.Chat.ID, helpText)
	}
}

func (b *Bot) handlePlanRequest(msg *tgbotapi.Message, text string) {
	householdID, days, err := parsePlanArgs(text, b.cfg.DefaultDays)
	if err != nil {
		b.send(msg.Chat.ID, "Usage: /plan <household-id> [days]")
		return
	}

	statusMsg, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "Cooking up your weekly plan..."))
	if err != nil {
		b.logger.Warn("telegram_send_failed", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := b.app.RunPlan(ctx, householdID, days, b.cfg.DefaultMaxRetries)
	if err != nil {
		b.logger.Warn("telegram_plan_failed", "household_id", householdID, "error", err)
		b.edit(msg.Chat.ID, statusMsg.MessageID, "Error generating plan: "+err.Error())
		return
	}

	// The summary replaces the status message; the checklist follows as
	// its own message so it can be forwarded separately.
	b.edit(msg.Chat.ID, statusMsg.MessageID, result.Summary)
	b.send(msg.Chat.ID, result.Grocery.Checklist())
}

func (b *Bot) handleDislikeRequest(msg *tgbotapi.Message, text string) {
	fields := strings.Fields(text)
	if len(fields) < 3 {
		b.send(msg.Chat.ID, "Usage: /dislike <household-id> <ingredient>")
		return
	}
	householdID := fields[1]
	ingredient := strings.Join(fields[2:], " ")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := b.app.RecordDislike(ctx, householdID, ingredient); err != nil {
		b.logger.Warn("telegram_dislike_failed", "error", err)
		b.send(msg.Chat.ID, "Error recording dislike: "+err.Error())
		return
	}
	b.send(msg.Chat.ID, fmt.Sprintf("Noted. No more %s for %s.", ingredient, householdID))
}

func (b *Bot) handleImportRequest(msg *tgbotapi.Message) {
	statusMsg, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "Clipping recipe..."))
	if err != nil {
		b.logger.Warn("telegram_send_failed", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	entry, err := b.app.ImportRecipe(ctx, msg.Text)
	if err != nil {
		b.logger.Warn("telegram_import_failed", "url", msg.Text, "error", err)
		b.edit(msg.Chat.ID, statusMsg.MessageID, "Error clipping recipe: "+err.Error())
		return
	}

	b.edit(msg.Chat.ID, statusMsg.MessageID,
		fmt.Sprintf("Recipe saved: %s (%d min, serves %d)",
			entry.Candidate.Name, entry.Candidate.CookingTimeMinutes, entry.Candidate.Servings))
}

func (b *Bot) handleMetricsCommand(chatID int64) {
	usage, err := b.metricsStore.GetDailyUsage(context.Background(), 7)
	if err != nil {
		b.send(chatID, "Error fetching metrics.")
		return
	}

	health := metrics.GetSysHealth(b.cfg.DBPath)
	b.send(chatID, formatMetricsReport(usage, health))
}

func formatMetricsReport(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("Usage & Health Report\n\n")

	sb.WriteString("Recent LLM Activity\n")
	if len(usage) == 0 {
		sb.WriteString("  no data yet\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("  %s: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\nSystem Health\n")
	sb.WriteString(fmt.Sprintf("  RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("  Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("  Disk Data: %s\n", health.DataDiskSize))

	return sb.String()
}

// parsePlanArgs parses "/plan <household-id> [days]".
func parsePlanArgs(text string, defaultDays int) (string, int, error) {
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return "", 0, fmt.Errorf("missing household id")
	}

	householdID := fields[1]
	days := defaultDays
	if len(fields) >= 3 {
		parsed, err := strconv.Atoi(fields[2])
		if err != nil || parsed <= 0 {
			return "", 0, fmt.Errorf("invalid day count %q", fields[2])
		}
		days = parsed
	}
	return householdID, days, nil
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Warn("telegram_send_failed", "error", err)
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		b.logger.Warn("telegram_send_failed", "error", err)
	}
}
