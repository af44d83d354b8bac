package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fridge-planner/internal/config"
	"fridge-planner/internal/expiry"
	"fridge-planner/internal/logger"
	"fridge-planner/internal/metrics"
	"fridge-planner/internal/pantry"
	"fridge-planner/internal/plan"
)

// messageSender is the slice of the Telegram API used for outgoing replies.
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot wraps the Telegram API around the pantry store and meal plan
// scheduler. Commands from allow-listed users drive the same core operations
// the CLI exposes. The stores require caller-side serialization, so command
// processing holds mu for its full duration.
type Bot struct {
	api          *tgbotapi.BotAPI
	sender       messageSender
	pantryStore  *pantry.Store
	scheduler    *plan.Scheduler
	metricsStore *metrics.Store
	cfg          *config.Config

	mu sync.Mutex
}

// NewBot initializes the Telegram Bot and sets the webhook.
func NewBot(
	cfg *config.Config,
	pantryStore *pantry.Store,
	scheduler *plan.Scheduler,
	metricsStore *metrics.Store,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	logger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", zap.String("response", resp.Description))

	return &Bot{
		api:          bot,
		sender:       bot,
		pantryStore:  pantryStore,
		scheduler:    scheduler,
		metricsStore: metricsStore,
		cfg:          cfg,
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
		logger.Error("error parsing update", zap.Error(err))
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		logger.Warn("unauthorized access attempt",
			zap.Int64("user_id", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName))
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	// One command at a time: the pantry store and scheduler are not safe for
	// concurrent use, and webhook updates arrive on separate goroutines.
	b.mu.Lock()
	defer b.mu.Unlock()

	switch msg.Command() {
	case "fridge":
		b.handleFridge(msg)
	case "add":
		b.handleAdd(msg)
	case "week":
		b.handleWeek(msg)
	case "totals":
		b.handleTotals(msg)
	case "status":
		b.handleStatus(msg)
	default:
		b.reply(msg.Chat.ID, helpText)
	}
}

const helpText = `*Fridge Planner*
/fridge — list what's in the fridge
/add name, qty[, YYYY-MM-DD] — add an item
/week — this week's meal plan
/totals — this week's nutrition totals
/status — service health (admin)`

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := b.sender.Send(msg); err != nil {
		logger.Error("failed to send reply", zap.Error(err))
	}
}

func (b *Bot) handleFridge(msg *tgbotapi.Message) {
	ctx := context.Background()
	if err := b.pantryStore.Load(ctx); err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Could not load the fridge: %v", err))
		return
	}

	today := time.Now()
	groups := pantry.Apply(b.pantryStore.Items(), pantry.DefaultFilterState(), today)
	if len(groups) == 0 {
		b.reply(msg.Chat.ID, "Your fridge is empty.")
		return
	}

	stats := b.pantryStore.Stats()
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Your fridge* — %d items, %d expiring, %d expired\n", stats.Total, stats.Expiring, stats.Expired)
	for _, category := range pantry.Categories(groups) {
		fmt.Fprintf(&sb, "\n*%s*\n", category)
		for _, it := range groups[category] {
			marker := ""
			switch expiry.Classify(it.ExpiresOn, today) {
			case expiry.Expired:
				marker = " ⚠️ expired"
			case expiry.DueToday, expiry.DueTomorrow:
				marker = " ⏰ " + expiry.Classify(it.ExpiresOn, today).String()
			}
			fmt.Fprintf(&sb, "• %s ×%d%s\n", it.Name, it.Quantity, marker)
		}
	}
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleAdd(msg *tgbotapi.Message) {
	parts := strings.Split(msg.CommandArguments(), ",")
	if len(parts) < 1 || strings.TrimSpace(parts[0]) == "" {
		b.reply(msg.Chat.ID, "Usage: /add name, qty[, YYYY-MM-DD]")
		return
	}

	in := pantry.NewItemInput{Name: strings.TrimSpace(parts[0]), Quantity: 1}
	if len(parts) > 1 {
		qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			b.reply(msg.Chat.ID, "Quantity must be a number.")
			return
		}
		in.Quantity = qty
	}
	if len(parts) > 2 {
		d, err := expiry.ParseDate(strings.TrimSpace(parts[2]))
		if err != nil {
			b.reply(msg.Chat.ID, "Expiry date must be YYYY-MM-DD.")
			return
		}
		in.ExpiresOn = &d
	}

	if err := b.pantryStore.Add(context.Background(), in); err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Could not add %q: %v", in.Name, err))
		return
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("✅ Added *%s* ×%d", in.Name, in.Quantity))
}

func (b *Bot) handleWeek(msg *tgbotapi.Message) {
	ctx := context.Background()
	if err := b.scheduler.LoadWeek(ctx, time.Now()); err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Could not load the plan: %v", err))
		return
	}

	var sb strings.Builder
	sb.WriteString("*This week*\n")
	for _, day := range b.scheduler.Week() {
		fmt.Fprintf(&sb, "\n*%s %d*\n", day.Label, day.DayNumber)
		planned := false
		for _, meal := range plan.MealTypes {
			if entry, ok := b.scheduler.EntryFor(day.ISOKey, meal); ok {
				fmt.Fprintf(&sb, "• %s: %s (%.0f kcal)\n", meal, entry.Recipe.Name, entry.Recipe.Calories)
				planned = true
			}
		}
		if !planned {
			sb.WriteString("• nothing planned\n")
		}
	}
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleTotals(msg *tgbotapi.Message) {
	ctx := context.Background()
	if err := b.scheduler.LoadWeek(ctx, time.Now()); err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("❌ Could not load the plan: %v", err))
		return
	}

	t := b.scheduler.Totals()
	b.reply(msg.Chat.ID, fmt.Sprintf(
		"*Week totals*\nMeals: %d\nCalories: %.0f kcal\nProtein: %.0f g\nCarbs: %.0f g",
		t.TotalMeals, t.Calories, t.Protein, t.Carbs))
}

func (b *Bot) handleStatus(msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	health := metrics.CollectSysHealth(b.cfg.DataPath, b.cfg.DatabasePath)
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Service status*\nMem: %d MB (sys %d MB)\nGoroutines: %d\nGC cycles: %d\nDatabase: %s\nData on disk: %s\n",
		health.AllocMB, health.SysMB, health.Goroutines, health.NumGC, health.DatabaseSize, health.DataDirSize)

	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		fmt.Fprintf(&sb, "\nmetrics unavailable: %v", err)
	} else {
		sb.WriteString("\n*API usage (7d)*\n")
		for _, day := range usage {
			fmt.Fprintf(&sb, "%s — %d requests, %d failed, avg %.0fms\n",
				day.Date, day.Requests, day.Failures, day.AvgLatencyMS)
		}
	}
	b.reply(msg.Chat.ID, sb.String())
}
