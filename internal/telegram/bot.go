// Package telegram exposes the planner over a Telegram bot webhook.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"diet-planner/internal/app"
	"diet-planner/internal/nutrition"
	"diet-planner/internal/planner"
)

const commandTimeout = 2 * time.Minute

// Bot handles Telegram webhook updates and maps commands onto app
// operations.
type Bot struct {
	api     *tgbotapi.BotAPI
	app     *app.App
	allowed map[int64]bool
	logger  *zap.Logger
}

// NewBot creates the bot and registers its webhook with Telegram. An empty
// allowedUserIDs list admits everyone.
func NewBot(token, webhookURL string, allowedUserIDs []int64, application *app.App, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return nil, fmt.Errorf("failed to set webhook: %w", err)
	}

	allowed := make(map[int64]bool, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = true
	}

	return &Bot{
		api:     api,
		app:     application,
		allowed: allowed,
		logger:  logger.Named("telegram"),
	}, nil
}

// Handler returns the HTTP handler Telegram posts updates to.
func (b *Bot) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			b.logger.Warn("failed to decode webhook update", zap.Error(err))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b.handleUpdate(update)
		w.WriteHeader(http.StatusOK)
	})
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}
	msg := update.Message
	userID := msg.From.ID

	if len(b.allowed) > 0 && !b.allowed[userID] {
		b.logger.Warn("rejected update from unlisted user", zap.Int64("user_id", userID))
		b.reply(msg.Chat.ID, "Sorry, this bot is private.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	var err error
	switch msg.Command() {
	case "start", "help":
		b.reply(msg.Chat.ID, helpText)
	case "profile":
		err = b.handleProfile(ctx, msg)
	case "plan":
		err = b.handlePlan(ctx, msg)
	case "shopping":
		err = b.handleShopping(ctx, msg)
	case "clip":
		err = b.handleClip(ctx, msg)
	case "stats":
		err = b.handleStats(ctx, msg)
	default:
		b.reply(msg.Chat.ID, "Unknown command. Send /help for the command list.")
	}

	if err != nil {
		b.logger.Error("command failed",
			zap.String("command", msg.Command()),
			zap.Int64("user_id", userID),
			zap.Error(err))
		b.reply(msg.Chat.ID, "Something went wrong, please try again.")
	}
}

const helpText = `Diet planner commands:
/profile - show your profile
/profile age=30 gender=male height=180 weight=80 activity=moderate goal=weight_loss meals=3 - set it
/plan - generate a weekly diet plan
/shopping - shopping list for your active plan
/clip <url> - import a recipe into the template library
/stats - usage and health`

func (b *Bot) handleProfile(ctx context.Context, msg *tgbotapi.Message) error {
	userID := strconv.FormatInt(msg.From.ID, 10)
	args := strings.TrimSpace(msg.CommandArguments())

	if args == "" {
		profile, prefs, err := b.app.GetProfile(ctx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			b.reply(msg.Chat.ID, "No profile yet. Set one with:\n/profile age=30 gender=male height=180 weight=80 activity=moderate goal=weight_loss meals=3")
			return nil
		}
		b.reply(msg.Chat.ID, formatProfile(*profile, *prefs))
		return nil
	}

	profile, prefs, err := parseProfileArgs(args)
	if err != nil {
		b.reply(msg.Chat.ID, fmt.Sprintf("Could not read that: %v", err))
		return nil
	}
	if err := b.app.SaveProfile(ctx, userID, profile, prefs); err != nil {
		return err
	}
	target := nutrition.TargetCalories(profile)
	b.reply(msg.Chat.ID, fmt.Sprintf("Profile saved. Daily target: %d kcal. Send /plan to generate your week.", target))
	return nil
}

func (b *Bot) handlePlan(ctx context.Context, msg *tgbotapi.Message) error {
	userID := strconv.FormatInt(msg.From.ID, 10)

	profile, prefs, err := b.app.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		b.reply(msg.Chat.ID, "Set up your profile first with /profile.")
		return nil
	}

	b.reply(msg.Chat.ID, "Generating your weekly plan...")
	result, err := b.app.GenerateDietPlan(ctx, userID, *profile, *prefs)
	if err != nil {
		return err
	}
	b.reply(msg.Chat.ID, formatPlan(result.Plan))
	return nil
}

func (b *Bot) handleShopping(ctx context.Context, msg *tgbotapi.Message) error {
	userID := strconv.FormatInt(msg.From.ID, 10)

	plan, err := b.app.ActivePlan(ctx, userID)
	if err != nil {
		return err
	}
	if plan == nil {
		b.reply(msg.Chat.ID, "No active plan. Generate one with /plan.")
		return nil
	}

	list, err := b.app.ShoppingList(ctx, plan.ID)
	if err != nil {
		return err
	}
	if list == nil || len(list.Items) == 0 {
		b.reply(msg.Chat.ID, "No shopping list for your active plan.")
		return nil
	}

	var sb strings.Builder
	sb.WriteString("Shopping list:\n")
	for _, item := range list.Items {
		if item.Unit != "" {
			fmt.Fprintf(&sb, "- %s: %.4g %s\n", item.Name, item.Amount, item.Unit)
		} else {
			fmt.Fprintf(&sb, "- %s: %.4g\n", item.Name, item.Amount)
		}
	}
	b.reply(msg.Chat.ID, sb.String())
	return nil
}

func (b *Bot) handleClip(ctx context.Context, msg *tgbotapi.Message) error {
	url := strings.TrimSpace(msg.CommandArguments())
	if url == "" {
		b.reply(msg.Chat.ID, "Usage: /clip <recipe url>")
		return nil
	}

	tmpl, err := b.app.ImportTemplate(ctx, url)
	if err != nil {
		return err
	}
	b.reply(msg.Chat.ID, fmt.Sprintf("Imported %q as a %s template.", tmpl.Name, tmpl.MealType))
	return nil
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	stats, err := b.app.GetStats(ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("Today's model usage:\n")
	if len(stats.Usage) == 0 {
		sb.WriteString("- none\n")
	}
	for _, u := range stats.Usage {
		fmt.Fprintf(&sb, "- %s: %d calls, %d prompt / %d completion tokens\n",
			u.Model, u.Calls, u.PromptTokens, u.CompletionTokens)
	}
	fmt.Fprintf(&sb, "\nUptime %s, %d goroutines, heap %.1f MB, %d GCs\n",
		stats.Sys.Uptime, stats.Sys.Goroutines, stats.Sys.HeapAllocMB, stats.Sys.NumGC)
	b.reply(msg.Chat.ID, sb.String())
	return nil
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func formatProfile(profile nutrition.UserProfile, prefs nutrition.DietPreferences) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Age: %d\nGender: %s\nHeight: %.0f cm\nWeight: %.1f kg\n",
		profile.Age, profile.Gender, profile.HeightCm, profile.WeightKg)
	fmt.Fprintf(&sb, "Activity: %s\nGoal: %s\nMeals per day: %d\n",
		profile.ActivityLevel, profile.Goal, prefs.MealCount())
	fmt.Fprintf(&sb, "Daily target: %d kcal", nutrition.TargetCalories(profile))
	return sb.String()
}

func formatPlan(plan *planner.GeneratedDietPlan) string {
	var sb strings.Builder
	source := "template"
	if plan.AIGenerated {
		source = "AI"
	}
	fmt.Fprintf(&sb, "%s (%s, %d kcal/day)\n\n", plan.Name, source, plan.TotalCalories)
	for _, day := range plan.Days {
		fmt.Fprintf(&sb, "%s:\n", day.DayName)
		for _, meal := range day.Meals {
			fmt.Fprintf(&sb, "  %s %s - %s (%.0f kcal)\n", meal.MealTime, meal.MealType, meal.Name, meal.Calories)
		}
	}
	return sb.String()
}

func parseProfileArgs(args string) (nutrition.UserProfile, nutrition.DietPreferences, error) {
	profile := nutrition.UserProfile{}
	prefs := nutrition.DietPreferences{}

	for _, field := range strings.Fields(args) {
		key, value, found := strings.Cut(field, "=")
		if !found {
			return profile, prefs, fmt.Errorf("expected key=value, got %q", field)
		}
		var err error
		switch key {
		case "age":
			profile.Age, err = strconv.Atoi(value)
		case "gender":
			profile.Gender = value
		case "height":
			profile.HeightCm, err = strconv.ParseFloat(value, 64)
		case "weight":
			profile.WeightKg, err = strconv.ParseFloat(value, 64)
		case "target_weight":
			profile.TargetWeightKg, err = strconv.ParseFloat(value, 64)
		case "activity":
			profile.ActivityLevel = nutrition.ActivityLevel(value)
		case "goal":
			profile.Goal = nutrition.Goal(value)
		case "diet":
			prefs.DietType = value
		case "cuisine":
			prefs.CuisinePreferences = strings.Split(value, ",")
		case "allergies":
			profile.Allergies = strings.Split(value, ",")
		case "meals":
			prefs.MealsPerDay, err = strconv.Atoi(value)
		case "weeks":
			profile.TimelineWeeks, err = strconv.Atoi(value)
		default:
			return profile, prefs, fmt.Errorf("unknown field %q", key)
		}
		if err != nil {
			return profile, prefs, fmt.Errorf("bad value for %s: %w", key, err)
		}
	}

	if profile.Age <= 0 || profile.HeightCm <= 0 || profile.WeightKg <= 0 {
		return profile, prefs, fmt.Errorf("age, height and weight are required")
	}
	return profile, prefs, nil
}
