package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"diet-planner/internal/app"
	"diet-planner/internal/config"
	"diet-planner/internal/database"
	"diet-planner/internal/llm"
	"diet-planner/internal/metrics"
	"diet-planner/internal/nutrition"
	"diet-planner/internal/planner"
	"diet-planner/internal/shopping"
	"diet-planner/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("generation failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	var (
		userID    = flag.String("user", "cli", "user id to store the plan under")
		age       = flag.Int("age", 0, "age in years")
		gender    = flag.String("gender", "", "gender (male/female)")
		height    = flag.Float64("height", 0, "height in cm")
		weight    = flag.Float64("weight", 0, "weight in kg")
		activity  = flag.String("activity", "sedentary", "activity level (sedentary/light/moderate/active/very_active)")
		goal      = flag.String("goal", "maintenance", "goal (weight_loss/muscle_gain/maintenance/health)")
		diet      = flag.String("diet", "", "diet type (e.g. vegetarian)")
		allergies = flag.String("allergies", "", "comma-separated allergies")
		meals     = flag.Int("meals", 3, "meals per day")
		weeks     = flag.Int("weeks", 1, "plan timeline in weeks")
		asJSON    = flag.Bool("json", false, "print the raw plan JSON")
	)
	flag.Parse()

	if *age <= 0 || *height <= 0 || *weight <= 0 {
		flag.Usage()
		return fmt.Errorf("-age, -height and -weight are required")
	}

	profile := nutrition.UserProfile{
		Age:           *age,
		Gender:        *gender,
		HeightCm:      *height,
		WeightKg:      *weight,
		ActivityLevel: nutrition.ActivityLevel(*activity),
		Goal:          nutrition.Goal(*goal),
		TimelineWeeks: *weeks,
	}
	if *allergies != "" {
		profile.Allergies = strings.Split(*allergies, ",")
	}
	prefs := nutrition.DietPreferences{
		DietType:    *diet,
		MealsPerDay: *meals,
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		return err
	}

	ctx := context.Background()

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	textGen, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	templates, err := storage.NewTemplateStore(cfg.TemplateDir, logger)
	if err != nil {
		return err
	}

	application, err := app.New(
		textGen,
		planner.NewPlanRepository(db.SQL),
		app.NewProfileRepository(db.SQL),
		metrics.NewStore(db.SQL),
		shopping.NewRepository(db.SQL),
		templates,
		logger,
	)
	if err != nil {
		return err
	}

	result, err := application.GenerateDietPlan(ctx, *userID, profile, prefs)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Plan)
	}

	printPlan(result.Plan)
	if len(result.Save.Failures) > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d of %d meals not persisted\n",
			len(result.Save.Failures), result.Save.Requested)
	}
	return nil
}

func printPlan(plan *planner.GeneratedDietPlan) {
	source := "template fallback"
	if plan.AIGenerated {
		source = "AI"
	}
	fmt.Printf("%s (%s)\n%d kcal/day over %d week(s)\n\n", plan.Name, source, plan.TotalCalories, plan.DurationWeeks)
	for _, day := range plan.Days {
		fmt.Printf("%s (%.0f kcal)\n", day.DayName, day.TotalDayCalories)
		for _, meal := range day.Meals {
			fmt.Printf("  %-7s %-9s %s (%.0f kcal)\n", meal.MealTime, meal.MealType, meal.Name, meal.Calories)
		}
		fmt.Println()
	}
}
