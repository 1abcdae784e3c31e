package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"mealmind/internal/app"
	"mealmind/internal/config"
	"mealmind/internal/database"
	"mealmind/internal/grocery"
	"mealmind/internal/importer"
	"mealmind/internal/llm"
	"mealmind/internal/logging"
	"mealmind/internal/memory"
	"mealmind/internal/metrics"
	"mealmind/internal/nutrition"
	"mealmind/internal/optimizer"
	"mealmind/internal/planner"
	"mealmind/internal/profile"
	"mealmind/internal/recipes"
	"mealmind/internal/validator"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	textGen := newTextGenerator(ctx, cfg)
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	profiles := profile.NewStore(db)
	bank := memory.NewBank(db, logger)
	metricsStore := metrics.NewStore(db)
	library := recipes.NewLibrary(db)

	mealValidator := validator.New(
		nutrition.NewUSDAClient(cfg.USDAAPIKey, logger),
		nutrition.DefaultConversion(),
		logger,
	)
	mealPlanner := planner.New(profiles, recipes.NewGenerator(textGen), mealValidator, bank, logger)
	recipeClipper := importer.New(library, textGen, logger)

	application := app.NewApp(
		profiles,
		mealPlanner,
		optimizer.New(logger),
		grocery.NewBuilder(grocery.NewEstimator(cfg, logger), logger),
		bank,
		metricsStore,
		recipeClipper,
		cfg,
		logger,
	)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		householdID := planCmd.String("household", "", "Household ID to plan for")
		days := planCmd.Int("days", cfg.DefaultDays, "Number of days to plan")
		retries := planCmd.Int("retries", cfg.DefaultMaxRetries, "Max generation attempts per meal slot")
		planCmd.Parse(os.Args[2:])

		if *householdID == "" {
			log.Fatal("plan requires -household")
		}

		result, err := application.RunPlan(ctx, *householdID, *days, *retries)
		if err != nil {
			log.Fatalf("Planning failed: %v", err)
		}
		fmt.Println(result.Summary)
		fmt.Println(result.Grocery.Checklist())
	case "seed-demo":
		householdID, err := application.SeedDemo(ctx)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
		fmt.Printf("Seeded demo household %q. Try: mealmind plan -household %s\n", householdID, householdID)
	case "import":
		if len(os.Args) < 3 {
			log.Fatal("import requires a recipe URL")
		}
		entry, err := application.ImportRecipe(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Import failed: %v", err)
		}
		fmt.Printf("Saved %q to the recipe library (%d min, serves %d).\n",
			entry.Candidate.Name, entry.Candidate.CookingTimeMinutes, entry.Candidate.Servings)
	case "dislike":
		if len(os.Args) < 4 {
			log.Fatal("dislike requires a household ID and an ingredient")
		}
		if err := application.RecordDislike(ctx, os.Args[2], os.Args[3]); err != nil {
			log.Fatalf("Recording dislike failed: %v", err)
		}
		fmt.Printf("Noted. No more %s for %s.\n", os.Args[3], os.Args[2])
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		if err := metricsStore.Cleanup(ctx, *days); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Removed metric records older than %d days.\n", *days)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// newTextGenerator prefers Gemini and falls back to Groq when only a
// Groq key is configured. With neither key the planner still works: the
// deterministic fallback recipes kick in when generation fails.
func newTextGenerator(ctx context.Context, cfg *config.Config) llm.TextGenerator {
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize Gemini client: %v", err)
		}
		return client
	}
	return llm.NewGroqClient(cfg)
}

func printUsage() {
	fmt.Println("Usage: mealmind <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan               Generate a weekly meal plan (-household, -days, -retries)")
	fmt.Println("  seed-demo          Create a demo household to plan for")
	fmt.Println("  import <url>       Clip a recipe page into the library")
	fmt.Println("  dislike <id> <ingredient>  Remember a rejected ingredient")
	fmt.Println("  metrics-cleanup    Remove old metric records (-days)")
}
