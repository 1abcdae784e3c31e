package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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
	"mealmind/internal/telegram"
	"mealmind/internal/validator"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Telegram configuration incomplete: %v", err)
	}

	logger, err := logging.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

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

	bot, err := telegram.NewBot(cfg, application, metricsStore, logger)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

func newTextGenerator(ctx context.Context, cfg *config.Config) llm.TextGenerator {
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		return client
	}
	return llm.NewGroqClient(cfg)
}
