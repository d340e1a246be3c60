package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/leesh5000/interview-guide/db"
	"github.com/leesh5000/interview-guide/internal/pipeline"
	"github.com/leesh5000/interview-guide/internal/repository"
	"github.com/leesh5000/interview-guide/pkg/feed"
	"github.com/leesh5000/interview-guide/pkg/llm"
)

// One-shot collection pass, meant to be invoked by an external scheduler.
func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	var client llm.Client
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		client = llm.NewOpenAIClient(key)
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		client = llm.NewAnthropicClient(key)
	} else {
		slog.Warn("no LLM API key configured, collected items will be skipped")
	}

	collector := pipeline.New(pipeline.Deps{
		Sources: repository.NewSourceRepository(db.DB),
		News:    repository.NewNewsRepository(db.DB),
		Courses: repository.NewCourseRepository(db.DB),
		Logs:    repository.NewCronLogRepository(db.DB),
		Fetcher: feed.NewClient(),
		LLM:     client,
	})

	token := uuid.NewString()
	acquired, err := db.TryLock(db.CollectLockKey, token, db.CollectLockTTL)
	if err != nil {
		log.Fatalf("error acquiring collect lock: %v", err)
	}
	if !acquired {
		slog.Info("another collection run is in progress, exiting")
		return
	}
	defer func() {
		if err := db.Unlock(db.CollectLockKey, token); err != nil {
			slog.Error("error releasing collect lock", "error", err)
		}
	}()

	result, err := collector.Run(context.Background())
	if err != nil {
		slog.Error("collection run failed", "error", err)
		os.Exit(1)
	}

	if result.NoNewItems {
		slog.Info("no new news to process", "existing_count", result.ExistingCount)
		return
	}

	slog.Info("collection complete", "processed", len(result.Processed), "existing_count", result.ExistingCount)
}
