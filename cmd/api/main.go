package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/leesh5000/interview-guide/db"
	"github.com/leesh5000/interview-guide/internal/handler"
	"github.com/leesh5000/interview-guide/internal/pipeline"
	"github.com/leesh5000/interview-guide/internal/repository"
	"github.com/leesh5000/interview-guide/pkg/feed"
	"github.com/leesh5000/interview-guide/pkg/llm"
)

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

	newsRepo := repository.NewNewsRepository(db.DB)
	sourceRepo := repository.NewSourceRepository(db.DB)
	courseRepo := repository.NewCourseRepository(db.DB)
	cronLogRepo := repository.NewCronLogRepository(db.DB)

	collector := pipeline.New(pipeline.Deps{
		Sources: sourceRepo,
		News:    newsRepo,
		Courses: courseRepo,
		Logs:    cronLogRepo,
		Fetcher: feed.NewClient(),
		LLM:     newLLMClient(),
	})

	newsHandler := handler.NewNewsHandler(newsRepo)
	sourceHandler := handler.NewSourceHandler(sourceRepo)
	cronHandler := handler.NewCronHandler(collector, newsRepo, cronLogRepo, db.LockGuard{})
	authHandler := handler.NewAuthHandler()

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/news", newsHandler.GetNews)
	r.GET("/news/:id", newsHandler.GetNewsItem)
	r.GET("/health", newsHandler.GetHealth)

	r.POST("/auth/login", authHandler.Login)
	r.POST("/auth/logout", authHandler.Logout)

	admin := r.Group("/", handler.RequireAdmin())
	admin.GET("/sources", sourceHandler.List)
	admin.POST("/sources", sourceHandler.Create)
	admin.PATCH("/sources/:id", sourceHandler.Toggle)
	admin.DELETE("/sources/:id", sourceHandler.Delete)
	admin.GET("/cron-logs", cronHandler.Logs)

	cron := r.Group("/", handler.RequireCronAccess())
	cron.POST("/cron/daily-news", cronHandler.Collect)
	cron.GET("/cron/daily-news", cronHandler.Status)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	err = r.Run(addr)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

func newLLMClient() llm.Client {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return llm.NewOpenAIClient(key)
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return llm.NewAnthropicClient(key)
	}
	slog.Warn("no LLM API key configured, collected items will be skipped")
	return nil
}
