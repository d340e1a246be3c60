package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leesh5000/interview-guide/db"
	"github.com/leesh5000/interview-guide/internal/dateutil"
	"github.com/leesh5000/interview-guide/internal/model"
	"github.com/leesh5000/interview-guide/internal/pipeline"
)

type NewsCollector interface {
	Run(ctx context.Context) (*pipeline.Result, error)
}

type CronLogStore interface {
	ListRecent(limit int) ([]model.CronLog, error)
}

// RunGuard is the single-flight lock around collection runs.
type RunGuard interface {
	TryLock(key string, token string, ttl time.Duration) (bool, error)
	Unlock(key string, token string) error
}

type CronHandler struct {
	collector NewsCollector
	news      NewsStore
	logs      CronLogStore
	guard     RunGuard
}

func NewCronHandler(collector NewsCollector, news NewsStore, logs CronLogStore, guard RunGuard) *CronHandler {
	return &CronHandler{
		collector: collector,
		news:      news,
		logs:      logs,
		guard:     guard,
	}
}

// Collect triggers one pipeline pass. Concurrent triggers (scheduler plus
// a manual admin click) are rejected with 409 instead of double-collecting.
func (h *CronHandler) Collect(c *gin.Context) {
	token := uuid.NewString()

	acquired, err := h.guard.TryLock(db.CollectLockKey, token, db.CollectLockTTL)
	if err != nil {
		slog.Error("error acquiring collect lock", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "뉴스 수집에 실패했습니다."})
		return
	}

	if !acquired {
		c.JSON(http.StatusConflict, gin.H{"error": "수집 작업이 이미 실행 중입니다."})
		return
	}

	defer func() {
		if err := h.guard.Unlock(db.CollectLockKey, token); err != nil {
			slog.Error("error releasing collect lock", "error", err)
		}
	}()

	result, err := h.collector.Run(c.Request.Context())
	if err != nil {
		slog.Error("news collection failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "뉴스 수집에 실패했습니다."})
		return
	}

	if result.NoNewItems {
		c.JSON(http.StatusOK, gin.H{
			"message":       "No new news to process",
			"existingCount": result.ExistingCount,
		})
		return
	}

	news := make([]ProcessedNewsResponse, 0, len(result.Processed))
	for _, item := range result.Processed {
		news = append(news, ProcessedNewsResponse{ID: item.ID, Title: item.Title})
	}

	c.JSON(http.StatusOK, CollectResponse{
		Message:   "Daily news updated",
		Processed: len(result.Processed),
		News:      news,
	})
}

// Status reports how many records exist for today's display date.
func (h *CronHandler) Status(c *gin.Context) {
	count, err := h.news.CountByDate(dateutil.DisplayDate(time.Now()))
	if err != nil {
		slog.Error("error counting today's news", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, CollectStatusResponse{
		Status:         "ok",
		TodayNewsCount: count,
		LastCheck:      time.Now().Format(time.RFC3339),
	})
}

func (h *CronHandler) Logs(c *gin.Context) {
	logs, err := h.logs.ListRecent(50)
	if err != nil {
		slog.Error("error fetching cron logs", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]CronLogResponse, 0, len(logs))
	for _, l := range logs {
		res = append(res, CronLogResponse{
			ID:             l.ID,
			JobName:        l.JobName,
			Status:         l.Status,
			Message:        l.Message,
			ProcessedCount: l.ProcessedCount,
			DurationMs:     l.DurationMs,
			ErrorDetail:    l.ErrorDetail,
			ExecutedAt:     l.ExecutedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, res)
}
