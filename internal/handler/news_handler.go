package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leesh5000/interview-guide/internal/dateutil"
	"github.com/leesh5000/interview-guide/internal/model"
)

type NewsStore interface {
	ListByDate(displayDate time.Time) ([]model.DailyNews, error)
	GetByID(id string) (*model.DailyNews, error)
	CountByDate(displayDate time.Time) (int, error)
}

type NewsHandler struct {
	repository NewsStore
}

func NewNewsHandler(repository NewsStore) *NewsHandler {
	return &NewsHandler{repository: repository}
}

func (h *NewsHandler) GetNews(c *gin.Context) {
	date := dateutil.DisplayDate(time.Now())
	if param := c.Query("date"); param != "" {
		parsed, err := dateutil.ParseDay(param)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	news, err := h.repository.ListByDate(date)
	if err != nil {
		slog.Error("error fetching news", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := NewsListResponse{
		Date: dateutil.DayString(date),
		News: make([]NewsResponse, 0, len(news)),
	}
	for _, n := range news {
		res.News = append(res.News, toNewsResponse(n))
	}

	c.JSON(http.StatusOK, res)
}

func (h *NewsHandler) GetNewsItem(c *gin.Context) {
	id := c.Param("id")

	news, err := h.repository.GetByID(id)
	if err != nil {
		slog.Error("error fetching news item", "error", err, "news_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if news == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "News not found"})
		return
	}

	c.JSON(http.StatusOK, toNewsResponse(*news))
}

func (h *NewsHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.CountByDate(dateutil.DisplayDate(time.Now()))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func toNewsResponse(n model.DailyNews) NewsResponse {
	courses := make([]MatchedCourseResponse, 0, len(n.RelatedCourses))
	for _, mc := range n.RelatedCourses {
		courses = append(courses, MatchedCourseResponse{
			CourseID:     mc.CourseID,
			Title:        mc.Title,
			AffiliateURL: mc.AffiliateURL,
			MatchScore:   mc.MatchScore,
		})
	}

	return NewsResponse{
		ID:             n.ID,
		Title:          n.Title,
		OriginalURL:    n.OriginalURL,
		SourceURL:      n.SourceURL,
		Description:    n.Description,
		AISummary:      n.AISummary,
		RelatedCourses: courses,
		PublishedAt:    n.PublishedAt.Format(time.RFC3339),
		DisplayDate:    dateutil.DayString(n.DisplayDate),
	}
}
