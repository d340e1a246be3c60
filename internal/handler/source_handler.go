package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leesh5000/interview-guide/internal/model"
)

type SourceStore interface {
	ListAll() ([]model.RssSource, error)
	GetByKey(key string) (*model.RssSource, error)
	Create(s *model.RssSource) error
	SetEnabled(id string, enabled bool) (bool, error)
	Delete(id string) (bool, error)
}

type SourceHandler struct {
	repository SourceStore
}

func NewSourceHandler(repository SourceStore) *SourceHandler {
	return &SourceHandler{repository: repository}
}

func (h *SourceHandler) List(c *gin.Context) {
	sources, err := h.repository.ListAll()
	if err != nil {
		slog.Error("error fetching sources", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]SourceResponse, 0, len(sources))
	for _, s := range sources {
		res = append(res, toSourceResponse(s))
	}

	c.JSON(http.StatusOK, res)
}

func (h *SourceHandler) Create(c *gin.Context) {
	var req CreateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "모든 필드를 입력해주세요."})
		return
	}

	if req.Key == "" || req.Name == "" || req.URL == "" || req.SourceURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "모든 필드를 입력해주세요."})
		return
	}

	existing, err := h.repository.GetByKey(req.Key)
	if err != nil {
		slog.Error("error checking source key", "error", err, "key", req.Key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "이미 존재하는 소스 키입니다."})
		return
	}

	source := &model.RssSource{
		Key:       req.Key,
		Name:      req.Name,
		URL:       req.URL,
		SourceURL: req.SourceURL,
		IsEnabled: true,
	}

	if err := h.repository.Create(source); err != nil {
		slog.Error("error creating source", "error", err, "key", req.Key)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "RSS 소스 생성에 실패했습니다."})
		return
	}

	c.JSON(http.StatusCreated, toSourceResponse(*source))
}

func (h *SourceHandler) Toggle(c *gin.Context) {
	id := c.Param("id")

	var req ToggleSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsEnabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isEnabled 필드가 필요합니다."})
		return
	}

	updated, err := h.repository.SetEnabled(id, *req.IsEnabled)
	if err != nil {
		slog.Error("error updating source", "error", err, "source_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "RSS 소스 업데이트에 실패했습니다."})
		return
	}

	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "업데이트되었습니다."})
}

func (h *SourceHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	deleted, err := h.repository.Delete(id)
	if err != nil {
		slog.Error("error deleting source", "error", err, "source_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "RSS 소스 삭제에 실패했습니다."})
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "삭제되었습니다."})
}

func toSourceResponse(s model.RssSource) SourceResponse {
	return SourceResponse{
		ID:        s.ID,
		Key:       s.Key,
		Name:      s.Name,
		URL:       s.URL,
		SourceURL: s.SourceURL,
		IsEnabled: s.IsEnabled,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
