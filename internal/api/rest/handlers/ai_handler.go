package handlers

import (
	"net/http"

	"github.com/Dhoini/Customer-microservice/internal/ai"
	"github.com/Dhoini/Customer-microservice/internal/metrics"
	"github.com/Dhoini/Customer-microservice/pkg/logger"
	"github.com/gin-gonic/gin"
)

// FeedbackRequest запрос на классификацию тональности
type FeedbackRequest struct {
	Text string `json:"text" binding:"required"`
}

// SubjectRequest запрос на подбор темы письма
type SubjectRequest struct {
	Body string `json:"body" binding:"required"`
}

// AIHandler обработчик текстовой аналитики
type AIHandler struct {
	engine   *ai.Engine
	appStats metrics.CustomerMetrics
	log      *logger.Logger
}

// NewAIHandler создает новый обработчик текстовой аналитики
func NewAIHandler(engine *ai.Engine, appStats metrics.CustomerMetrics, log *logger.Logger) *AIHandler {
	return &AIHandler{
		engine:   engine,
		appStats: appStats,
		log:      log,
	}
}

// AnalyzeSentiment классифицирует тональность произвольного текста
func (h *AIHandler) AnalyzeSentiment(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.engine.ClassifySentiment(c.Request.Context(), req.Text)
	h.appStats.IncSentiment(result.Sentiment, result.Source)

	c.JSON(http.StatusOK, result)
}

// SuggestSubject предлагает тему письма по его телу
func (h *AIHandler) SuggestSubject(c *gin.Context) {
	var req SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := h.engine.SuggestSubject(req.Body)
	h.appStats.IncSubjectSuggested()

	c.JSON(http.StatusOK, gin.H{"subject": subject})
}
