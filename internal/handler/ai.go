package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NabirasulA/Galaxy/internal/service"
)

type AIHandler struct {
	Advisor *service.AdvisorService
}

func (h *AIHandler) Register(r *gin.Engine) {
	g := r.Group("/api/ai")
	g.POST("/chat", h.chat)
	g.GET("/analyze-portfolio", h.analyzePortfolio)
	g.GET("/analyze-stock", h.analyzeStock)
	g.POST("/advice", h.advice)
	g.GET("/health", h.health)
}

type chatRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

// @Summary Chat with the advisor
// @Tags ai
// @Accept json
// @Produce json
// @Param body body chatRequest true "message and optional context"
// @Success 200 {object} service.ChatResponse
// @Router /api/ai/chat [post]
func (h *AIHandler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, service.ChatResponse{Success: false, Error: "invalid body"})
		return
	}
	c.JSON(http.StatusOK, h.Advisor.Chat(c.Request.Context(), req.Message, req.Context))
}

// @Summary Analyze the current portfolio
// @Tags ai
// @Produce json
// @Success 200 {object} service.ChatResponse
// @Router /api/ai/analyze-portfolio [get]
func (h *AIHandler) analyzePortfolio(c *gin.Context) {
	c.JSON(http.StatusOK, h.Advisor.AnalyzePortfolio(c.Request.Context()))
}

// @Summary Analyze one stock
// @Tags ai
// @Produce json
// @Param symbol query string true "ticker"
// @Success 200 {object} service.ChatResponse
// @Router /api/ai/analyze-stock [get]
func (h *AIHandler) analyzeStock(c *gin.Context) {
	c.JSON(http.StatusOK, h.Advisor.AnalyzeStock(c.Request.Context(), c.Query("symbol")))
}

// @Summary Investment advice
// @Tags ai
// @Accept json
// @Produce json
// @Param body body chatRequest true "question"
// @Success 200 {object} service.ChatResponse
// @Router /api/ai/advice [post]
func (h *AIHandler) advice(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, service.ChatResponse{Success: false, Error: "invalid body"})
		return
	}
	c.JSON(http.StatusOK, h.Advisor.Advice(c.Request.Context(), req.Message))
}

// @Summary AI connectivity check
// @Tags ai
// @Produce json
// @Success 200 {object} service.ChatResponse
// @Router /api/ai/health [get]
func (h *AIHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, h.Advisor.Health(c.Request.Context()))
}
