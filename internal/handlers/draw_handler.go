package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawHandler handles draw lifecycle HTTP requests
type DrawHandler struct {
	drawService services.DrawService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService) *DrawHandler {
	return &DrawHandler{drawService: drawService}
}

// OpenDrawRequest opens a draw for a lottery on a date.
type OpenDrawRequest struct {
	LotteryCode string `json:"lotteryCode" binding:"required"`
	DrawDate    string `json:"drawDate" binding:"required"`
}

// OpenDraw handles POST /draws
func (h *DrawHandler) OpenDraw(c *gin.Context) {
	var request OpenDrawRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse("2006-01-02", request.DrawDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draw date format (YYYY-MM-DD)"})
		return
	}
	draw, err := h.drawService.OpenDraw(c.Request.Context(), request.LotteryCode, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, draw)
}

// CloseDraw handles POST /draws/:id/close
func (h *DrawHandler) CloseDraw(c *gin.Context) {
	id, ok := drawID(c)
	if !ok {
		return
	}
	draw, err := h.drawService.CloseDraw(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}

// CancelDraw handles POST /draws/:id/cancel
func (h *DrawHandler) CancelDraw(c *gin.Context) {
	id, ok := drawID(c)
	if !ok {
		return
	}
	draw, err := h.drawService.CancelDraw(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}

// AnnounceResult handles POST /draws/:id/result
func (h *DrawHandler) AnnounceResult(c *gin.Context) {
	id, ok := drawID(c)
	if !ok {
		return
	}
	var entry models.ResultEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	draw, err := h.drawService.AnnounceResult(c.Request.Context(), id, entry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}

// PreviewResultRequest derives a result without touching any draw.
type PreviewResultRequest struct {
	LotteryCode string             `json:"lotteryCode" binding:"required"`
	Entry       models.ResultEntry `json:"entry" binding:"required"`
}

// PreviewResult handles POST /draws/result-preview
func (h *DrawHandler) PreviewResult(c *gin.Context) {
	var request PreviewResultRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.drawService.PreviewResult(c.Request.Context(), request.LotteryCode, request.Entry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDraw handles GET /draws/:id
func (h *DrawHandler) GetDraw(c *gin.Context) {
	id, ok := drawID(c)
	if !ok {
		return
	}
	draw, err := h.drawService.GetDraw(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draw)
}

// ListDraws handles GET /draws?status=OPEN and GET /draws?from=2026-03-01&to=2026-04-01.
// The from/to window is half-open; either bound may be omitted.
func (h *DrawHandler) ListDraws(c *gin.Context) {
	fromParam, toParam := c.Query("from"), c.Query("to")
	if fromParam != "" || toParam != "" {
		var from, to time.Time
		var err error
		if fromParam != "" {
			if from, err = time.Parse("2006-01-02", fromParam); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from date format (YYYY-MM-DD)"})
				return
			}
		}
		if toParam != "" {
			if to, err = time.Parse("2006-01-02", toParam); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to date format (YYYY-MM-DD)"})
				return
			}
		}
		draws, err := h.drawService.GetDrawsByDateRange(c.Request.Context(), from, to)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, draws)
		return
	}

	status := models.DrawStatus(c.Query("status"))
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing status or from/to query parameters"})
		return
	}
	draws, err := h.drawService.GetDrawsByStatus(c.Request.Context(), status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, draws)
}

// GetWinningNumbers handles GET /draws/:id/winning-numbers?option=teng_bon_3
func (h *DrawHandler) GetWinningNumbers(c *gin.Context) {
	id, ok := drawID(c)
	if !ok {
		return
	}
	opt := models.BetOptionType(c.Query("option"))
	if !opt.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing option query parameter"})
		return
	}
	numbers, err := h.drawService.GetWinningNumbers(c.Request.Context(), id, opt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"option": opt, "numbers": numbers})
}

// GetQuotaCounters handles GET /draws/:id/quotas
func (h *DrawHandler) GetQuotaCounters(c *gin.Context) {
	id, ok := drawID(c)
	if !ok {
		return
	}
	counters, err := h.drawService.GetQuotaCounters(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counters)
}

func drawID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}
