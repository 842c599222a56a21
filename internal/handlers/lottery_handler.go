package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/services"
)

// LotteryHandler handles lottery catalog HTTP requests
type LotteryHandler struct {
	lotteryService services.LotteryService
}

// NewLotteryHandler creates a new LotteryHandler
func NewLotteryHandler(lotteryService services.LotteryService) *LotteryHandler {
	return &LotteryHandler{lotteryService: lotteryService}
}

// CreateLotteryRequest carries the catalog fields of a new lottery.
type CreateLotteryRequest struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Group       string `json:"group"`
	DaysOfWeek  []int  `json:"daysOfWeek"`
	DaysOfMonth []int  `json:"daysOfMonth"`
	Has4D       bool   `json:"has4d"`
	GLOVariant  bool   `json:"gloVariant"`
	Enabled     bool   `json:"enabled"`
}

func (r *CreateLotteryRequest) toModel() *models.Lottery {
	return &models.Lottery{
		Code:        r.Code,
		Name:        r.Name,
		Group:       r.Group,
		DaysOfWeek:  r.DaysOfWeek,
		DaysOfMonth: r.DaysOfMonth,
		Has4D:       r.Has4D,
		GLOVariant:  r.GLOVariant,
		Enabled:     r.Enabled,
	}
}

// CreateLottery handles POST /lotteries
func (h *LotteryHandler) CreateLottery(c *gin.Context) {
	var request CreateLotteryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lottery, err := h.lotteryService.CreateLottery(c.Request.Context(), request.toModel())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lottery)
}

// UpdateLottery handles PUT /lotteries/:code
func (h *LotteryHandler) UpdateLottery(c *gin.Context) {
	var request CreateLotteryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lottery := request.toModel()
	lottery.Code = c.Param("code")
	updated, err := h.lotteryService.UpdateLottery(c.Request.Context(), lottery)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// SetLotteryEnabledRequest toggles a lottery on or off.
type SetLotteryEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetLotteryEnabled handles PATCH /lotteries/:code/enabled
func (h *LotteryHandler) SetLotteryEnabled(c *gin.Context) {
	var request SetLotteryEnabledRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.lotteryService.SetLotteryEnabled(c.Request.Context(), c.Param("code"), *request.Enabled); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lottery status updated", "enabled": *request.Enabled})
}

// GetLottery handles GET /lotteries/:code
func (h *LotteryHandler) GetLottery(c *gin.Context) {
	lottery, err := h.lotteryService.GetLottery(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lottery)
}

// GetLotteries handles GET /lotteries
func (h *LotteryHandler) GetLotteries(c *gin.Context) {
	lotteries, err := h.lotteryService.GetLotteries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lotteries)
}
