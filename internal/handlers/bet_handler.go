package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huayhub/huay-engine-backend/internal/engine"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BetHandler handles bet admission HTTP requests
type BetHandler struct {
	betService services.BetService
}

// NewBetHandler creates a new BetHandler
func NewBetHandler(betService services.BetService) *BetHandler {
	return &BetHandler{betService: betService}
}

// AdmitBetRequest is the wire form of an admission attempt.
type AdmitBetRequest struct {
	DrawID     string `json:"drawId" binding:"required"`
	OptionType string `json:"optionType" binding:"required"`
	Number     string `json:"number" binding:"required"`
	MemberID   string `json:"memberId"`
	Amount     int64  `json:"amount" binding:"required"`
}

// AdmitBet handles POST /bets. Limit and closed-number rejections are expected
// outcomes, so they come back 200 with accepted=false rather than an error
// status; everything else goes through the taxonomy mapping.
func (h *BetHandler) AdmitBet(c *gin.Context) {
	var request AdmitBetRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	drawID, err := primitive.ObjectIDFromHex(request.DrawID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draw ID format"})
		return
	}
	result, err := h.betService.Admit(c.Request.Context(), services.AdmissionRequest{
		DrawID:     drawID,
		OptionType: models.BetOptionType(request.OptionType),
		Number:     request.Number,
		MemberID:   request.MemberID,
		Amount:     request.Amount,
	})
	if err != nil {
		if errors.Is(err, engine.ErrLimitExceeded) || errors.Is(err, engine.ErrNumberClosed) {
			c.JSON(http.StatusOK, gin.H{
				"accepted": false,
				"reason":   err.Error(),
				"kind":     services.ErrorKindName(engine.Classify(err)),
			})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
