package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PayoutHandler handles payout configuration HTTP requests
type PayoutHandler struct {
	payoutService services.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler
func NewPayoutHandler(payoutService services.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: payoutService}
}

// UpsertPayoutConfigRequest carries the base settings of one (lottery, option).
type UpsertPayoutConfigRequest struct {
	LotteryCode  string  `json:"lotteryCode" binding:"required"`
	OptionType   string  `json:"optionType" binding:"required"`
	Multiply     float64 `json:"multiply" binding:"required"`
	MinBet       int64   `json:"minBet"`
	MaxBet       int64   `json:"maxBet"`
	MaxPerNumber int64   `json:"maxPerNumber"`
	MaxPerMember int64   `json:"maxPerMember"`
}

// UpsertPayoutConfig handles PUT /payout-configs
func (h *PayoutHandler) UpsertPayoutConfig(c *gin.Context) {
	var request UpsertPayoutConfigRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cfg := &models.PayoutConfig{
		LotteryCode:  request.LotteryCode,
		OptionType:   models.BetOptionType(request.OptionType),
		Multiply:     request.Multiply,
		MinBet:       request.MinBet,
		MaxBet:       request.MaxBet,
		MaxPerNumber: request.MaxPerNumber,
		MaxPerMember: request.MaxPerMember,
	}
	if err := h.payoutService.UpsertPayoutConfig(c.Request.Context(), cfg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// GetPayoutConfigs handles GET /payout-configs/:lotteryCode
func (h *PayoutHandler) GetPayoutConfigs(c *gin.Context) {
	configs, err := h.payoutService.GetPayoutConfigs(c.Request.Context(), c.Param("lotteryCode"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, configs)
}

// ReplaceTierTableRequest replaces the whole tier table of a (lottery, option, scope).
type ReplaceTierTableRequest struct {
	LotteryCode string            `json:"lotteryCode" binding:"required"`
	OptionType  string            `json:"optionType" binding:"required"`
	Scope       string            `json:"scope" binding:"required"`
	Steps       []models.TierStep `json:"steps" binding:"required"`
}

// ReplaceTierTable handles PUT /payout-tiers
func (h *PayoutHandler) ReplaceTierTable(c *gin.Context) {
	var request ReplaceTierTableRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tier := &models.PayoutTier{
		LotteryCode: request.LotteryCode,
		OptionType:  models.BetOptionType(request.OptionType),
		Scope:       models.TierScope(request.Scope),
		Steps:       request.Steps,
	}
	if err := h.payoutService.ReplaceTierTable(c.Request.Context(), tier); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tier)
}

// GetTierTable handles GET /payout-tiers/:lotteryCode/:option?scope=PER_LOTTERY
func (h *PayoutHandler) GetTierTable(c *gin.Context) {
	opt, scope, ok := optionAndScope(c)
	if !ok {
		return
	}
	tier, err := h.payoutService.GetTierTable(c.Request.Context(), c.Param("lotteryCode"), opt, scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tier)
}

// BootstrapDefaultTiers handles POST /payout-tiers/:lotteryCode/:option/bootstrap?scope=PER_LOTTERY
func (h *PayoutHandler) BootstrapDefaultTiers(c *gin.Context) {
	opt, scope, ok := optionAndScope(c)
	if !ok {
		return
	}
	tier, err := h.payoutService.BootstrapDefaultTiers(c.Request.Context(), c.Param("lotteryCode"), opt, scope)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tier)
}

// ResolveMultiplier handles GET /payout-tiers/:lotteryCode/:option/resolve, the
// operator diagnostic "what multiplier would a bet of this amount get".
func (h *PayoutHandler) ResolveMultiplier(c *gin.Context) {
	opt, scope, ok := optionAndScope(c)
	if !ok {
		return
	}
	prior, err := strconv.ParseInt(c.DefaultQuery("priorCumulative", "0"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priorCumulative"})
		return
	}
	amount, err := strconv.ParseInt(c.Query("amount"), 10, 64)
	if err != nil || amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing amount"})
		return
	}
	quote, err := h.payoutService.ResolveMultiplier(c.Request.Context(), c.Param("lotteryCode"), opt, scope, prior, amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

// PutNumberLimitRequest stores one override entry. Numbers is a comma-separated
// list; every token must match the option's digit width.
type PutNumberLimitRequest struct {
	LotteryCode   string  `json:"lotteryCode" binding:"required"`
	OptionType    string  `json:"optionType" binding:"required"`
	Numbers       string  `json:"numbers" binding:"required"`
	Multiply      float64 `json:"multiply"`
	MaxSellAmount int64   `json:"maxSellAmount"`
	Enabled       bool    `json:"enabled"`
}

// PutNumberLimit handles POST /number-limits
func (h *PayoutHandler) PutNumberLimit(c *gin.Context) {
	var request PutNumberLimitRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, err := h.payoutService.PutNumberLimit(
		c.Request.Context(),
		request.LotteryCode,
		models.BetOptionType(request.OptionType),
		request.Numbers,
		request.Multiply,
		request.MaxSellAmount,
		request.Enabled,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, limit)
}

// UpdateNumberLimitRequest rewrites an override entry. The (lottery, option)
// pair of an entry is fixed; only the numbers and terms change.
type UpdateNumberLimitRequest struct {
	Numbers       string  `json:"numbers" binding:"required"`
	Multiply      float64 `json:"multiply"`
	MaxSellAmount int64   `json:"maxSellAmount"`
	Enabled       bool    `json:"enabled"`
}

// UpdateNumberLimit handles PUT /number-limits/:id
func (h *PayoutHandler) UpdateNumberLimit(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	var request UpdateNumberLimitRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	limit, err := h.payoutService.UpdateNumberLimit(
		c.Request.Context(),
		id,
		request.Numbers,
		request.Multiply,
		request.MaxSellAmount,
		request.Enabled,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, limit)
}

// GetNumberLimits handles GET /number-limits/:lotteryCode/:option
func (h *PayoutHandler) GetNumberLimits(c *gin.Context) {
	opt := models.BetOptionType(c.Param("option"))
	if !opt.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bet option"})
		return
	}
	limits, err := h.payoutService.GetNumberLimits(c.Request.Context(), c.Param("lotteryCode"), opt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, limits)
}

// DeleteNumberLimit handles DELETE /number-limits/:id
func (h *PayoutHandler) DeleteNumberLimit(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	if err := h.payoutService.DeleteNumberLimit(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Number limit deleted"})
}

func optionAndScope(c *gin.Context) (models.BetOptionType, models.TierScope, bool) {
	opt := models.BetOptionType(c.Param("option"))
	if !opt.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bet option"})
		return "", "", false
	}
	scope := models.TierScope(c.DefaultQuery("scope", string(models.ScopePerLottery)))
	if !scope.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scope (PER_LOTTERY or PER_MEMBER)"})
		return "", "", false
	}
	return opt, scope, true
}
