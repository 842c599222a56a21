package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huayhub/huay-engine-backend/internal/engine"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories/memory"
	"github.com/huayhub/huay-engine-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func newBetRouter(t *testing.T, withConfig bool) (*gin.Engine, *models.Draw) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	lotteryRepo := memory.NewLotteryRepository()
	lottery := &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true}
	require.NoError(t, lotteryRepo.Create(ctx, lottery))

	drawRepo := memory.NewDrawRepository()
	draw := &models.Draw{
		LotteryID: lottery.ID, LotteryCode: lottery.Code,
		DrawDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		Status:   models.DrawStatusOpen,
	}
	require.NoError(t, drawRepo.Create(ctx, draw))

	configRepo := memory.NewPayoutConfigRepository()
	if withConfig {
		require.NoError(t, configRepo.Upsert(ctx, &models.PayoutConfig{
			LotteryCode: "SET_AM", OptionType: models.BetTengBon3, Multiply: 550, MinBet: 1, MaxPerNumber: 100,
		}))
	}

	limitRepo := memory.NewNumberLimitRepository()
	require.NoError(t, limitRepo.Create(ctx, &models.NumberLimit{
		LotteryCode: "SET_AM", OptionType: models.BetTengBon3, Numbers: []string{"666"}, Enabled: false,
	}))

	svc := services.NewBetService(drawRepo, lotteryRepo, configRepo,
		memory.NewPayoutTierRepository(), limitRepo, memory.NewQuotaRepository(),
		engine.NewKeyedLock(time.Second))

	router := gin.New()
	router.POST("/bets", NewBetHandler(svc).AdmitBet)
	return router, draw
}

func postBet(t *testing.T, router *gin.Engine, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/bets", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdmitBetEndpoint(t *testing.T) {
	router, draw := newBetRouter(t, true)

	bet := func(number string, amount int64) map[string]any {
		return map[string]any{
			"drawId":     draw.ID.Hex(),
			"optionType": "teng_bon_3",
			"number":     number,
			"amount":     amount,
		}
	}

	t.Run("accepted", func(t *testing.T) {
		w := postBet(t, router, bet("123", 20))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res services.AdmissionResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.True(t, res.Accepted)
		assert.Equal(t, 550.0, res.Multiply)
		assert.Equal(t, "11000", res.PotentialPayout)
	})

	t.Run("limit rejection is a 200 with accepted false", func(t *testing.T) {
		w := postBet(t, router, bet("123", 90)) // pool at 20/100
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"accepted":false`)
		assert.Contains(t, w.Body.String(), "REJECTED")
	})

	t.Run("closed number is a 200 with accepted false", func(t *testing.T) {
		w := postBet(t, router, bet("666", 10))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), `"accepted":false`)
	})

	t.Run("bad stake is a 400", func(t *testing.T) {
		w := postBet(t, router, bet("12", 10))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed draw id is a 400", func(t *testing.T) {
		body := bet("123", 10)
		body["drawId"] = "not-an-id"
		w := postBet(t, router, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdmitBetEndpoint_ConfigDefect(t *testing.T) {
	router, draw := newBetRouter(t, false)
	w := postBet(t, router, map[string]any{
		"drawId":     draw.ID.Hex(),
		"optionType": "teng_bon_3",
		"number":     "123",
		"amount":     10,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "CONFIG_DEFECT")
}

func TestAdmitBetEndpoint_DrawNotOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lotteryRepo := memory.NewLotteryRepository()
	lottery := &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true}
	require.NoError(t, lotteryRepo.Create(context.Background(), lottery))
	drawRepo := memory.NewDrawRepository()
	closed := &models.Draw{LotteryID: lottery.ID, LotteryCode: "SET_AM", Status: models.DrawStatusClosed}
	require.NoError(t, drawRepo.Create(context.Background(), closed))
	configRepo := memory.NewPayoutConfigRepository()
	require.NoError(t, configRepo.Upsert(context.Background(), &models.PayoutConfig{
		LotteryCode: "SET_AM", OptionType: models.BetTengBon3, Multiply: 550, MinBet: 1,
	}))
	svc := services.NewBetService(drawRepo, lotteryRepo, configRepo,
		memory.NewPayoutTierRepository(), memory.NewNumberLimitRepository(), memory.NewQuotaRepository(),
		engine.NewKeyedLock(time.Second))
	r := gin.New()
	r.POST("/bets", NewBetHandler(svc).AdmitBet)

	w := postBet(t, r, map[string]any{
		"drawId":     closed.ID.Hex(),
		"optionType": "teng_bon_3",
		"number":     "123",
		"amount":     10,
	})
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "LIFECYCLE")
}

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
	}{
		{engine.ErrInvalidDigits, http.StatusBadRequest},
		{engine.ErrInvalidAmount, http.StatusBadRequest},
		{engine.ErrOptionUnsupported, http.StatusBadRequest},
		{engine.ErrStakeOutOfRange, http.StatusBadRequest},
		{engine.ErrNoTierConfigured, http.StatusUnprocessableEntity},
		{engine.ErrAmbiguousTierOverlap, http.StatusUnprocessableEntity},
		{engine.ErrNumberClosed, http.StatusConflict},
		{engine.ErrLimitExceeded, http.StatusConflict},
		{engine.ErrDrawNotOpen, http.StatusConflict},
		{engine.ErrInvalidTransition, http.StatusConflict},
		{engine.ErrBusy, http.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", engine.ErrBusy), http.StatusServiceUnavailable},
		{fmt.Errorf("draw x not found: %w", mongo.ErrNoDocuments), http.StatusNotFound},
	}
	for _, c := range cases {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		respondError(ctx, c.err)
		assert.Equal(t, c.status, w.Code, "error %v", c.err)
	}
}
