package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories/memory"
	"github.com/huayhub/huay-engine-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type nopRefunds struct{}

func (nopRefunds) RefundDraw(drawID, lotteryCode string, counters []*models.QuotaCounter) error {
	return nil
}

func newDrawRouter(t *testing.T) (*gin.Engine, services.DrawService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lotteryRepo := memory.NewLotteryRepository()
	require.NoError(t, lotteryRepo.Create(context.Background(),
		&models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true}))
	svc := services.NewDrawService(memory.NewDrawRepository(), lotteryRepo,
		memory.NewQuotaRepository(), nopRefunds{})

	h := NewDrawHandler(svc)
	r := gin.New()
	r.GET("/draws", h.ListDraws)
	r.GET("/draws/:id", h.GetDraw)
	return r, svc
}

func getPath(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonDecode(w *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}

func TestGetDrawEndpoint_UnknownIs404(t *testing.T) {
	r, _ := newDrawRouter(t)
	w := getPath(t, r, "/draws/"+primitive.NewObjectID().Hex())
	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestListDrawsEndpoint(t *testing.T) {
	r, svc := newDrawRouter(t)
	ctx := context.Background()
	for _, day := range []int{2, 3, 9} {
		_, err := svc.OpenDraw(ctx, "SET_AM", time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
	}
	a, err := svc.GetDrawsByStatus(ctx, models.DrawStatusOpen)
	require.NoError(t, err)
	_, err = svc.CloseDraw(ctx, a[0].ID)
	require.NoError(t, err)

	t.Run("by status", func(t *testing.T) {
		w := getPath(t, r, "/draws?status=CLOSED")
		assert.Equal(t, http.StatusOK, w.Code)
		var draws []models.Draw
		require.NoError(t, jsonDecode(w, &draws))
		assert.Len(t, draws, 1)
	})

	t.Run("by date window", func(t *testing.T) {
		w := getPath(t, r, "/draws?from=2026-03-02&to=2026-03-09")
		assert.Equal(t, http.StatusOK, w.Code)
		var draws []models.Draw
		require.NoError(t, jsonDecode(w, &draws))
		assert.Len(t, draws, 2)
	})

	t.Run("bad date rejected", func(t *testing.T) {
		w := getPath(t, r, "/draws?from=03-02-2026")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no filters rejected", func(t *testing.T) {
		w := getPath(t, r, "/draws")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
