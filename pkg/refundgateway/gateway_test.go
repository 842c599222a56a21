package refundgateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func counter(opt models.BetOptionType, number, memberID string, cumulative int64) *models.QuotaCounter {
	return &models.QuotaCounter{
		OptionType: opt,
		Number:     number,
		MemberID:   memberID,
		Cumulative: cumulative,
	}
}

func capturePayload(t *testing.T, counters []*models.QuotaCounter) refundRequest {
	t.Helper()
	var captured refundRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/refunds", r.URL.Path)
		require.Equal(t, "k", r.Header.Get("X-API-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", false)
	require.NoError(t, c.RefundDraw(primitive.NewObjectID().Hex(), "SET_AM", counters))
	return captured
}

func TestRefundDrawCoversFullAdmittedTotal(t *testing.T) {
	// One number partly attributed to a member, one sold with no member at all.
	payload := capturePayload(t, []*models.QuotaCounter{
		counter(models.BetTengBon3, "123", "", 100),
		counter(models.BetTengBon3, "123", "m1", 60),
		counter(models.BetTengBon3, "456", "", 50),
	})

	var total int64
	for _, p := range payload.Positions {
		total += p.Amount
	}
	assert.Equal(t, int64(150), total)

	assert.Contains(t, payload.Positions, refundLine{
		OptionType: string(models.BetTengBon3), Number: "123", MemberID: "m1", Amount: 60,
	})
	assert.Contains(t, payload.Positions, refundLine{
		OptionType: string(models.BetTengBon3), Number: "123", Amount: 40,
	})
	assert.Contains(t, payload.Positions, refundLine{
		OptionType: string(models.BetTengBon3), Number: "456", Amount: 50,
	})
}

func TestRefundDrawOmitsFullyAttributedPools(t *testing.T) {
	// Every unit of the pool is carried by member rows; no pool residual.
	payload := capturePayload(t, []*models.QuotaCounter{
		counter(models.BetTengBon2, "12", "", 30),
		counter(models.BetTengBon2, "12", "m1", 20),
		counter(models.BetTengBon2, "12", "m2", 10),
	})

	require.Len(t, payload.Positions, 2)
	for _, p := range payload.Positions {
		assert.NotEmpty(t, p.MemberID)
	}
}

func TestRefundDrawMockSkipsHTTP(t *testing.T) {
	c := NewClient("http://unreachable.invalid", "k", true)
	err := c.RefundDraw(primitive.NewObjectID().Hex(), "SET_AM", []*models.QuotaCounter{
		counter(models.BetTengBon3, "123", "", 10),
	})
	assert.NoError(t, err)
}
