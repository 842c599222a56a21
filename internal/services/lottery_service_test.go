package services

import (
	"context"
	"testing"

	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreateLottery(t *testing.T) {
	svc := NewLotteryService(memory.NewLotteryRepository())
	ctx := context.Background()

	created, err := svc.CreateLottery(ctx, &models.Lottery{
		Code: "SET_AM", Name: "Set Morning", Group: "stock", Enabled: true,
		DaysOfWeek: []int{1, 2, 3, 4, 5},
	})
	require.NoError(t, err)
	assert.False(t, created.ID.IsZero())

	t.Run("duplicate code rejected", func(t *testing.T) {
		_, err := svc.CreateLottery(ctx, &models.Lottery{Code: "SET_AM", Name: "Other"})
		assert.Error(t, err)
	})
	t.Run("invalid code rejected", func(t *testing.T) {
		for _, code := range []string{"", "set_am", "1SET", "S", "WAY_TOO_LONG_LOTTERY_CODE"} {
			_, err := svc.CreateLottery(ctx, &models.Lottery{Code: code, Name: "X"})
			assert.Error(t, err, "code %q", code)
		}
	})
	t.Run("schedule must be week or month, not both", func(t *testing.T) {
		_, err := svc.CreateLottery(ctx, &models.Lottery{
			Code: "BOTH", Name: "Both", DaysOfWeek: []int{1}, DaysOfMonth: []int{1},
		})
		assert.Error(t, err)
	})
	t.Run("schedule bounds checked", func(t *testing.T) {
		_, err := svc.CreateLottery(ctx, &models.Lottery{Code: "BADW", Name: "X", DaysOfWeek: []int{7}})
		assert.Error(t, err)
		_, err = svc.CreateLottery(ctx, &models.Lottery{Code: "BADM", Name: "X", DaysOfMonth: []int{32}})
		assert.Error(t, err)
	})
}

func TestUpdateLottery(t *testing.T) {
	svc := NewLotteryService(memory.NewLotteryRepository())
	ctx := context.Background()

	created, err := svc.CreateLottery(ctx, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})
	require.NoError(t, err)

	created.Name = "Set Morning v2"
	created.DaysOfMonth = []int{1, 16}
	updated, err := svc.UpdateLottery(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Set Morning v2", updated.Name)

	_, err = svc.UpdateLottery(ctx, &models.Lottery{Code: "MISSING", Name: "X"})
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)

	_, err = svc.GetLottery(ctx, "MISSING")
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}

func TestSetLotteryEnabled(t *testing.T) {
	svc := NewLotteryService(memory.NewLotteryRepository())
	ctx := context.Background()

	_, err := svc.CreateLottery(ctx, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})
	require.NoError(t, err)

	require.NoError(t, svc.SetLotteryEnabled(ctx, "SET_AM", false))
	got, err := svc.GetLottery(ctx, "SET_AM")
	require.NoError(t, err)
	assert.False(t, got.Enabled)

	assert.Error(t, svc.SetLotteryEnabled(ctx, "MISSING", true))
}
