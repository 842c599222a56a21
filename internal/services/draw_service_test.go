package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huayhub/huay-engine-backend/internal/engine"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	"github.com/huayhub/huay-engine-backend/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// recordingRefunds implements RefundNotifier and records every call.
type recordingRefunds struct {
	calls []refundCall
	err   error
}

type refundCall struct {
	drawID      string
	lotteryCode string
	counters    []*models.QuotaCounter
}

func (r *recordingRefunds) RefundDraw(drawID, lotteryCode string, counters []*models.QuotaCounter) error {
	r.calls = append(r.calls, refundCall{drawID: drawID, lotteryCode: lotteryCode, counters: counters})
	return r.err
}

type drawFixture struct {
	svc       *DrawServiceImpl
	lottery   *models.Lottery
	quotaRepo repositories.QuotaRepository
	refunds   *recordingRefunds
}

func newDrawFixture(t *testing.T, lottery *models.Lottery) *drawFixture {
	t.Helper()
	lotteryRepo := memory.NewLotteryRepository()
	require.NoError(t, lotteryRepo.Create(context.Background(), lottery))
	quotaRepo := memory.NewQuotaRepository()
	refunds := &recordingRefunds{}
	svc := NewDrawService(memory.NewDrawRepository(), lotteryRepo, quotaRepo, refunds)
	return &drawFixture{svc: svc, lottery: lottery, quotaRepo: quotaRepo, refunds: refunds}
}

func TestOpenDraw(t *testing.T) {
	ctx := context.Background()

	t.Run("manual lottery opens on any date", func(t *testing.T) {
		f := newDrawFixture(t, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})
		draw, err := f.svc.OpenDraw(ctx, "SET_AM", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, models.DrawStatusOpen, draw.Status)
		assert.Equal(t, "SET_AM", draw.LotteryCode)
		assert.False(t, draw.ID.IsZero())
	})

	t.Run("weekday schedule enforced", func(t *testing.T) {
		f := newDrawFixture(t, &models.Lottery{
			Code: "HN_WED", Name: "Hanoi Wednesday", Enabled: true,
			DaysOfWeek: []int{int(time.Wednesday)},
		})
		// 2026-03-04 is a Wednesday, 2026-03-05 is not.
		_, err := f.svc.OpenDraw(ctx, "HN_WED", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
		assert.NoError(t, err)
		_, err = f.svc.OpenDraw(ctx, "HN_WED", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
		assert.Error(t, err)
	})

	t.Run("day-of-month schedule enforced", func(t *testing.T) {
		f := newDrawFixture(t, &models.Lottery{
			Code: "GLO_TH", Name: "Government Lottery", Enabled: true, GLOVariant: true,
			DaysOfMonth: []int{1, 16},
		})
		_, err := f.svc.OpenDraw(ctx, "GLO_TH", time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC))
		assert.NoError(t, err)
		_, err = f.svc.OpenDraw(ctx, "GLO_TH", time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC))
		assert.Error(t, err)
	})

	t.Run("disabled lottery rejected", func(t *testing.T) {
		f := newDrawFixture(t, &models.Lottery{Code: "OFF", Name: "Disabled", Enabled: false})
		_, err := f.svc.OpenDraw(ctx, "OFF", time.Now())
		assert.Error(t, err)
	})

	t.Run("duplicate date rejected", func(t *testing.T) {
		f := newDrawFixture(t, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})
		date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		_, err := f.svc.OpenDraw(ctx, "SET_AM", date)
		require.NoError(t, err)
		draw, err := f.svc.OpenDraw(ctx, "SET_AM", date)
		assert.Error(t, err)
		assert.Nil(t, draw)
	})

	t.Run("unknown lottery reported as a miss", func(t *testing.T) {
		f := newDrawFixture(t, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})
		_, err := f.svc.OpenDraw(ctx, "NOPE", time.Now())
		assert.ErrorIs(t, err, mongo.ErrNoDocuments)
	})
}

func TestDrawLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newDrawFixture(t, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})

	draw, err := f.svc.OpenDraw(ctx, "SET_AM", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	t.Run("result entry requires CLOSED", func(t *testing.T) {
		_, err := f.svc.AnnounceResult(ctx, draw.ID, models.ResultEntry{ThreeDigitTop: "123", TwoDigitBottom: "45"})
		assert.ErrorIs(t, err, engine.ErrInvalidTransition)
	})

	closed, err := f.svc.CloseDraw(ctx, draw.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DrawStatusClosed, closed.Status)
	assert.False(t, closed.ClosedAt.IsZero())

	t.Run("double close rejected", func(t *testing.T) {
		_, err := f.svc.CloseDraw(ctx, draw.ID)
		assert.ErrorIs(t, err, engine.ErrInvalidTransition)
	})

	announced, err := f.svc.AnnounceResult(ctx, draw.ID, models.ResultEntry{ThreeDigitTop: "123", TwoDigitBottom: "45"})
	require.NoError(t, err)
	assert.Equal(t, models.DrawStatusResultAnnounced, announced.Status)
	require.NotNil(t, announced.Result)
	assert.Equal(t, "123", announced.Result.ThreeDigitTop)
	assert.Equal(t, "23", announced.Result.TwoDigitTop)
	assert.Equal(t, "45", announced.Result.TwoDigitBottom)
	assert.False(t, announced.AnnouncedAt.IsZero())

	t.Run("announced draw is terminal", func(t *testing.T) {
		_, err := f.svc.CancelDraw(ctx, draw.ID)
		assert.ErrorIs(t, err, engine.ErrInvalidTransition)
		_, err = f.svc.AnnounceResult(ctx, draw.ID, models.ResultEntry{ThreeDigitTop: "999", TwoDigitBottom: "11"})
		assert.ErrorIs(t, err, engine.ErrInvalidTransition)
	})

	t.Run("winning numbers expand from stored result", func(t *testing.T) {
		numbers, err := f.svc.GetWinningNumbers(ctx, draw.ID, models.BetTengBon2)
		require.NoError(t, err)
		assert.Equal(t, []string{"23"}, numbers)
	})
}

func TestCancelDraw(t *testing.T) {
	ctx := context.Background()

	openDraw := func(t *testing.T, f *drawFixture) *models.Draw {
		draw, err := f.svc.OpenDraw(ctx, "SET_AM", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		return draw
	}

	t.Run("cancel open draw refunds sold positions", func(t *testing.T) {
		f := newDrawFixture(t, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})
		draw := openDraw(t, f)

		key := models.QuotaKey{DrawID: draw.ID, OptionType: models.BetTengBon3, Number: "123"}
		_, err := f.quotaRepo.Add(ctx, key, 40, 0)
		require.NoError(t, err)

		cancelled, err := f.svc.CancelDraw(ctx, draw.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DrawStatusCancelled, cancelled.Status)
		assert.False(t, cancelled.CancelledAt.IsZero())

		require.Len(t, f.refunds.calls, 1)
		call := f.refunds.calls[0]
		assert.Equal(t, draw.ID.Hex(), call.drawID)
		assert.Equal(t, "SET_AM", call.lotteryCode)
		require.Len(t, call.counters, 1)
		assert.Equal(t, int64(40), call.counters[0].Cumulative)
	})

	t.Run("cancel closed draw allowed", func(t *testing.T) {
		f := newDrawFixture(t, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})
		draw := openDraw(t, f)
		_, err := f.svc.CloseDraw(ctx, draw.ID)
		require.NoError(t, err)
		cancelled, err := f.svc.CancelDraw(ctx, draw.ID)
		require.NoError(t, err)
		assert.Equal(t, models.DrawStatusCancelled, cancelled.Status)
	})

	t.Run("cancellation stands when the refund trigger fails", func(t *testing.T) {
		f := newDrawFixture(t, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})
		f.refunds.err = errors.New("gateway down")
		draw := openDraw(t, f)

		cancelled, err := f.svc.CancelDraw(ctx, draw.ID)
		assert.Error(t, err)
		require.NotNil(t, cancelled)
		assert.Equal(t, models.DrawStatusCancelled, cancelled.Status)

		stored, gerr := f.svc.GetDraw(ctx, draw.ID)
		require.NoError(t, gerr)
		assert.Equal(t, models.DrawStatusCancelled, stored.Status)
	})
}

func TestPreviewResult(t *testing.T) {
	ctx := context.Background()
	f := newDrawFixture(t, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})

	res, err := f.svc.PreviewResult(ctx, "SET_AM", models.ResultEntry{ThreeDigitTop: "407", TwoDigitBottom: "19"})
	require.NoError(t, err)
	assert.Equal(t, "07", res.TwoDigitTop)

	_, err = f.svc.PreviewResult(ctx, "SET_AM", models.ResultEntry{TwoDigitBottom: "19"})
	assert.ErrorIs(t, err, engine.ErrIncompleteResult)
}

func TestGetDrawsByStatus(t *testing.T) {
	ctx := context.Background()
	f := newDrawFixture(t, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})

	a, err := f.svc.OpenDraw(ctx, "SET_AM", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = f.svc.OpenDraw(ctx, "SET_AM", time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = f.svc.CloseDraw(ctx, a.ID)
	require.NoError(t, err)

	open, err := f.svc.GetDrawsByStatus(ctx, models.DrawStatusOpen)
	require.NoError(t, err)
	assert.Len(t, open, 1)

	closed, err := f.svc.GetDrawsByStatus(ctx, models.DrawStatusClosed)
	require.NoError(t, err)
	assert.Len(t, closed, 1)
}

func TestGetDrawsByDateRange(t *testing.T) {
	ctx := context.Background()
	f := newDrawFixture(t, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})

	for _, day := range []int{2, 3, 9} {
		_, err := f.svc.OpenDraw(ctx, "SET_AM", time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
	}

	t.Run("half-open window", func(t *testing.T) {
		draws, err := f.svc.GetDrawsByDateRange(ctx,
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, draws, 2)
	})

	t.Run("open lower bound", func(t *testing.T) {
		draws, err := f.svc.GetDrawsByDateRange(ctx,
			time.Time{}, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Len(t, draws, 2)
	})

	t.Run("open upper bound", func(t *testing.T) {
		draws, err := f.svc.GetDrawsByDateRange(ctx,
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), time.Time{})
		require.NoError(t, err)
		assert.Len(t, draws, 1)
	})

}

func TestGetDrawUnknownIsAMiss(t *testing.T) {
	f := newDrawFixture(t, &models.Lottery{Code: "SET_AM", Name: "Set Morning", Enabled: true})
	_, err := f.svc.GetDraw(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, mongo.ErrNoDocuments)
}
