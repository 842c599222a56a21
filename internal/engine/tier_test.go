package engine

import (
	"testing"

	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func step(order int, min int64, max *int64, multiply float64) models.TierStep {
	return models.TierStep{TierOrder: order, MinAmount: min, MaxAmount: max, Multiply: multiply, Enabled: true}
}

func amt(v int64) *int64 { return &v }

func TestResolveTier(t *testing.T) {
	steps := []models.TierStep{
		step(1, 0, amt(10), 500),
		step(2, 10, amt(20), 450),
		step(3, 20, nil, 400),
	}

	cases := []struct {
		cumulative int64
		multiply   float64
		order      int
	}{
		{0, 500, 1},
		{9, 500, 1},
		{10, 450, 2},
		{15, 450, 2},
		{19, 450, 2},
		{20, 400, 3},
		{1000000, 400, 3},
	}
	for _, c := range cases {
		res, err := ResolveTier(steps, c.cumulative)
		require.NoError(t, err, "cumulative %d", c.cumulative)
		assert.Equal(t, c.multiply, res.Multiply, "cumulative %d", c.cumulative)
		assert.Equal(t, c.order, res.TierOrder, "cumulative %d", c.cumulative)
	}
}

func TestResolveTier_StartingTierGovernsWholeBet(t *testing.T) {
	// A bet landing at cumulative 15 settles at tier 2 even if its amount would
	// push the pool past the 20 boundary; no blending.
	steps := []models.TierStep{
		step(1, 0, amt(10), 500),
		step(2, 10, amt(20), 450),
		step(3, 20, nil, 400),
	}
	res, err := ResolveTier(steps, 15)
	require.NoError(t, err)
	assert.Equal(t, 450.0, res.Multiply)
}

func TestResolveTier_NegativeCumulative(t *testing.T) {
	steps := []models.TierStep{step(1, 0, nil, 500)}
	_, err := ResolveTier(steps, -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestResolveTier_Gap(t *testing.T) {
	steps := []models.TierStep{
		step(1, 0, amt(10), 500),
		step(2, 20, nil, 400), // hole between 10 and 20
	}
	_, err := ResolveTier(steps, 15)
	assert.ErrorIs(t, err, ErrNoTierConfigured)
}

func TestResolveTier_Overlap(t *testing.T) {
	steps := []models.TierStep{
		step(1, 0, amt(20), 500),
		step(2, 10, nil, 400),
	}
	_, err := ResolveTier(steps, 15)
	assert.ErrorIs(t, err, ErrAmbiguousTierOverlap)
}

func TestResolveTier_DisabledStepsIgnored(t *testing.T) {
	steps := []models.TierStep{
		step(1, 0, amt(10), 500),
		{TierOrder: 2, MinAmount: 10, MaxAmount: amt(20), Multiply: 450, Enabled: false},
		step(3, 20, nil, 400),
	}
	_, err := ResolveTier(steps, 15)
	assert.ErrorIs(t, err, ErrNoTierConfigured)
}

func TestValidateTierTable(t *testing.T) {
	t.Run("valid partition", func(t *testing.T) {
		assert.NoError(t, ValidateTierTable([]models.TierStep{
			step(1, 0, amt(10), 500),
			step(2, 10, amt(50), 450),
			step(3, 50, nil, 400),
		}))
	})
	t.Run("does not start at zero", func(t *testing.T) {
		err := ValidateTierTable([]models.TierStep{step(1, 5, nil, 500)})
		assert.ErrorIs(t, err, ErrNoTierConfigured)
	})
	t.Run("bounded last tier", func(t *testing.T) {
		err := ValidateTierTable([]models.TierStep{step(1, 0, amt(100), 500)})
		assert.ErrorIs(t, err, ErrNoTierConfigured)
	})
	t.Run("gap", func(t *testing.T) {
		err := ValidateTierTable([]models.TierStep{
			step(1, 0, amt(10), 500),
			step(2, 20, nil, 400),
		})
		assert.ErrorIs(t, err, ErrNoTierConfigured)
	})
	t.Run("overlap", func(t *testing.T) {
		err := ValidateTierTable([]models.TierStep{
			step(1, 0, amt(20), 500),
			step(2, 10, nil, 400),
		})
		assert.ErrorIs(t, err, ErrAmbiguousTierOverlap)
	})
	t.Run("empty range", func(t *testing.T) {
		err := ValidateTierTable([]models.TierStep{
			step(1, 0, amt(0), 500),
			step(2, 0, nil, 400),
		})
		assert.Error(t, err)
	})
	t.Run("no enabled steps", func(t *testing.T) {
		err := ValidateTierTable([]models.TierStep{
			{TierOrder: 1, MinAmount: 0, Multiply: 500, Enabled: false},
		})
		assert.ErrorIs(t, err, ErrNoTierConfigured)
	})
}

func TestDefaultTierSchedule(t *testing.T) {
	steps := DefaultTierSchedule(85)
	require.Len(t, steps, 5)
	require.NoError(t, ValidateTierTable(steps))

	// Every cumulative position resolves, in particular the boundaries.
	for _, cumulative := range []int64{0, 9, 10, 20, 50, 99, 100, 5000} {
		res, err := ResolveTier(steps, cumulative)
		require.NoError(t, err, "cumulative %d", cumulative)
		assert.Equal(t, 85.0, res.Multiply)
	}
}

func TestTierCap(t *testing.T) {
	bounded := []models.TierStep{
		step(1, 0, amt(10), 500),
		step(2, 10, amt(100), 450),
	}
	reach, ok := TierCap(bounded)
	assert.True(t, ok)
	assert.Equal(t, int64(100), reach)

	unbounded := append(bounded, step(3, 100, nil, 400))
	_, ok = TierCap(unbounded)
	assert.False(t, ok)
}

func TestHasEnabledSteps(t *testing.T) {
	assert.False(t, HasEnabledSteps(nil))
	assert.False(t, HasEnabledSteps([]models.TierStep{{Enabled: false}}))
	assert.True(t, HasEnabledSteps([]models.TierStep{{Enabled: false}, {Enabled: true}}))
}
