package engine

import (
	"testing"

	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWinningNumbers(t *testing.T) {
	res := &models.Result{
		FourDigit:       "1234",
		ThreeDigitTop:   "234",
		TwoDigitTop:     "34",
		TwoDigitBottom:  "56",
		SixDigitGrand:   "561234",
		ThreeDigitFront: []string{"111", "222"},
		ThreeDigitBack:  []string{"333", "444"},
	}

	cases := []struct {
		opt  models.BetOptionType
		want []string
	}{
		{models.BetTengBon4, []string{"1234"}},
		{models.BetTengBon3, []string{"234"}},
		{models.BetTengBon2, []string{"34"}},
		{models.BetTengLang2, []string{"56"}},
		{models.BetTengLang3, []string{"333", "444"}},
		{models.BetTengLangNha3, []string{"111", "222"}},
		{models.BetWingBon, []string{"4"}},
		{models.BetWingLang, []string{"6"}},
		{models.BetTode2, []string{"34", "43"}},
	}
	for _, c := range cases {
		got, err := WinningNumbers(c.opt, res)
		require.NoError(t, err, "option %s", c.opt)
		assert.Equal(t, c.want, got, "option %s", c.opt)
	}
}

func TestWinningNumbers_Tode3(t *testing.T) {
	got, err := WinningNumbers(models.BetTode3, &models.Result{ThreeDigitTop: "234", TwoDigitTop: "34", TwoDigitBottom: "56"})
	require.NoError(t, err)
	assert.Equal(t, []string{"234", "243", "324", "342", "423", "432"}, got)
}

func TestWinningNumbers_MissingFields(t *testing.T) {
	res := &models.Result{ThreeDigitTop: "234", TwoDigitTop: "34", TwoDigitBottom: "56"}

	_, err := WinningNumbers(models.BetTengBon4, res)
	assert.ErrorIs(t, err, ErrIncompleteResult)

	_, err = WinningNumbers(models.BetTengLang3, res)
	assert.ErrorIs(t, err, ErrIncompleteResult)

	_, err = WinningNumbers("bogus", res)
	assert.ErrorIs(t, err, ErrInvalidDigits)
}

func TestPermutations(t *testing.T) {
	assert.Equal(t, []string{"12", "21"}, Permutations("12"))
	// repeated digits collapse
	assert.Equal(t, []string{"11"}, Permutations("11"))
	assert.Equal(t, []string{"112", "121", "211"}, Permutations("112"))
	assert.Len(t, Permutations("1234"), 24)
	assert.Len(t, Permutations("1123"), 12)
}
