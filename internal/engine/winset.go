package engine

import (
	"fmt"
	"sort"

	"github.com/huayhub/huay-engine-backend/internal/models"
)

// WinningNumbers expands the set of bet numbers that win the given option type
// against an announced result. Exact options map to a single number, tode options
// to every distinct permutation, and wing (running) options to a single digit.
// Used by the operator result-preview surface; the actual crediting of winners
// happens downstream.
func WinningNumbers(opt models.BetOptionType, res *models.Result) ([]string, error) {
	switch opt {
	case models.BetTengBon4:
		if res.FourDigit == "" {
			return nil, fmt.Errorf("result has no fourDigit field: %w", ErrIncompleteResult)
		}
		return []string{res.FourDigit}, nil
	case models.BetTode4:
		if res.FourDigit == "" {
			return nil, fmt.Errorf("result has no fourDigit field: %w", ErrIncompleteResult)
		}
		return Permutations(res.FourDigit), nil
	case models.BetTengBon3:
		return []string{res.ThreeDigitTop}, nil
	case models.BetTode3:
		return Permutations(res.ThreeDigitTop), nil
	case models.BetTengLang3:
		if len(res.ThreeDigitBack) == 0 {
			return nil, fmt.Errorf("result has no back set: %w", ErrIncompleteResult)
		}
		return append([]string(nil), res.ThreeDigitBack...), nil
	case models.BetTengLangNha3:
		if len(res.ThreeDigitFront) == 0 {
			return nil, fmt.Errorf("result has no front set: %w", ErrIncompleteResult)
		}
		return append([]string(nil), res.ThreeDigitFront...), nil
	case models.BetTengBon2:
		return []string{res.TwoDigitTop}, nil
	case models.BetTengLang2:
		return []string{res.TwoDigitBottom}, nil
	case models.BetTode2:
		return Permutations(res.TwoDigitTop), nil
	case models.BetWingBon:
		return []string{res.TwoDigitTop[1:]}, nil
	case models.BetWingLang:
		return []string{res.TwoDigitBottom[1:]}, nil
	default:
		return nil, fmt.Errorf("unknown bet option %q: %w", opt, ErrInvalidDigits)
	}
}

// Permutations returns every distinct ordering of the digits in s, sorted.
// Repeated digits collapse, e.g. "112" yields 3 numbers, not 6.
func Permutations(s string) []string {
	seen := make(map[string]bool)
	permute([]byte(s), 0, seen)
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func permute(b []byte, i int, seen map[string]bool) {
	if i == len(b) {
		seen[string(b)] = true
		return
	}
	for j := i; j < len(b); j++ {
		b[i], b[j] = b[j], b[i]
		permute(b, i+1, seen)
		b[i], b[j] = b[j], b[i]
	}
}
