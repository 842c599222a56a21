package engine

import (
	"fmt"
	"strings"

	"github.com/huayhub/huay-engine-backend/internal/models"
)

// DeriveResult turns an operator's raw digit entry into the canonical result record
// for the given lottery. Pure and idempotent; safe to re-run for corrections while
// the draw is still CLOSED.
//
// Derivation precedence: fourDigit (when present) overrides any independently
// entered threeDigitTop — the last 3 and last 2 digits are re-derived from it.
// twoDigitBottom is never derived. For GLO lotteries the grand number and the
// front/back 3-digit sets are required verbatim; when neither fourDigit nor
// threeDigitTop was entered, the top digits come from the grand number's tail.
func DeriveResult(lottery *models.Lottery, entry models.ResultEntry) (*models.Result, error) {
	if err := validateEntry(lottery, entry); err != nil {
		return nil, err
	}

	res := &models.Result{}

	switch {
	case entry.FourDigit != "":
		res.FourDigit = entry.FourDigit
		res.ThreeDigitTop = entry.FourDigit[1:4]
		res.TwoDigitTop = entry.FourDigit[2:4]
	case entry.ThreeDigitTop != "":
		res.ThreeDigitTop = entry.ThreeDigitTop
		res.TwoDigitTop = entry.ThreeDigitTop[1:3]
	case lottery.GLOVariant:
		res.ThreeDigitTop = entry.SixDigitGrand[3:6]
		res.TwoDigitTop = entry.SixDigitGrand[4:6]
	default:
		return nil, fmt.Errorf("neither fourDigit nor threeDigitTop entered: %w", ErrIncompleteResult)
	}

	if entry.TwoDigitBottom == "" {
		return nil, fmt.Errorf("twoDigitBottom missing: %w", ErrIncompleteResult)
	}
	res.TwoDigitBottom = entry.TwoDigitBottom

	if lottery.GLOVariant {
		res.SixDigitGrand = entry.SixDigitGrand
		front, err := ParseNumberSet(entry.ThreeDigitFront, 3)
		if err != nil {
			return nil, fmt.Errorf("threeDigitFront: %w", err)
		}
		back, err := ParseNumberSet(entry.ThreeDigitBack, 3)
		if err != nil {
			return nil, fmt.Errorf("threeDigitBack: %w", err)
		}
		res.ThreeDigitFront = front
		res.ThreeDigitBack = back
	}

	return res, nil
}

// validateEntry checks field widths and lottery-variant requirements before derivation.
func validateEntry(lottery *models.Lottery, entry models.ResultEntry) error {
	if entry.ThreeDigitTop != "" && !IsDigits(entry.ThreeDigitTop, 3) {
		return fmt.Errorf("threeDigitTop must be exactly 3 digits: %w", ErrInvalidDigits)
	}
	if entry.FourDigit != "" {
		if !lottery.Has4D {
			return fmt.Errorf("fourDigit not allowed for lottery %s: %w", lottery.Code, ErrInvalidDigits)
		}
		if !IsDigits(entry.FourDigit, 4) {
			return fmt.Errorf("fourDigit must be exactly 4 digits: %w", ErrInvalidDigits)
		}
	}
	if entry.TwoDigitBottom != "" && !IsDigits(entry.TwoDigitBottom, 2) {
		return fmt.Errorf("twoDigitBottom must be exactly 2 digits: %w", ErrInvalidDigits)
	}

	if lottery.GLOVariant {
		if entry.SixDigitGrand == "" || entry.ThreeDigitFront == "" || entry.ThreeDigitBack == "" {
			return fmt.Errorf("GLO lottery requires sixDigitGrand, threeDigitFront and threeDigitBack: %w", ErrIncompleteResult)
		}
		if !IsDigits(entry.SixDigitGrand, 6) {
			return fmt.Errorf("sixDigitGrand must be exactly 6 digits: %w", ErrInvalidDigits)
		}
		return nil
	}

	if entry.SixDigitGrand != "" || entry.ThreeDigitFront != "" || entry.ThreeDigitBack != "" {
		return fmt.Errorf("grand/front/back fields only allowed for GLO lotteries: %w", ErrInvalidDigits)
	}
	return nil
}

// IsDigits reports whether s is exactly width numeric characters.
func IsDigits(s string, width int) bool {
	if len(s) != width {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ParseNumberSet parses a comma-separated list of fixed-width numeric tokens,
// preserving order. Whitespace around tokens is tolerated; anything else fails
// with ErrMalformedNumberSet.
func ParseNumberSet(raw string, width int) ([]string, error) {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		token := strings.TrimSpace(p)
		if !IsDigits(token, width) {
			return nil, fmt.Errorf("token %q is not a %d-digit number: %w", token, width, ErrMalformedNumberSet)
		}
		out = append(out, token)
	}
	return out, nil
}
