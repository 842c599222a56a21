package engine

import (
	"fmt"
	"sort"

	"github.com/huayhub/huay-engine-backend/internal/models"
)

// TierResolution is the outcome of resolving a payout tier for a prospective bet.
type TierResolution struct {
	Multiply  float64 `json:"multiply"`
	TierOrder int     `json:"tierOrder"`
}

// ResolveTier finds the enabled tier whose [minAmount, maxAmount) range contains
// priorCumulative — the ledger balance before the bet is admitted. A bet is settled
// wholly at its starting tier; it is never blended across a boundary it crosses.
//
// No covering tier is a configuration gap (ErrNoTierConfigured), more than one is
// bad configuration data (ErrAmbiguousTierOverlap). Neither is ever defaulted over.
func ResolveTier(steps []models.TierStep, priorCumulative int64) (TierResolution, error) {
	if priorCumulative < 0 {
		return TierResolution{}, fmt.Errorf("negative cumulative %d: %w", priorCumulative, ErrInvalidAmount)
	}

	var found []models.TierStep
	for _, s := range steps {
		if !s.Enabled {
			continue
		}
		if priorCumulative >= s.MinAmount && (s.MaxAmount == nil || priorCumulative < *s.MaxAmount) {
			found = append(found, s)
		}
	}

	switch len(found) {
	case 0:
		return TierResolution{}, fmt.Errorf("cumulative %d: %w", priorCumulative, ErrNoTierConfigured)
	case 1:
		return TierResolution{Multiply: found[0].Multiply, TierOrder: found[0].TierOrder}, nil
	default:
		return TierResolution{}, fmt.Errorf("cumulative %d covered by tiers %d and %d: %w",
			priorCumulative, found[0].TierOrder, found[1].TierOrder, ErrAmbiguousTierOverlap)
	}
}

// ValidateTierTable checks that the enabled steps partition [0, ∞) without gaps or
// overlaps: the first starts at 0, each next starts where the previous ended, and
// the last is unbounded. Disabled steps are ignored.
func ValidateTierTable(steps []models.TierStep) error {
	enabled := make([]models.TierStep, 0, len(steps))
	for _, s := range steps {
		if s.Enabled {
			enabled = append(enabled, s)
		}
	}
	if len(enabled) == 0 {
		return fmt.Errorf("tier table has no enabled steps: %w", ErrNoTierConfigured)
	}

	sort.Slice(enabled, func(i, j int) bool { return enabled[i].MinAmount < enabled[j].MinAmount })

	if enabled[0].MinAmount != 0 {
		return fmt.Errorf("first tier starts at %d, not 0: %w", enabled[0].MinAmount, ErrNoTierConfigured)
	}
	for i, s := range enabled {
		if s.MaxAmount != nil && *s.MaxAmount <= s.MinAmount {
			return fmt.Errorf("tier %d has empty range [%d, %d): %w", s.TierOrder, s.MinAmount, *s.MaxAmount, ErrInvalidAmount)
		}
		if i == len(enabled)-1 {
			if s.MaxAmount != nil {
				return fmt.Errorf("last tier ends at %d, leaving a gap: %w", *s.MaxAmount, ErrNoTierConfigured)
			}
			break
		}
		if s.MaxAmount == nil {
			return fmt.Errorf("tier %d is unbounded but tier %d follows it: %w",
				s.TierOrder, enabled[i+1].TierOrder, ErrAmbiguousTierOverlap)
		}
		next := enabled[i+1]
		if next.MinAmount < *s.MaxAmount {
			return fmt.Errorf("tiers %d and %d overlap at %d: %w",
				s.TierOrder, next.TierOrder, next.MinAmount, ErrAmbiguousTierOverlap)
		}
		if next.MinAmount > *s.MaxAmount {
			return fmt.Errorf("gap between %d and %d: %w", *s.MaxAmount, next.MinAmount, ErrNoTierConfigured)
		}
	}
	return nil
}

// defaultTierBounds is the standard 5-step schedule seeded by the bootstrap
// operation: 1-10, 11-20, 21-50, 51-100 and everything above 100 units.
var defaultTierBounds = []int64{10, 20, 50, 100}

// DefaultTierSchedule seeds the standard 5-step schedule. Every step starts at the
// given base multiplier; operators tune the per-step rates after seeding.
func DefaultTierSchedule(baseMultiply float64) []models.TierStep {
	steps := make([]models.TierStep, 0, len(defaultTierBounds)+1)
	min := int64(0)
	for i, bound := range defaultTierBounds {
		b := bound
		steps = append(steps, models.TierStep{
			TierOrder: i + 1,
			MinAmount: min,
			MaxAmount: &b,
			Multiply:  baseMultiply,
			Enabled:   true,
		})
		min = bound
	}
	steps = append(steps, models.TierStep{
		TierOrder: len(defaultTierBounds) + 1,
		MinAmount: min,
		MaxAmount: nil,
		Multiply:  baseMultiply,
		Enabled:   true,
	})
	return steps
}

// TierCap returns the highest amount the enabled steps reach. The second return is
// false when the top tier is unbounded, i.e. the table itself imposes no cap.
func TierCap(steps []models.TierStep) (int64, bool) {
	var reach int64
	for _, s := range steps {
		if !s.Enabled {
			continue
		}
		if s.MaxAmount == nil {
			return 0, false
		}
		if *s.MaxAmount > reach {
			reach = *s.MaxAmount
		}
	}
	return reach, true
}

// HasEnabledSteps reports whether any step of the table is enabled. A table with no
// enabled steps means tiering is not in use for the pair and the base multiplier
// from PayoutConfig applies.
func HasEnabledSteps(steps []models.TierStep) bool {
	for _, s := range steps {
		if s.Enabled {
			return true
		}
	}
	return false
}
