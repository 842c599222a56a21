package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TierScope selects which cumulative pool a tier table is keyed by.
type TierScope string

const (
	ScopePerLottery TierScope = "PER_LOTTERY" // cumulative across all members on a number
	ScopePerMember  TierScope = "PER_MEMBER"  // cumulative per member on a number
)

// IsValid reports whether s is a known tier scope.
func (s TierScope) IsValid() bool {
	return s == ScopePerLottery || s == ScopePerMember
}

// PayoutConfig holds the base payout settings for one (lottery, bet option) pair.
// Amounts are whole stake units. MaxPerNumber/MaxPerMember of zero mean the tier
// table's reach (or no cap when the top tier is unbounded) governs.
type PayoutConfig struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	LotteryCode  string             `bson:"lotteryCode" json:"lotteryCode"`
	OptionType   BetOptionType      `bson:"optionType" json:"optionType"`
	Multiply     float64            `bson:"multiply" json:"multiply"`
	MinBet       int64              `bson:"minBet" json:"minBet"`
	MaxBet       int64              `bson:"maxBet" json:"maxBet"`
	MaxPerNumber int64              `bson:"maxPerNumber" json:"maxPerNumber"`
	MaxPerMember int64              `bson:"maxPerMember" json:"maxPerMember"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TierStep is one row of a stepped payout schedule. MaxAmount nil means unbounded.
// TierOrder is display order only; resolution is by range containment.
type TierStep struct {
	TierOrder int     `bson:"tierOrder" json:"tierOrder"`
	MinAmount int64   `bson:"minAmount" json:"minAmount"`
	MaxAmount *int64  `bson:"maxAmount,omitempty" json:"maxAmount,omitempty"`
	Multiply  float64 `bson:"multiply" json:"multiply"`
	Enabled   bool    `bson:"enabled" json:"enabled"`
}

// PayoutTier is the stored tier table for one (lottery, bet option, scope).
type PayoutTier struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	LotteryCode string             `bson:"lotteryCode" json:"lotteryCode"`
	OptionType  BetOptionType      `bson:"optionType" json:"optionType"`
	Scope       TierScope          `bson:"scope" json:"scope"`
	Steps       []TierStep         `bson:"steps" json:"steps"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// NumberLimit is an explicit per-number override ("huay-an"). All numbers listed in
// one entry share the same settings. Enabled false closes the listed numbers entirely.
type NumberLimit struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	LotteryCode   string             `bson:"lotteryCode" json:"lotteryCode"`
	OptionType    BetOptionType      `bson:"optionType" json:"optionType"`
	Numbers       []string           `bson:"numbers" json:"numbers"`
	Multiply      float64            `bson:"multiply" json:"multiply"`
	MaxSellAmount int64              `bson:"maxSellAmount" json:"maxSellAmount"`
	Enabled       bool               `bson:"enabled" json:"enabled"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Covers reports whether the override lists the given number.
func (n *NumberLimit) Covers(number string) bool {
	for _, v := range n.Numbers {
		if v == number {
			return true
		}
	}
	return false
}
