package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuotaKey identifies one cumulative-stake counter. MemberID is empty for the
// per-lottery pool. Counters are never shared across draws.
type QuotaKey struct {
	DrawID     primitive.ObjectID `bson:"drawId" json:"drawId"`
	OptionType BetOptionType      `bson:"optionType" json:"optionType"`
	Number     string             `bson:"number" json:"number"`
	MemberID   string             `bson:"memberId,omitempty" json:"memberId,omitempty"`
}

// String renders the key for per-key lock addressing.
func (k QuotaKey) String() string {
	return k.DrawID.Hex() + "|" + string(k.OptionType) + "|" + k.Number + "|" + k.MemberID
}

// QuotaCounter is the stored running total of admitted stake for one key.
// Created lazily on the first admitted bet.
type QuotaCounter struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DrawID     primitive.ObjectID `bson:"drawId" json:"drawId"`
	OptionType BetOptionType      `bson:"optionType" json:"optionType"`
	Number     string             `bson:"number" json:"number"`
	MemberID   string             `bson:"memberId,omitempty" json:"memberId,omitempty"`
	Cumulative int64              `bson:"cumulative" json:"cumulative"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
