package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawStatus represents the lifecycle status of a draw
type DrawStatus string

const (
	DrawStatusOpen            DrawStatus = "OPEN"
	DrawStatusClosed          DrawStatus = "CLOSED"
	DrawStatusResultAnnounced DrawStatus = "RESULT_ANNOUNCED"
	DrawStatusCancelled       DrawStatus = "CANCELLED"
)

// validDrawTransitions maps each status to the statuses reachable from it.
// RESULT_ANNOUNCED and CANCELLED are terminal; no transition may be skipped.
var validDrawTransitions = map[DrawStatus][]DrawStatus{
	DrawStatusOpen:            {DrawStatusClosed, DrawStatusCancelled},
	DrawStatusClosed:          {DrawStatusResultAnnounced, DrawStatusCancelled},
	DrawStatusResultAnnounced: {},
	DrawStatusCancelled:       {},
}

// CanTransition reports whether a draw may move from one status to another.
func CanTransition(from, to DrawStatus) bool {
	for _, s := range validDrawTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Draw represents one scheduled occurrence of a lottery
type Draw struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	LotteryID   primitive.ObjectID `bson:"lotteryId" json:"lotteryId"`
	LotteryCode string             `bson:"lotteryCode" json:"lotteryCode"`
	DrawDate    time.Time          `bson:"drawDate" json:"drawDate"`
	Status      DrawStatus         `bson:"status" json:"status"`
	Result      *Result            `bson:"result,omitempty" json:"result,omitempty"`
	ClosedAt    time.Time          `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	AnnouncedAt time.Time          `bson:"announcedAt,omitempty" json:"announcedAt,omitempty"`
	CancelledAt time.Time          `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
