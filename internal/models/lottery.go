package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lottery represents a lottery market in the catalog. Code is the stable
// identity used throughout the engine; ID is the storage handle.
type Lottery struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Code  string             `bson:"code" json:"code"`
	Name  string             `bson:"name" json:"name"`
	Group string             `bson:"group,omitempty" json:"group,omitempty"`

	// Schedule is day-of-week XOR day-of-month. Both empty means draws are
	// opened manually on any date.
	DaysOfWeek  []int `bson:"daysOfWeek,omitempty" json:"daysOfWeek,omitempty"`
	DaysOfMonth []int `bson:"daysOfMonth,omitempty" json:"daysOfMonth,omitempty"`

	// Has4D enables the four-digit result field and the options that need it.
	Has4D bool `bson:"has4d" json:"has4d"`
	// GLOVariant marks government-style lotteries whose results carry the
	// six-digit grand prize and the front/back three-digit sets.
	GLOVariant bool `bson:"gloVariant" json:"gloVariant"`

	Enabled   bool      `bson:"enabled" json:"enabled"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// DrawsOnWeekday reports whether the schedule includes the given weekday.
func (l *Lottery) DrawsOnWeekday(d time.Weekday) bool {
	for _, w := range l.DaysOfWeek {
		if w == int(d) {
			return true
		}
	}
	return false
}

// DrawsOnDayOfMonth reports whether the schedule includes the given day of month.
func (l *Lottery) DrawsOnDayOfMonth(day int) bool {
	for _, m := range l.DaysOfMonth {
		if m == day {
			return true
		}
	}
	return false
}

// ScheduledOn reports whether a draw may be opened on the given date. A
// lottery with no schedule accepts any date.
func (l *Lottery) ScheduledOn(date time.Time) bool {
	if len(l.DaysOfWeek) == 0 && len(l.DaysOfMonth) == 0 {
		return true
	}
	if len(l.DaysOfWeek) > 0 {
		return l.DrawsOnWeekday(date.Weekday())
	}
	return l.DrawsOnDayOfMonth(date.Day())
}
