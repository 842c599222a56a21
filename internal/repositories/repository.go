package repositories

import (
	"context"
	"time"

	"github.com/huayhub/huay-engine-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LotteryRepository defines the interface for lottery catalog operations
type LotteryRepository interface {
	Create(ctx context.Context, lottery *models.Lottery) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lottery, error)
	FindByCode(ctx context.Context, code string) (*models.Lottery, error)
	Update(ctx context.Context, lottery *models.Lottery) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindAll(ctx context.Context) ([]*models.Lottery, error)
}

// DrawRepository defines the interface for draw data operations
type DrawRepository interface {
	Create(ctx context.Context, draw *models.Draw) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error)
	FindByLotteryAndDate(ctx context.Context, lotteryCode string, date time.Time) (*models.Draw, error)
	Update(ctx context.Context, draw *models.Draw) error
	FindByStatus(ctx context.Context, status models.DrawStatus) ([]*models.Draw, error)
	FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Draw, error)
}

// PayoutConfigRepository defines the interface for base payout settings
type PayoutConfigRepository interface {
	Upsert(ctx context.Context, cfg *models.PayoutConfig) error
	Find(ctx context.Context, lotteryCode string, opt models.BetOptionType) (*models.PayoutConfig, error)
	FindByLottery(ctx context.Context, lotteryCode string) ([]*models.PayoutConfig, error)
	Delete(ctx context.Context, lotteryCode string, opt models.BetOptionType) error
}

// PayoutTierRepository defines the interface for stepped payout tables
type PayoutTierRepository interface {
	ReplaceTable(ctx context.Context, tier *models.PayoutTier) error
	FindTable(ctx context.Context, lotteryCode string, opt models.BetOptionType, scope models.TierScope) (*models.PayoutTier, error)
	FindByLottery(ctx context.Context, lotteryCode string) ([]*models.PayoutTier, error)
	DeleteTable(ctx context.Context, lotteryCode string, opt models.BetOptionType, scope models.TierScope) error
}

// NumberLimitRepository defines the interface for per-number overrides
type NumberLimitRepository interface {
	Create(ctx context.Context, limit *models.NumberLimit) error
	Update(ctx context.Context, limit *models.NumberLimit) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.NumberLimit, error)
	FindByLotteryAndOption(ctx context.Context, lotteryCode string, opt models.BetOptionType) ([]*models.NumberLimit, error)
	// FindForNumber returns the override covering the number, or nil when none exists.
	FindForNumber(ctx context.Context, lotteryCode string, opt models.BetOptionType, number string) (*models.NumberLimit, error)
}

// QuotaRepository defines the interface for cumulative-stake counters.
type QuotaRepository interface {
	// Get returns the current cumulative for the key; 0 when no counter exists yet.
	Get(ctx context.Context, key models.QuotaKey) (int64, error)
	// Add increments the counter by amount provided the result does not exceed max
	// (max <= 0 means uncapped) and returns the new cumulative. The check-increment
	// is atomic; on a would-exceed it returns engine.ErrLimitExceeded unwrapped so
	// callers can match with errors.Is.
	Add(ctx context.Context, key models.QuotaKey, amount, max int64) (int64, error)
	// Sub backs an amount out of the counter (compensation path only).
	Sub(ctx context.Context, key models.QuotaKey, amount int64) error
	// FindByDraw lists every counter recorded under a draw.
	FindByDraw(ctx context.Context, drawID primitive.ObjectID) ([]*models.QuotaCounter, error)
}
