package services

import (
	"context"
	"time"

	"github.com/huayhub/huay-engine-backend/internal/engine"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LotteryService defines the interface for lottery catalog operations
type LotteryService interface {
	// CreateLottery registers a new lottery market
	CreateLottery(ctx context.Context, lottery *models.Lottery) (*models.Lottery, error)

	// UpdateLottery edits name/schedule/flags; schedule edits only affect future draws
	UpdateLottery(ctx context.Context, lottery *models.Lottery) (*models.Lottery, error)

	// SetLotteryEnabled enables or disables a lottery
	SetLotteryEnabled(ctx context.Context, code string, enabled bool) error

	// GetLottery retrieves a lottery by code
	GetLottery(ctx context.Context, code string) (*models.Lottery, error)

	// GetLotteries lists all lotteries
	GetLotteries(ctx context.Context) ([]*models.Lottery, error)
}

// DrawService defines the interface for draw lifecycle operations
type DrawService interface {
	// OpenDraw opens a draw for a lottery on the given date
	OpenDraw(ctx context.Context, lotteryCode string, date time.Time) (*models.Draw, error)

	// CloseDraw freezes betting on a draw pending the result
	CloseDraw(ctx context.Context, drawID primitive.ObjectID) (*models.Draw, error)

	// CancelDraw cancels an OPEN or CLOSED draw and triggers refunds
	CancelDraw(ctx context.Context, drawID primitive.ObjectID) (*models.Draw, error)

	// AnnounceResult derives and stores the canonical result of a CLOSED draw
	AnnounceResult(ctx context.Context, drawID primitive.ObjectID, entry models.ResultEntry) (*models.Draw, error)

	// PreviewResult derives the canonical result without storing anything
	PreviewResult(ctx context.Context, lotteryCode string, entry models.ResultEntry) (*models.Result, error)

	// GetDraw retrieves a draw by ID
	GetDraw(ctx context.Context, drawID primitive.ObjectID) (*models.Draw, error)

	// GetDrawsByStatus lists draws in a lifecycle status
	GetDrawsByStatus(ctx context.Context, status models.DrawStatus) ([]*models.Draw, error)

	// GetDrawsByDateRange lists draws with a draw date in [from, to); a zero
	// bound is open-ended
	GetDrawsByDateRange(ctx context.Context, from, to time.Time) ([]*models.Draw, error)

	// GetWinningNumbers expands the winning numbers of an announced draw per option
	GetWinningNumbers(ctx context.Context, drawID primitive.ObjectID, opt models.BetOptionType) ([]string, error)

	// GetQuotaCounters lists the sold totals recorded under a draw
	GetQuotaCounters(ctx context.Context, drawID primitive.ObjectID) ([]*models.QuotaCounter, error)
}

// PayoutService defines the interface for payout configuration operations
type PayoutService interface {
	// UpsertPayoutConfig creates or updates the base settings of a (lottery, option)
	UpsertPayoutConfig(ctx context.Context, cfg *models.PayoutConfig) error

	// GetPayoutConfigs lists the option configs of a lottery
	GetPayoutConfigs(ctx context.Context, lotteryCode string) ([]*models.PayoutConfig, error)

	// ReplaceTierTable validates and stores a whole tier table
	ReplaceTierTable(ctx context.Context, tier *models.PayoutTier) error

	// GetTierTable retrieves the tier table of a (lottery, option, scope)
	GetTierTable(ctx context.Context, lotteryCode string, opt models.BetOptionType, scope models.TierScope) (*models.PayoutTier, error)

	// BootstrapDefaultTiers seeds the standard 5-step schedule for a (lottery, option, scope)
	BootstrapDefaultTiers(ctx context.Context, lotteryCode string, opt models.BetOptionType, scope models.TierScope) (*models.PayoutTier, error)

	// PutNumberLimit parses and stores a per-number override entry
	PutNumberLimit(ctx context.Context, lotteryCode string, opt models.BetOptionType, numbers string, multiply float64, maxSell int64, enabled bool) (*models.NumberLimit, error)

	// UpdateNumberLimit rewrites an existing override entry in place
	UpdateNumberLimit(ctx context.Context, id primitive.ObjectID, numbers string, multiply float64, maxSell int64, enabled bool) (*models.NumberLimit, error)

	// GetNumberLimits lists the override entries of a (lottery, option)
	GetNumberLimits(ctx context.Context, lotteryCode string, opt models.BetOptionType) ([]*models.NumberLimit, error)

	// DeleteNumberLimit removes an override entry
	DeleteNumberLimit(ctx context.Context, id primitive.ObjectID) error

	// ResolveMultiplier answers the operator diagnostic "calculate multiplier for amount X"
	ResolveMultiplier(ctx context.Context, lotteryCode string, opt models.BetOptionType, scope models.TierScope, priorCumulative, amount int64) (*MultiplierQuote, error)
}

// MultiplierQuote is the diagnostic answer for a prospective bet position.
type MultiplierQuote struct {
	Multiply        float64 `json:"multiply"`
	TierOrder       int     `json:"tierOrder"`
	PriorCumulative int64   `json:"priorCumulative"`
	Amount          int64   `json:"amount"`
	// PotentialPayout is amount x multiply, computed exactly.
	PotentialPayout string `json:"potentialPayout"`
}

// BetService defines the interface for bet admission
type BetService interface {
	// Admit runs the full admission pipeline and locks in a multiplier
	Admit(ctx context.Context, req AdmissionRequest) (*AdmissionResult, error)
}

// AdmissionRequest identifies a prospective bet.
type AdmissionRequest struct {
	DrawID     primitive.ObjectID   `json:"drawId"`
	OptionType models.BetOptionType `json:"optionType"`
	Number     string               `json:"number"`
	MemberID   string               `json:"memberId,omitempty"`
	Amount     int64                `json:"amount"`
}

// AdmissionResult reports an accepted bet. Rejections come back as engine errors
// so callers can distinguish business outcomes from configuration defects.
type AdmissionResult struct {
	Accepted        bool    `json:"accepted"`
	Multiply        float64 `json:"multiply"`
	TierOrder       int     `json:"tierOrder,omitempty"`
	NewCumulative   int64   `json:"newCumulative"`
	PotentialPayout string  `json:"potentialPayout"`
}

// RefundNotifier is the external collaborator that compensates admitted stakes
// when a draw is cancelled.
type RefundNotifier interface {
	RefundDraw(drawID string, lotteryCode string, counters []*models.QuotaCounter) error
}

// ErrorKindName maps taxonomy kinds to wire labels used in responses and logs.
func ErrorKindName(kind engine.ErrorKind) string {
	switch kind {
	case engine.KindValidation:
		return "VALIDATION"
	case engine.KindConfigDefect:
		return "CONFIG_DEFECT"
	case engine.KindBusinessOutcome:
		return "REJECTED"
	case engine.KindLifecycle:
		return "LIFECYCLE"
	case engine.KindTransient:
		return "BUSY"
	default:
		return "ERROR"
	}
}
