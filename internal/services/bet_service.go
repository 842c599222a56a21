package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/huayhub/huay-engine-backend/internal/engine"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure BetServiceImpl implements BetService
var _ BetService = (*BetServiceImpl)(nil)

// BetServiceImpl runs the admission pipeline: draw state check, number-limit
// override, tier resolution, then the serialized quota increment. Admission is
// the commit point — a later cancellation is a compensating refund, never an
// undo of the ledger.
type BetServiceImpl struct {
	drawRepo    repositories.DrawRepository
	lotteryRepo repositories.LotteryRepository
	configRepo  repositories.PayoutConfigRepository
	tierRepo    repositories.PayoutTierRepository
	limitRepo   repositories.NumberLimitRepository
	quotaRepo   repositories.QuotaRepository
	locks       *engine.KeyedLock
}

// NewBetService creates a new BetServiceImpl
func NewBetService(
	drawRepo repositories.DrawRepository,
	lotteryRepo repositories.LotteryRepository,
	configRepo repositories.PayoutConfigRepository,
	tierRepo repositories.PayoutTierRepository,
	limitRepo repositories.NumberLimitRepository,
	quotaRepo repositories.QuotaRepository,
	locks *engine.KeyedLock,
) *BetServiceImpl {
	return &BetServiceImpl{
		drawRepo:    drawRepo,
		lotteryRepo: lotteryRepo,
		configRepo:  configRepo,
		tierRepo:    tierRepo,
		limitRepo:   limitRepo,
		quotaRepo:   quotaRepo,
		locks:       locks,
	}
}

// Admit admits or rejects a bet and locks in its multiplier. The read-check-
// increment for one ledger key is serialized behind a per-key lock with a bounded
// wait; admits on different keys never contend. Rejection is terminal for the
// attempt — no partial admission, no automatic retry with a reduced amount.
func (s *BetServiceImpl) Admit(ctx context.Context, req AdmissionRequest) (*AdmissionResult, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	draw, err := s.drawRepo.FindByID(ctx, req.DrawID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("draw %s not found: %w", req.DrawID.Hex(), mongo.ErrNoDocuments)
		}
		return nil, fmt.Errorf("failed to load draw: %w", err)
	}
	if draw.Status != models.DrawStatusOpen {
		return nil, fmt.Errorf("draw %s is %s: %w", req.DrawID.Hex(), draw.Status, engine.ErrDrawNotOpen)
	}

	lottery, err := s.lotteryRepo.FindByID(ctx, draw.LotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lottery: %w", err)
	}
	if req.OptionType.GLOOnly() && !lottery.GLOVariant {
		return nil, fmt.Errorf("option %s is only available on GLO lotteries: %w", req.OptionType, engine.ErrOptionUnsupported)
	}
	if req.OptionType.Requires4D() && !lottery.Has4D {
		return nil, fmt.Errorf("option %s requires a 4-digit lottery: %w", req.OptionType, engine.ErrOptionUnsupported)
	}

	cfg, err := s.configRepo.Find(ctx, lottery.Code, req.OptionType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Selling an option with no payout config is a setup gap, not a quota outcome.
			return nil, fmt.Errorf("no payout config for %s/%s: %w", lottery.Code, req.OptionType, engine.ErrNoTierConfigured)
		}
		return nil, fmt.Errorf("failed to load payout config: %w", err)
	}
	if req.Amount < cfg.MinBet || (cfg.MaxBet > 0 && req.Amount > cfg.MaxBet) {
		return nil, fmt.Errorf("stake %d outside [%d, %d]: %w", req.Amount, cfg.MinBet, cfg.MaxBet, engine.ErrStakeOutOfRange)
	}

	override, err := s.limitRepo.FindForNumber(ctx, lottery.Code, req.OptionType, req.Number)
	if err != nil {
		return nil, fmt.Errorf("failed to look up number limit: %w", err)
	}
	if override != nil && !override.Enabled {
		return nil, fmt.Errorf("number %s: %w", req.Number, engine.ErrNumberClosed)
	}

	numberKey := models.QuotaKey{DrawID: draw.ID, OptionType: req.OptionType, Number: req.Number}
	memberKey := models.QuotaKey{DrawID: draw.ID, OptionType: req.OptionType, Number: req.Number, MemberID: req.MemberID}

	if err := s.locks.Acquire(ctx, numberKey.String()); err != nil {
		return nil, fmt.Errorf("number pool %s: %w", req.Number, err)
	}
	defer s.locks.Release(numberKey.String())
	if req.MemberID != "" {
		if err := s.locks.Acquire(ctx, memberKey.String()); err != nil {
			return nil, fmt.Errorf("member pool %s: %w", req.MemberID, err)
		}
		defer s.locks.Release(memberKey.String())
	}

	cumulative, err := s.quotaRepo.Get(ctx, numberKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read quota counter: %w", err)
	}

	multiply, tierOrder, numberCap, err := s.resolvePosition(ctx, lottery.Code, req.OptionType, cfg, override, cumulative)
	if err != nil {
		return nil, err
	}
	if numberCap > 0 && cumulative+req.Amount > numberCap {
		return nil, fmt.Errorf("number %s at %d/%d: %w", req.Number, cumulative, numberCap, engine.ErrLimitExceeded)
	}

	var memberCap int64
	if req.MemberID != "" {
		memberCap, err = s.memberCap(ctx, lottery.Code, req.OptionType, cfg)
		if err != nil {
			return nil, err
		}
		memberCum, err := s.quotaRepo.Get(ctx, memberKey)
		if err != nil {
			return nil, fmt.Errorf("failed to read member counter: %w", err)
		}
		if memberCap > 0 && memberCum+req.Amount > memberCap {
			return nil, fmt.Errorf("member %s at %d/%d: %w", req.MemberID, memberCum, memberCap, engine.ErrLimitExceeded)
		}
	}

	newCumulative, err := s.quotaRepo.Add(ctx, numberKey, req.Amount, numberCap)
	if err != nil {
		if errors.Is(err, engine.ErrLimitExceeded) {
			return nil, fmt.Errorf("number %s: %w", req.Number, err)
		}
		return nil, fmt.Errorf("failed to commit quota increment: %w", err)
	}
	if req.MemberID != "" {
		if _, err := s.quotaRepo.Add(ctx, memberKey, req.Amount, memberCap); err != nil {
			// Back the number-pool increment out so a member rejection charges nothing.
			if subErr := s.quotaRepo.Sub(ctx, numberKey, req.Amount); subErr != nil {
				slog.Error("Failed to compensate number pool after member rejection",
					"error", subErr, "drawId", draw.ID, "number", req.Number, "amount", req.Amount)
			}
			if errors.Is(err, engine.ErrLimitExceeded) {
				return nil, fmt.Errorf("member %s: %w", req.MemberID, err)
			}
			return nil, fmt.Errorf("failed to commit member increment: %w", err)
		}
	}

	slog.Info("Bet admitted", "drawId", draw.ID, "lottery", lottery.Code, "option", req.OptionType,
		"number", req.Number, "amount", req.Amount, "multiply", multiply, "cumulative", newCumulative)

	return &AdmissionResult{
		Accepted:        true,
		Multiply:        multiply,
		TierOrder:       tierOrder,
		NewCumulative:   newCumulative,
		PotentialPayout: PotentialPayout(req.Amount, multiply),
	}, nil
}

// resolvePosition computes the locked-in multiplier and the effective per-number
// cap for a bet starting at the given cumulative. An enabled override replaces
// both; otherwise the PER_LOTTERY tier at the starting position decides the
// multiplier, and the config cap (or the tier table's bounded reach when the
// config leaves it at zero) decides the cap.
func (s *BetServiceImpl) resolvePosition(
	ctx context.Context,
	lotteryCode string,
	opt models.BetOptionType,
	cfg *models.PayoutConfig,
	override *models.NumberLimit,
	cumulative int64,
) (multiply float64, tierOrder int, limit int64, err error) {
	if override != nil {
		return override.Multiply, 0, override.MaxSellAmount, nil
	}

	tier, err := s.tierRepo.FindTable(ctx, lotteryCode, opt, models.ScopePerLottery)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, 0, 0, fmt.Errorf("failed to load tier table: %w", err)
	}
	if err != nil || !engine.HasEnabledSteps(tier.Steps) {
		// Tiering not in use for this pair; the base multiplier applies.
		return cfg.Multiply, 0, cfg.MaxPerNumber, nil
	}

	res, rerr := engine.ResolveTier(tier.Steps, cumulative)
	if rerr != nil {
		slog.Error("Tier resolution failed", "error", rerr, "lottery", lotteryCode, "option", opt, "cumulative", cumulative)
		return 0, 0, 0, rerr
	}

	limit = cfg.MaxPerNumber
	if limit == 0 {
		if reach, bounded := engine.TierCap(tier.Steps); bounded {
			limit = reach
		}
	}
	return res.Multiply, res.TierOrder, limit, nil
}

// memberCap is the per-member pool cap: the PER_MEMBER table's bounded reach when
// one exists, the config's max-per-member otherwise.
func (s *BetServiceImpl) memberCap(ctx context.Context, lotteryCode string, opt models.BetOptionType, cfg *models.PayoutConfig) (int64, error) {
	tier, err := s.tierRepo.FindTable(ctx, lotteryCode, opt, models.ScopePerMember)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return cfg.MaxPerMember, nil
		}
		return 0, fmt.Errorf("failed to load member tier table: %w", err)
	}
	if !engine.HasEnabledSteps(tier.Steps) {
		return cfg.MaxPerMember, nil
	}
	if reach, bounded := engine.TierCap(tier.Steps); bounded {
		return reach, nil
	}
	return cfg.MaxPerMember, nil
}

func (s *BetServiceImpl) validateRequest(req AdmissionRequest) error {
	if !req.OptionType.IsValid() {
		return fmt.Errorf("unknown bet option type %q", req.OptionType)
	}
	if req.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d: %w", req.Amount, engine.ErrStakeOutOfRange)
	}
	if !engine.IsDigits(req.Number, req.OptionType.Digits()) {
		return fmt.Errorf("number %q must be exactly %d digits for %s: %w",
			req.Number, req.OptionType.Digits(), req.OptionType, engine.ErrInvalidDigits)
	}
	return nil
}
