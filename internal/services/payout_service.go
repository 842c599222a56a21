package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/huayhub/huay-engine-backend/internal/engine"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure PayoutServiceImpl implements PayoutService
var _ PayoutService = (*PayoutServiceImpl)(nil)

// PayoutServiceImpl handles payout configuration writes and diagnostics
type PayoutServiceImpl struct {
	lotteryRepo repositories.LotteryRepository
	configRepo  repositories.PayoutConfigRepository
	tierRepo    repositories.PayoutTierRepository
	limitRepo   repositories.NumberLimitRepository
}

// NewPayoutService creates a new PayoutServiceImpl
func NewPayoutService(
	lotteryRepo repositories.LotteryRepository,
	configRepo repositories.PayoutConfigRepository,
	tierRepo repositories.PayoutTierRepository,
	limitRepo repositories.NumberLimitRepository,
) *PayoutServiceImpl {
	return &PayoutServiceImpl{
		lotteryRepo: lotteryRepo,
		configRepo:  configRepo,
		tierRepo:    tierRepo,
		limitRepo:   limitRepo,
	}
}

// UpsertPayoutConfig creates or updates the base settings of a (lottery, option).
func (s *PayoutServiceImpl) UpsertPayoutConfig(ctx context.Context, cfg *models.PayoutConfig) error {
	if err := s.checkOption(ctx, cfg.LotteryCode, cfg.OptionType); err != nil {
		return err
	}
	if cfg.Multiply <= 0 {
		return fmt.Errorf("multiply must be positive, got %v", cfg.Multiply)
	}
	if cfg.MinBet < 0 || cfg.MaxBet < 0 || cfg.MaxPerNumber < 0 || cfg.MaxPerMember < 0 {
		return errors.New("bet and limit amounts must not be negative")
	}
	if cfg.MaxBet > 0 && cfg.MinBet > cfg.MaxBet {
		return fmt.Errorf("minBet %d exceeds maxBet %d", cfg.MinBet, cfg.MaxBet)
	}
	if err := s.configRepo.Upsert(ctx, cfg); err != nil {
		slog.Error("Failed to upsert payout config", "error", err, "lottery", cfg.LotteryCode, "option", cfg.OptionType)
		return fmt.Errorf("failed to save payout config: %w", err)
	}
	slog.Info("Payout config saved", "lottery", cfg.LotteryCode, "option", cfg.OptionType, "multiply", cfg.Multiply)
	return nil
}

// GetPayoutConfigs lists the option configs of a lottery.
func (s *PayoutServiceImpl) GetPayoutConfigs(ctx context.Context, lotteryCode string) ([]*models.PayoutConfig, error) {
	configs, err := s.configRepo.FindByLottery(ctx, lotteryCode)
	if err != nil {
		slog.Error("Failed to list payout configs", "error", err, "lottery", lotteryCode)
		return nil, fmt.Errorf("failed to list payout configs: %w", err)
	}
	return configs, nil
}

// ReplaceTierTable validates and stores a whole tier table. The enabled steps
// must partition [0, ∞); a table failing validation is never stored, so the
// resolver cannot see a gap or overlap that this surface created.
func (s *PayoutServiceImpl) ReplaceTierTable(ctx context.Context, tier *models.PayoutTier) error {
	if err := s.checkOption(ctx, tier.LotteryCode, tier.OptionType); err != nil {
		return err
	}
	if !tier.Scope.IsValid() {
		return fmt.Errorf("invalid tier scope %q", tier.Scope)
	}
	if err := engine.ValidateTierTable(tier.Steps); err != nil {
		slog.Warn("Tier table rejected", "error", err, "lottery", tier.LotteryCode, "option", tier.OptionType, "scope", tier.Scope)
		return err
	}
	if err := s.tierRepo.ReplaceTable(ctx, tier); err != nil {
		slog.Error("Failed to store tier table", "error", err, "lottery", tier.LotteryCode, "option", tier.OptionType)
		return fmt.Errorf("failed to store tier table: %w", err)
	}
	slog.Info("Tier table replaced", "lottery", tier.LotteryCode, "option", tier.OptionType, "scope", tier.Scope, "steps", len(tier.Steps))
	return nil
}

// GetTierTable retrieves the tier table of a (lottery, option, scope).
func (s *PayoutServiceImpl) GetTierTable(ctx context.Context, lotteryCode string, opt models.BetOptionType, scope models.TierScope) (*models.PayoutTier, error) {
	tier, err := s.tierRepo.FindTable(ctx, lotteryCode, opt, scope)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("no tier table for %s/%s/%s", lotteryCode, opt, scope)
		}
		return nil, fmt.Errorf("failed to load tier table: %w", err)
	}
	return tier, nil
}

// BootstrapDefaultTiers seeds the standard 5-step schedule for a (lottery, option,
// scope), starting every step at the pair's base multiplier.
func (s *PayoutServiceImpl) BootstrapDefaultTiers(ctx context.Context, lotteryCode string, opt models.BetOptionType, scope models.TierScope) (*models.PayoutTier, error) {
	if err := s.checkOption(ctx, lotteryCode, opt); err != nil {
		return nil, err
	}
	if !scope.IsValid() {
		return nil, fmt.Errorf("invalid tier scope %q", scope)
	}
	cfg, err := s.configRepo.Find(ctx, lotteryCode, opt)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("no payout config for %s/%s; configure the base multiplier first", lotteryCode, opt)
		}
		return nil, fmt.Errorf("failed to load payout config: %w", err)
	}

	tier := &models.PayoutTier{
		LotteryCode: lotteryCode,
		OptionType:  opt,
		Scope:       scope,
		Steps:       engine.DefaultTierSchedule(cfg.Multiply),
	}
	if err := s.tierRepo.ReplaceTable(ctx, tier); err != nil {
		slog.Error("Failed to bootstrap tier table", "error", err, "lottery", lotteryCode, "option", opt)
		return nil, fmt.Errorf("failed to bootstrap tier table: %w", err)
	}
	slog.Info("Default tier schedule seeded", "lottery", lotteryCode, "option", opt, "scope", scope)
	return tier, nil
}

// PutNumberLimit parses a comma-separated number list and stores it as one
// override entry. A number may appear in at most one entry per (lottery, option);
// overlap with an existing entry is rejected here so FindForNumber stays unambiguous.
func (s *PayoutServiceImpl) PutNumberLimit(ctx context.Context, lotteryCode string, opt models.BetOptionType, numbers string, multiply float64, maxSell int64, enabled bool) (*models.NumberLimit, error) {
	if err := s.checkOption(ctx, lotteryCode, opt); err != nil {
		return nil, err
	}
	parsed, err := engine.ParseNumberSet(numbers, opt.Digits())
	if err != nil {
		return nil, err
	}
	parsed = dedupe(parsed)
	if enabled && multiply <= 0 {
		return nil, fmt.Errorf("multiply must be positive for an open override, got %v", multiply)
	}
	if maxSell < 0 {
		return nil, errors.New("maxSellAmount must not be negative")
	}

	existing, err := s.limitRepo.FindByLotteryAndOption(ctx, lotteryCode, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing overrides: %w", err)
	}
	for _, e := range existing {
		for _, n := range parsed {
			if e.Covers(n) {
				return nil, fmt.Errorf("number %s already covered by override %s", n, e.ID.Hex())
			}
		}
	}

	limit := &models.NumberLimit{
		LotteryCode:   lotteryCode,
		OptionType:    opt,
		Numbers:       parsed,
		Multiply:      multiply,
		MaxSellAmount: maxSell,
		Enabled:       enabled,
	}
	if err := s.limitRepo.Create(ctx, limit); err != nil {
		slog.Error("Failed to store number limit", "error", err, "lottery", lotteryCode, "option", opt)
		return nil, fmt.Errorf("failed to store number limit: %w", err)
	}
	slog.Info("Number limit stored", "lottery", lotteryCode, "option", opt, "numbers", len(parsed), "enabled", enabled)
	return limit, nil
}

// UpdateNumberLimit rewrites an existing override entry in place. The same
// overlap rule as PutNumberLimit applies, ignoring the entry being edited.
func (s *PayoutServiceImpl) UpdateNumberLimit(ctx context.Context, id primitive.ObjectID, numbers string, multiply float64, maxSell int64, enabled bool) (*models.NumberLimit, error) {
	limit, err := s.limitRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("number limit %s not found: %w", id.Hex(), mongo.ErrNoDocuments)
		}
		return nil, fmt.Errorf("failed to load number limit: %w", err)
	}

	parsed, err := engine.ParseNumberSet(numbers, limit.OptionType.Digits())
	if err != nil {
		return nil, err
	}
	parsed = dedupe(parsed)
	if enabled && multiply <= 0 {
		return nil, fmt.Errorf("multiply must be positive for an open override, got %v", multiply)
	}
	if maxSell < 0 {
		return nil, errors.New("maxSellAmount must not be negative")
	}

	existing, err := s.limitRepo.FindByLotteryAndOption(ctx, limit.LotteryCode, limit.OptionType)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing overrides: %w", err)
	}
	for _, e := range existing {
		if e.ID == id {
			continue
		}
		for _, n := range parsed {
			if e.Covers(n) {
				return nil, fmt.Errorf("number %s already covered by override %s", n, e.ID.Hex())
			}
		}
	}

	limit.Numbers = parsed
	limit.Multiply = multiply
	limit.MaxSellAmount = maxSell
	limit.Enabled = enabled
	if err := s.limitRepo.Update(ctx, limit); err != nil {
		slog.Error("Failed to update number limit", "error", err, "id", id)
		return nil, fmt.Errorf("failed to update number limit: %w", err)
	}
	slog.Info("Number limit updated", "id", id, "numbers", len(parsed), "enabled", enabled)
	return limit, nil
}

// GetNumberLimits lists the override entries of a (lottery, option).
func (s *PayoutServiceImpl) GetNumberLimits(ctx context.Context, lotteryCode string, opt models.BetOptionType) ([]*models.NumberLimit, error) {
	limits, err := s.limitRepo.FindByLotteryAndOption(ctx, lotteryCode, opt)
	if err != nil {
		slog.Error("Failed to list number limits", "error", err, "lottery", lotteryCode, "option", opt)
		return nil, fmt.Errorf("failed to list number limits: %w", err)
	}
	return limits, nil
}

// DeleteNumberLimit removes an override entry.
func (s *PayoutServiceImpl) DeleteNumberLimit(ctx context.Context, id primitive.ObjectID) error {
	if err := s.limitRepo.Delete(ctx, id); err != nil {
		slog.Error("Failed to delete number limit", "error", err, "id", id)
		return fmt.Errorf("failed to delete number limit: %w", err)
	}
	slog.Info("Number limit deleted", "id", id)
	return nil
}

// ResolveMultiplier answers the operator diagnostic "what multiplier applies at
// cumulative X". Read-only; runs the same resolution the admission path uses.
func (s *PayoutServiceImpl) ResolveMultiplier(ctx context.Context, lotteryCode string, opt models.BetOptionType, scope models.TierScope, priorCumulative, amount int64) (*MultiplierQuote, error) {
	if err := s.checkOption(ctx, lotteryCode, opt); err != nil {
		return nil, err
	}
	if !scope.IsValid() {
		return nil, fmt.Errorf("invalid tier scope %q", scope)
	}

	quote := &MultiplierQuote{PriorCumulative: priorCumulative, Amount: amount}

	tier, err := s.tierRepo.FindTable(ctx, lotteryCode, opt, scope)
	switch {
	case err == nil && engine.HasEnabledSteps(tier.Steps):
		res, rerr := engine.ResolveTier(tier.Steps, priorCumulative)
		if rerr != nil {
			return nil, rerr
		}
		quote.Multiply = res.Multiply
		quote.TierOrder = res.TierOrder
	case err == nil || errors.Is(err, mongo.ErrNoDocuments):
		// No tier table (or none enabled): tiering is off, base multiplier applies.
		cfg, cerr := s.configRepo.Find(ctx, lotteryCode, opt)
		if cerr != nil {
			if errors.Is(cerr, mongo.ErrNoDocuments) {
				return nil, fmt.Errorf("no payout config for %s/%s: %w", lotteryCode, opt, engine.ErrNoTierConfigured)
			}
			return nil, fmt.Errorf("failed to load payout config: %w", cerr)
		}
		quote.Multiply = cfg.Multiply
	default:
		return nil, fmt.Errorf("failed to load tier table: %w", err)
	}

	quote.PotentialPayout = PotentialPayout(amount, quote.Multiply)
	return quote, nil
}

// PotentialPayout computes stake x multiplier exactly, for operator-facing figures.
func PotentialPayout(amount int64, multiply float64) string {
	return decimal.NewFromInt(amount).Mul(decimal.NewFromFloat(multiply)).String()
}

// checkOption validates the (lottery, option) pair against the catalog: the
// lottery must exist and GLO-only options are rejected for non-GLO lotteries.
func (s *PayoutServiceImpl) checkOption(ctx context.Context, lotteryCode string, opt models.BetOptionType) error {
	if !opt.IsValid() {
		return fmt.Errorf("unknown bet option type %q", opt)
	}
	lottery, err := s.lotteryRepo.FindByCode(ctx, lotteryCode)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("lottery %s not found: %w", lotteryCode, mongo.ErrNoDocuments)
		}
		return fmt.Errorf("failed to load lottery: %w", err)
	}
	if opt.GLOOnly() && !lottery.GLOVariant {
		return fmt.Errorf("option %s is only available on GLO lotteries: %w", opt, engine.ErrOptionUnsupported)
	}
	if opt.Requires4D() && !lottery.Has4D {
		return fmt.Errorf("option %s requires a 4-digit lottery: %w", opt, engine.ErrOptionUnsupported)
	}
	return nil
}

func dedupe(numbers []string) []string {
	seen := make(map[string]bool, len(numbers))
	out := numbers[:0]
	for _, n := range numbers {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}
