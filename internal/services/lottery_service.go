package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure LotteryServiceImpl implements LotteryService
var _ LotteryService = (*LotteryServiceImpl)(nil)

var lotteryCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]{1,15}$`)

// LotteryServiceImpl handles lottery catalog business logic
type LotteryServiceImpl struct {
	lotteryRepo repositories.LotteryRepository
}

// NewLotteryService creates a new LotteryServiceImpl
func NewLotteryService(lotteryRepo repositories.LotteryRepository) *LotteryServiceImpl {
	return &LotteryServiceImpl{lotteryRepo: lotteryRepo}
}

// CreateLottery registers a new lottery market.
func (s *LotteryServiceImpl) CreateLottery(ctx context.Context, lottery *models.Lottery) (*models.Lottery, error) {
	if err := validateLottery(lottery); err != nil {
		return nil, err
	}

	existing, err := s.lotteryRepo.FindByCode(ctx, lottery.Code)
	if err == nil && existing != nil {
		slog.Warn("Attempted to create lottery with existing code", "code", lottery.Code)
		return nil, fmt.Errorf("lottery %s already exists", lottery.Code)
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		slog.Error("Failed to check for existing lottery", "error", err, "code", lottery.Code)
		return nil, fmt.Errorf("failed to check for existing lottery: %w", err)
	}

	if err := s.lotteryRepo.Create(ctx, lottery); err != nil {
		slog.Error("Failed to create lottery", "error", err, "code", lottery.Code)
		return nil, fmt.Errorf("failed to save lottery: %w", err)
	}
	slog.Info("Lottery created", "code", lottery.Code, "group", lottery.Group, "glo", lottery.GLOVariant)
	return lottery, nil
}

// UpdateLottery edits a lottery. The code is the identity and cannot change;
// schedule and status edits only affect draws opened afterwards.
func (s *LotteryServiceImpl) UpdateLottery(ctx context.Context, lottery *models.Lottery) (*models.Lottery, error) {
	if err := validateLottery(lottery); err != nil {
		return nil, err
	}

	current, err := s.lotteryRepo.FindByCode(ctx, lottery.Code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("lottery %s not found: %w", lottery.Code, mongo.ErrNoDocuments)
		}
		slog.Error("Failed to load lottery for update", "error", err, "code", lottery.Code)
		return nil, fmt.Errorf("failed to load lottery: %w", err)
	}

	lottery.ID = current.ID
	lottery.CreatedAt = current.CreatedAt
	if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
		slog.Error("Failed to update lottery", "error", err, "code", lottery.Code)
		return nil, fmt.Errorf("failed to update lottery: %w", err)
	}
	slog.Info("Lottery updated", "code", lottery.Code)
	return lottery, nil
}

// SetLotteryEnabled enables or disables a lottery.
func (s *LotteryServiceImpl) SetLotteryEnabled(ctx context.Context, code string, enabled bool) error {
	lottery, err := s.lotteryRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("lottery %s not found: %w", code, mongo.ErrNoDocuments)
		}
		return fmt.Errorf("failed to load lottery: %w", err)
	}
	lottery.Enabled = enabled
	if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
		slog.Error("Failed to update lottery status", "error", err, "code", code, "enabled", enabled)
		return fmt.Errorf("failed to update lottery status: %w", err)
	}
	slog.Info("Lottery status changed", "code", code, "enabled", enabled)
	return nil
}

// GetLottery retrieves a lottery by code.
func (s *LotteryServiceImpl) GetLottery(ctx context.Context, code string) (*models.Lottery, error) {
	lottery, err := s.lotteryRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("lottery %s not found: %w", code, mongo.ErrNoDocuments)
		}
		return nil, fmt.Errorf("failed to retrieve lottery: %w", err)
	}
	return lottery, nil
}

// GetLotteries lists all lotteries.
func (s *LotteryServiceImpl) GetLotteries(ctx context.Context) ([]*models.Lottery, error) {
	lotteries, err := s.lotteryRepo.FindAll(ctx)
	if err != nil {
		slog.Error("Failed to list lotteries", "error", err)
		return nil, fmt.Errorf("failed to list lotteries: %w", err)
	}
	return lotteries, nil
}

// validateLottery enforces the catalog invariants: code format and a schedule
// that is either day-of-week or day-of-month, never both.
func validateLottery(lottery *models.Lottery) error {
	if !lotteryCodePattern.MatchString(lottery.Code) {
		return fmt.Errorf("invalid lottery code %q", lottery.Code)
	}
	if lottery.Name == "" {
		return errors.New("lottery name is required")
	}
	if len(lottery.DaysOfWeek) > 0 && len(lottery.DaysOfMonth) > 0 {
		return errors.New("lottery schedule must be day-of-week or day-of-month, not both")
	}
	for _, d := range lottery.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("invalid weekday %d in schedule", d)
		}
	}
	for _, d := range lottery.DaysOfMonth {
		if d < 1 || d > 31 {
			return fmt.Errorf("invalid day of month %d in schedule", d)
		}
	}
	return nil
}
