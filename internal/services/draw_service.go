package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huayhub/huay-engine-backend/internal/engine"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure DrawServiceImpl implements DrawService
var _ DrawService = (*DrawServiceImpl)(nil)

// DrawServiceImpl owns the draw lifecycle state machine and result derivation
type DrawServiceImpl struct {
	drawRepo    repositories.DrawRepository
	lotteryRepo repositories.LotteryRepository
	quotaRepo   repositories.QuotaRepository
	refunds     RefundNotifier
}

// NewDrawService creates a new DrawServiceImpl
func NewDrawService(
	drawRepo repositories.DrawRepository,
	lotteryRepo repositories.LotteryRepository,
	quotaRepo repositories.QuotaRepository,
	refunds RefundNotifier,
) *DrawServiceImpl {
	return &DrawServiceImpl{
		drawRepo:    drawRepo,
		lotteryRepo: lotteryRepo,
		quotaRepo:   quotaRepo,
		refunds:     refunds,
	}
}

// OpenDraw opens a draw for a lottery on the given date. One draw per lottery per
// scheduled occurrence; the lottery must be enabled and the date on its schedule.
func (s *DrawServiceImpl) OpenDraw(ctx context.Context, lotteryCode string, date time.Time) (*models.Draw, error) {
	lottery, err := s.lotteryRepo.FindByCode(ctx, lotteryCode)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("lottery %s not found: %w", lotteryCode, mongo.ErrNoDocuments)
		}
		slog.Error("OpenDraw: failed to load lottery", "error", err, "lottery", lotteryCode)
		return nil, fmt.Errorf("failed to load lottery: %w", err)
	}
	if !lottery.Enabled {
		return nil, fmt.Errorf("lottery %s is disabled", lotteryCode)
	}
	if !lottery.ScheduledOn(date) {
		return nil, fmt.Errorf("lottery %s has no scheduled draw on %s", lotteryCode, date.Format("2006-01-02"))
	}

	existing, err := s.drawRepo.FindByLotteryAndDate(ctx, lotteryCode, date)
	if err == nil && existing != nil {
		slog.Warn("Attempted to open duplicate draw", "lottery", lotteryCode, "date", date)
		return nil, fmt.Errorf("a draw already exists for %s on %s", lotteryCode, date.Format("2006-01-02"))
	}
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		slog.Error("OpenDraw: failed to check for existing draw", "error", err, "lottery", lotteryCode)
		return nil, fmt.Errorf("failed to check for existing draw: %w", err)
	}

	draw := &models.Draw{
		LotteryID:   lottery.ID,
		LotteryCode: lottery.Code,
		DrawDate:    date,
		Status:      models.DrawStatusOpen,
	}
	if err := s.drawRepo.Create(ctx, draw); err != nil {
		slog.Error("OpenDraw: failed to create draw", "error", err, "lottery", lotteryCode)
		return nil, fmt.Errorf("failed to save draw: %w", err)
	}
	slog.Info("Draw opened", "drawId", draw.ID, "lottery", lotteryCode, "date", date.Format("2006-01-02"))
	return draw, nil
}

// CloseDraw freezes betting on an OPEN draw.
func (s *DrawServiceImpl) CloseDraw(ctx context.Context, drawID primitive.ObjectID) (*models.Draw, error) {
	draw, err := s.loadDraw(ctx, drawID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, draw, models.DrawStatusClosed); err != nil {
		return nil, err
	}
	slog.Info("Draw closed", "drawId", drawID, "lottery", draw.LotteryCode)
	return draw, nil
}

// CancelDraw cancels an OPEN or CLOSED draw. Every admitted stake under the draw
// is handed to the refund collaborator; the quota counters stay in place as the
// audit record but become inert.
func (s *DrawServiceImpl) CancelDraw(ctx context.Context, drawID primitive.ObjectID) (*models.Draw, error) {
	draw, err := s.loadDraw(ctx, drawID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, draw, models.DrawStatusCancelled); err != nil {
		return nil, err
	}

	counters, err := s.quotaRepo.FindByDraw(ctx, drawID)
	if err != nil {
		slog.Error("CancelDraw: failed to load quota counters for refund", "error", err, "drawId", drawID)
		return draw, fmt.Errorf("draw cancelled but refund lookup failed: %w", err)
	}
	if err := s.refunds.RefundDraw(drawID.Hex(), draw.LotteryCode, counters); err != nil {
		// The cancellation itself stands; refunding is retried operationally.
		slog.Error("CancelDraw: refund collaborator failed", "error", err, "drawId", drawID, "counters", len(counters))
		return draw, fmt.Errorf("draw cancelled but refund trigger failed: %w", err)
	}
	slog.Info("Draw cancelled", "drawId", drawID, "lottery", draw.LotteryCode, "refundedKeys", len(counters))
	return draw, nil
}

// AnnounceResult derives and stores the canonical result of a CLOSED draw.
// Once announced the result is immutable; amendments go through a separate
// audited path outside this engine.
func (s *DrawServiceImpl) AnnounceResult(ctx context.Context, drawID primitive.ObjectID, entry models.ResultEntry) (*models.Draw, error) {
	draw, err := s.loadDraw(ctx, drawID)
	if err != nil {
		return nil, err
	}
	if draw.Status != models.DrawStatusClosed {
		return nil, fmt.Errorf("draw %s is %s, result entry requires CLOSED: %w",
			drawID.Hex(), draw.Status, engine.ErrInvalidTransition)
	}

	lottery, err := s.lotteryRepo.FindByID(ctx, draw.LotteryID)
	if err != nil {
		slog.Error("AnnounceResult: failed to load lottery", "error", err, "drawId", drawID)
		return nil, fmt.Errorf("failed to load lottery: %w", err)
	}

	result, err := engine.DeriveResult(lottery, entry)
	if err != nil {
		slog.Warn("AnnounceResult: derivation rejected", "error", err, "drawId", drawID, "lottery", lottery.Code)
		return nil, err
	}

	draw.Result = result
	draw.Status = models.DrawStatusResultAnnounced
	draw.AnnouncedAt = time.Now()
	if err := s.drawRepo.Update(ctx, draw); err != nil {
		slog.Error("AnnounceResult: failed to store result", "error", err, "drawId", drawID)
		return nil, fmt.Errorf("failed to store result: %w", err)
	}
	slog.Info("Result announced", "drawId", drawID, "lottery", lottery.Code,
		"threeDigitTop", result.ThreeDigitTop, "twoDigitBottom", result.TwoDigitBottom)
	return draw, nil
}

// PreviewResult derives the canonical result without storing anything. Operators
// use it to verify an entry before a draw is even closed; derivation is pure, so
// repeating it is safe.
func (s *DrawServiceImpl) PreviewResult(ctx context.Context, lotteryCode string, entry models.ResultEntry) (*models.Result, error) {
	lottery, err := s.lotteryRepo.FindByCode(ctx, lotteryCode)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("lottery %s not found: %w", lotteryCode, mongo.ErrNoDocuments)
		}
		return nil, fmt.Errorf("failed to load lottery: %w", err)
	}
	return engine.DeriveResult(lottery, entry)
}

// GetDraw retrieves a draw by ID.
func (s *DrawServiceImpl) GetDraw(ctx context.Context, drawID primitive.ObjectID) (*models.Draw, error) {
	return s.loadDraw(ctx, drawID)
}

// GetDrawsByStatus lists draws in a lifecycle status.
func (s *DrawServiceImpl) GetDrawsByStatus(ctx context.Context, status models.DrawStatus) ([]*models.Draw, error) {
	draws, err := s.drawRepo.FindByStatus(ctx, status)
	if err != nil {
		slog.Error("Failed to list draws by status", "error", err, "status", status)
		return nil, fmt.Errorf("failed to list draws: %w", err)
	}
	return draws, nil
}

// GetDrawsByDateRange lists draws with a draw date in [from, to).
func (s *DrawServiceImpl) GetDrawsByDateRange(ctx context.Context, from, to time.Time) ([]*models.Draw, error) {
	draws, err := s.drawRepo.FindByDateRange(ctx, from, to)
	if err != nil {
		slog.Error("Failed to list draws by date range", "error", err, "from", from, "to", to)
		return nil, fmt.Errorf("failed to list draws: %w", err)
	}
	return draws, nil
}

// GetWinningNumbers expands the winning numbers of an announced draw per option.
func (s *DrawServiceImpl) GetWinningNumbers(ctx context.Context, drawID primitive.ObjectID, opt models.BetOptionType) ([]string, error) {
	draw, err := s.loadDraw(ctx, drawID)
	if err != nil {
		return nil, err
	}
	if draw.Status != models.DrawStatusResultAnnounced || draw.Result == nil {
		return nil, fmt.Errorf("draw %s has no announced result", drawID.Hex())
	}
	return engine.WinningNumbers(opt, draw.Result)
}

// GetQuotaCounters lists the sold totals recorded under a draw.
func (s *DrawServiceImpl) GetQuotaCounters(ctx context.Context, drawID primitive.ObjectID) ([]*models.QuotaCounter, error) {
	counters, err := s.quotaRepo.FindByDraw(ctx, drawID)
	if err != nil {
		slog.Error("Failed to list quota counters", "error", err, "drawId", drawID)
		return nil, fmt.Errorf("failed to list quota counters: %w", err)
	}
	return counters, nil
}

func (s *DrawServiceImpl) loadDraw(ctx context.Context, drawID primitive.ObjectID) (*models.Draw, error) {
	draw, err := s.drawRepo.FindByID(ctx, drawID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("draw %s not found: %w", drawID.Hex(), mongo.ErrNoDocuments)
		}
		slog.Error("Failed to load draw", "error", err, "drawId", drawID)
		return nil, fmt.Errorf("failed to load draw: %w", err)
	}
	return draw, nil
}

// transition moves a draw to the target status, enforcing the state machine.
// Transitions are admin-triggered and single-writer per draw.
func (s *DrawServiceImpl) transition(ctx context.Context, draw *models.Draw, to models.DrawStatus) error {
	if !models.CanTransition(draw.Status, to) {
		return fmt.Errorf("draw %s cannot move %s -> %s: %w",
			draw.ID.Hex(), draw.Status, to, engine.ErrInvalidTransition)
	}
	draw.Status = to
	now := time.Now()
	switch to {
	case models.DrawStatusClosed:
		draw.ClosedAt = now
	case models.DrawStatusCancelled:
		draw.CancelledAt = now
	}
	if err := s.drawRepo.Update(ctx, draw); err != nil {
		slog.Error("Failed to persist draw transition", "error", err, "drawId", draw.ID, "to", to)
		return fmt.Errorf("failed to persist draw transition: %w", err)
	}
	return nil
}
