package memory

import (
	"context"
	"sync"
	"time"

	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PayoutConfigRepository is an in-memory repositories.PayoutConfigRepository
type PayoutConfigRepository struct {
	mu      sync.RWMutex
	configs map[string]*models.PayoutConfig // key: lotteryCode|optionType
}

// NewPayoutConfigRepository creates a new in-memory PayoutConfigRepository
func NewPayoutConfigRepository() repositories.PayoutConfigRepository {
	return &PayoutConfigRepository{configs: make(map[string]*models.PayoutConfig)}
}

func configKey(lotteryCode string, opt models.BetOptionType) string {
	return lotteryCode + "|" + string(opt)
}

func (r *PayoutConfigRepository) Upsert(ctx context.Context, cfg *models.PayoutConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg.UpdatedAt = time.Now()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = cfg.UpdatedAt
	}
	if cfg.ID.IsZero() {
		cfg.ID = primitive.NewObjectID()
	}
	cp := *cfg
	r.configs[configKey(cfg.LotteryCode, cfg.OptionType)] = &cp
	return nil
}

func (r *PayoutConfigRepository) Find(ctx context.Context, lotteryCode string, opt models.BetOptionType) (*models.PayoutConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[configKey(lotteryCode, opt)]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *cfg
	return &cp, nil
}

func (r *PayoutConfigRepository) FindByLottery(ctx context.Context, lotteryCode string) ([]*models.PayoutConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.PayoutConfig{}
	for _, cfg := range r.configs {
		if cfg.LotteryCode == lotteryCode {
			cp := *cfg
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *PayoutConfigRepository) Delete(ctx context.Context, lotteryCode string, opt models.BetOptionType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.configs, configKey(lotteryCode, opt))
	return nil
}

// PayoutTierRepository is an in-memory repositories.PayoutTierRepository
type PayoutTierRepository struct {
	mu     sync.RWMutex
	tables map[string]*models.PayoutTier // key: lotteryCode|optionType|scope
}

// NewPayoutTierRepository creates a new in-memory PayoutTierRepository
func NewPayoutTierRepository() repositories.PayoutTierRepository {
	return &PayoutTierRepository{tables: make(map[string]*models.PayoutTier)}
}

func tierKey(lotteryCode string, opt models.BetOptionType, scope models.TierScope) string {
	return lotteryCode + "|" + string(opt) + "|" + string(scope)
}

func (r *PayoutTierRepository) ReplaceTable(ctx context.Context, tier *models.PayoutTier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tier.UpdatedAt = time.Now()
	if tier.CreatedAt.IsZero() {
		tier.CreatedAt = tier.UpdatedAt
	}
	if tier.ID.IsZero() {
		tier.ID = primitive.NewObjectID()
	}
	cp := *tier
	cp.Steps = append([]models.TierStep(nil), tier.Steps...)
	r.tables[tierKey(tier.LotteryCode, tier.OptionType, tier.Scope)] = &cp
	return nil
}

func (r *PayoutTierRepository) FindTable(ctx context.Context, lotteryCode string, opt models.BetOptionType, scope models.TierScope) (*models.PayoutTier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[tierKey(lotteryCode, opt, scope)]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *t
	cp.Steps = append([]models.TierStep(nil), t.Steps...)
	return &cp, nil
}

func (r *PayoutTierRepository) FindByLottery(ctx context.Context, lotteryCode string) ([]*models.PayoutTier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.PayoutTier{}
	for _, t := range r.tables {
		if t.LotteryCode == lotteryCode {
			cp := *t
			cp.Steps = append([]models.TierStep(nil), t.Steps...)
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *PayoutTierRepository) DeleteTable(ctx context.Context, lotteryCode string, opt models.BetOptionType, scope models.TierScope) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tables, tierKey(lotteryCode, opt, scope))
	return nil
}

// NumberLimitRepository is an in-memory repositories.NumberLimitRepository
type NumberLimitRepository struct {
	mu     sync.RWMutex
	limits map[primitive.ObjectID]*models.NumberLimit
}

// NewNumberLimitRepository creates a new in-memory NumberLimitRepository
func NewNumberLimitRepository() repositories.NumberLimitRepository {
	return &NumberLimitRepository{limits: make(map[primitive.ObjectID]*models.NumberLimit)}
}

func (r *NumberLimitRepository) Create(ctx context.Context, limit *models.NumberLimit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	limit.ID = primitive.NewObjectID()
	limit.CreatedAt = time.Now()
	limit.UpdatedAt = time.Now()
	cp := *limit
	cp.Numbers = append([]string(nil), limit.Numbers...)
	r.limits[limit.ID] = &cp
	return nil
}

func (r *NumberLimitRepository) Update(ctx context.Context, limit *models.NumberLimit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.limits[limit.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	limit.UpdatedAt = time.Now()
	cp := *limit
	cp.Numbers = append([]string(nil), limit.Numbers...)
	r.limits[limit.ID] = &cp
	return nil
}

func (r *NumberLimitRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.limits, id)
	return nil
}

func (r *NumberLimitRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.NumberLimit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.limits[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *l
	return &cp, nil
}

func (r *NumberLimitRepository) FindByLotteryAndOption(ctx context.Context, lotteryCode string, opt models.BetOptionType) ([]*models.NumberLimit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.NumberLimit{}
	for _, l := range r.limits {
		if l.LotteryCode == lotteryCode && l.OptionType == opt {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *NumberLimitRepository) FindForNumber(ctx context.Context, lotteryCode string, opt models.BetOptionType, number string) (*models.NumberLimit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.limits {
		if l.LotteryCode == lotteryCode && l.OptionType == opt && l.Covers(number) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}
