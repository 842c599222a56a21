package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/huayhub/huay-engine-backend/internal/engine"
	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuotaRepository is an in-memory repositories.QuotaRepository. The map mutex
// makes each Add a single atomic read-check-increment, mirroring the conditional
// update the mongo implementation performs.
type QuotaRepository struct {
	mu       sync.Mutex
	counters map[models.QuotaKey]*models.QuotaCounter
}

// NewQuotaRepository creates a new in-memory QuotaRepository
func NewQuotaRepository() repositories.QuotaRepository {
	return &QuotaRepository{counters: make(map[models.QuotaKey]*models.QuotaCounter)}
}

func (r *QuotaRepository) Get(ctx context.Context, key models.QuotaKey) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.counters[key]
	if !ok {
		return 0, nil
	}
	return c.Cumulative, nil
}

func (r *QuotaRepository) Add(ctx context.Context, key models.QuotaKey, amount, max int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.counters[key]
	if !ok {
		c = &models.QuotaCounter{
			ID:         primitive.NewObjectID(),
			DrawID:     key.DrawID,
			OptionType: key.OptionType,
			Number:     key.Number,
			MemberID:   key.MemberID,
			CreatedAt:  time.Now(),
		}
		r.counters[key] = c
	}
	if max > 0 && c.Cumulative+amount > max {
		return 0, engine.ErrLimitExceeded
	}
	c.Cumulative += amount
	c.UpdatedAt = time.Now()
	return c.Cumulative, nil
}

func (r *QuotaRepository) Sub(ctx context.Context, key models.QuotaKey, amount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.counters[key]; ok {
		c.Cumulative -= amount
		c.UpdatedAt = time.Now()
	}
	return nil
}

func (r *QuotaRepository) FindByDraw(ctx context.Context, drawID primitive.ObjectID) ([]*models.QuotaCounter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.QuotaCounter{}
	for _, c := range r.counters {
		if c.DrawID == drawID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}
