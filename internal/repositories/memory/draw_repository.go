package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DrawRepository is an in-memory repositories.DrawRepository
type DrawRepository struct {
	mu    sync.RWMutex
	draws map[primitive.ObjectID]*models.Draw
}

// NewDrawRepository creates a new in-memory DrawRepository
func NewDrawRepository() repositories.DrawRepository {
	return &DrawRepository{draws: make(map[primitive.ObjectID]*models.Draw)}
}

func (r *DrawRepository) Create(ctx context.Context, draw *models.Draw) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	draw.ID = primitive.NewObjectID()
	draw.CreatedAt = time.Now()
	draw.UpdatedAt = time.Now()
	cp := *draw
	r.draws[draw.ID] = &cp
	return nil
}

func (r *DrawRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.draws[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *d
	return &cp, nil
}

func (r *DrawRepository) FindByLotteryAndDate(ctx context.Context, lotteryCode string, date time.Time) (*models.Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	y, m, day := date.Date()
	for _, d := range r.draws {
		dy, dm, dd := d.DrawDate.Date()
		if d.LotteryCode == lotteryCode && dy == y && dm == m && dd == day {
			cp := *d
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *DrawRepository) Update(ctx context.Context, draw *models.Draw) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.draws[draw.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	draw.UpdatedAt = time.Now()
	cp := *draw
	r.draws[draw.ID] = &cp
	return nil
}

func (r *DrawRepository) FindByStatus(ctx context.Context, status models.DrawStatus) ([]*models.Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Draw{}
	for _, d := range r.draws {
		if d.Status == status {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DrawDate.After(out[j].DrawDate) })
	return out, nil
}

func (r *DrawRepository) FindByDateRange(ctx context.Context, start, end time.Time) ([]*models.Draw, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.Draw{}
	for _, d := range r.draws {
		if !start.IsZero() && d.DrawDate.Before(start) {
			continue
		}
		if !end.IsZero() && !d.DrawDate.Before(end) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DrawDate.After(out[j].DrawDate) })
	return out, nil
}
