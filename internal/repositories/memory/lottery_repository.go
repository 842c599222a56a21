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

// LotteryRepository is an in-memory repositories.LotteryRepository
type LotteryRepository struct {
	mu        sync.RWMutex
	lotteries map[primitive.ObjectID]*models.Lottery
}

// NewLotteryRepository creates a new in-memory LotteryRepository
func NewLotteryRepository() repositories.LotteryRepository {
	return &LotteryRepository{lotteries: make(map[primitive.ObjectID]*models.Lottery)}
}

func (r *LotteryRepository) Create(ctx context.Context, lottery *models.Lottery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lottery.ID = primitive.NewObjectID()
	lottery.CreatedAt = time.Now()
	lottery.UpdatedAt = time.Now()
	cp := *lottery
	r.lotteries[lottery.ID] = &cp
	return nil
}

func (r *LotteryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Lottery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lotteries[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *l
	return &cp, nil
}

func (r *LotteryRepository) FindByCode(ctx context.Context, code string) (*models.Lottery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.lotteries {
		if l.Code == code {
			cp := *l
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *LotteryRepository) Update(ctx context.Context, lottery *models.Lottery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lotteries[lottery.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	lottery.UpdatedAt = time.Now()
	cp := *lottery
	r.lotteries[lottery.ID] = &cp
	return nil
}

func (r *LotteryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lotteries, id)
	return nil
}

func (r *LotteryRepository) FindAll(ctx context.Context) ([]*models.Lottery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Lottery, 0, len(r.lotteries))
	for _, l := range r.lotteries {
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
