package mongodb

import (
	"context"
	"time"

	"github.com/huayhub/huay-engine-backend/internal/models"
	"github.com/huayhub/huay-engine-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PayoutConfigRepository implements the repositories.PayoutConfigRepository interface
type PayoutConfigRepository struct {
	collection *mongo.Collection
}

// NewPayoutConfigRepository creates a new PayoutConfigRepository
func NewPayoutConfigRepository(db *mongo.Database) repositories.PayoutConfigRepository {
	return &PayoutConfigRepository{
		collection: db.Collection("payout_configs"),
	}
}

// Upsert creates or replaces the config for a (lottery, option) pair
func (r *PayoutConfigRepository) Upsert(ctx context.Context, cfg *models.PayoutConfig) error {
	cfg.UpdatedAt = time.Now()
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = cfg.UpdatedAt
	}
	filter := bson.M{"lotteryCode": cfg.LotteryCode, "optionType": cfg.OptionType}
	update := bson.M{"$set": bson.M{
		"lotteryCode":  cfg.LotteryCode,
		"optionType":   cfg.OptionType,
		"multiply":     cfg.Multiply,
		"minBet":       cfg.MinBet,
		"maxBet":       cfg.MaxBet,
		"maxPerNumber": cfg.MaxPerNumber,
		"maxPerMember": cfg.MaxPerMember,
		"updatedAt":    cfg.UpdatedAt,
	}, "$setOnInsert": bson.M{"createdAt": cfg.CreatedAt}}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// Find finds the config for a (lottery, option) pair
func (r *PayoutConfigRepository) Find(ctx context.Context, lotteryCode string, opt models.BetOptionType) (*models.PayoutConfig, error) {
	var cfg models.PayoutConfig
	err := r.collection.FindOne(ctx, bson.M{"lotteryCode": lotteryCode, "optionType": opt}).Decode(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FindByLottery finds all option configs of a lottery
func (r *PayoutConfigRepository) FindByLottery(ctx context.Context, lotteryCode string) ([]*models.PayoutConfig, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"lotteryCode": lotteryCode})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var configs []*models.PayoutConfig
	if err := cursor.All(ctx, &configs); err != nil {
		return nil, err
	}
	if configs == nil {
		configs = []*models.PayoutConfig{}
	}
	return configs, nil
}

// Delete removes the config for a (lottery, option) pair
func (r *PayoutConfigRepository) Delete(ctx context.Context, lotteryCode string, opt models.BetOptionType) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"lotteryCode": lotteryCode, "optionType": opt})
	return err
}
