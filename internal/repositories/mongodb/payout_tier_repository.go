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

// PayoutTierRepository implements the repositories.PayoutTierRepository interface
type PayoutTierRepository struct {
	collection *mongo.Collection
}

// NewPayoutTierRepository creates a new PayoutTierRepository
func NewPayoutTierRepository(db *mongo.Database) repositories.PayoutTierRepository {
	return &PayoutTierRepository{
		collection: db.Collection("payout_tiers"),
	}
}

// ReplaceTable creates or replaces the whole tier table for a (lottery, option, scope)
func (r *PayoutTierRepository) ReplaceTable(ctx context.Context, tier *models.PayoutTier) error {
	tier.UpdatedAt = time.Now()
	if tier.CreatedAt.IsZero() {
		tier.CreatedAt = tier.UpdatedAt
	}
	filter := bson.M{"lotteryCode": tier.LotteryCode, "optionType": tier.OptionType, "scope": tier.Scope}
	update := bson.M{"$set": bson.M{
		"lotteryCode": tier.LotteryCode,
		"optionType":  tier.OptionType,
		"scope":       tier.Scope,
		"steps":       tier.Steps,
		"updatedAt":   tier.UpdatedAt,
	}, "$setOnInsert": bson.M{"createdAt": tier.CreatedAt}}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindTable finds the tier table for a (lottery, option, scope)
func (r *PayoutTierRepository) FindTable(ctx context.Context, lotteryCode string, opt models.BetOptionType, scope models.TierScope) (*models.PayoutTier, error) {
	var tier models.PayoutTier
	filter := bson.M{"lotteryCode": lotteryCode, "optionType": opt, "scope": scope}
	err := r.collection.FindOne(ctx, filter).Decode(&tier)
	if err != nil {
		return nil, err // Returns mongo.ErrNoDocuments if not found
	}
	return &tier, nil
}

// FindByLottery finds every tier table of a lottery
func (r *PayoutTierRepository) FindByLottery(ctx context.Context, lotteryCode string) ([]*models.PayoutTier, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"lotteryCode": lotteryCode})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tiers []*models.PayoutTier
	if err := cursor.All(ctx, &tiers); err != nil {
		return nil, err
	}
	if tiers == nil {
		tiers = []*models.PayoutTier{}
	}
	return tiers, nil
}

// DeleteTable removes the tier table for a (lottery, option, scope)
func (r *PayoutTierRepository) DeleteTable(ctx context.Context, lotteryCode string, opt models.BetOptionType, scope models.TierScope) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"lotteryCode": lotteryCode, "optionType": opt, "scope": scope})
	return err
}
