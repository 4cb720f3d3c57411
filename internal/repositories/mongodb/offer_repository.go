package mongodb

import (
	"context"
	"fmt"
	"time"

	"cargolink/internal/models"
	"cargolink/internal/repositories/interfaces"
	"cargolink/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type offerRepository struct {
	collection *mongo.Collection
}

func NewOfferRepository(db *mongo.Database) interfaces.OfferRepository {
	return &offerRepository{
		collection: db.Collection("offers"),
	}
}

func (r *offerRepository) Create(ctx context.Context, offer *models.Offer) error {
	offer.ID = primitive.NewObjectID()
	offer.Status = models.OfferStatusPending
	offer.CreatedAt = time.Now()
	offer.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, offer)
	if err != nil {
		return fmt.Errorf("failed to create offer: %w", err)
	}
	return nil
}

func (r *offerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error) {
	var offer models.Offer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&offer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("Offer")
		}
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return &offer, nil
}

func (r *offerRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update offer: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Offer")
	}
	return nil
}

func (r *offerRepository) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Offer, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count offers: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list offers: %w", err)
	}
	defer cursor.Close(ctx)

	var offers []*models.Offer
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, 0, fmt.Errorf("failed to decode offers: %w", err)
	}
	return offers, total, nil
}

func (r *offerRepository) FindBetween(ctx context.Context, packageID, a, b primitive.ObjectID) (*models.Offer, error) {
	filter := bson.M{
		"package_id": packageID,
		"$or": []bson.M{
			{"sender_id": a, "receiver_id": b},
			{"sender_id": b, "receiver_id": a},
		},
	}

	var offer models.Offer
	err := r.collection.FindOne(ctx, filter).Decode(&offer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("Offer")
		}
		return nil, fmt.Errorf("failed to find offer between parties: %w", err)
	}
	return &offer, nil
}

func (r *offerRepository) RejectPendingForPackage(ctx context.Context, packageID primitive.ObjectID, except *primitive.ObjectID) error {
	filter := bson.M{
		"package_id": packageID,
		"status":     models.OfferStatusPending,
	}
	if except != nil {
		filter["_id"] = bson.M{"$ne": *except}
	}

	_, err := r.collection.UpdateMany(
		ctx,
		filter,
		bson.M{"$set": bson.M{
			"status":     models.OfferStatusRejected,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to reject pending offers: %w", err)
	}
	return nil
}

func (r *offerRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count offers: %w", err)
	}
	return count, nil
}
