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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type trackingRepository struct {
	collection *mongo.Collection
}

func NewTrackingRepository(db *mongo.Database) interfaces.TrackingRepository {
	return &trackingRepository{
		collection: db.Collection("tracking"),
	}
}

func (r *trackingRepository) Upsert(ctx context.Context, tracking *models.Tracking) (*models.Tracking, error) {
	filter := bson.M{"package_id": tracking.PackageID}
	update := bson.M{
		"$set": bson.M{
			"latitude":   tracking.Latitude,
			"longitude":  tracking.Longitude,
			"updated_at": time.Now(),
		},
		"$setOnInsert": bson.M{
			"package_id": tracking.PackageID,
			"owner_id":   tracking.OwnerID,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result models.Tracking
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to upsert tracking: %w", err)
	}
	return &result, nil
}

func (r *trackingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tracking, error) {
	var tracking models.Tracking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tracking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("Tracking")
		}
		return nil, fmt.Errorf("failed to get tracking: %w", err)
	}
	return &tracking, nil
}

func (r *trackingRepository) GetByPackageID(ctx context.Context, packageID primitive.ObjectID) (*models.Tracking, error) {
	var tracking models.Tracking
	err := r.collection.FindOne(ctx, bson.M{"package_id": packageID}).Decode(&tracking)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("Tracking")
		}
		return nil, fmt.Errorf("failed to get tracking by package: %w", err)
	}
	return &tracking, nil
}

func (r *trackingRepository) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Tracking, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tracking rows: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tracking rows: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []*models.Tracking
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, 0, fmt.Errorf("failed to decode tracking rows: %w", err)
	}
	return rows, total, nil
}

func (r *trackingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete tracking: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Tracking")
	}
	return nil
}
