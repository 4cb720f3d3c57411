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

type packageRepository struct {
	collection *mongo.Collection
}

func NewPackageRepository(db *mongo.Database) interfaces.PackageRepository {
	return &packageRepository{
		collection: db.Collection("packages"),
	}
}

func (r *packageRepository) Create(ctx context.Context, pkg *models.Package) error {
	pkg.ID = primitive.NewObjectID()
	pkg.Status = models.PackageStatusAvailable
	pkg.BookedBy = nil
	pkg.CreatedAt = time.Now()
	pkg.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, pkg)
	if err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

func (r *packageRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Package, error) {
	var pkg models.Package
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pkg)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("Package")
		}
		return nil, fmt.Errorf("failed to get package: %w", err)
	}
	return &pkg, nil
}

func (r *packageRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update package: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Package")
	}
	return nil
}

func (r *packageRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Package")
	}
	return nil
}

func (r *packageRepository) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Package, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count packages: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list packages: %w", err)
	}
	defer cursor.Close(ctx)

	var packages []*models.Package
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, 0, fmt.Errorf("failed to decode packages: %w", err)
	}
	return packages, total, nil
}

// EnterNegotiating moves an Available package to Negotiating. A package
// already negotiating (or further along) is left untouched.
func (r *packageRepository) EnterNegotiating(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.PackageStatusAvailable},
		bson.M{"$set": bson.M{
			"status":     models.PackageStatusNegotiating,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to enter negotiating: %w", err)
	}
	return nil
}

// FinalizeBooking atomically claims the package for a transporter at an
// agreed price. The from-state filter makes concurrent bookings race safely:
// exactly one caller matches, the rest see matched=false.
func (r *packageRepository) FinalizeBooking(ctx context.Context, id, transporterID primitive.ObjectID, price float64) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id": id,
			"status": bson.M{"$in": []models.PackageStatus{
				models.PackageStatusAvailable,
				models.PackageStatusNegotiating,
			}},
		},
		bson.M{"$set": bson.M{
			"status":            models.PackageStatusBooked,
			"booked_by":         transporterID,
			"price_expectation": price,
			"updated_at":        time.Now(),
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to finalize booking: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *packageRepository) MarkLoaded(ctx context.Context, id, transporterID primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{
			"_id":       id,
			"status":    models.PackageStatusBooked,
			"booked_by": transporterID,
		},
		bson.M{"$set": bson.M{
			"status":     models.PackageStatusLoaded,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark loaded: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *packageRepository) MarkDelivered(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.PackageStatusLoaded},
		bson.M{"$set": bson.M{
			"status":     models.PackageStatusDelivered,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark delivered: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *packageRepository) CountByStatus(ctx context.Context, filter bson.M) (map[models.PackageStatus]int64, error) {
	pipeline := []bson.M{
		{"$match": filter},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count packages by status: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status models.PackageStatus `bson:"_id"`
		Count  int64                `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode status counts: %w", err)
	}

	counts := make(map[models.PackageStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
