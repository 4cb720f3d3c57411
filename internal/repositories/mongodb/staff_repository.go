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

type staffRepository struct {
	collection *mongo.Collection
}

func NewStaffRepository(db *mongo.Database) interfaces.StaffRepository {
	return &staffRepository{
		collection: db.Collection("staff"),
	}
}

func (r *staffRepository) Create(ctx context.Context, staff *models.Staff) error {
	staff.ID = primitive.NewObjectID()
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, staff)
	if err != nil {
		return fmt.Errorf("failed to create staff: %w", err)
	}
	return nil
}

func (r *staffRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Staff, error) {
	var staff models.Staff
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&staff)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("Staff")
		}
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Staff, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count staff: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list staff: %w", err)
	}
	defer cursor.Close(ctx)

	var members []*models.Staff
	if err := cursor.All(ctx, &members); err != nil {
		return nil, 0, fmt.Errorf("failed to decode staff: %w", err)
	}
	return members, total, nil
}

func (r *staffRepository) ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Staff, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"vehicle_id": vehicleID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff by vehicle: %w", err)
	}
	defer cursor.Close(ctx)

	var members []*models.Staff
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode staff: %w", err)
	}
	return members, nil
}

func (r *staffRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		return fmt.Errorf("failed to update staff: %w", err)
	}
	if result.MatchedCount == 0 {
		return utils.NewNotFoundError("Staff")
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete staff: %w", err)
	}
	if result.DeletedCount == 0 {
		return utils.NewNotFoundError("Staff")
	}
	return nil
}

func (r *staffRepository) CountByVehicleAndRole(ctx context.Context, vehicleID primitive.ObjectID, role models.StaffRole, exclude *primitive.ObjectID) (int64, error) {
	filter := bson.M{"vehicle_id": vehicleID, "role": role}
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count crew: %w", err)
	}
	return count, nil
}
