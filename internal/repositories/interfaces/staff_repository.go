package interfaces

import (
	"context"

	"cargolink/internal/models"
	"cargolink/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Staff, error)
	List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Staff, int64, error)
	ListByVehicle(ctx context.Context, vehicleID primitive.ObjectID) ([]*models.Staff, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// CountByVehicleAndRole counts a vehicle's crew members in a role,
	// optionally excluding one staff row (for reassignment checks).
	CountByVehicleAndRole(ctx context.Context, vehicleID primitive.ObjectID, role models.StaffRole, exclude *primitive.ObjectID) (int64, error)
}
