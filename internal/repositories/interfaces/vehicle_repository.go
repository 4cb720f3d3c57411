package interfaces

import (
	"context"

	"cargolink/internal/models"
	"cargolink/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Vehicle, error)
	GetByTruckNumber(ctx context.Context, truckNumber string) (*models.Vehicle, error)
	List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Vehicle, int64, error)
	ListByTransporter(ctx context.Context, transporterID primitive.ObjectID) ([]*models.Vehicle, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
