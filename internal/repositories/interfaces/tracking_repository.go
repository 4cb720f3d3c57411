package interfaces

import (
	"context"

	"cargolink/internal/models"
	"cargolink/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrackingRepository interface {
	// Upsert writes the latest position for a package; one row per package.
	Upsert(ctx context.Context, tracking *models.Tracking) (*models.Tracking, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tracking, error)
	GetByPackageID(ctx context.Context, packageID primitive.ObjectID) (*models.Tracking, error)
	List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Tracking, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
