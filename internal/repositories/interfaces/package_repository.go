package interfaces

import (
	"context"

	"cargolink/internal/models"
	"cargolink/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PackageRepository interface {
	Create(ctx context.Context, pkg *models.Package) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Package, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// List applies an authz scope filter on top of pagination.
	List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Package, int64, error)

	// State transitions. Each is a single conditional update whose filter
	// encodes the legal from-states, so concurrent callers cannot both win.
	EnterNegotiating(ctx context.Context, id primitive.ObjectID) error
	FinalizeBooking(ctx context.Context, id, transporterID primitive.ObjectID, price float64) (bool, error)
	MarkLoaded(ctx context.Context, id, transporterID primitive.ObjectID) (bool, error)
	MarkDelivered(ctx context.Context, id primitive.ObjectID) (bool, error)

	// CountByStatus groups the filtered packages by status for dashboards.
	CountByStatus(ctx context.Context, filter bson.M) (map[models.PackageStatus]int64, error)
}
