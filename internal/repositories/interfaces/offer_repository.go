package interfaces

import (
	"context"

	"cargolink/internal/models"
	"cargolink/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Offer, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Offer, int64, error)
	Count(ctx context.Context, filter bson.M) (int64, error)

	// FindBetween returns the single negotiation row between two parties for
	// a package regardless of which side sent first, or NOT_FOUND.
	FindBetween(ctx context.Context, packageID, a, b primitive.ObjectID) (*models.Offer, error)

	// RejectPendingForPackage closes every still-pending offer on a package
	// except the one that won the booking.
	RejectPendingForPackage(ctx context.Context, packageID primitive.ObjectID, except *primitive.ObjectID) error
}
