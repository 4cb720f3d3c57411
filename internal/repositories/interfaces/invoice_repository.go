package interfaces

import (
	"context"

	"cargolink/internal/models"
	"cargolink/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Invoice, error)
	GetByPackageID(ctx context.Context, packageID primitive.ObjectID) (*models.Invoice, error)
	ExistsForPackage(ctx context.Context, packageID primitive.ObjectID) (bool, error)
	List(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Invoice, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// SumAmounts totals the matched invoices: overall amount and the portion
	// already settled.
	SumAmounts(ctx context.Context, filter bson.M) (total float64, paid float64, err error)
}
