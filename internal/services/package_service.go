package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"cargolink/internal/authz"
	"cargolink/internal/models"
	"cargolink/internal/repositories/interfaces"
	"cargolink/internal/utils"
	"cargolink/pkg/logger"
	"cargolink/pkg/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PackageService interface {
	Create(ctx context.Context, viewer authz.Viewer, request *CreatePackageRequest) (*models.Package, error)
	Get(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Package, error)
	List(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Package, int64, error)
	// Marketplace is the public storefront: Available packages only, safe
	// fields only, no authentication required.
	Marketplace(ctx context.Context, params *utils.PaginationParams) ([]*models.PublicPackage, int64, error)
	Update(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID, request *UpdatePackageRequest) (*models.Package, error)
	Delete(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) error

	// Booking paths. Direct booking and both offer paths converge on
	// FinalizeBooking, so the transition and its cascade exist exactly once.
	BookDirect(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Package, error)
	FinalizeBooking(ctx context.Context, id, transporterID primitive.ObjectID, price float64, winningOffer *primitive.ObjectID, origin models.BookingOrigin) (*models.Package, error)

	MarkLoaded(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Package, error)
	Deliver(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Package, error)
	CurrentDeliveries(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Package, int64, error)
	LoadedPackages(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Package, int64, error)

	UploadImage(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID, upload *storage.UploadRequest) (*models.Package, error)
	ImageURL(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (string, error)
}

type packageService struct {
	packageRepo interfaces.PackageRepository
	offerRepo   interfaces.OfferRepository
	storage     storage.StorageProvider
	logger      *logger.Logger
}

func NewPackageService(
	packageRepo interfaces.PackageRepository,
	offerRepo interfaces.OfferRepository,
	storageProvider storage.StorageProvider,
	logger *logger.Logger,
) PackageService {
	return &packageService{
		packageRepo: packageRepo,
		offerRepo:   offerRepo,
		storage:     storageProvider,
		logger:      logger,
	}
}

type CreatePackageRequest struct {
	Title            string  `json:"title" validate:"required,max=100"`
	Description      string  `json:"description" validate:"max=300"`
	PickupLocation   string  `json:"pickup_location" validate:"required,max=300"`
	DropLocation     string  `json:"drop_location" validate:"required,max=300"`
	Weight           float64 `json:"weight" validate:"required,gt=0"`
	PriceExpectation float64 `json:"price_expectation" validate:"required,gt=0"`
}

type UpdatePackageRequest struct {
	Title            *string  `json:"title" validate:"omitempty,max=100"`
	Description      *string  `json:"description" validate:"omitempty,max=300"`
	PickupLocation   *string  `json:"pickup_location" validate:"omitempty,max=300"`
	DropLocation     *string  `json:"drop_location" validate:"omitempty,max=300"`
	Weight           *float64 `json:"weight" validate:"omitempty,gt=0"`
	PriceExpectation *float64 `json:"price_expectation" validate:"omitempty,gt=0"`
}

func (s *packageService) Create(ctx context.Context, viewer authz.Viewer, request *CreatePackageRequest) (*models.Package, error) {
	if !viewer.Capabilities.IsOwner() {
		return nil, utils.NewPermissionError("only owners can post packages")
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	pkg := &models.Package{
		UserID:           viewer.ID,
		Title:            request.Title,
		Description:      request.Description,
		PickupLocation:   request.PickupLocation,
		DropLocation:     request.DropLocation,
		Weight:           request.Weight,
		PriceExpectation: request.PriceExpectation,
	}

	if err := s.packageRepo.Create(ctx, pkg); err != nil {
		return nil, err
	}

	s.logger.WithPackageID(pkg.ID).WithUserID(viewer.ID).Info("Package posted")
	return pkg, nil
}

func (s *packageService) Get(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Package, error) {
	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Transporters may inspect anything still on the open market.
	onMarket := viewer.Authenticated && viewer.Capabilities.IsTransporter() &&
		pkg.Status == models.PackageStatusAvailable
	if !onMarket && !authz.CanAccessPackage(viewer, pkg) {
		return nil, utils.NewNotFoundError("Package")
	}
	return pkg, nil
}

func (s *packageService) List(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Package, int64, error) {
	return s.packageRepo.List(ctx, authz.ScopePackages(viewer), params)
}

func (s *packageService) Marketplace(ctx context.Context, params *utils.PaginationParams) ([]*models.PublicPackage, int64, error) {
	packages, total, err := s.packageRepo.List(ctx, bson.M{"status": models.PackageStatusAvailable}, params)
	if err != nil {
		return nil, 0, err
	}

	public := make([]*models.PublicPackage, 0, len(packages))
	for _, pkg := range packages {
		public = append(public, pkg.Public())
	}
	return public, total, nil
}

func (s *packageService) Update(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID, request *UpdatePackageRequest) (*models.Package, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg.UserID != viewer.ID && !viewer.IsAdmin {
		return nil, utils.NewPermissionError("only the package owner can edit it")
	}
	if pkg.Booked() {
		return nil, utils.NewConflictError("booked packages cannot be edited")
	}

	updates := make(map[string]interface{})
	if request.Title != nil {
		updates["title"] = *request.Title
	}
	if request.Description != nil {
		updates["description"] = *request.Description
	}
	if request.PickupLocation != nil {
		updates["pickup_location"] = *request.PickupLocation
	}
	if request.DropLocation != nil {
		updates["drop_location"] = *request.DropLocation
	}
	if request.Weight != nil {
		updates["weight"] = *request.Weight
	}
	if request.PriceExpectation != nil {
		updates["price_expectation"] = *request.PriceExpectation
	}

	if len(updates) > 0 {
		if err := s.packageRepo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}

	return s.packageRepo.GetByID(ctx, id)
}

func (s *packageService) Delete(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) error {
	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanDeletePackage(viewer, pkg) {
		return utils.NewPermissionError("you cannot remove this package")
	}

	if err := s.packageRepo.Delete(ctx, id); err != nil {
		return err
	}

	if pkg.ImageKey != "" {
		if err := s.storage.Delete(ctx, pkg.ImageKey); err != nil {
			s.logger.WithError(err).WithPackageID(id).Warn("Failed to remove package image")
		}
	}

	s.logger.WithPackageID(id).WithUserID(viewer.ID).Info("Package removed")
	return nil
}

func (s *packageService) BookDirect(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Package, error) {
	if !viewer.Capabilities.IsTransporter() {
		return nil, utils.NewPermissionError("only transporters can book packages")
	}

	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg.UserID == viewer.ID {
		return nil, utils.NewValidationError("you cannot book your own package")
	}

	return s.FinalizeBooking(ctx, id, viewer.ID, pkg.PriceExpectation, nil, models.BookingOriginDirect)
}

// FinalizeBooking claims the package and settles the surrounding offers. A
// replay by the same transporter at the same price succeeds idempotently;
// any other loser of the transition race gets CONFLICT.
func (s *packageService) FinalizeBooking(ctx context.Context, id, transporterID primitive.ObjectID, price float64, winningOffer *primitive.ObjectID, origin models.BookingOrigin) (*models.Package, error) {
	matched, err := s.packageRepo.FinalizeBooking(ctx, id, transporterID, price)
	if err != nil {
		return nil, err
	}

	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !matched {
		if pkg.Status == models.PackageStatusBooked &&
			pkg.BookedBy != nil && *pkg.BookedBy == transporterID &&
			pkg.PriceExpectation == price {
			return pkg, nil
		}
		return nil, utils.NewConflictError("package is no longer available for booking")
	}

	if winningOffer != nil {
		if err := s.offerRepo.Update(ctx, *winningOffer, map[string]interface{}{
			"status":           models.OfferStatusAccepted,
			"changed_by_owner": false,
		}); err != nil {
			s.logger.WithError(err).WithPackageID(id).Warn("Failed to mark winning offer accepted")
		}
	}
	if err := s.offerRepo.RejectPendingForPackage(ctx, id, winningOffer); err != nil {
		s.logger.WithError(err).WithPackageID(id).Warn("Failed to reject competing offers")
	}

	s.logger.LogBookingEvent(id, "booked", map[string]interface{}{
		"transporter_id": transporterID.Hex(),
		"price":          price,
		"origin":         string(origin),
	})

	return pkg, nil
}

func (s *packageService) MarkLoaded(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Package, error) {
	if !viewer.Capabilities.IsTransporter() {
		return nil, utils.NewPermissionError("only the booked transporter can mark a package loaded")
	}

	matched, err := s.packageRepo.MarkLoaded(ctx, id, viewer.ID)
	if err != nil {
		return nil, err
	}
	if !matched {
		pkg, err := s.packageRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if pkg.BookedBy == nil || *pkg.BookedBy != viewer.ID {
			return nil, utils.NewPermissionError("only the booked transporter can mark a package loaded")
		}
		return nil, utils.NewConflictError(fmt.Sprintf("package cannot be loaded from status %s", pkg.Status))
	}

	s.logger.LogBookingEvent(id, "loaded", map[string]interface{}{
		"transporter_id": viewer.ID.Hex(),
	})
	return s.packageRepo.GetByID(ctx, id)
}

func (s *packageService) Deliver(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Package, error) {
	if !viewer.IsAdmin {
		return nil, utils.NewPermissionError("only administrators can mark deliveries complete")
	}

	matched, err := s.packageRepo.MarkDelivered(ctx, id)
	if err != nil {
		return nil, err
	}
	if !matched {
		pkg, err := s.packageRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return nil, utils.NewConflictError(fmt.Sprintf("package cannot be delivered from status %s", pkg.Status))
	}

	s.logger.LogBookingEvent(id, "delivered", nil)
	return s.packageRepo.GetByID(ctx, id)
}

func (s *packageService) CurrentDeliveries(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Package, int64, error) {
	if !viewer.Capabilities.IsTransporter() {
		return nil, 0, utils.NewPermissionError("only transporters have deliveries")
	}

	filter := bson.M{
		"booked_by": viewer.ID,
		"status": bson.M{"$in": []models.PackageStatus{
			models.PackageStatusBooked,
			models.PackageStatusLoaded,
		}},
	}
	return s.packageRepo.List(ctx, filter, params)
}

func (s *packageService) LoadedPackages(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Package, int64, error) {
	if !viewer.Capabilities.IsTransporter() {
		return nil, 0, utils.NewPermissionError("only transporters have deliveries")
	}

	filter := bson.M{
		"booked_by": viewer.ID,
		"status":    models.PackageStatusLoaded,
	}
	return s.packageRepo.List(ctx, filter, params)
}

func (s *packageService) UploadImage(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID, upload *storage.UploadRequest) (*models.Package, error) {
	pkg, err := s.packageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pkg.UserID != viewer.ID && !viewer.IsAdmin {
		return nil, utils.NewPermissionError("only the package owner can attach an image")
	}

	ext := filepath.Ext(upload.Key)
	if !utils.IsAllowedImageType(ext) {
		return nil, utils.NewValidationError("unsupported image type")
	}
	if upload.Size > utils.MaxImageSize {
		return nil, utils.NewValidationError("image exceeds the size limit")
	}

	upload.Key = fmt.Sprintf("packages/%s%s", id.Hex(), strings.ToLower(ext))
	response, err := s.storage.Upload(ctx, upload)
	if err != nil {
		return nil, utils.NewInternalError(err)
	}

	if err := s.packageRepo.Update(ctx, id, map[string]interface{}{"image_key": response.Key}); err != nil {
		return nil, err
	}
	return s.packageRepo.GetByID(ctx, id)
}

func (s *packageService) ImageURL(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (string, error) {
	pkg, err := s.Get(ctx, viewer, id)
	if err != nil {
		return "", err
	}
	if pkg.ImageKey == "" {
		return "", utils.NewNotFoundError("Package image")
	}
	return s.storage.GetURL(ctx, pkg.ImageKey, 0)
}
