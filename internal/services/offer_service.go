package services

import (
	"context"

	"cargolink/internal/authz"
	"cargolink/internal/models"
	"cargolink/internal/repositories/interfaces"
	"cargolink/internal/utils"
	"cargolink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OfferService interface {
	// Create opens (or re-prices) the single negotiation row between the
	// calling transporter and the package owner.
	Create(ctx context.Context, viewer authz.Viewer, request *CreateOfferRequest) (*models.Offer, error)
	Get(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Offer, error)
	MyOffers(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Offer, int64, error)
	ForPackage(ctx context.Context, viewer authz.Viewer, packageID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Offer, int64, error)

	Counter(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID, request *CounterOfferRequest) (*models.Offer, error)
	Accept(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Package, error)
	Reject(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Offer, error)
	Book(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Package, error)
}

type offerService struct {
	offerRepo   interfaces.OfferRepository
	packageRepo interfaces.PackageRepository
	bookings    PackageService
	logger      *logger.Logger
}

func NewOfferService(
	offerRepo interfaces.OfferRepository,
	packageRepo interfaces.PackageRepository,
	bookings PackageService,
	logger *logger.Logger,
) OfferService {
	return &offerService{
		offerRepo:   offerRepo,
		packageRepo: packageRepo,
		bookings:    bookings,
		logger:      logger,
	}
}

type CreateOfferRequest struct {
	PackageID  string  `json:"package_id" validate:"required"`
	OfferPrice float64 `json:"offer_price" validate:"required,gt=0"`
}

type CounterOfferRequest struct {
	OfferPrice float64 `json:"offer_price" validate:"required,gt=0"`
}

func (s *offerService) Create(ctx context.Context, viewer authz.Viewer, request *CreateOfferRequest) (*models.Offer, error) {
	if !viewer.Capabilities.IsTransporter() {
		return nil, utils.NewPermissionError("only transporters can make offers")
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	packageID, err := primitive.ObjectIDFromHex(request.PackageID)
	if err != nil {
		return nil, utils.NewValidationError("invalid package id")
	}

	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		if utils.KindOf(err) == utils.ErrorKindNotFound {
			return nil, utils.NewValidationError("package does not exist")
		}
		return nil, err
	}
	if pkg.UserID == viewer.ID {
		return nil, utils.NewValidationError("you cannot bid on your own package")
	}
	if pkg.Booked() {
		return nil, utils.NewConflictError("package is already booked")
	}

	// One negotiation row per (package, transporter, owner); a repeat offer
	// re-prices the row and reopens it.
	existing, err := s.offerRepo.FindBetween(ctx, packageID, viewer.ID, pkg.UserID)
	if err == nil {
		updates := map[string]interface{}{
			"offer_price":      request.OfferPrice,
			"status":           models.OfferStatusPending,
			"changed_by_owner": false,
		}
		if err := s.offerRepo.Update(ctx, existing.ID, updates); err != nil {
			return nil, err
		}
		return s.offerRepo.GetByID(ctx, existing.ID)
	}
	if utils.KindOf(err) != utils.ErrorKindNotFound {
		return nil, err
	}

	offer := &models.Offer{
		PackageID:      packageID,
		SenderID:       viewer.ID,
		ReceiverID:     pkg.UserID,
		OfferPrice:     request.OfferPrice,
		ChangedByOwner: false,
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}

	if err := s.packageRepo.EnterNegotiating(ctx, packageID); err != nil {
		s.logger.WithError(err).WithPackageID(packageID).Warn("Failed to flag package negotiating")
	}

	s.logger.WithOfferID(offer.ID).WithPackageID(packageID).WithUserID(viewer.ID).Info("Offer created")
	return offer, nil
}

func (s *offerService) Get(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessOffer(viewer, offer) {
		return nil, utils.NewNotFoundError("Offer")
	}
	return offer, nil
}

func (s *offerService) MyOffers(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Offer, int64, error) {
	return s.offerRepo.List(ctx, authz.ScopeOffers(viewer), params)
}

func (s *offerService) ForPackage(ctx context.Context, viewer authz.Viewer, packageID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Offer, int64, error) {
	scope := authz.ScopeOffers(viewer)
	filter := bson.M{"package_id": packageID}
	for k, v := range scope {
		filter[k] = v
	}
	return s.offerRepo.List(ctx, filter, params)
}

// Counter re-prices the offer in place, reopening it if it was rejected.
// ChangedByOwner tracks which side moved last; the other side is the one
// entitled to accept.
func (s *offerService) Counter(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID, request *CounterOfferRequest) (*models.Offer, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	offer, pkg, err := s.loadNegotiation(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"offer_price":      request.OfferPrice,
		"status":           models.OfferStatusPending,
		"changed_by_owner": viewer.ID == pkg.UserID,
	}
	if err := s.offerRepo.Update(ctx, offer.ID, updates); err != nil {
		return nil, err
	}

	s.logger.WithOfferID(offer.ID).WithUserID(viewer.ID).Info("Offer countered")
	return s.offerRepo.GetByID(ctx, offer.ID)
}

func (s *offerService) Accept(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Package, error) {
	offer, pkg, err := s.loadNegotiation(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if offer.Status != models.OfferStatusPending {
		return nil, utils.NewConflictError("offer is no longer open")
	}

	if s.movedLast(viewer, pkg, offer) {
		return nil, utils.NewPermissionError("the counterparty must respond to this offer")
	}

	transporterID := s.transporterParty(pkg, offer)
	return s.bookings.FinalizeBooking(ctx, pkg.ID, transporterID, offer.OfferPrice, &offer.ID, models.BookingOriginOfferAccept)
}

// Reject closes the negotiation; either side may walk away, including the
// party whose price is on the table.
func (s *offerService) Reject(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Offer, error) {
	offer, _, err := s.loadNegotiation(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if offer.Status != models.OfferStatusPending {
		return nil, utils.NewConflictError("offer is no longer open")
	}

	if err := s.offerRepo.Update(ctx, offer.ID, map[string]interface{}{
		"status":           models.OfferStatusRejected,
		"changed_by_owner": false,
	}); err != nil {
		return nil, err
	}

	s.logger.WithOfferID(offer.ID).WithUserID(viewer.ID).Info("Offer rejected")
	return s.offerRepo.GetByID(ctx, offer.ID)
}

// Book lets the transporter close at the owner's standing counter-price.
func (s *offerService) Book(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Package, error) {
	offer, pkg, err := s.loadNegotiation(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	if offer.Status != models.OfferStatusPending {
		return nil, utils.NewConflictError("offer is no longer open")
	}

	if viewer.ID != s.transporterParty(pkg, offer) {
		return nil, utils.NewPermissionError("only the offering transporter can book")
	}
	if !offer.ChangedByOwner {
		return nil, utils.NewConflictError("the owner has not countered this offer")
	}

	return s.bookings.FinalizeBooking(ctx, pkg.ID, viewer.ID, offer.OfferPrice, &offer.ID, models.BookingOriginOfferBook)
}

// loadNegotiation fetches an offer with its package and runs the checks
// shared by every negotiation verb.
func (s *offerService) loadNegotiation(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Offer, *models.Package, error) {
	offer, err := s.offerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !authz.CanAccessOffer(viewer, offer) {
		return nil, nil, utils.NewNotFoundError("Offer")
	}
	if offer.Status == models.OfferStatusAccepted {
		return nil, nil, utils.NewConflictError("offer is already settled")
	}

	pkg, err := s.packageRepo.GetByID(ctx, offer.PackageID)
	if err != nil {
		return nil, nil, err
	}
	if pkg.Booked() {
		return nil, nil, utils.NewConflictError("package is already booked")
	}

	return offer, pkg, nil
}

func (s *offerService) movedLast(viewer authz.Viewer, pkg *models.Package, offer *models.Offer) bool {
	viewerIsOwner := viewer.ID == pkg.UserID
	return viewerIsOwner == offer.ChangedByOwner
}

// transporterParty resolves which offer participant carries the cargo.
func (s *offerService) transporterParty(pkg *models.Package, offer *models.Offer) primitive.ObjectID {
	if offer.SenderID == pkg.UserID {
		return offer.ReceiverID
	}
	return offer.SenderID
}
