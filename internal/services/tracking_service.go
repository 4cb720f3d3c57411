package services

import (
	"context"

	"cargolink/internal/authz"
	"cargolink/internal/models"
	"cargolink/internal/repositories/interfaces"
	"cargolink/internal/utils"
	"cargolink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TrackingService interface {
	Report(ctx context.Context, viewer authz.Viewer, request *ReportPositionRequest) (*models.Tracking, error)
	GetForPackage(ctx context.Context, viewer authz.Viewer, packageID primitive.ObjectID) (*models.Tracking, error)
	List(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Tracking, int64, error)
	Delete(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) error
}

type trackingService struct {
	trackingRepo interfaces.TrackingRepository
	packageRepo  interfaces.PackageRepository
	logger       *logger.Logger
}

func NewTrackingService(
	trackingRepo interfaces.TrackingRepository,
	packageRepo interfaces.PackageRepository,
	logger *logger.Logger,
) TrackingService {
	return &trackingService{
		trackingRepo: trackingRepo,
		packageRepo:  packageRepo,
		logger:       logger,
	}
}

type ReportPositionRequest struct {
	PackageID string   `json:"package_id" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

func (s *trackingService) Report(ctx context.Context, viewer authz.Viewer, request *ReportPositionRequest) (*models.Tracking, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	packageID, err := primitive.ObjectIDFromHex(request.PackageID)
	if err != nil {
		return nil, utils.NewValidationError("invalid package id")
	}

	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg.UserID != viewer.ID && !viewer.IsAdmin {
		return nil, utils.NewPermissionError("only the package owner manages tracking")
	}

	return s.trackingRepo.Upsert(ctx, &models.Tracking{
		PackageID: packageID,
		OwnerID:   pkg.UserID,
		Latitude:  request.Latitude,
		Longitude: request.Longitude,
	})
}

func (s *trackingService) GetForPackage(ctx context.Context, viewer authz.Viewer, packageID primitive.ObjectID) (*models.Tracking, error) {
	tracking, err := s.trackingRepo.GetByPackageID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessTracking(viewer, tracking) {
		return nil, utils.NewNotFoundError("Tracking")
	}
	return tracking, nil
}

func (s *trackingService) List(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Tracking, int64, error) {
	return s.trackingRepo.List(ctx, authz.ScopeTracking(viewer), params)
}

func (s *trackingService) Delete(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) error {
	tracking, err := s.trackingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !authz.CanAccessTracking(viewer, tracking) {
		return utils.NewNotFoundError("Tracking")
	}
	return s.trackingRepo.Delete(ctx, id)
}
