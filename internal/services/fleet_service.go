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

type FleetService interface {
	CreateVehicle(ctx context.Context, viewer authz.Viewer, request *CreateVehicleRequest) (*models.Vehicle, error)
	GetVehicle(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Vehicle, int64, error)
	UpdateVehicle(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID, request *UpdateVehicleRequest) (*models.Vehicle, error)
	DeleteVehicle(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) error

	CreateStaff(ctx context.Context, viewer authz.Viewer, request *CreateStaffRequest) (*models.Staff, error)
	GetStaff(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Staff, error)
	ListStaff(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Staff, int64, error)
	UpdateStaff(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID, request *UpdateStaffRequest) (*models.Staff, error)
	DeleteStaff(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) error

	// Crews groups a transporter's staff under their vehicles.
	Crews(ctx context.Context, viewer authz.Viewer) ([]*models.VehicleCrew, error)
}

type fleetService struct {
	vehicleRepo interfaces.VehicleRepository
	staffRepo   interfaces.StaffRepository
	logger      *logger.Logger
}

func NewFleetService(
	vehicleRepo interfaces.VehicleRepository,
	staffRepo interfaces.StaffRepository,
	logger *logger.Logger,
) FleetService {
	return &fleetService{
		vehicleRepo: vehicleRepo,
		staffRepo:   staffRepo,
		logger:      logger,
	}
}

type CreateVehicleRequest struct {
	TruckModel  string  `json:"truck_model" validate:"max=100"`
	TruckNumber string  `json:"truck_number" validate:"required,truck_number"`
	Capacity    float64 `json:"capacity" validate:"required,gt=0"`
	Wheels      int     `json:"wheels" validate:"omitempty,gte=2"`
	Available   *bool   `json:"available"`
}

type UpdateVehicleRequest struct {
	TruckModel  *string  `json:"truck_model" validate:"omitempty,max=100"`
	TruckNumber *string  `json:"truck_number" validate:"omitempty,truck_number"`
	Capacity    *float64 `json:"capacity" validate:"omitempty,gt=0"`
	Wheels      *int     `json:"wheels" validate:"omitempty,gte=2"`
	Available   *bool    `json:"available"`
}

type CreateStaffRequest struct {
	VehicleID     string `json:"vehicle_id" validate:"required"`
	Name          string `json:"name" validate:"required,max=100"`
	Contact       string `json:"contact" validate:"required,contact,max=15"`
	LicenseNumber string `json:"license_number" validate:"max=50"`
	Role          string `json:"role" validate:"required,oneof=driver helper"`
}

type UpdateStaffRequest struct {
	VehicleID     *string `json:"vehicle_id"`
	Name          *string `json:"name" validate:"omitempty,max=100"`
	Contact       *string `json:"contact" validate:"omitempty,contact,max=15"`
	LicenseNumber *string `json:"license_number" validate:"omitempty,max=50"`
	Role          *string `json:"role" validate:"omitempty,oneof=driver helper"`
}

func (s *fleetService) CreateVehicle(ctx context.Context, viewer authz.Viewer, request *CreateVehicleRequest) (*models.Vehicle, error) {
	if !viewer.Capabilities.IsTransporter() {
		return nil, utils.NewPermissionError("only transporters manage vehicles")
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	available := true
	if request.Available != nil {
		available = *request.Available
	}

	vehicle := &models.Vehicle{
		TransporterID: viewer.ID,
		TruckModel:    request.TruckModel,
		TruckNumber:   request.TruckNumber,
		Capacity:      request.Capacity,
		Wheels:        request.Wheels,
		Available:     available,
	}
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	s.logger.WithUserID(viewer.ID).WithField("truck_number", vehicle.TruckNumber).Info("Vehicle registered")
	return vehicle, nil
}

func (s *fleetService) GetVehicle(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessVehicle(viewer, vehicle) {
		return nil, utils.NewNotFoundError("Vehicle")
	}
	return vehicle, nil
}

func (s *fleetService) ListVehicles(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Vehicle, int64, error) {
	return s.vehicleRepo.List(ctx, authz.ScopeVehicles(viewer), params)
}

func (s *fleetService) UpdateVehicle(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID, request *UpdateVehicleRequest) (*models.Vehicle, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	if _, err := s.GetVehicle(ctx, viewer, id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if request.TruckModel != nil {
		updates["truck_model"] = *request.TruckModel
	}
	if request.TruckNumber != nil {
		updates["truck_number"] = *request.TruckNumber
	}
	if request.Capacity != nil {
		updates["capacity"] = *request.Capacity
	}
	if request.Wheels != nil {
		updates["wheels"] = *request.Wheels
	}
	if request.Available != nil {
		updates["available"] = *request.Available
	}

	if len(updates) > 0 {
		if err := s.vehicleRepo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.vehicleRepo.GetByID(ctx, id)
}

func (s *fleetService) DeleteVehicle(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) error {
	if _, err := s.GetVehicle(ctx, viewer, id); err != nil {
		return err
	}
	return s.vehicleRepo.Delete(ctx, id)
}

func (s *fleetService) CreateStaff(ctx context.Context, viewer authz.Viewer, request *CreateStaffRequest) (*models.Staff, error) {
	if !viewer.Capabilities.IsTransporter() {
		return nil, utils.NewPermissionError("only transporters manage staff")
	}
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	vehicleID, err := primitive.ObjectIDFromHex(request.VehicleID)
	if err != nil {
		return nil, utils.NewValidationError("invalid vehicle id")
	}
	if _, err := s.GetVehicle(ctx, viewer, vehicleID); err != nil {
		return nil, err
	}

	role := models.StaffRole(request.Role)
	if err := s.checkCrewCapacity(ctx, vehicleID, role, nil); err != nil {
		return nil, err
	}

	staff := &models.Staff{
		TransporterID: viewer.ID,
		VehicleID:     vehicleID,
		Name:          request.Name,
		Contact:       request.Contact,
		LicenseNumber: request.LicenseNumber,
		Role:          role,
	}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *fleetService) GetStaff(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) (*models.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessStaff(viewer, staff) {
		return nil, utils.NewNotFoundError("Staff")
	}
	return staff, nil
}

func (s *fleetService) ListStaff(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.Staff, int64, error) {
	return s.staffRepo.List(ctx, authz.ScopeStaff(viewer), params)
}

func (s *fleetService) UpdateStaff(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID, request *UpdateStaffRequest) (*models.Staff, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationError(err.Error())
	}

	staff, err := s.GetStaff(ctx, viewer, id)
	if err != nil {
		return nil, err
	}

	// Capacity is re-checked against the target vehicle and role, excluding
	// the row being moved.
	targetVehicle := staff.VehicleID
	if request.VehicleID != nil {
		targetVehicle, err = primitive.ObjectIDFromHex(*request.VehicleID)
		if err != nil {
			return nil, utils.NewValidationError("invalid vehicle id")
		}
		if _, err := s.GetVehicle(ctx, viewer, targetVehicle); err != nil {
			return nil, err
		}
	}
	targetRole := staff.Role
	if request.Role != nil {
		targetRole = models.StaffRole(*request.Role)
	}

	if targetVehicle != staff.VehicleID || targetRole != staff.Role {
		if err := s.checkCrewCapacity(ctx, targetVehicle, targetRole, &staff.ID); err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if request.VehicleID != nil {
		updates["vehicle_id"] = targetVehicle
	}
	if request.Name != nil {
		updates["name"] = *request.Name
	}
	if request.Contact != nil {
		updates["contact"] = *request.Contact
	}
	if request.LicenseNumber != nil {
		updates["license_number"] = *request.LicenseNumber
	}
	if request.Role != nil {
		updates["role"] = targetRole
	}

	if len(updates) > 0 {
		if err := s.staffRepo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.staffRepo.GetByID(ctx, id)
}

func (s *fleetService) DeleteStaff(ctx context.Context, viewer authz.Viewer, id primitive.ObjectID) error {
	if _, err := s.GetStaff(ctx, viewer, id); err != nil {
		return err
	}
	return s.staffRepo.Delete(ctx, id)
}

func (s *fleetService) Crews(ctx context.Context, viewer authz.Viewer) ([]*models.VehicleCrew, error) {
	if !viewer.Capabilities.IsTransporter() {
		return nil, utils.NewPermissionError("only transporters manage staff")
	}

	vehicles, err := s.vehicleRepo.ListByTransporter(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	crews := make([]*models.VehicleCrew, 0, len(vehicles))
	for _, vehicle := range vehicles {
		members, err := s.staffRepo.ListByVehicle(ctx, vehicle.ID)
		if err != nil {
			return nil, err
		}

		crew := &models.VehicleCrew{
			TruckNumber: vehicle.TruckNumber,
			Helpers:     []*models.Staff{},
		}
		for _, member := range members {
			if member.Role == models.StaffRoleDriver {
				crew.Driver = member
			} else {
				crew.Helpers = append(crew.Helpers, member)
			}
		}
		crews = append(crews, crew)
	}
	return crews, nil
}

func (s *fleetService) checkCrewCapacity(ctx context.Context, vehicleID primitive.ObjectID, role models.StaffRole, exclude *primitive.ObjectID) error {
	count, err := s.staffRepo.CountByVehicleAndRole(ctx, vehicleID, role, exclude)
	if err != nil {
		return err
	}

	switch role {
	case models.StaffRoleDriver:
		if count >= models.MaxDriversPerVehicle {
			return utils.NewCapacityError("vehicle already has a driver assigned")
		}
	case models.StaffRoleHelper:
		if count >= models.MaxHelpersPerVehicle {
			return utils.NewCapacityError("vehicle already has two helpers assigned")
		}
	}
	return nil
}
