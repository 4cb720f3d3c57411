package services

import (
	"context"
	"testing"

	"cargolink/internal/models"
	"cargolink/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestFleetService() FleetService {
	return NewFleetService(newFakeVehicleRepo(), newFakeStaffRepo(), testLogger())
}

func seedVehicle(t *testing.T, svc FleetService, transporterID primitive.ObjectID, truckNumber string) *models.Vehicle {
	t.Helper()
	vehicle, err := svc.CreateVehicle(context.Background(), transporterViewer(transporterID), &CreateVehicleRequest{
		TruckModel:  "Tata LPT 1613",
		TruckNumber: truckNumber,
		Capacity:    9000,
		Wheels:      6,
	})
	require.NoError(t, err)
	return vehicle
}

func TestCreateVehicleRequiresTransporter(t *testing.T) {
	svc := newTestFleetService()

	_, err := svc.CreateVehicle(context.Background(), ownerViewer(primitive.NewObjectID()), &CreateVehicleRequest{
		TruckNumber: "MH-12-AB-1234",
		Capacity:    9000,
	})
	assert.Equal(t, utils.ErrorKindPermission, utils.KindOf(err))
}

func TestDuplicateTruckNumberConflicts(t *testing.T) {
	svc := newTestFleetService()
	transporter := primitive.NewObjectID()
	seedVehicle(t, svc, transporter, "MH-12-AB-1234")

	_, err := svc.CreateVehicle(context.Background(), transporterViewer(transporter), &CreateVehicleRequest{
		TruckNumber: "MH-12-AB-1234",
		Capacity:    5000,
	})
	assert.Equal(t, utils.ErrorKindConflict, utils.KindOf(err))
}

func TestVehicleHiddenFromOtherTransporter(t *testing.T) {
	svc := newTestFleetService()
	vehicle := seedVehicle(t, svc, primitive.NewObjectID(), "MH-12-AB-1234")

	_, err := svc.GetVehicle(context.Background(), transporterViewer(primitive.NewObjectID()), vehicle.ID)
	assert.Equal(t, utils.ErrorKindNotFound, utils.KindOf(err))
}

func TestVehicleAllowsSingleDriver(t *testing.T) {
	svc := newTestFleetService()
	transporter := primitive.NewObjectID()
	vehicle := seedVehicle(t, svc, transporter, "MH-12-AB-1234")
	viewer := transporterViewer(transporter)

	_, err := svc.CreateStaff(context.Background(), viewer, &CreateStaffRequest{
		VehicleID: vehicle.ID.Hex(),
		Name:      "Ramesh Patil",
		Contact:   "9876543210",
		Role:      "driver",
	})
	require.NoError(t, err)

	_, err = svc.CreateStaff(context.Background(), viewer, &CreateStaffRequest{
		VehicleID: vehicle.ID.Hex(),
		Name:      "Suresh More",
		Contact:   "9876500000",
		Role:      "driver",
	})
	assert.Equal(t, utils.ErrorKindCapacity, utils.KindOf(err))
}

func TestVehicleAllowsTwoHelpers(t *testing.T) {
	svc := newTestFleetService()
	transporter := primitive.NewObjectID()
	vehicle := seedVehicle(t, svc, transporter, "MH-12-AB-1234")
	viewer := transporterViewer(transporter)

	for _, name := range []string{"Helper One", "Helper Two"} {
		_, err := svc.CreateStaff(context.Background(), viewer, &CreateStaffRequest{
			VehicleID: vehicle.ID.Hex(),
			Name:      name,
			Contact:   "9876543210",
			Role:      "helper",
		})
		require.NoError(t, err)
	}

	_, err := svc.CreateStaff(context.Background(), viewer, &CreateStaffRequest{
		VehicleID: vehicle.ID.Hex(),
		Name:      "Helper Three",
		Contact:   "9876543210",
		Role:      "helper",
	})
	assert.Equal(t, utils.ErrorKindCapacity, utils.KindOf(err))
}

func TestReassignDriverBetweenVehicles(t *testing.T) {
	svc := newTestFleetService()
	transporter := primitive.NewObjectID()
	first := seedVehicle(t, svc, transporter, "MH-12-AB-1234")
	second := seedVehicle(t, svc, transporter, "MH-14-CD-5678")
	viewer := transporterViewer(transporter)

	driver, err := svc.CreateStaff(context.Background(), viewer, &CreateStaffRequest{
		VehicleID: first.ID.Hex(),
		Name:      "Ramesh Patil",
		Contact:   "9876543210",
		Role:      "driver",
	})
	require.NoError(t, err)

	target := second.ID.Hex()
	moved, err := svc.UpdateStaff(context.Background(), viewer, driver.ID, &UpdateStaffRequest{VehicleID: &target})
	require.NoError(t, err)
	assert.Equal(t, second.ID, moved.VehicleID)

	// The old slot is free again.
	_, err = svc.CreateStaff(context.Background(), viewer, &CreateStaffRequest{
		VehicleID: first.ID.Hex(),
		Name:      "Suresh More",
		Contact:   "9876500000",
		Role:      "driver",
	})
	assert.NoError(t, err)
}

func TestUpdateStaffKeepingSlotSkipsCapacityCheck(t *testing.T) {
	svc := newTestFleetService()
	transporter := primitive.NewObjectID()
	vehicle := seedVehicle(t, svc, transporter, "MH-12-AB-1234")
	viewer := transporterViewer(transporter)

	driver, err := svc.CreateStaff(context.Background(), viewer, &CreateStaffRequest{
		VehicleID: vehicle.ID.Hex(),
		Name:      "Ramesh Patil",
		Contact:   "9876543210",
		Role:      "driver",
	})
	require.NoError(t, err)

	renamed := "Ramesh R. Patil"
	updated, err := svc.UpdateStaff(context.Background(), viewer, driver.ID, &UpdateStaffRequest{Name: &renamed})
	require.NoError(t, err)
	assert.Equal(t, renamed, updated.Name)
}

func TestCrewsGroupsStaffByVehicle(t *testing.T) {
	svc := newTestFleetService()
	transporter := primitive.NewObjectID()
	vehicle := seedVehicle(t, svc, transporter, "MH-12-AB-1234")
	viewer := transporterViewer(transporter)

	_, err := svc.CreateStaff(context.Background(), viewer, &CreateStaffRequest{
		VehicleID: vehicle.ID.Hex(),
		Name:      "Ramesh Patil",
		Contact:   "9876543210",
		Role:      "driver",
	})
	require.NoError(t, err)
	_, err = svc.CreateStaff(context.Background(), viewer, &CreateStaffRequest{
		VehicleID: vehicle.ID.Hex(),
		Name:      "Helper One",
		Contact:   "9876500000",
		Role:      "helper",
	})
	require.NoError(t, err)

	crews, err := svc.Crews(context.Background(), viewer)
	require.NoError(t, err)
	require.Len(t, crews, 1)
	assert.Equal(t, vehicle.TruckNumber, crews[0].TruckNumber)
	require.NotNil(t, crews[0].Driver)
	assert.Equal(t, "Ramesh Patil", crews[0].Driver.Name)
	assert.Len(t, crews[0].Helpers, 1)
}

func TestStaffRequiresOwnVehicle(t *testing.T) {
	svc := newTestFleetService()
	vehicle := seedVehicle(t, svc, primitive.NewObjectID(), "MH-12-AB-1234")

	_, err := svc.CreateStaff(context.Background(), transporterViewer(primitive.NewObjectID()), &CreateStaffRequest{
		VehicleID: vehicle.ID.Hex(),
		Name:      "Ramesh Patil",
		Contact:   "9876543210",
		Role:      "driver",
	})
	assert.Equal(t, utils.ErrorKindNotFound, utils.KindOf(err))
}
