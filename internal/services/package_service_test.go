package services

import (
	"context"
	"testing"

	"cargolink/internal/authz"
	"cargolink/internal/models"
	"cargolink/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func ownerViewer(id primitive.ObjectID) authz.Viewer {
	return authz.Viewer{
		ID:            id,
		Capabilities:  models.NewCapabilities(true, false),
		Authenticated: true,
	}
}

func transporterViewer(id primitive.ObjectID) authz.Viewer {
	return authz.Viewer{
		ID:            id,
		Capabilities:  models.NewCapabilities(false, true),
		Authenticated: true,
	}
}

func adminViewer() authz.Viewer {
	return authz.Viewer{
		ID:            primitive.NewObjectID(),
		IsAdmin:       true,
		Authenticated: true,
	}
}

func newTestPackageService() (PackageService, *fakePackageRepo, *fakeOfferRepo) {
	packageRepo := newFakePackageRepo()
	offerRepo := newFakeOfferRepo()
	svc := NewPackageService(packageRepo, offerRepo, newFakeStorage(), testLogger())
	return svc, packageRepo, offerRepo
}

func seedPackage(t *testing.T, repo *fakePackageRepo, ownerID primitive.ObjectID, price float64) *models.Package {
	t.Helper()
	pkg := &models.Package{
		UserID:           ownerID,
		Title:            "Machine parts",
		PickupLocation:   "Pune",
		DropLocation:     "Nagpur",
		Weight:           120,
		PriceExpectation: price,
	}
	require.NoError(t, repo.Create(context.Background(), pkg))
	return pkg
}

func TestCreatePackageRequiresOwner(t *testing.T) {
	svc, _, _ := newTestPackageService()

	_, err := svc.Create(context.Background(), transporterViewer(primitive.NewObjectID()), &CreatePackageRequest{
		Title:            "Crates",
		PickupLocation:   "A",
		DropLocation:     "B",
		Weight:           10,
		PriceExpectation: 500,
	})
	assert.Equal(t, utils.ErrorKindPermission, utils.KindOf(err))
}

func TestMarketplaceServesPublicProjection(t *testing.T) {
	svc, repo, _ := newTestPackageService()
	pkg := seedPackage(t, repo, primitive.NewObjectID(), 1500)

	listed, total, err := svc.Marketplace(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listed, 1)
	assert.Equal(t, pkg.ID, listed[0].ID)
	assert.Equal(t, "Machine parts", listed[0].Title)
	assert.Equal(t, 1500.0, listed[0].PriceExpectation)
}

func TestBookDirect(t *testing.T) {
	svc, repo, _ := newTestPackageService()
	owner := primitive.NewObjectID()
	transporter := primitive.NewObjectID()
	pkg := seedPackage(t, repo, owner, 1000)

	booked, err := svc.BookDirect(context.Background(), transporterViewer(transporter), pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusBooked, booked.Status)
	require.NotNil(t, booked.BookedBy)
	assert.Equal(t, transporter, *booked.BookedBy)
	assert.Equal(t, 1000.0, booked.PriceExpectation)
}

func TestBookDirectIsIdempotentForSameTransporter(t *testing.T) {
	svc, repo, _ := newTestPackageService()
	transporter := primitive.NewObjectID()
	pkg := seedPackage(t, repo, primitive.NewObjectID(), 1000)

	_, err := svc.BookDirect(context.Background(), transporterViewer(transporter), pkg.ID)
	require.NoError(t, err)

	again, err := svc.FinalizeBooking(context.Background(), pkg.ID, transporter, 1000, nil, models.BookingOriginDirect)
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusBooked, again.Status)
}

func TestBookDirectConflictsForSecondTransporter(t *testing.T) {
	svc, repo, _ := newTestPackageService()
	pkg := seedPackage(t, repo, primitive.NewObjectID(), 1000)

	_, err := svc.BookDirect(context.Background(), transporterViewer(primitive.NewObjectID()), pkg.ID)
	require.NoError(t, err)

	_, err = svc.BookDirect(context.Background(), transporterViewer(primitive.NewObjectID()), pkg.ID)
	assert.Equal(t, utils.ErrorKindConflict, utils.KindOf(err))
}

func TestBookingOwnPackageFails(t *testing.T) {
	svc, repo, _ := newTestPackageService()
	owner := primitive.NewObjectID()
	pkg := seedPackage(t, repo, owner, 1000)

	viewer := authz.Viewer{
		ID:            owner,
		Capabilities:  models.NewCapabilities(true, true),
		Authenticated: true,
	}
	_, err := svc.BookDirect(context.Background(), viewer, pkg.ID)
	assert.Equal(t, utils.ErrorKindValidation, utils.KindOf(err))
}

func TestFinalizeBookingSettlesCompetingOffers(t *testing.T) {
	svc, repo, offerRepo := newTestPackageService()
	owner := primitive.NewObjectID()
	winner := primitive.NewObjectID()
	loser := primitive.NewObjectID()
	pkg := seedPackage(t, repo, owner, 1000)

	winning := &models.Offer{PackageID: pkg.ID, SenderID: winner, ReceiverID: owner, OfferPrice: 900}
	losing := &models.Offer{PackageID: pkg.ID, SenderID: loser, ReceiverID: owner, OfferPrice: 800}
	require.NoError(t, offerRepo.Create(context.Background(), winning))
	require.NoError(t, offerRepo.Create(context.Background(), losing))

	_, err := svc.FinalizeBooking(context.Background(), pkg.ID, winner, 900, &winning.ID, models.BookingOriginOfferAccept)
	require.NoError(t, err)

	won, _ := offerRepo.GetByID(context.Background(), winning.ID)
	lost, _ := offerRepo.GetByID(context.Background(), losing.ID)
	assert.Equal(t, models.OfferStatusAccepted, won.Status)
	assert.Equal(t, models.OfferStatusRejected, lost.Status)
}

func TestMarkLoaded(t *testing.T) {
	svc, repo, _ := newTestPackageService()
	transporter := primitive.NewObjectID()
	pkg := seedPackage(t, repo, primitive.NewObjectID(), 1000)

	_, err := svc.BookDirect(context.Background(), transporterViewer(transporter), pkg.ID)
	require.NoError(t, err)

	loaded, err := svc.MarkLoaded(context.Background(), transporterViewer(transporter), pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusLoaded, loaded.Status)
}

func TestMarkLoadedByOtherTransporterFails(t *testing.T) {
	svc, repo, _ := newTestPackageService()
	pkg := seedPackage(t, repo, primitive.NewObjectID(), 1000)

	_, err := svc.BookDirect(context.Background(), transporterViewer(primitive.NewObjectID()), pkg.ID)
	require.NoError(t, err)

	_, err = svc.MarkLoaded(context.Background(), transporterViewer(primitive.NewObjectID()), pkg.ID)
	assert.Equal(t, utils.ErrorKindPermission, utils.KindOf(err))
}

func TestMarkLoadedBeforeBookingFails(t *testing.T) {
	svc, repo, _ := newTestPackageService()
	transporter := primitive.NewObjectID()
	pkg := seedPackage(t, repo, primitive.NewObjectID(), 1000)

	_, err := svc.MarkLoaded(context.Background(), transporterViewer(transporter), pkg.ID)
	assert.Equal(t, utils.ErrorKindPermission, utils.KindOf(err))
}

func TestDeliverIsAdminOnly(t *testing.T) {
	svc, repo, _ := newTestPackageService()
	transporter := primitive.NewObjectID()
	pkg := seedPackage(t, repo, primitive.NewObjectID(), 1000)

	_, err := svc.BookDirect(context.Background(), transporterViewer(transporter), pkg.ID)
	require.NoError(t, err)
	_, err = svc.MarkLoaded(context.Background(), transporterViewer(transporter), pkg.ID)
	require.NoError(t, err)

	_, err = svc.Deliver(context.Background(), transporterViewer(transporter), pkg.ID)
	assert.Equal(t, utils.ErrorKindPermission, utils.KindOf(err))

	delivered, err := svc.Deliver(context.Background(), adminViewer(), pkg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PackageStatusDelivered, delivered.Status)
}

func TestDeliverBeforeLoadedConflicts(t *testing.T) {
	svc, repo, _ := newTestPackageService()
	pkg := seedPackage(t, repo, primitive.NewObjectID(), 1000)

	_, err := svc.BookDirect(context.Background(), transporterViewer(primitive.NewObjectID()), pkg.ID)
	require.NoError(t, err)

	_, err = svc.Deliver(context.Background(), adminViewer(), pkg.ID)
	assert.Equal(t, utils.ErrorKindConflict, utils.KindOf(err))
}

func TestUpdateBookedPackageConflicts(t *testing.T) {
	svc, repo, _ := newTestPackageService()
	owner := primitive.NewObjectID()
	pkg := seedPackage(t, repo, owner, 1000)

	_, err := svc.BookDirect(context.Background(), transporterViewer(primitive.NewObjectID()), pkg.ID)
	require.NoError(t, err)

	title := "New title"
	_, err = svc.Update(context.Background(), ownerViewer(owner), pkg.ID, &UpdatePackageRequest{Title: &title})
	assert.Equal(t, utils.ErrorKindConflict, utils.KindOf(err))
}
