package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCapabilities(t *testing.T) {
	both := NewCapabilities(true, true)
	assert.True(t, both.IsOwner())
	assert.True(t, both.IsTransporter())

	ownerOnly := NewCapabilities(true, false)
	assert.True(t, ownerOnly.IsOwner())
	assert.False(t, ownerOnly.IsTransporter())

	none := NewCapabilities(false, false)
	assert.False(t, none.IsOwner())
	assert.False(t, none.IsTransporter())
}

func TestPackageBooked(t *testing.T) {
	pkg := &Package{Status: PackageStatusAvailable}
	assert.False(t, pkg.Booked())

	pkg.Status = PackageStatusNegotiating
	assert.False(t, pkg.Booked())

	for _, status := range []PackageStatus{PackageStatusBooked, PackageStatusLoaded, PackageStatusDelivered} {
		pkg.Status = status
		assert.True(t, pkg.Booked(), string(status))
	}
}

func TestPublicProjectionHidesParties(t *testing.T) {
	transporterID := primitive.NewObjectID()
	pkg := &Package{
		ID:       primitive.NewObjectID(),
		UserID:   primitive.NewObjectID(),
		BookedBy: &transporterID,
		Title:    "Machine parts",
	}

	public := pkg.Public()
	assert.Equal(t, pkg.ID, public.ID)
	assert.Equal(t, pkg.Title, public.Title)
}

func TestChatRoomKeyIsOrderInsensitive(t *testing.T) {
	packageID := primitive.NewObjectID()
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	assert.Equal(t, ChatRoomKey(packageID, a, b), ChatRoomKey(packageID, b, a))
	assert.NotEqual(t, ChatRoomKey(packageID, a, b), ChatRoomKey(primitive.NewObjectID(), a, b))
	assert.Contains(t, ChatRoomKey(packageID, a, b), packageID.Hex())
}

func TestOfferIsParticipant(t *testing.T) {
	sender := primitive.NewObjectID()
	receiver := primitive.NewObjectID()
	offer := &Offer{SenderID: sender, ReceiverID: receiver}

	assert.True(t, offer.IsParticipant(sender))
	assert.True(t, offer.IsParticipant(receiver))
	assert.False(t, offer.IsParticipant(primitive.NewObjectID()))
}

func TestChatRoomHasParticipant(t *testing.T) {
	room := &ChatRoom{OwnerID: primitive.NewObjectID(), TransporterID: primitive.NewObjectID()}

	assert.True(t, room.HasParticipant(room.OwnerID))
	assert.True(t, room.HasParticipant(room.TransporterID))
	assert.False(t, room.HasParticipant(primitive.NewObjectID()))
}
