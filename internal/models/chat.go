package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatRoom is the persisted two-party room for a package negotiation,
// unique per (package, owner, transporter) triple.
type ChatRoom struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PackageID     primitive.ObjectID `json:"package_id" bson:"package_id"`
	OwnerID       primitive.ObjectID `json:"owner_id" bson:"owner_id"`
	TransporterID primitive.ObjectID `json:"transporter_id" bson:"transporter_id"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
}

func (r *ChatRoom) HasParticipant(userID primitive.ObjectID) bool {
	return r.OwnerID == userID || r.TransporterID == userID
}

type ChatMessage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	RoomID    primitive.ObjectID `json:"room_id" bson:"room_id"`
	SenderID  primitive.ObjectID `json:"sender_id" bson:"sender_id"`
	Message   string             `json:"message" bson:"message" validate:"required,max=1000"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

// ChatRoomKey derives the ephemeral broadcast channel for a package and a
// pair of participants. The two ids are ordered lexicographically so both
// sides resolve the same key regardless of who connects first.
func ChatRoomKey(packageID, a, b primitive.ObjectID) string {
	lo, hi := a.Hex(), b.Hex()
	if lo > hi {
		lo, hi = hi, lo
	}
	return fmt.Sprintf("chat_%s_%s_%s", packageID.Hex(), lo, hi)
}
