package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
)

// Offer is a priced proposal against a package. Counter-offers mutate the
// row in place; ChangedByOwner records which side moved last so the client
// knows who must respond next.
type Offer struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PackageID      primitive.ObjectID `json:"package_id" bson:"package_id"`
	SenderID       primitive.ObjectID `json:"sender_id" bson:"sender_id"`
	ReceiverID     primitive.ObjectID `json:"receiver_id" bson:"receiver_id"`
	OfferPrice     float64            `json:"offer_price" bson:"offer_price" validate:"required,gt=0"`
	Status         OfferStatus        `json:"status" bson:"status"`
	ChangedByOwner bool               `json:"changed_by_owner" bson:"changed_by_owner"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsParticipant reports whether the user is the offer's sender or receiver.
func (o *Offer) IsParticipant(userID primitive.ObjectID) bool {
	return o.SenderID == userID || o.ReceiverID == userID
}
