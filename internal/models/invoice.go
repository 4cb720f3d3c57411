package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Invoice struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PackageID primitive.ObjectID `json:"package_id" bson:"package_id"`
	// OwnerID is denormalized from the package at issue time so row-level
	// scoping never needs a join.
	OwnerID       primitive.ObjectID `json:"owner_id" bson:"owner_id"`
	TransporterID primitive.ObjectID `json:"transporter_id" bson:"transporter_id"`
	InvoiceNumber string             `json:"invoice_number" bson:"invoice_number"`
	Amount        float64            `json:"amount" bson:"amount" validate:"required,gt=0"`
	Paid          bool               `json:"paid" bson:"paid"`
	IssuedAt      time.Time          `json:"issued_at" bson:"issued_at"`
}
