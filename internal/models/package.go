package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PackageStatus string

const (
	PackageStatusAvailable   PackageStatus = "Available"
	PackageStatusNegotiating PackageStatus = "Negotiating"
	PackageStatusBooked      PackageStatus = "Booked"
	PackageStatusLoaded      PackageStatus = "Loaded"
	PackageStatusDelivered   PackageStatus = "Delivered"
)

// BookingOrigin records which path finalized a booking.
type BookingOrigin string

const (
	BookingOriginDirect      BookingOrigin = "direct"
	BookingOriginOfferAccept BookingOrigin = "offer_accept"
	BookingOriginOfferBook   BookingOrigin = "offer_book"
)

type Package struct {
	ID               primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID           primitive.ObjectID  `json:"user_id" bson:"user_id"`
	BookedBy         *primitive.ObjectID `json:"booked_by" bson:"booked_by"`
	Title            string              `json:"title" bson:"title" validate:"required,max=100"`
	Description      string              `json:"description" bson:"description" validate:"max=300"`
	PickupLocation   string              `json:"pickup_location" bson:"pickup_location" validate:"required,max=300"`
	DropLocation     string              `json:"drop_location" bson:"drop_location" validate:"required,max=300"`
	Weight           float64             `json:"weight" bson:"weight" validate:"required,gt=0"`
	PriceExpectation float64             `json:"price_expectation" bson:"price_expectation" validate:"required,gt=0"`
	ImageKey         string              `json:"image_key" bson:"image_key"`
	Status           PackageStatus       `json:"status" bson:"status"`
	CreatedAt        time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at" bson:"updated_at"`
}

// Booked reports whether the package has entered the booked portion of its
// lifecycle. Invariant: BookedBy != nil exactly when this is true.
func (p *Package) Booked() bool {
	switch p.Status {
	case PackageStatusBooked, PackageStatusLoaded, PackageStatusDelivered:
		return true
	}
	return false
}

// PublicPackage is the marketplace projection: no owner or transporter refs.
type PublicPackage struct {
	ID               primitive.ObjectID `json:"id"`
	Title            string             `json:"title"`
	Description      string             `json:"description"`
	PickupLocation   string             `json:"pickup_location"`
	DropLocation     string             `json:"drop_location"`
	Weight           float64            `json:"weight"`
	PriceExpectation float64            `json:"price_expectation"`
	ImageKey         string             `json:"image_key"`
	Status           PackageStatus      `json:"status"`
	CreatedAt        time.Time          `json:"created_at"`
}

func (p *Package) Public() *PublicPackage {
	return &PublicPackage{
		ID:               p.ID,
		Title:            p.Title,
		Description:      p.Description,
		PickupLocation:   p.PickupLocation,
		DropLocation:     p.DropLocation,
		Weight:           p.Weight,
		PriceExpectation: p.PriceExpectation,
		ImageKey:         p.ImageKey,
		Status:           p.Status,
		CreatedAt:        p.CreatedAt,
	}
}
