package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tracking holds the last reported position for a package, one row per
// package. Live GPS streaming is out of scope; this is plain CRUD state.
type Tracking struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	PackageID primitive.ObjectID `json:"package_id" bson:"package_id"`
	OwnerID   primitive.ObjectID `json:"owner_id" bson:"owner_id"`
	Latitude  *float64           `json:"latitude" bson:"latitude"`
	Longitude *float64           `json:"longitude" bson:"longitude"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}
