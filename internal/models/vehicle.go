package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Vehicle struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TransporterID primitive.ObjectID `json:"transporter_id" bson:"transporter_id"`
	TruckModel    string             `json:"truck_model" bson:"truck_model"`
	TruckNumber   string             `json:"truck_number" bson:"truck_number" validate:"required,max=50"`
	Capacity      float64            `json:"capacity" bson:"capacity" validate:"required,gt=0"`
	Wheels        int                `json:"wheels" bson:"wheels"`
	Available     bool               `json:"available" bson:"available"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
