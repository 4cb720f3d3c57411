package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StaffRole string

const (
	StaffRoleDriver StaffRole = "driver"
	StaffRoleHelper StaffRole = "helper"
)

// Per-vehicle crew limits: one driver, two helpers.
const (
	MaxDriversPerVehicle = 1
	MaxHelpersPerVehicle = 2
)

type Staff struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TransporterID primitive.ObjectID `json:"transporter_id" bson:"transporter_id"`
	VehicleID     primitive.ObjectID `json:"vehicle_id" bson:"vehicle_id"`
	Name          string             `json:"name" bson:"name" validate:"required,max=100"`
	Contact       string             `json:"contact" bson:"contact" validate:"required,min=7,max=15"`
	LicenseNumber string             `json:"license_number" bson:"license_number"`
	Role          StaffRole          `json:"role" bson:"role" validate:"required,oneof=driver helper"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// VehicleCrew is the grouped staff-by-vehicle view: one driver plus helpers.
type VehicleCrew struct {
	TruckNumber string   `json:"truck_number"`
	Driver      *Staff   `json:"driver"`
	Helpers     []*Staff `json:"helpers"`
}
