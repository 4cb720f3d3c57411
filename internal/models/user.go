package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Capability string

const (
	CapabilityOwner       Capability = "owner"
	CapabilityTransporter Capability = "transporter"
)

// Capabilities is the set of marketplace roles a user holds. A user may hold
// both, one, or neither; the authz package pattern-matches over this set.
type Capabilities []Capability

func (c Capabilities) Has(capability Capability) bool {
	for _, held := range c {
		if held == capability {
			return true
		}
	}
	return false
}

func (c Capabilities) IsOwner() bool       { return c.Has(CapabilityOwner) }
func (c Capabilities) IsTransporter() bool { return c.Has(CapabilityTransporter) }

func NewCapabilities(owner, transporter bool) Capabilities {
	caps := Capabilities{}
	if owner {
		caps = append(caps, CapabilityOwner)
	}
	if transporter {
		caps = append(caps, CapabilityTransporter)
	}
	return caps
}

type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Username     string             `json:"username" bson:"username" validate:"required,min=3,max=50"`
	Email        string             `json:"email" bson:"email" validate:"required,email"`
	Password     string             `json:"-" bson:"password"`
	Capabilities Capabilities       `json:"capabilities" bson:"capabilities"`
	IsAdmin      bool               `json:"is_admin" bson:"is_admin"`
	IsActive     bool               `json:"is_active" bson:"is_active"`
	CompanyName  string             `json:"company_name" bson:"company_name"`
	PhoneNo      string             `json:"phone_no" bson:"phone_no"`
	Address      string             `json:"address" bson:"address"`
	State        string             `json:"state" bson:"state"`
	Country      string             `json:"country" bson:"country"`
	LastLoginAt  *time.Time         `json:"last_login_at" bson:"last_login_at"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}

// SafeUser is the public projection of a user exposed alongside packages and
// offers: no contact or address data.
type SafeUser struct {
	ID          primitive.ObjectID `json:"id"`
	Username    string             `json:"username"`
	CompanyName string             `json:"company_name"`
}

func (u *User) Safe() *SafeUser {
	return &SafeUser{
		ID:          u.ID,
		Username:    u.Username,
		CompanyName: u.CompanyName,
	}
}
