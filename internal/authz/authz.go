// Package authz is the single authorization point for row-level data access.
// Every list handler asks Scope* for the visible-row filter and every
// object-level action asks Can*; no handler builds its own ownership checks.
package authz

import (
	"cargolink/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Viewer is the authenticated (or anonymous) principal a request acts as.
type Viewer struct {
	ID            primitive.ObjectID
	Capabilities  models.Capabilities
	IsAdmin       bool
	Authenticated bool
}

func Anonymous() Viewer {
	return Viewer{}
}

// DenyAll is a filter that matches no documents, used when a viewer has no
// visibility into a collection at all.
var DenyAll = bson.M{"_id": bson.M{"$exists": false}}

// ScopePackages returns the package-list filter for a viewer:
// admins see everything, owners their own listings, transporters the open
// market plus their bookings, everyone else nothing.
func ScopePackages(v Viewer) bson.M {
	if v.IsAdmin {
		return bson.M{}
	}
	if !v.Authenticated {
		return DenyAll
	}
	if v.Capabilities.IsOwner() {
		return bson.M{"user_id": v.ID}
	}
	if v.Capabilities.IsTransporter() {
		return bson.M{"$or": []bson.M{
			{"status": models.PackageStatusAvailable},
			{"booked_by": v.ID},
		}}
	}
	return DenyAll
}

// CanAccessPackage covers detail, update, and delete: the creator, the
// booking transporter, and admins.
func CanAccessPackage(v Viewer, pkg *models.Package) bool {
	if v.IsAdmin {
		return true
	}
	if !v.Authenticated {
		return false
	}
	if pkg.UserID == v.ID {
		return true
	}
	return pkg.BookedBy != nil && *pkg.BookedBy == v.ID
}

func CanDeletePackage(v Viewer, pkg *models.Package) bool {
	return CanAccessPackage(v, pkg)
}

// ScopeOffers limits offers to the negotiating pair.
func ScopeOffers(v Viewer) bson.M {
	if v.IsAdmin {
		return bson.M{}
	}
	if !v.Authenticated {
		return DenyAll
	}
	return bson.M{"$or": []bson.M{
		{"sender_id": v.ID},
		{"receiver_id": v.ID},
	}}
}

func CanAccessOffer(v Viewer, offer *models.Offer) bool {
	if v.IsAdmin {
		return true
	}
	return v.Authenticated && offer.IsParticipant(v.ID)
}

// ScopeChatRooms limits rooms to those the viewer participates in.
func ScopeChatRooms(v Viewer) bson.M {
	if v.IsAdmin {
		return bson.M{}
	}
	if !v.Authenticated {
		return DenyAll
	}
	return bson.M{"$or": []bson.M{
		{"owner_id": v.ID},
		{"transporter_id": v.ID},
	}}
}

func CanAccessChatRoom(v Viewer, room *models.ChatRoom) bool {
	if v.IsAdmin {
		return true
	}
	return v.Authenticated && room.HasParticipant(v.ID)
}

// ScopeInvoices: admins all, otherwise the issuing owner and the billed
// transporter. The transporter leg fixes the original system's omission
// where billed parties could not list their own invoices.
func ScopeInvoices(v Viewer) bson.M {
	if v.IsAdmin {
		return bson.M{}
	}
	if !v.Authenticated {
		return DenyAll
	}
	return bson.M{"$or": []bson.M{
		{"owner_id": v.ID},
		{"transporter_id": v.ID},
	}}
}

func CanAccessInvoice(v Viewer, invoice *models.Invoice) bool {
	if v.IsAdmin {
		return true
	}
	if !v.Authenticated {
		return false
	}
	return invoice.OwnerID == v.ID || invoice.TransporterID == v.ID
}

// Only the issuing owner (or an admin) may flip the paid flag.
func CanMarkInvoicePaid(v Viewer, invoice *models.Invoice) bool {
	if v.IsAdmin {
		return true
	}
	return v.Authenticated && invoice.OwnerID == v.ID
}

func ScopeTracking(v Viewer) bson.M {
	if v.IsAdmin {
		return bson.M{}
	}
	if !v.Authenticated {
		return DenyAll
	}
	return bson.M{"owner_id": v.ID}
}

func CanAccessTracking(v Viewer, tracking *models.Tracking) bool {
	if v.IsAdmin {
		return true
	}
	return v.Authenticated && tracking.OwnerID == v.ID
}

// ScopeVehicles is strictly the owning transporter; vehicles are not
// visible across accounts, not even to owners.
func ScopeVehicles(v Viewer) bson.M {
	if !v.Authenticated || !v.Capabilities.IsTransporter() {
		return DenyAll
	}
	return bson.M{"transporter_id": v.ID}
}

func CanAccessVehicle(v Viewer, vehicle *models.Vehicle) bool {
	return v.Authenticated && vehicle.TransporterID == v.ID
}

func ScopeStaff(v Viewer) bson.M {
	if v.IsAdmin {
		return bson.M{}
	}
	if !v.Authenticated || !v.Capabilities.IsTransporter() {
		return DenyAll
	}
	return bson.M{"transporter_id": v.ID}
}

func CanAccessStaff(v Viewer, staff *models.Staff) bool {
	if v.IsAdmin {
		return true
	}
	return v.Authenticated && staff.TransporterID == v.ID
}
