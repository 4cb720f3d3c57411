package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the uniqueness and lookup indexes the marketplace
// relies on: unique usernames/emails, globally unique invoice numbers and
// truck numbers, one invoice per package, one chat room per (package,
// owner, transporter) triple, and one tracking row per package.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		"packages": {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "booked_by", Value: 1}}},
		},
		"offers": {
			{Keys: bson.D{{Key: "package_id", Value: 1}}},
			{Keys: bson.D{{Key: "sender_id", Value: 1}}},
			{Keys: bson.D{{Key: "receiver_id", Value: 1}}},
		},
		"chat_rooms": {
			{Keys: bson.D{
				{Key: "package_id", Value: 1},
				{Key: "owner_id", Value: 1},
				{Key: "transporter_id", Value: 1},
			}, Options: unique},
		},
		"chat_messages": {
			{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "timestamp", Value: 1}}},
		},
		"invoices": {
			{Keys: bson.D{{Key: "invoice_number", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "package_id", Value: 1}}, Options: unique},
		},
		"tracking": {
			{Keys: bson.D{{Key: "package_id", Value: 1}}, Options: unique},
		},
		"vehicles": {
			{Keys: bson.D{{Key: "truck_number", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "transporter_id", Value: 1}}},
		},
		"staff": {
			{Keys: bson.D{{Key: "vehicle_id", Value: 1}, {Key: "role", Value: 1}}},
			{Keys: bson.D{{Key: "transporter_id", Value: 1}}},
		},
	}

	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}

	return nil
}
