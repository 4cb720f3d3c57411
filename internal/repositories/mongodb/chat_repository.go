package mongodb

import (
	"context"
	"fmt"
	"time"

	"cargolink/internal/models"
	"cargolink/internal/repositories/interfaces"
	"cargolink/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type chatRepository struct {
	rooms    *mongo.Collection
	messages *mongo.Collection
}

func NewChatRepository(db *mongo.Database) interfaces.ChatRepository {
	return &chatRepository{
		rooms:    db.Collection("chat_rooms"),
		messages: db.Collection("chat_messages"),
	}
}

// GetOrCreateRoom upserts on the (package, owner, transporter) triple so two
// concurrent first messages still land in a single room.
func (r *chatRepository) GetOrCreateRoom(ctx context.Context, packageID, ownerID, transporterID primitive.ObjectID) (*models.ChatRoom, error) {
	filter := bson.M{
		"package_id":     packageID,
		"owner_id":       ownerID,
		"transporter_id": transporterID,
	}
	update := bson.M{"$setOnInsert": bson.M{
		"package_id":     packageID,
		"owner_id":       ownerID,
		"transporter_id": transporterID,
		"created_at":     time.Now(),
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var room models.ChatRoom
	if err := r.rooms.FindOneAndUpdate(ctx, filter, update, opts).Decode(&room); err != nil {
		return nil, fmt.Errorf("failed to resolve chat room: %w", err)
	}
	return &room, nil
}

func (r *chatRepository) GetRoomByID(ctx context.Context, id primitive.ObjectID) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := r.rooms.FindOne(ctx, bson.M{"_id": id}).Decode(&room)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, utils.NewNotFoundError("Chat room")
		}
		return nil, fmt.Errorf("failed to get chat room: %w", err)
	}
	return &room, nil
}

func (r *chatRepository) ListRooms(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.ChatRoom, int64, error) {
	total, err := r.rooms.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count chat rooms: %w", err)
	}

	cursor, err := r.rooms.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list chat rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*models.ChatRoom
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, 0, fmt.Errorf("failed to decode chat rooms: %w", err)
	}
	return rooms, total, nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, message *models.ChatMessage) error {
	message.ID = primitive.NewObjectID()
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	_, err := r.messages.InsertOne(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, roomID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error) {
	filter := bson.M{"room_id": roomID}

	total, err := r.messages.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count chat messages: %w", err)
	}

	opts := options.Find().
		SetSkip(int64(params.GetSkip())).
		SetLimit(int64(params.PageSize)).
		SetSort(bson.D{{Key: "timestamp", Value: 1}})

	cursor, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*models.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, 0, fmt.Errorf("failed to decode chat messages: %w", err)
	}
	return messages, total, nil
}

func (r *chatRepository) ListOngoingMessages(ctx context.Context, roomFilter bson.M, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error) {
	roomIDs, err := r.rooms.Distinct(ctx, "_id", roomFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resolve chat rooms: %w", err)
	}
	if len(roomIDs) == 0 {
		return []*models.ChatMessage{}, 0, nil
	}

	filter := bson.M{"room_id": bson.M{"$in": roomIDs}}

	total, err := r.messages.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count chat messages: %w", err)
	}

	opts := options.Find().
		SetSkip(int64(params.GetSkip())).
		SetLimit(int64(params.PageSize)).
		SetSort(bson.D{{Key: "timestamp", Value: -1}})

	cursor, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list chat messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []*models.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, 0, fmt.Errorf("failed to decode chat messages: %w", err)
	}
	return messages, total, nil
}
