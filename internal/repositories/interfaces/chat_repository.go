package interfaces

import (
	"context"

	"cargolink/internal/models"
	"cargolink/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatRepository interface {
	// GetOrCreateRoom resolves the unique room for a package's owner and
	// transporter pair, creating it lazily on first contact.
	GetOrCreateRoom(ctx context.Context, packageID, ownerID, transporterID primitive.ObjectID) (*models.ChatRoom, error)
	GetRoomByID(ctx context.Context, id primitive.ObjectID) (*models.ChatRoom, error)
	ListRooms(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.ChatRoom, int64, error)

	CreateMessage(ctx context.Context, message *models.ChatMessage) error
	ListMessages(ctx context.Context, roomID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error)

	// ListOngoingMessages returns messages across every room matching the
	// room filter, newest first.
	ListOngoingMessages(ctx context.Context, roomFilter bson.M, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error)
}
