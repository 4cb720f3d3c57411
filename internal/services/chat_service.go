package services

import (
	"context"
	"strings"

	"cargolink/internal/authz"
	"cargolink/internal/models"
	"cargolink/internal/repositories/interfaces"
	"cargolink/internal/utils"
	"cargolink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatService interface {
	Rooms(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.ChatRoom, int64, error)
	Messages(ctx context.Context, viewer authz.Viewer, roomID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error)

	// Ongoing is the cross-room feed: every message in every conversation
	// the viewer participates in, newest first.
	Ongoing(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error)

	// ResolveRoom and SaveMessage back the websocket hub.
	ResolveRoom(ctx context.Context, packageID, viewerID, partnerID primitive.ObjectID) (primitive.ObjectID, string, error)
	SaveMessage(ctx context.Context, roomID, senderID primitive.ObjectID, text string) error
}

type chatService struct {
	chatRepo    interfaces.ChatRepository
	packageRepo interfaces.PackageRepository
	logger      *logger.Logger
}

func NewChatService(
	chatRepo interfaces.ChatRepository,
	packageRepo interfaces.PackageRepository,
	logger *logger.Logger,
) ChatService {
	return &chatService{
		chatRepo:    chatRepo,
		packageRepo: packageRepo,
		logger:      logger,
	}
}

func (s *chatService) Rooms(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.ChatRoom, int64, error) {
	return s.chatRepo.ListRooms(ctx, authz.ScopeChatRooms(viewer), params)
}

func (s *chatService) Messages(ctx context.Context, viewer authz.Viewer, roomID primitive.ObjectID, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error) {
	room, err := s.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		return nil, 0, err
	}
	if !authz.CanAccessChatRoom(viewer, room) {
		return nil, 0, utils.NewNotFoundError("Chat room")
	}
	return s.chatRepo.ListMessages(ctx, roomID, params)
}

func (s *chatService) Ongoing(ctx context.Context, viewer authz.Viewer, params *utils.PaginationParams) ([]*models.ChatMessage, int64, error) {
	return s.chatRepo.ListOngoingMessages(ctx, authz.ScopeChatRooms(viewer), params)
}

// ResolveRoom validates that the viewer and partner are the two legitimate
// parties of a package negotiation (its owner on one side, a transporter on
// the other) and lazily creates the persisted room for the pair.
func (s *chatService) ResolveRoom(ctx context.Context, packageID, viewerID, partnerID primitive.ObjectID) (primitive.ObjectID, string, error) {
	if viewerID == partnerID {
		return primitive.NilObjectID, "", utils.NewValidationError("cannot open a chat with yourself")
	}

	pkg, err := s.packageRepo.GetByID(ctx, packageID)
	if err != nil {
		return primitive.NilObjectID, "", err
	}

	var ownerID, transporterID primitive.ObjectID
	switch pkg.UserID {
	case viewerID:
		ownerID, transporterID = viewerID, partnerID
	case partnerID:
		ownerID, transporterID = partnerID, viewerID
	default:
		return primitive.NilObjectID, "", utils.NewPermissionError("chat is limited to the package owner and a transporter")
	}

	// Once booked, the owner talks to the booked transporter only.
	if pkg.BookedBy != nil && *pkg.BookedBy != transporterID {
		return primitive.NilObjectID, "", utils.NewPermissionError("package is booked by another transporter")
	}

	room, err := s.chatRepo.GetOrCreateRoom(ctx, packageID, ownerID, transporterID)
	if err != nil {
		return primitive.NilObjectID, "", err
	}

	return room.ID, models.ChatRoomKey(packageID, ownerID, transporterID), nil
}

func (s *chatService) SaveMessage(ctx context.Context, roomID, senderID primitive.ObjectID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return utils.NewValidationError("message cannot be empty")
	}
	if len(text) > utils.MaxMessageLength {
		return utils.NewValidationError("message is too long")
	}

	room, err := s.chatRepo.GetRoomByID(ctx, roomID)
	if err != nil {
		return err
	}
	if !room.HasParticipant(senderID) {
		return utils.NewPermissionError("sender is not a participant of this room")
	}

	return s.chatRepo.CreateMessage(ctx, &models.ChatMessage{
		RoomID:   roomID,
		SenderID: senderID,
		Message:  text,
	})
}
