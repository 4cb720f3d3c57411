package handlers

import (
	"cargolink/internal/middleware"
	"cargolink/internal/services"
	"cargolink/internal/utils"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

func (h *ChatHandler) Rooms(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	rooms, total, err := h.chatService.Rooms(c.Request.Context(), middleware.GetViewer(c), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Chat rooms", rooms, listMeta(params, total, len(rooms)))
}

func (h *ChatHandler) Messages(c *gin.Context) {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	messages, total, err := h.chatService.Messages(c.Request.Context(), middleware.GetViewer(c), roomID, params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Messages", messages, listMeta(params, total, len(messages)))
}

func (h *ChatHandler) Ongoing(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	messages, total, err := h.chatService.Ongoing(c.Request.Context(), middleware.GetViewer(c), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Messages", messages, listMeta(params, total, len(messages)))
}
