package handlers

import (
	"cargolink/internal/middleware"
	"cargolink/internal/services"
	"cargolink/internal/utils"

	"github.com/gin-gonic/gin"
)

type TrackingHandler struct {
	trackingService services.TrackingService
}

func NewTrackingHandler(trackingService services.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

func (h *TrackingHandler) Report(c *gin.Context) {
	var request services.ReportPositionRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	tracking, err := h.trackingService.Report(c.Request.Context(), middleware.GetViewer(c), &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Position recorded", tracking)
}

func (h *TrackingHandler) GetForPackage(c *gin.Context) {
	packageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	tracking, err := h.trackingService.GetForPackage(c.Request.Context(), middleware.GetViewer(c), packageID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Tracking", tracking)
}

func (h *TrackingHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	rows, total, err := h.trackingService.List(c.Request.Context(), middleware.GetViewer(c), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Tracking", rows, listMeta(params, total, len(rows)))
}

func (h *TrackingHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.trackingService.Delete(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
