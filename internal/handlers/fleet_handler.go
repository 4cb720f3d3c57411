package handlers

import (
	"cargolink/internal/middleware"
	"cargolink/internal/services"
	"cargolink/internal/utils"

	"github.com/gin-gonic/gin"
)

type FleetHandler struct {
	fleetService services.FleetService
}

func NewFleetHandler(fleetService services.FleetService) *FleetHandler {
	return &FleetHandler{
		fleetService: fleetService,
	}
}

func (h *FleetHandler) CreateVehicle(c *gin.Context) {
	var request services.CreateVehicleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	vehicle, err := h.fleetService.CreateVehicle(c.Request.Context(), middleware.GetViewer(c), &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Vehicle registered", vehicle)
}

func (h *FleetHandler) GetVehicle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	vehicle, err := h.fleetService.GetVehicle(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle", vehicle)
}

func (h *FleetHandler) ListVehicles(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	vehicles, total, err := h.fleetService.ListVehicles(c.Request.Context(), middleware.GetViewer(c), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Vehicles", vehicles, listMeta(params, total, len(vehicles)))
}

func (h *FleetHandler) UpdateVehicle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var request services.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	vehicle, err := h.fleetService.UpdateVehicle(c.Request.Context(), middleware.GetViewer(c), id, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Vehicle updated", vehicle)
}

func (h *FleetHandler) DeleteVehicle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.fleetService.DeleteVehicle(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *FleetHandler) CreateStaff(c *gin.Context) {
	var request services.CreateStaffRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	staff, err := h.fleetService.CreateStaff(c.Request.Context(), middleware.GetViewer(c), &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Staff assigned", staff)
}

func (h *FleetHandler) GetStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	staff, err := h.fleetService.GetStaff(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Staff", staff)
}

func (h *FleetHandler) ListStaff(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	staff, total, err := h.fleetService.ListStaff(c.Request.Context(), middleware.GetViewer(c), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Staff", staff, listMeta(params, total, len(staff)))
}

func (h *FleetHandler) UpdateStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var request services.UpdateStaffRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	staff, err := h.fleetService.UpdateStaff(c.Request.Context(), middleware.GetViewer(c), id, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Staff updated", staff)
}

func (h *FleetHandler) DeleteStaff(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.fleetService.DeleteStaff(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *FleetHandler) Crews(c *gin.Context) {
	crews, err := h.fleetService.Crews(c.Request.Context(), middleware.GetViewer(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Crews", crews)
}
