package handlers

import (
	"cargolink/internal/middleware"
	"cargolink/internal/services"
	"cargolink/internal/utils"

	"github.com/gin-gonic/gin"
)

type OfferHandler struct {
	offerService services.OfferService
}

func NewOfferHandler(offerService services.OfferService) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
	}
}

func (h *OfferHandler) Create(c *gin.Context) {
	var request services.CreateOfferRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	offer, err := h.offerService.Create(c.Request.Context(), middleware.GetViewer(c), &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Offer submitted", offer)
}

func (h *OfferHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	offer, err := h.offerService.Get(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Offer", offer)
}

func (h *OfferHandler) MyOffers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	offers, total, err := h.offerService.MyOffers(c.Request.Context(), middleware.GetViewer(c), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Offers", offers, listMeta(params, total, len(offers)))
}

func (h *OfferHandler) ForPackage(c *gin.Context) {
	packageID, ok := pathID(c, "id")
	if !ok {
		return
	}
	params := utils.GetPaginationParams(c)

	offers, total, err := h.offerService.ForPackage(c.Request.Context(), middleware.GetViewer(c), packageID, params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Offers", offers, listMeta(params, total, len(offers)))
}

func (h *OfferHandler) Counter(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var request services.CounterOfferRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	offer, err := h.offerService.Counter(c.Request.Context(), middleware.GetViewer(c), id, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Offer countered", offer)
}

func (h *OfferHandler) Accept(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	pkg, err := h.offerService.Accept(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Offer accepted", pkg)
}

func (h *OfferHandler) Reject(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	offer, err := h.offerService.Reject(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Offer rejected", offer)
}

func (h *OfferHandler) Book(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	pkg, err := h.offerService.Book(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Package booked", pkg)
}
