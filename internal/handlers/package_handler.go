package handlers

import (
	"io"
	"net/http"

	"cargolink/internal/middleware"
	"cargolink/internal/services"
	"cargolink/internal/utils"
	"cargolink/pkg/storage"

	"github.com/gin-gonic/gin"
)

type PackageHandler struct {
	packageService services.PackageService
}

func NewPackageHandler(packageService services.PackageService) *PackageHandler {
	return &PackageHandler{
		packageService: packageService,
	}
}

func (h *PackageHandler) Create(c *gin.Context) {
	var request services.CreatePackageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	pkg, err := h.packageService.Create(c.Request.Context(), middleware.GetViewer(c), &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Package posted", pkg)
}

func (h *PackageHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	pkg, err := h.packageService.Get(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Package", pkg)
}

func (h *PackageHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	packages, total, err := h.packageService.List(c.Request.Context(), middleware.GetViewer(c), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Packages", packages, listMeta(params, total, len(packages)))
}

func (h *PackageHandler) Marketplace(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	packages, total, err := h.packageService.Marketplace(c.Request.Context(), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Marketplace", packages, listMeta(params, total, len(packages)))
}

func (h *PackageHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var request services.UpdatePackageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	pkg, err := h.packageService.Update(c.Request.Context(), middleware.GetViewer(c), id, &request)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Package updated", pkg)
}

func (h *PackageHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.packageService.Delete(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *PackageHandler) Book(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	pkg, err := h.packageService.BookDirect(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Package booked", pkg)
}

func (h *PackageHandler) MarkLoaded(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	pkg, err := h.packageService.MarkLoaded(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Package loaded", pkg)
}

func (h *PackageHandler) Deliver(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	pkg, err := h.packageService.Deliver(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Package delivered", pkg)
}

func (h *PackageHandler) CurrentDeliveries(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	packages, total, err := h.packageService.CurrentDeliveries(c.Request.Context(), middleware.GetViewer(c), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Current deliveries", packages, listMeta(params, total, len(packages)))
}

func (h *PackageHandler) LoadedPackages(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	packages, total, err := h.packageService.LoadedPackages(c.Request.Context(), middleware.GetViewer(c), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Loaded packages", packages, listMeta(params, total, len(packages)))
}

func (h *PackageHandler) UploadImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, "image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		utils.BadRequestResponse(c, "could not read uploaded file")
		return
	}
	defer file.Close()

	upload := &storage.UploadRequest{
		Key:         fileHeader.Filename,
		Reader:      io.Reader(file),
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}

	pkg, err := h.packageService.UploadImage(c.Request.Context(), middleware.GetViewer(c), id, upload)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Image attached", pkg)
}

func (h *PackageHandler) ImageURL(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	url, err := h.packageService.ImageURL(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
