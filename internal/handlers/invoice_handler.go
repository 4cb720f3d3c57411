package handlers

import (
	"fmt"
	"net/http"

	"cargolink/internal/middleware"
	"cargolink/internal/services"
	"cargolink/internal/utils"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	invoiceService services.InvoiceService
}

func NewInvoiceHandler(invoiceService services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

func (h *InvoiceHandler) Generate(c *gin.Context) {
	packageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Generate(c.Request.Context(), middleware.GetViewer(c), packageID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.CreatedResponse(c, "Invoice issued", invoice)
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Invoice", invoice)
}

func (h *InvoiceHandler) List(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	invoices, total, err := h.invoiceService.List(c.Request.Context(), middleware.GetViewer(c), params)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Invoices", invoices, listMeta(params, total, len(invoices)))
}

func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.MarkPaid(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Invoice marked paid", invoice)
}

func (h *InvoiceHandler) DownloadPDF(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	data, filename, err := h.invoiceService.DownloadPDF(c.Request.Context(), middleware.GetViewer(c), id)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
