package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tradedocs/internal/common"
	"tradedocs/internal/models"
	"tradedocs/internal/repositories"
	"tradedocs/internal/services"
)

// WorkflowHandlers handles HTTP requests for the dispatch workflow: the
// delivery challan, transport charges, confirmation uploads and the final
// merged bundle.
type WorkflowHandlers struct {
	workflowService services.WorkflowService
}

// NewWorkflowHandlers creates a new workflow handlers instance
func NewWorkflowHandlers(workflowService services.WorkflowService) *WorkflowHandlers {
	return &WorkflowHandlers{workflowService: workflowService}
}

func invoiceIDParam(c echo.Context) (uuid.UUID, error) {
	return common.ValidateUUID(c.Param("id"), "id")
}

// GetChallan handles POST /invoices/:id/challan (get-or-create)
func (h *WorkflowHandlers) GetChallan(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	challan, err := h.workflowService.GetOrCreateChallan(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, challan)
}

// UpdateChallan handles PUT /invoices/:id/challan
func (h *WorkflowHandlers) UpdateChallan(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Date  string  `json:"date"`
		Notes *string `json:"notes"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	challan, err := h.workflowService.UpdateChallan(ctx, id, date, req.Notes)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, challan)
}

// DownloadChallanPDF handles GET /invoices/:id/challan/pdf
func (h *WorkflowHandlers) DownloadChallanPDF(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	data, filename, err := h.workflowService.RenderChallanPDF(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendClientError(c, err.Error())
	}
	return sendPDF(c, filename, data)
}

// GetTransport handles POST /invoices/:id/transport (get-or-create)
func (h *WorkflowHandlers) GetTransport(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	transport, err := h.workflowService.GetOrCreateTransport(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, transport)
}

// UpdateTransport handles PUT /invoices/:id/transport
func (h *WorkflowHandlers) UpdateTransport(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Date        string          `json:"date"`
		Charges     decimal.Decimal `json:"charges"`
		Description *string         `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	date, err := common.ParseDate(req.Date, "date")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	transport, err := h.workflowService.UpdateTransport(ctx, id, date, req.Charges, req.Description)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, transport)
}

// DownloadTransportPDF handles GET /invoices/:id/transport/pdf
func (h *WorkflowHandlers) DownloadTransportPDF(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	data, filename, err := h.workflowService.RenderTransportPDF(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendClientError(c, err.Error())
	}
	return sendPDF(c, filename, data)
}

// GetConfirmation handles POST /invoices/:id/confirmation (get-or-create)
func (h *WorkflowHandlers) GetConfirmation(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	doc, err := h.workflowService.GetOrCreateConfirmation(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, doc)
}

// UploadConfirmationFile handles POST /invoices/:id/confirmation/files/:kind
// where kind is "po" or "email". The file arrives as multipart form data.
func (h *WorkflowHandlers) UploadConfirmationFile(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	kind := c.Param("kind")
	if kind != models.SourcePO && kind != models.SourceEmail {
		return common.SendClientError(c, "kind must be po or email")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload: "+err.Error())
	}
	defer src.Close()

	doc, err := h.workflowService.UploadConfirmationFile(ctx, id, kind, fileHeader.Filename, src, fileHeader.Size)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, doc)
}

// AddPackedImage handles POST /invoices/:id/confirmation/images
func (h *WorkflowHandlers) AddPackedImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload: "+err.Error())
	}
	defer src.Close()

	var notes *string
	if v := c.FormValue("notes"); v != "" {
		notes = &v
	}

	image, err := h.workflowService.AddPackedImage(ctx, id, fileHeader.Filename, src, fileHeader.Size, notes)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, image)
}

// ListPackedImages handles GET /invoices/:id/confirmation/images
func (h *WorkflowHandlers) ListPackedImages(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	images, err := h.workflowService.ListPackedImages(ctx, id)
	if err != nil {
		return common.SendServerError(c, "Failed to list packed images: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"images": images,
		"count":  len(images),
	})
}

// DeletePackedImage handles DELETE /invoices/:id/confirmation/images/:imageID
func (h *WorkflowHandlers) DeletePackedImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	imageID, err := common.ValidateUUID(c.Param("imageID"), "imageID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.workflowService.DeletePackedImage(ctx, id, imageID); err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "packed image")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// Finalize handles POST /invoices/:id/finalize. The optional file_order body
// field reorders the bundle sections.
func (h *WorkflowHandlers) Finalize(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		FileOrder []string `json:"file_order"`
	}
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return common.SendClientError(c, "Invalid request format")
		}
	}

	doc, skipped, err := h.workflowService.Finalize(ctx, id, req.FileOrder)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"confirmation": doc,
		"skipped":      skipped,
	})
}

// DownloadCombined handles GET /invoices/:id/confirmation/pdf
func (h *WorkflowHandlers) DownloadCombined(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := invoiceIDParam(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	data, filename, err := h.workflowService.GetCombined(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendClientError(c, err.Error())
	}
	return sendPDF(c, filename, data)
}
