package handlers

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"

	"tradedocs/internal/common"
	"tradedocs/internal/repositories"
	"tradedocs/internal/services"
)

// SpreadsheetHandlers handles xlsx import and export endpoints
type SpreadsheetHandlers struct {
	spreadsheetService services.SpreadsheetService
}

// NewSpreadsheetHandlers creates a new spreadsheet handlers instance
func NewSpreadsheetHandlers(spreadsheetService services.SpreadsheetService) *SpreadsheetHandlers {
	return &SpreadsheetHandlers{spreadsheetService: spreadsheetService}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportItems handles POST /items/import with a multipart xlsx file
func (h *SpreadsheetHandlers) ImportItems(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload: "+err.Error())
	}
	defer src.Close()

	result, err := h.spreadsheetService.ImportItems(ctx, src)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// ImportLocations handles POST /locations/import with a multipart xlsx file
func (h *SpreadsheetHandlers) ImportLocations(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload: "+err.Error())
	}
	defer src.Close()

	result, err := h.spreadsheetService.ImportLocations(ctx, src)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// ImportBuyers handles POST /buyers/import with a multipart xlsx file
func (h *SpreadsheetHandlers) ImportBuyers(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload: "+err.Error())
	}
	defer src.Close()

	result, err := h.spreadsheetService.ImportBuyers(ctx, src)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// ImportInvoices handles POST /invoices/import with a multipart xlsx file
func (h *SpreadsheetHandlers) ImportInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "file is required")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload: "+err.Error())
	}
	defer src.Close()

	result, err := h.spreadsheetService.ImportInvoices(ctx, src)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

// ExportInvoices handles GET /invoices/export
func (h *SpreadsheetHandlers) ExportInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repositories.InvoiceFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("q"),
	}

	data, err := h.spreadsheetService.ExportInvoices(ctx, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to export invoices: "+err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="invoices.xlsx"`)
	return c.Stream(http.StatusOK, xlsxContentType, bytes.NewReader(data))
}
