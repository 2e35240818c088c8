package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tradedocs/internal/common"
	"tradedocs/internal/models"
	"tradedocs/internal/services"
)

// CompanyHandlers handles HTTP requests for the seller profile
type CompanyHandlers struct {
	companyService services.CompanyService
}

// NewCompanyHandlers creates a new company handlers instance
func NewCompanyHandlers(companyService services.CompanyService) *CompanyHandlers {
	return &CompanyHandlers{companyService: companyService}
}

// GetProfile handles GET /company
func (h *CompanyHandlers) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	company, err := h.companyService.Get(ctx)
	if err != nil {
		return common.SendServerError(c, "Failed to load company profile: "+err.Error())
	}
	return c.JSON(http.StatusOK, company)
}

// UpdateProfile handles PUT /company
func (h *CompanyHandlers) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var company models.CompanyProfile
	if err := c.Bind(&company); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateGSTIN(company.GSTIN, "gstin"); err != nil {
		return common.SendValidationError(c, "gstin", err.Error())
	}

	if err := h.companyService.Update(ctx, &company); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, company)
}

// UploadSignature handles POST /company/signature
func (h *CompanyHandlers) UploadSignature(c echo.Context) error {
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

	if err := h.companyService.UploadSignature(ctx, fileHeader.Filename, src, fileHeader.Size); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
