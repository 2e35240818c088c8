package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tradedocs/internal/common"
	"tradedocs/internal/models"
	"tradedocs/internal/repositories"
	"tradedocs/internal/services"
)

// PartyHandlers handles HTTP requests for buyers and store locations
type PartyHandlers struct {
	partyService services.PartyService
}

// NewPartyHandlers creates a new party handlers instance
func NewPartyHandlers(partyService services.PartyService) *PartyHandlers {
	return &PartyHandlers{partyService: partyService}
}

// CreateBuyer handles POST /buyers
func (h *PartyHandlers) CreateBuyer(c echo.Context) error {
	ctx := c.Request().Context()

	var buyer models.Buyer
	if err := c.Bind(&buyer); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateGSTIN(common.SafeString(buyer.GSTIN), "gstin"); err != nil {
		return common.SendValidationError(c, "gstin", err.Error())
	}

	if err := h.partyService.CreateBuyer(ctx, &buyer); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, buyer)
}

// GetBuyer handles GET /buyers/:id
func (h *PartyHandlers) GetBuyer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	buyer, err := h.partyService.GetBuyer(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "buyer")
		}
		return common.SendServerError(c, "Failed to retrieve buyer: "+err.Error())
	}
	return c.JSON(http.StatusOK, buyer)
}

// UpdateBuyer handles PUT /buyers/:id
func (h *PartyHandlers) UpdateBuyer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var buyer models.Buyer
	if err := c.Bind(&buyer); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	buyer.ID = id
	if err := common.ValidateGSTIN(common.SafeString(buyer.GSTIN), "gstin"); err != nil {
		return common.SendValidationError(c, "gstin", err.Error())
	}

	if err := h.partyService.UpdateBuyer(ctx, &buyer); err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "buyer")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, buyer)
}

// ListBuyers handles GET /buyers with q, limit and offset params
func (h *PartyHandlers) ListBuyers(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationParams(c)
	buyers, err := h.partyService.ListBuyers(ctx, c.QueryParam("q"), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list buyers: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"buyers": buyers,
		"count":  len(buyers),
	})
}

// DeleteBuyer handles DELETE /buyers/:id
func (h *PartyHandlers) DeleteBuyer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.partyService.DeleteBuyer(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "buyer")
		}
		return common.SendServerError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateLocation handles POST /locations
func (h *PartyHandlers) CreateLocation(c echo.Context) error {
	ctx := c.Request().Context()

	var location models.StoreLocation
	if err := c.Bind(&location); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateGSTIN(common.SafeString(location.GSTIN), "gstin"); err != nil {
		return common.SendValidationError(c, "gstin", err.Error())
	}

	if err := h.partyService.CreateLocation(ctx, &location); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, location)
}

// GetLocation handles GET /locations/:id
func (h *PartyHandlers) GetLocation(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	location, err := h.partyService.GetLocation(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "location")
		}
		return common.SendServerError(c, "Failed to retrieve location: "+err.Error())
	}
	return c.JSON(http.StatusOK, location)
}

// UpdateLocation handles PUT /locations/:id
func (h *PartyHandlers) UpdateLocation(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var location models.StoreLocation
	if err := c.Bind(&location); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	location.ID = id
	if err := common.ValidateGSTIN(common.SafeString(location.GSTIN), "gstin"); err != nil {
		return common.SendValidationError(c, "gstin", err.Error())
	}

	if err := h.partyService.UpdateLocation(ctx, &location); err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "location")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, location)
}

// ListLocations handles GET /locations with q, limit and offset params
func (h *PartyHandlers) ListLocations(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationParams(c)
	locations, err := h.partyService.ListLocations(ctx, c.QueryParam("q"), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list locations: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"locations": locations,
		"count":     len(locations),
	})
}

// DeleteLocation handles DELETE /locations/:id
func (h *PartyHandlers) DeleteLocation(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.partyService.DeleteLocation(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "location")
		}
		return common.SendServerError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
