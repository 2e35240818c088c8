package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tradedocs/internal/common"
	"tradedocs/internal/models"
	"tradedocs/internal/repositories"
	"tradedocs/internal/services"
)

// ItemHandlers handles HTTP requests for the item master
type ItemHandlers struct {
	itemService services.ItemService
}

// NewItemHandlers creates a new item handlers instance
func NewItemHandlers(itemService services.ItemService) *ItemHandlers {
	return &ItemHandlers{itemService: itemService}
}

// CreateItem handles POST /items
func (h *ItemHandlers) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var item models.Item
	if err := c.Bind(&item); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.itemService.Create(ctx, &item); err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, item)
}

// GetItem handles GET /items/:id
func (h *ItemHandlers) GetItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	item, err := h.itemService.Get(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "item")
		}
		return common.SendServerError(c, "Failed to retrieve item: "+err.Error())
	}
	return c.JSON(http.StatusOK, item)
}

// UpdateItem handles PUT /items/:id
func (h *ItemHandlers) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var item models.Item
	if err := c.Bind(&item); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	item.ID = id

	if err := h.itemService.Update(ctx, &item); err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "item")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, item)
}

// ListItems handles GET /items with q, limit and offset params
func (h *ItemHandlers) ListItems(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationParams(c)
	items, err := h.itemService.List(ctx, c.QueryParam("q"), limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list items: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// DeleteItem handles DELETE /items/:id
func (h *ItemHandlers) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.itemService.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "item")
		}
		return common.SendServerError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
