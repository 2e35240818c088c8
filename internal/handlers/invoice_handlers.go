package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"tradedocs/internal/common"
	"tradedocs/internal/repositories"
	"tradedocs/internal/services"
)

// InvoiceHandlers handles HTTP requests for sales invoices
type InvoiceHandlers struct {
	invoiceService services.InvoiceService
}

// NewInvoiceHandlers creates a new invoice handlers instance
func NewInvoiceHandlers(invoiceService services.InvoiceService) *InvoiceHandlers {
	return &InvoiceHandlers{invoiceService: invoiceService}
}

type invoiceLineRequest struct {
	ItemID          string           `json:"item_id"`
	QuantityShipped int              `json:"quantity_shipped"`
	QuantityBilled  int              `json:"quantity_billed"`
	DiscountType    string           `json:"discount_type"`
	DiscountValue   decimal.Decimal  `json:"discount_value"`
	Price           *decimal.Decimal `json:"price"`
	GSTRate         *decimal.Decimal `json:"gst_rate"`
}

type invoiceRequest struct {
	BuyerID           *string              `json:"buyer_id"`
	LocationID        string               `json:"location_id"`
	Date              string               `json:"date"`
	ReferenceNumber   *string              `json:"reference_number"`
	DeliveryNote      *string              `json:"delivery_note"`
	PaymentTerms      string               `json:"payment_terms"`
	ReferenceNoDate   *string              `json:"reference_no_date"`
	OtherReferences   string               `json:"other_references"`
	BuyersOrderNo     *string              `json:"buyers_order_no"`
	BuyersOrderDate   string               `json:"buyers_order_date"`
	DispatchDocNo     *string              `json:"dispatch_doc_no"`
	DeliveryNoteDate  string               `json:"delivery_note_date"`
	DispatchedThrough *string              `json:"dispatched_through"`
	Destination       *string              `json:"destination"`
	TermsOfDelivery   *string              `json:"terms_of_delivery"`
	Remark            *string              `json:"remark"`
	CustomerGSTIN     *string              `json:"customer_gstin"`
	PlaceOfSupply     *string              `json:"place_of_supply"`
	Lines             []invoiceLineRequest `json:"lines"`
}

// toInput validates the request and converts it to a service input.
func (req *invoiceRequest) toInput() (*services.InvoiceInput, error) {
	locationID, err := common.ValidateUUID(req.LocationID, "location_id")
	if err != nil {
		return nil, err
	}

	input := &services.InvoiceInput{
		LocationID:        locationID,
		ReferenceNumber:   req.ReferenceNumber,
		DeliveryNote:      req.DeliveryNote,
		PaymentTerms:      req.PaymentTerms,
		ReferenceNoDate:   req.ReferenceNoDate,
		OtherReferences:   req.OtherReferences,
		BuyersOrderNo:     req.BuyersOrderNo,
		DispatchDocNo:     req.DispatchDocNo,
		DispatchedThrough: req.DispatchedThrough,
		Destination:       req.Destination,
		TermsOfDelivery:   req.TermsOfDelivery,
		Remark:            req.Remark,
		CustomerGSTIN:     req.CustomerGSTIN,
		PlaceOfSupply:     req.PlaceOfSupply,
	}

	if req.BuyerID != nil && *req.BuyerID != "" {
		buyerID, err := common.ValidateUUID(*req.BuyerID, "buyer_id")
		if err != nil {
			return nil, err
		}
		input.BuyerID = &buyerID
	}
	if err := common.ValidateGSTIN(common.SafeString(req.CustomerGSTIN), "customer_gstin"); err != nil {
		return nil, err
	}
	if input.Date, err = common.ParseDate(req.Date, "date"); err != nil {
		return nil, err
	}
	if input.BuyersOrderDate, err = common.ParseDate(req.BuyersOrderDate, "buyers_order_date"); err != nil {
		return nil, err
	}
	if input.DeliveryNoteDate, err = common.ParseDate(req.DeliveryNoteDate, "delivery_note_date"); err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		itemID, err := common.ValidateUUID(line.ItemID, "item_id")
		if err != nil {
			return nil, err
		}
		input.Lines = append(input.Lines, services.LineInput{
			ItemID:          itemID,
			QuantityShipped: line.QuantityShipped,
			QuantityBilled:  line.QuantityBilled,
			DiscountType:    line.DiscountType,
			DiscountValue:   line.DiscountValue,
			Price:           line.Price,
			GSTRate:         line.GSTRate,
		})
	}
	return input, nil
}

// CreateInvoice handles POST /invoices
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	var req invoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	input, err := req.toInput()
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.Create(ctx, input)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusCreated, invoice)
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, items, err := h.invoiceService.Get(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to retrieve invoice: "+err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoice": invoice,
		"items":   items,
	})
}

// UpdateInvoice handles PUT /invoices/:id
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req invoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	input, err := req.toInput()
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.Update(ctx, id, input)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, invoice)
}

// ListInvoices handles GET /invoices with status, q, limit and offset params
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repositories.InvoiceFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("q"),
	}
	filter.Limit, filter.Offset = paginationParams(c)

	invoices, err := h.invoiceService.List(ctx, filter)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"count":    len(invoices),
	})
}

// ListTrash handles GET /invoices/trash
func (h *InvoiceHandlers) ListTrash(c echo.Context) error {
	ctx := c.Request().Context()

	limit, offset := paginationParams(c)
	invoices, err := h.invoiceService.ListTrash(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list trash: "+err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"invoices": invoices,
		"count":    len(invoices),
	})
}

// TrashInvoice handles DELETE /invoices/:id (soft delete)
func (h *InvoiceHandlers) TrashInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.invoiceService.Trash(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// RestoreInvoice handles POST /invoices/:id/restore
func (h *InvoiceHandlers) RestoreInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.invoiceService.Restore(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// PurgeInvoice handles DELETE /invoices/trash/:id (permanent delete)
func (h *InvoiceHandlers) PurgeInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.invoiceService.Purge(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// DownloadInvoicePDF handles GET /invoices/:id/pdf
func (h *InvoiceHandlers) DownloadInvoicePDF(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	data, filename, err := h.invoiceService.RenderPDF(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return common.SendNotFoundError(c, "invoice")
		}
		return common.SendServerError(c, "Failed to generate PDF: "+err.Error())
	}
	return sendPDF(c, filename, data)
}

// sendPDF streams a generated document as an attachment download.
func sendPDF(c echo.Context, filename string, data []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Stream(http.StatusOK, "application/pdf", bytes.NewReader(data))
}

// paginationParams reads limit and offset query parameters with defaults.
func paginationParams(c echo.Context) (int, int) {
	limit, offset := 0, 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			limit = l
		}
	}
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if o, err := strconv.Atoi(offsetParam); err == nil && o >= 0 {
			offset = o
		}
	}
	return common.ValidatePaginationParams(limit, offset)
}
