package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"tradedocs/internal/models"
	"tradedocs/internal/repositories"
)

// RowError describes one rejected spreadsheet row. Import never aborts on a
// bad row; it collects the error and keeps going.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes a spreadsheet import.
type ImportResult struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors,omitempty"`
}

type SpreadsheetService interface {
	ImportItems(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ImportLocations(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ImportBuyers(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ImportInvoices(ctx context.Context, reader io.Reader) (*ImportResult, error)
	ExportInvoices(ctx context.Context, filter repositories.InvoiceFilter) ([]byte, error)
}

type spreadsheetService struct {
	items      ItemService
	parties    PartyService
	invoiceSvc InvoiceService
	workflow   WorkflowService
	invoices   repositories.InvoiceRepository
	itemsRepo  repositories.ItemRepository
	buyers     repositories.BuyerRepository
	locations  repositories.LocationRepository
	log        *logrus.Logger
}

func NewSpreadsheetService(items ItemService, parties PartyService, invoiceSvc InvoiceService, workflow WorkflowService, invoices repositories.InvoiceRepository, itemsRepo repositories.ItemRepository, buyers repositories.BuyerRepository, locations repositories.LocationRepository, log *logrus.Logger) SpreadsheetService {
	return &spreadsheetService{
		items: items, parties: parties, invoiceSvc: invoiceSvc, workflow: workflow,
		invoices: invoices, itemsRepo: itemsRepo, buyers: buyers, locations: locations, log: log,
	}
}

func readRows(reader io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ImportItems loads the item master from a sheet with the columns
// name, description, article code, HSN/SAC, price, unit, GST rate percent.
// The first row is the header. Rows naming an existing item update it.
func (s *spreadsheetService) ImportItems(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	rows, err := readRows(reader)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		rowNum := i + 1

		name := cell(row, 0)
		if name == "" {
			result.Skipped++
			continue
		}

		price, err := decimal.NewFromString(cell(row, 4))
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "invalid price: " + cell(row, 4)})
			continue
		}
		ratePct, err := decimal.NewFromString(cell(row, 6))
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "invalid gst rate: " + cell(row, 6)})
			continue
		}
		rate := ratePct.Div(decimal.NewFromInt(100))

		item := &models.Item{
			Name:    name,
			HSNSAC:  cell(row, 3),
			Price:   price,
			Unit:    cell(row, 5),
			GSTRate: rate,
		}
		if v := cell(row, 1); v != "" {
			item.Description = &v
		}
		if v := cell(row, 2); v != "" {
			item.ArticleCode = &v
		}

		if existing, err := s.itemByName(ctx, name); err == nil {
			item.ID = existing.ID
			err = s.items.Update(ctx, item)
			if err != nil {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
				continue
			}
		} else if err := s.items.Create(ctx, item); err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Imported++
	}
	return result, nil
}

func (s *spreadsheetService) itemByName(ctx context.Context, name string) (*models.Item, error) {
	item, err := s.itemsRepo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("item %q not found", name)
	}
	return item, nil
}

// ImportLocations loads store locations from a sheet with the columns
// name, site code, address, city, state, pincode, GSTIN, priority.
func (s *spreadsheetService) ImportLocations(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	rows, err := readRows(reader)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		rowNum := i + 1

		name := cell(row, 0)
		if name == "" {
			result.Skipped++
			continue
		}

		location := &models.StoreLocation{
			Name:    name,
			Address: cell(row, 2),
			State:   cell(row, 4),
		}
		if v := cell(row, 1); v != "" {
			location.SiteCode = &v
		}
		if v := cell(row, 3); v != "" {
			location.City = &v
		}
		if v := cell(row, 5); v != "" {
			location.Pincode = &v
		}
		if v := cell(row, 6); v != "" {
			location.GSTIN = &v
		}
		if v := cell(row, 7); v != "" {
			location.Priority = &v
		}

		if existing, err := s.locations.GetByName(ctx, name); err == nil {
			location.ID = existing.ID
			if err := s.parties.UpdateLocation(ctx, location); err != nil {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
				continue
			}
		} else if err := s.parties.CreateLocation(ctx, location); err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportBuyers loads billing parties from a sheet with the columns
// name, address, state, GSTIN, pincode.
func (s *spreadsheetService) ImportBuyers(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	rows, err := readRows(reader)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		rowNum := i + 1

		name := cell(row, 0)
		if name == "" {
			result.Skipped++
			continue
		}

		buyer := &models.Buyer{
			Name:    name,
			Address: cell(row, 1),
			State:   cell(row, 2),
		}
		if v := cell(row, 3); v != "" {
			buyer.GSTIN = &v
		}
		if v := cell(row, 4); v != "" {
			buyer.Pincode = &v
		}

		if existing, err := s.buyers.GetByName(ctx, name); err == nil {
			buyer.ID = existing.ID
			if err := s.parties.UpdateBuyer(ctx, buyer); err != nil {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
				continue
			}
		} else if err := s.parties.CreateBuyer(ctx, buyer); err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportInvoices creates one single-line invoice per row. Columns: location
// name, item name, quantity, buyer name, date, buyer's order number, and an
// optional target stage (dc, trp or fin) to advance the workflow to.
func (s *spreadsheetService) ImportInvoices(ctx context.Context, reader io.Reader) (*ImportResult, error) {
	rows, err := readRows(reader)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i == 0 {
			continue
		}
		rowNum := i + 1

		locationName := cell(row, 0)
		if locationName == "" {
			result.Skipped++
			continue
		}

		location, err := s.locations.GetByName(ctx, locationName)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "unknown location: " + locationName})
			continue
		}
		item, err := s.itemByName(ctx, cell(row, 1))
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		qty, err := strconv.Atoi(cell(row, 2))
		if err != nil || qty <= 0 {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "invalid quantity: " + cell(row, 2)})
			continue
		}

		input := &InvoiceInput{
			LocationID: location.ID,
			Lines:      []LineInput{{ItemID: item.ID, QuantityBilled: qty}},
		}
		if name := cell(row, 3); name != "" {
			buyer, err := s.buyers.GetByName(ctx, name)
			if err != nil {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "unknown buyer: " + name})
				continue
			}
			input.BuyerID = &buyer.ID
		}
		if v := cell(row, 4); v != "" {
			date, err := time.Parse("2006-01-02", v)
			if err != nil {
				result.Errors = append(result.Errors, RowError{Row: rowNum, Message: "invalid date: " + v})
				continue
			}
			input.Date = date
		}
		if v := cell(row, 5); v != "" {
			input.BuyersOrderNo = &v
		}

		invoice, err := s.invoiceSvc.Create(ctx, input)
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		if err := s.advanceImported(ctx, invoice.ID, strings.ToUpper(cell(row, 6))); err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}
		result.Imported++
	}
	return result, nil
}

// advanceImported walks an imported invoice through the requested workflow
// stages. An empty stage leaves the invoice in draft.
func (s *spreadsheetService) advanceImported(ctx context.Context, invoiceID uuid.UUID, stage string) error {
	switch stage {
	case "", models.StatusDraft:
		return nil
	case models.StatusChallanLogged, models.StatusTransportLogged, models.StatusFinalized:
	default:
		return fmt.Errorf("unknown workflow stage %q", stage)
	}

	if _, err := s.workflow.GetOrCreateChallan(ctx, invoiceID); err != nil {
		return err
	}
	if stage == models.StatusChallanLogged {
		return nil
	}
	if _, err := s.workflow.GetOrCreateTransport(ctx, invoiceID); err != nil {
		return err
	}
	if stage == models.StatusTransportLogged {
		return nil
	}
	_, _, err := s.workflow.Finalize(ctx, invoiceID, nil)
	return err
}

// ExportInvoices writes the filtered invoice list as an xlsx workbook.
func (s *spreadsheetService) ExportInvoices(ctx context.Context, filter repositories.InvoiceFilter) ([]byte, error) {
	if filter.Limit <= 0 {
		filter.Limit = 1000
	}
	invoices, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []any{"Number", "Date", "Status", "Place of Supply", "Customer GSTIN", "CGST", "SGST", "IGST", "Total"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, inv := range invoices {
		gstin := ""
		if inv.CustomerGSTIN != nil {
			gstin = *inv.CustomerGSTIN
		}
		pos := ""
		if inv.PlaceOfSupply != nil {
			pos = *inv.PlaceOfSupply
		}
		row := []any{
			inv.Number(),
			inv.Date.Format("02-Jan-2006"),
			inv.Status,
			pos,
			gstin,
			inv.CGSTTotal.StringFixed(2),
			inv.SGSTTotal.StringFixed(2),
			inv.IGSTTotal.StringFixed(2),
			inv.Total.StringFixed(2),
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
