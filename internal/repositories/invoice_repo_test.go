package repositories

import (
	"context"
	"testing"
	"time"

	"tradedocs/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func stringPtr(s string) *string { return &s }

type InvoiceRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    InvoiceRepository
	context context.Context
}

func (suite *InvoiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInvoiceRepo(mock)
	suite.context = context.Background()
}

func (suite *InvoiceRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestInvoiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepoTestSuite))
}

func (suite *InvoiceRepoTestSuite) newInvoice() *models.SalesInvoice {
	return &models.SalesInvoice{
		ID:           uuid.New(),
		LocationID:   uuid.New(),
		Date:         time.Now(),
		Status:       models.StatusDraft,
		PaymentTerms: "30 Days",
		CGSTTotal:    decimal.Zero,
		SGSTTotal:    decimal.Zero,
		IGSTTotal:    decimal.Zero,
		Total:        decimal.Zero,
	}
}

func (suite *InvoiceRepoTestSuite) TestCreateWithNumber_FirstInvoice() {
	invoice := suite.newInvoice()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT display_number FROM sales_invoices`).
		WithArgs("Tsol").
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectExec(`INSERT INTO sales_invoices`).
		WithArgs(invoice.ID, invoice.BuyerID, invoice.LocationID, invoice.Date, stringPtr("Tsol-00001"),
			invoice.ReferenceNumber, invoice.Status, invoice.DeliveryNote, invoice.PaymentTerms,
			invoice.ReferenceNoDate, invoice.OtherReferences, invoice.BuyersOrderNo, invoice.BuyersOrderDate,
			invoice.DispatchDocNo, invoice.DeliveryNoteDate, invoice.DispatchedThrough, invoice.Destination,
			invoice.TermsOfDelivery, invoice.Remark, invoice.CustomerGSTIN, invoice.PlaceOfSupply,
			invoice.CGSTTotal, invoice.SGSTTotal, invoice.IGSTTotal, invoice.Total,
			invoice.AmountInWords, invoice.TaxAmountInWords).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.CreateWithNumber(suite.context, invoice, "Tsol")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Tsol-00001", *invoice.DisplayNumber)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InvoiceRepoTestSuite) TestCreateWithNumber_IncrementsHighest() {
	invoice := suite.newInvoice()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT display_number FROM sales_invoices`).
		WithArgs("Tsol").
		WillReturnRows(pgxmock.NewRows([]string{"display_number"}).AddRow("Tsol-00041"))
	suite.mock.ExpectExec(`INSERT INTO sales_invoices`).
		WithArgs(invoice.ID, invoice.BuyerID, invoice.LocationID, invoice.Date, stringPtr("Tsol-00042"),
			invoice.ReferenceNumber, invoice.Status, invoice.DeliveryNote, invoice.PaymentTerms,
			invoice.ReferenceNoDate, invoice.OtherReferences, invoice.BuyersOrderNo, invoice.BuyersOrderDate,
			invoice.DispatchDocNo, invoice.DeliveryNoteDate, invoice.DispatchedThrough, invoice.Destination,
			invoice.TermsOfDelivery, invoice.Remark, invoice.CustomerGSTIN, invoice.PlaceOfSupply,
			invoice.CGSTTotal, invoice.SGSTTotal, invoice.IGSTTotal, invoice.Total,
			invoice.AmountInWords, invoice.TaxAmountInWords).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.CreateWithNumber(suite.context, invoice, "Tsol")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Tsol-00042", *invoice.DisplayNumber)
}

func (suite *InvoiceRepoTestSuite) TestCreateWithNumber_GrowsPastZeroPadding() {
	invoice := suite.newInvoice()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT display_number FROM sales_invoices`).
		WithArgs("Tsol").
		WillReturnRows(pgxmock.NewRows([]string{"display_number"}).AddRow("Tsol-99999"))
	suite.mock.ExpectExec(`INSERT INTO sales_invoices`).
		WithArgs(invoice.ID, invoice.BuyerID, invoice.LocationID, invoice.Date, stringPtr("Tsol-100000"),
			invoice.ReferenceNumber, invoice.Status, invoice.DeliveryNote, invoice.PaymentTerms,
			invoice.ReferenceNoDate, invoice.OtherReferences, invoice.BuyersOrderNo, invoice.BuyersOrderDate,
			invoice.DispatchDocNo, invoice.DeliveryNoteDate, invoice.DispatchedThrough, invoice.Destination,
			invoice.TermsOfDelivery, invoice.Remark, invoice.CustomerGSTIN, invoice.PlaceOfSupply,
			invoice.CGSTTotal, invoice.SGSTTotal, invoice.IGSTTotal, invoice.Total,
			invoice.AmountInWords, invoice.TaxAmountInWords).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectCommit()

	err := suite.repo.CreateWithNumber(suite.context, invoice, "Tsol")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Tsol-100000", *invoice.DisplayNumber)
}

func (suite *InvoiceRepoTestSuite) TestCreateWithNumber_UniqueViolationSurfaces() {
	invoice := suite.newInvoice()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`SELECT display_number FROM sales_invoices`).
		WithArgs("Tsol").
		WillReturnRows(pgxmock.NewRows([]string{"display_number"}).AddRow("Tsol-00010"))
	suite.mock.ExpectExec(`INSERT INTO sales_invoices`).
		WithArgs(invoice.ID, invoice.BuyerID, invoice.LocationID, invoice.Date, stringPtr("Tsol-00011"),
			invoice.ReferenceNumber, invoice.Status, invoice.DeliveryNote, invoice.PaymentTerms,
			invoice.ReferenceNoDate, invoice.OtherReferences, invoice.BuyersOrderNo, invoice.BuyersOrderDate,
			invoice.DispatchDocNo, invoice.DeliveryNoteDate, invoice.DispatchedThrough, invoice.Destination,
			invoice.TermsOfDelivery, invoice.Remark, invoice.CustomerGSTIN, invoice.PlaceOfSupply,
			invoice.CGSTTotal, invoice.SGSTTotal, invoice.IGSTTotal, invoice.Total,
			invoice.AmountInWords, invoice.TaxAmountInWords).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	suite.mock.ExpectRollback()

	err := suite.repo.CreateWithNumber(suite.context, invoice, "Tsol")
	assert.Error(suite.T(), err)
	assert.True(suite.T(), IsUniqueViolation(err))
}

func (suite *InvoiceRepoTestSuite) TestSoftDeleteAndRestore() {
	id := uuid.New()

	suite.mock.ExpectExec(`UPDATE sales_invoices SET is_deleted = true`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(suite.T(), suite.repo.SoftDelete(suite.context, id))

	suite.mock.ExpectExec(`UPDATE sales_invoices SET is_deleted = false`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(suite.T(), suite.repo.Restore(suite.context, id))
}

func (suite *InvoiceRepoTestSuite) TestUpdateStatus() {
	id := uuid.New()

	suite.mock.ExpectExec(`UPDATE sales_invoices SET status = \$1`).
		WithArgs(models.StatusChallanLogged, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.UpdateStatus(suite.context, id, models.StatusChallanLogged))
}

func (suite *InvoiceRepoTestSuite) TestPurge_RemovesItemsFirst() {
	id := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`DELETE FROM invoice_items WHERE invoice_id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	suite.mock.ExpectExec(`DELETE FROM sales_invoices WHERE id = \$1 AND is_deleted = true`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectCommit()

	assert.NoError(suite.T(), suite.repo.Purge(suite.context, id))
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func TestNextSequence(t *testing.T) {
	cases := []struct {
		name    string
		highest string
		want    int
	}{
		{"empty series starts at one", "", 1},
		{"increments the max", "Tsol-00041", 42},
		{"corrupt suffix restarts at one", "Tsol-abc", 1},
		{"missing separator restarts at one", "Tsol00041", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextSequence(tc.highest, "Tsol"))
		})
	}
}

func TestFormatDisplayNumber(t *testing.T) {
	assert.Equal(t, "Tsol-00001", FormatDisplayNumber("Tsol", 1))
	assert.Equal(t, "Tsol-00042", FormatDisplayNumber("Tsol", 42))
	assert.Equal(t, "Tsol-123456", FormatDisplayNumber("Tsol", 123456))
}
