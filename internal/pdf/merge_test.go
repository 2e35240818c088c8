package pdf

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/models"
)

func testCompany() *models.CompanyProfile {
	return &models.CompanyProfile{
		Name:              "Trisol Enterprises",
		Address:           "12 Industrial Layout, Bengaluru",
		ContactNumber:     "+91 9000000000",
		Email:             "accounts@trisol.example",
		GSTIN:             "29AAAAA0000A1Z5",
		State:             "Karnataka",
		StateCode:         "29",
		BankName:          "State Bank",
		AccountHolderName: "Trisol Enterprises",
		AccountNumber:     "000111222333",
		IFSCCode:          "SBIN0000001",
		BranchName:        "MG Road",
	}
}

func testInvoice() (*models.SalesInvoice, []*models.InvoiceItem) {
	num := "Tsol-00042"
	words := "INR Two Thousand Three Hundred Sixty Only"
	taxWords := "INR Three Hundred Sixty Only"
	pos := "29"
	inv := &models.SalesInvoice{
		ID:               uuid.New(),
		Date:             time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		DisplayNumber:    &num,
		Status:           models.StatusDraft,
		PaymentTerms:     "30 Days",
		PlaceOfSupply:    &pos,
		CGSTTotal:        decimal.RequireFromString("180.00"),
		SGSTTotal:        decimal.RequireFromString("180.00"),
		Total:            decimal.RequireFromString("2360.00"),
		AmountInWords:    &words,
		TaxAmountInWords: &taxWords,
		Location: &models.StoreLocation{
			Name:      "Metro Store Whitefield",
			Address:   "ITPL Main Road, Bengaluru",
			State:     "Karnataka",
			StateCode: "29",
		},
	}
	items := []*models.InvoiceItem{
		{
			Price:           decimal.RequireFromString("1000.00"),
			GSTRate:         decimal.RequireFromString("0.18"),
			QuantityBilled:  2,
			QuantityShipped: 2,
			DiscountType:    models.DiscountPercentage,
			DiscountValue:   decimal.Zero,
			Item: &models.Item{
				Name:   "Steel Rack 5x3",
				HSNSAC: "94032010",
				Unit:   "Nos",
			},
		},
	}
	return inv, items
}

func renderTestInvoice(t *testing.T) []byte {
	t.Helper()
	inv, items := testInvoice()
	data, err := RenderInvoice(inv, items, testCompany(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	return data
}

func TestRenderInvoice_ProducesValidPDF(t *testing.T) {
	data := renderTestInvoice(t)
	pages, err := PageCount(data)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, pages, 1)
}

func TestRenderChallan_ProducesValidPDF(t *testing.T) {
	inv, items := testInvoice()
	vehicle := "KA-01-AB-1234"
	dc := &models.DeliveryChallan{Date: time.Now(), Notes: &vehicle}

	data, err := RenderChallan(inv, dc, items, testCompany(), nil)
	require.NoError(t, err)

	_, err = PageCount(data)
	assert.NoError(t, err)
}

func TestRenderTransport_ProducesValidPDF(t *testing.T) {
	inv, _ := testInvoice()
	desc := "KA-01-AB-1234"
	transport := &models.TransportCharges{
		Date:        time.Now(),
		Charges:     decimal.RequireFromString("1500.00"),
		Description: &desc,
	}

	data, err := RenderTransport(inv, transport, testCompany(), nil)
	require.NoError(t, err)

	_, err = PageCount(data)
	assert.NoError(t, err)
}

func TestMerge_CombinesSourcesInOrder(t *testing.T) {
	first := renderTestInvoice(t)
	second := renderTestInvoice(t)

	merged, skipped, err := Merge([]MergeSource{
		{Name: models.SourceInvoice, Data: first},
		{Name: models.SourceChallan, Data: second},
	})
	require.NoError(t, err)
	assert.Empty(t, skipped)

	firstPages, err := PageCount(first)
	require.NoError(t, err)
	mergedPages, err := PageCount(merged)
	require.NoError(t, err)
	assert.Equal(t, firstPages*2, mergedPages)
}

func TestMerge_SkipsMissingAndCorruptSources(t *testing.T) {
	valid := renderTestInvoice(t)

	merged, skipped, err := Merge([]MergeSource{
		{Name: models.SourceInvoice, Data: valid},
		{Name: models.SourcePO, Data: nil},
		{Name: models.SourceEmail, Data: []byte("not a pdf at all")},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{models.SourcePO, models.SourceEmail}, skipped)

	_, err = PageCount(merged)
	assert.NoError(t, err)
}

func TestMerge_AllSourcesInvalid(t *testing.T) {
	_, skipped, err := Merge([]MergeSource{
		{Name: models.SourcePO, Data: nil},
		{Name: models.SourceEmail, Data: []byte("garbage")},
	})
	assert.ErrorIs(t, err, ErrNothingToMerge)
	assert.Len(t, skipped, 2)
}

func TestRenderImageAppendix_NoDecodablePhotos(t *testing.T) {
	data, err := RenderImageAppendix("Tsol-00042", []PackedPhoto{
		{Data: []byte("corrupt"), Notes: "front of truck"},
	})
	require.NoError(t, err)
	assert.Nil(t, data)
}
