package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/models"
	"tradedocs/internal/pdf"
)

type workflowFixture struct {
	*invoiceFixture
	wf            WorkflowService
	challans      *fakeChallanRepo
	transports    *fakeTransportRepo
	confirmations *fakeConfirmationRepo
	storage       *fakeStorage
	invoice       *models.SalesInvoice
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()

	base := newInvoiceFixture(t)
	invoice, err := base.svc.Create(context.Background(), base.input())
	require.NoError(t, err)

	challans := newFakeChallanRepo()
	transports := newFakeTransportRepo()
	confirmations := newFakeConfirmationRepo()
	storage := newFakeStorage()
	company := &fakeCompanyService{company: &models.CompanyProfile{
		Name:      "Trisol Enterprises",
		State:     "Karnataka",
		StateCode: "29",
	}}
	activity := NewActivityService(&fakeActivityRepo{}, testLogger())

	wf := NewWorkflowService(base.invoices, challans, transports, confirmations,
		company, storage, activity, testLogger())

	return &workflowFixture{
		invoiceFixture: base,
		wf:             wf,
		challans:       challans,
		transports:     transports,
		confirmations:  confirmations,
		storage:        storage,
		invoice:        invoice,
	}
}

func (fx *workflowFixture) status(t *testing.T) string {
	t.Helper()
	invoice, err := fx.invoices.GetByID(context.Background(), fx.invoice.ID)
	require.NoError(t, err)
	return invoice.Status
}

func TestChallan_CreateAdvancesStatusOnce(t *testing.T) {
	fx := newWorkflowFixture(t)
	ctx := context.Background()

	challan, err := fx.wf.GetOrCreateChallan(ctx, fx.invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusChallanLogged, fx.status(t))

	// Revisiting returns the same record and does not advance again.
	again, err := fx.wf.GetOrCreateChallan(ctx, fx.invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, challan.ID, again.ID)
	assert.Equal(t, models.StatusChallanLogged, fx.status(t))
	assert.Len(t, fx.invoices.statusWrites, 1)
}

func TestTransport_RequiresChallanFirst(t *testing.T) {
	fx := newWorkflowFixture(t)
	ctx := context.Background()

	_, err := fx.wf.GetOrCreateTransport(ctx, fx.invoice.ID)
	assert.Error(t, err, "transport step is gated on the challan")

	_, err = fx.wf.GetOrCreateChallan(ctx, fx.invoice.ID)
	require.NoError(t, err)

	_, err = fx.wf.GetOrCreateTransport(ctx, fx.invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusTransportLogged, fx.status(t))
}

func TestTransport_UpdateRejectsNegativeCharges(t *testing.T) {
	fx := newWorkflowFixture(t)
	ctx := context.Background()

	_, err := fx.wf.GetOrCreateChallan(ctx, fx.invoice.ID)
	require.NoError(t, err)

	_, err = fx.wf.UpdateTransport(ctx, fx.invoice.ID, time.Now(), decimal.RequireFromString("-5"), nil)
	assert.Error(t, err)

	transport, err := fx.wf.UpdateTransport(ctx, fx.invoice.ID, time.Now(), decimal.RequireFromString("1500.00"), nil)
	require.NoError(t, err)
	assert.Equal(t, "1500.00", transport.Charges.StringFixed(2))
}

func TestConfirmation_RequiresTransportFirst(t *testing.T) {
	fx := newWorkflowFixture(t)
	ctx := context.Background()

	_, err := fx.wf.GetOrCreateConfirmation(ctx, fx.invoice.ID)
	assert.Error(t, err)

	_, err = fx.wf.GetOrCreateChallan(ctx, fx.invoice.ID)
	require.NoError(t, err)
	_, err = fx.wf.GetOrCreateTransport(ctx, fx.invoice.ID)
	require.NoError(t, err)

	doc, err := fx.wf.GetOrCreateConfirmation(ctx, fx.invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, fx.invoice.ID, doc.InvoiceID)
	// The confirmation step alone does not advance the status.
	assert.Equal(t, models.StatusTransportLogged, fx.status(t))
}

func TestFinalize_GatedUntilTransportLogged(t *testing.T) {
	fx := newWorkflowFixture(t)
	ctx := context.Background()

	_, _, err := fx.wf.Finalize(ctx, fx.invoice.ID, nil)
	assert.Error(t, err)
	assert.Equal(t, models.StatusDraft, fx.status(t), "failed finalize must not move the status")
}

func TestFinalize_BuildsBundleAndAdvances(t *testing.T) {
	fx := newWorkflowFixture(t)
	ctx := context.Background()

	_, err := fx.wf.GetOrCreateChallan(ctx, fx.invoice.ID)
	require.NoError(t, err)
	_, err = fx.wf.UpdateTransport(ctx, fx.invoice.ID, time.Now(), decimal.RequireFromString("1200.00"), nil)
	require.NoError(t, err)

	doc, skipped, err := fx.wf.Finalize(ctx, fx.invoice.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, doc.CombinedPDFKey)
	assert.Equal(t, models.StatusFinalized, fx.status(t))

	// No PO or approval files were uploaded; those sources are skipped
	// silently rather than failing the bundle.
	assert.ElementsMatch(t, []string{models.SourcePO, models.SourceEmail}, skipped)

	data, filename, err := fx.wf.GetCombined(ctx, fx.invoice.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "confirmation_invoice_Tsol-00001.pdf", filename)
}

func TestFinalize_IncludesUploadedFiles(t *testing.T) {
	fx := newWorkflowFixture(t)
	ctx := context.Background()

	_, err := fx.wf.GetOrCreateChallan(ctx, fx.invoice.ID)
	require.NoError(t, err)
	_, err = fx.wf.UpdateTransport(ctx, fx.invoice.ID, time.Now(), decimal.RequireFromString("800.00"), nil)
	require.NoError(t, err)

	// Upload a valid PDF as the purchase order; reuse a rendered invoice.
	po, _, err := fx.svc.RenderPDF(ctx, fx.invoice.ID)
	require.NoError(t, err)
	_, err = fx.wf.UploadConfirmationFile(ctx, fx.invoice.ID, models.SourcePO, "po.pdf", bytes.NewReader(po), int64(len(po)))
	require.NoError(t, err)

	_, skipped, err := fx.wf.Finalize(ctx, fx.invoice.ID, nil)
	require.NoError(t, err)
	assert.NotContains(t, skipped, models.SourcePO)
	assert.Contains(t, skipped, models.SourceEmail)
}

func TestFinalize_CustomOrderBundlesOnlyRequestedSources(t *testing.T) {
	fx := newWorkflowFixture(t)
	ctx := context.Background()

	_, err := fx.wf.GetOrCreateChallan(ctx, fx.invoice.ID)
	require.NoError(t, err)
	_, err = fx.wf.GetOrCreateTransport(ctx, fx.invoice.ID)
	require.NoError(t, err)

	// No PO was uploaded, so of the three requested sources only the
	// invoice and challan make it into the bundle. Transport and the
	// approval email were not asked for and must not sneak in.
	doc, skipped, err := fx.wf.Finalize(ctx, fx.invoice.ID, []string{models.SourceInvoice, models.SourceChallan, models.SourcePO})
	require.NoError(t, err)
	assert.Equal(t, []string{models.SourcePO}, skipped)

	invoicePDF, _, err := fx.svc.RenderPDF(ctx, fx.invoice.ID)
	require.NoError(t, err)
	challanPDF, _, err := fx.wf.RenderChallanPDF(ctx, fx.invoice.ID)
	require.NoError(t, err)
	wantPages, err := pdf.PageCount(invoicePDF)
	require.NoError(t, err)
	challanPages, err := pdf.PageCount(challanPDF)
	require.NoError(t, err)
	wantPages += challanPages

	require.NotNil(t, doc.CombinedPDFKey)
	bundle, err := fx.storage.Download(ctx, *doc.CombinedPDFKey)
	require.NoError(t, err)
	gotPages, err := pdf.PageCount(bundle)
	require.NoError(t, err)
	assert.Equal(t, wantPages, gotPages)
}

func TestFinalize_CustomOrderRejectsUnknownSource(t *testing.T) {
	fx := newWorkflowFixture(t)
	ctx := context.Background()

	_, err := fx.wf.GetOrCreateChallan(ctx, fx.invoice.ID)
	require.NoError(t, err)
	_, err = fx.wf.GetOrCreateTransport(ctx, fx.invoice.ID)
	require.NoError(t, err)

	_, _, err = fx.wf.Finalize(ctx, fx.invoice.ID, []string{"invoice", "bogus"})
	assert.Error(t, err)
}

func TestFinalize_IsRepeatable(t *testing.T) {
	fx := newWorkflowFixture(t)
	ctx := context.Background()

	_, err := fx.wf.GetOrCreateChallan(ctx, fx.invoice.ID)
	require.NoError(t, err)
	_, err = fx.wf.GetOrCreateTransport(ctx, fx.invoice.ID)
	require.NoError(t, err)

	first, _, err := fx.wf.Finalize(ctx, fx.invoice.ID, nil)
	require.NoError(t, err)
	second, _, err := fx.wf.Finalize(ctx, fx.invoice.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, models.StatusFinalized, fx.status(t))
}

func TestNormalizeOrder(t *testing.T) {
	order, err := normalizeOrder(nil)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMergeOrder, order)

	order, err = normalizeOrder([]string{"po", "invoice", "po"})
	require.NoError(t, err)
	// Exactly the requested sources, deduped, in the requested order.
	assert.Equal(t, []string{"po", "invoice"}, order)

	_, err = normalizeOrder([]string{"nope"})
	assert.Error(t, err)
}
