package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"tradedocs/internal/models"
	"tradedocs/internal/pdf"
	"tradedocs/internal/repositories"
)

// WorkflowService drives an invoice through its dispatch lifecycle: the
// delivery challan, the transport bill, the confirmation uploads and the
// final merged bundle. Each step is reached lazily and each status advance
// moves exactly one step forward; revisiting a step is a no-op.
type WorkflowService interface {
	GetOrCreateChallan(ctx context.Context, invoiceID uuid.UUID) (*models.DeliveryChallan, error)
	UpdateChallan(ctx context.Context, invoiceID uuid.UUID, date time.Time, notes *string) (*models.DeliveryChallan, error)
	RenderChallanPDF(ctx context.Context, invoiceID uuid.UUID) ([]byte, string, error)

	GetOrCreateTransport(ctx context.Context, invoiceID uuid.UUID) (*models.TransportCharges, error)
	UpdateTransport(ctx context.Context, invoiceID uuid.UUID, date time.Time, charges decimal.Decimal, description *string) (*models.TransportCharges, error)
	RenderTransportPDF(ctx context.Context, invoiceID uuid.UUID) ([]byte, string, error)

	GetOrCreateConfirmation(ctx context.Context, invoiceID uuid.UUID) (*models.ConfirmationDocument, error)
	UploadConfirmationFile(ctx context.Context, invoiceID uuid.UUID, kind, filename string, reader io.Reader, size int64) (*models.ConfirmationDocument, error)
	AddPackedImage(ctx context.Context, invoiceID uuid.UUID, filename string, reader io.Reader, size int64, notes *string) (*models.PackedImage, error)
	ListPackedImages(ctx context.Context, invoiceID uuid.UUID) ([]*models.PackedImage, error)
	DeletePackedImage(ctx context.Context, invoiceID, imageID uuid.UUID) error

	Finalize(ctx context.Context, invoiceID uuid.UUID, fileOrder []string) (*models.ConfirmationDocument, []string, error)
	GetCombined(ctx context.Context, invoiceID uuid.UUID) ([]byte, string, error)
}

type workflowService struct {
	invoices      repositories.InvoiceRepository
	challans      repositories.ChallanRepository
	transports    repositories.TransportRepository
	confirmations repositories.ConfirmationRepository
	company       CompanyService
	storage       StorageService
	activity      ActivityService
	log           *logrus.Logger
}

func NewWorkflowService(
	invoices repositories.InvoiceRepository,
	challans repositories.ChallanRepository,
	transports repositories.TransportRepository,
	confirmations repositories.ConfirmationRepository,
	company CompanyService,
	storage StorageService,
	activity ActivityService,
	log *logrus.Logger,
) WorkflowService {
	return &workflowService{
		invoices: invoices, challans: challans, transports: transports,
		confirmations: confirmations, company: company, storage: storage,
		activity: activity, log: log,
	}
}

// advanceTo moves the invoice one step forward to target. Already at or
// past the target is a no-op, so revisiting a workflow step never moves the
// status backwards or double-advances it.
func (s *workflowService) advanceTo(ctx context.Context, inv *models.SalesInvoice, target string) error {
	if models.StatusAtLeast(inv.Status, target) {
		return nil
	}
	if err := s.invoices.UpdateStatus(ctx, inv.ID, target); err != nil {
		return fmt.Errorf("failed to advance invoice status: %w", err)
	}
	inv.Status = target
	return nil
}

func (s *workflowService) GetOrCreateChallan(ctx context.Context, invoiceID uuid.UUID) (*models.DeliveryChallan, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	challan, err := s.challans.GetByInvoice(ctx, invoiceID)
	if err == nil {
		return challan, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, err
	}

	challan = &models.DeliveryChallan{
		ID:        uuid.New(),
		InvoiceID: invoiceID,
		Date:      time.Now(),
	}
	if err := s.challans.Create(ctx, challan); err != nil {
		return nil, fmt.Errorf("failed to create delivery challan: %w", err)
	}
	if err := s.advanceTo(ctx, invoice, models.StatusChallanLogged); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, "challan.created", fmt.Sprintf("delivery challan logged for invoice %s", invoice.Number()))
	return challan, nil
}

func (s *workflowService) UpdateChallan(ctx context.Context, invoiceID uuid.UUID, date time.Time, notes *string) (*models.DeliveryChallan, error) {
	challan, err := s.GetOrCreateChallan(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !date.IsZero() {
		challan.Date = date
	}
	challan.Notes = notes
	if err := s.challans.Update(ctx, challan); err != nil {
		return nil, fmt.Errorf("failed to update delivery challan: %w", err)
	}
	return challan, nil
}

func (s *workflowService) RenderChallanPDF(ctx context.Context, invoiceID uuid.UUID) ([]byte, string, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	challan, err := s.challans.GetByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("no delivery challan logged for invoice %s", invoice.Number())
	}
	items, err := s.invoices.ListItems(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	company, err := s.company.Get(ctx)
	if err != nil {
		return nil, "", err
	}

	data, err := pdf.RenderChallan(invoice, challan, items, company, s.company.GetSignature(ctx))
	if err != nil {
		return nil, "", fmt.Errorf("failed to render challan PDF: %w", err)
	}
	return data, fmt.Sprintf("challan_%s.pdf", invoice.Number()), nil
}

// GetOrCreateTransport requires the challan step to be done first; the
// workflow never skips a stage.
func (s *workflowService) GetOrCreateTransport(ctx context.Context, invoiceID uuid.UUID) (*models.TransportCharges, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !models.StatusAtLeast(invoice.Status, models.StatusChallanLogged) {
		return nil, fmt.Errorf("invoice %s has no delivery challan yet", invoice.Number())
	}

	transport, err := s.transports.GetByInvoice(ctx, invoiceID)
	if err == nil {
		return transport, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, err
	}

	transport = &models.TransportCharges{
		ID:        uuid.New(),
		InvoiceID: invoiceID,
		Date:      time.Now(),
		Charges:   decimal.Zero,
	}
	if err := s.transports.Create(ctx, transport); err != nil {
		return nil, fmt.Errorf("failed to create transport charges: %w", err)
	}
	if err := s.advanceTo(ctx, invoice, models.StatusTransportLogged); err != nil {
		return nil, err
	}

	s.activity.Record(ctx, "transport.created", fmt.Sprintf("transport charges logged for invoice %s", invoice.Number()))
	return transport, nil
}

func (s *workflowService) UpdateTransport(ctx context.Context, invoiceID uuid.UUID, date time.Time, charges decimal.Decimal, description *string) (*models.TransportCharges, error) {
	transport, err := s.GetOrCreateTransport(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if charges.IsNegative() {
		return nil, fmt.Errorf("transport charges must not be negative")
	}
	if !date.IsZero() {
		transport.Date = date
	}
	transport.Charges = charges
	transport.Description = description
	if err := s.transports.Update(ctx, transport); err != nil {
		return nil, fmt.Errorf("failed to update transport charges: %w", err)
	}
	return transport, nil
}

func (s *workflowService) RenderTransportPDF(ctx context.Context, invoiceID uuid.UUID) ([]byte, string, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	transport, err := s.transports.GetByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("no transport charges logged for invoice %s", invoice.Number())
	}
	company, err := s.company.Get(ctx)
	if err != nil {
		return nil, "", err
	}

	data, err := pdf.RenderTransport(invoice, transport, company, s.company.GetSignature(ctx))
	if err != nil {
		return nil, "", fmt.Errorf("failed to render transport PDF: %w", err)
	}
	return data, fmt.Sprintf("transport_%s.pdf", invoice.Number()), nil
}

// GetOrCreateConfirmation requires the transport step to be done first.
func (s *workflowService) GetOrCreateConfirmation(ctx context.Context, invoiceID uuid.UUID) (*models.ConfirmationDocument, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !models.StatusAtLeast(invoice.Status, models.StatusTransportLogged) {
		return nil, fmt.Errorf("invoice %s has no transport charges yet", invoice.Number())
	}

	doc, err := s.confirmations.GetByInvoice(ctx, invoiceID)
	if err == nil {
		return doc, nil
	}
	if !repositories.IsNotFound(err) {
		return nil, err
	}

	doc = &models.ConfirmationDocument{
		ID:        uuid.New(),
		InvoiceID: invoiceID,
		Date:      time.Now(),
	}
	if err := s.confirmations.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create confirmation document: %w", err)
	}
	return doc, nil
}

// UploadConfirmationFile stores a purchase-order or approval-email PDF and
// attaches it to the confirmation document. kind is "po" or "email".
func (s *workflowService) UploadConfirmationFile(ctx context.Context, invoiceID uuid.UUID, kind, filename string, reader io.Reader, size int64) (*models.ConfirmationDocument, error) {
	doc, err := s.GetOrCreateConfirmation(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("invoices/%s/%s%s", invoiceID, kind, sanitizeExt(filename, ".pdf"))
	if err := s.storage.Upload(ctx, key, reader, size, "application/pdf"); err != nil {
		return nil, fmt.Errorf("failed to upload %s file: %w", kind, err)
	}

	switch kind {
	case models.SourcePO:
		doc.POFileKey = &key
	case models.SourceEmail:
		doc.ApprovalFileKey = &key
	default:
		return nil, fmt.Errorf("unknown confirmation file kind %q", kind)
	}

	if err := s.confirmations.Update(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to attach %s file: %w", kind, err)
	}
	s.activity.Record(ctx, "confirmation.upload", fmt.Sprintf("%s file uploaded for invoice %s", kind, invoiceID))
	return doc, nil
}

func sanitizeExt(filename, fallback string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		return fallback
	}
	return ext
}

func (s *workflowService) AddPackedImage(ctx context.Context, invoiceID uuid.UUID, filename string, reader io.Reader, size int64, notes *string) (*models.PackedImage, error) {
	doc, err := s.GetOrCreateConfirmation(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	image := &models.PackedImage{
		ID:             uuid.New(),
		ConfirmationID: doc.ID,
		Notes:          notes,
	}
	image.ImageKey = fmt.Sprintf("invoices/%s/packed/%s%s", invoiceID, image.ID, sanitizeExt(filename, ".jpg"))

	if err := s.storage.Upload(ctx, image.ImageKey, reader, size, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("failed to upload packed image: %w", err)
	}
	if err := s.confirmations.AddImage(ctx, image); err != nil {
		return nil, fmt.Errorf("failed to record packed image: %w", err)
	}
	return image, nil
}

func (s *workflowService) ListPackedImages(ctx context.Context, invoiceID uuid.UUID) ([]*models.PackedImage, error) {
	doc, err := s.confirmations.GetByInvoice(ctx, invoiceID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return s.confirmations.ListImages(ctx, doc.ID)
}

func (s *workflowService) DeletePackedImage(ctx context.Context, invoiceID, imageID uuid.UUID) error {
	doc, err := s.confirmations.GetByInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}
	images, err := s.confirmations.ListImages(ctx, doc.ID)
	if err != nil {
		return err
	}
	for _, image := range images {
		if image.ID == imageID {
			if err := s.storage.Delete(ctx, image.ImageKey); err != nil {
				s.log.WithError(err).Warn("failed to delete packed image object")
			}
			return s.confirmations.DeleteImage(ctx, imageID)
		}
	}
	return fmt.Errorf("packed image %s not found on invoice %s", imageID, invoiceID)
}

// normalizeOrder validates the caller's file order. An empty order means the
// default. Unknown names are rejected, duplicates collapse, and the bundle
// contains exactly the sources the caller asked for.
func normalizeOrder(order []string) ([]string, error) {
	if len(order) == 0 {
		return models.DefaultMergeOrder, nil
	}
	seen := map[string]bool{}
	var result []string
	for _, name := range order {
		known := false
		for _, k := range models.DefaultMergeOrder {
			if name == k {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown merge source %q", name)
		}
		if !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	return result, nil
}

// Finalize builds the combined confirmation bundle from exactly the sources
// the caller asked for, in the order asked (all five, in default order, when
// none are named), with the packed-goods photo appendix trailing. The
// invoice reaches FINALIZED only after the bundle is merged and stored;
// a failed merge leaves the status untouched. Returns the confirmation
// document and the names of sources skipped as missing or corrupt.
func (s *workflowService) Finalize(ctx context.Context, invoiceID uuid.UUID, fileOrder []string) (*models.ConfirmationDocument, []string, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if !models.StatusAtLeast(invoice.Status, models.StatusTransportLogged) {
		return nil, nil, fmt.Errorf("invoice %s has no transport charges yet", invoice.Number())
	}
	doc, err := s.GetOrCreateConfirmation(ctx, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	order, err := normalizeOrder(fileOrder)
	if err != nil {
		return nil, nil, err
	}

	var sources []pdf.MergeSource
	for _, name := range order {
		var data []byte
		switch name {
		case models.SourceInvoice:
			rendered, _, err := s.renderInvoiceSection(ctx, invoice)
			if err != nil {
				s.log.WithError(err).Warn("invoice section unavailable for bundle")
			}
			data = rendered
		case models.SourceChallan:
			rendered, _, err := s.RenderChallanPDF(ctx, invoiceID)
			if err != nil {
				s.log.WithError(err).Warn("challan section unavailable for bundle")
			}
			data = rendered
		case models.SourceTransport:
			rendered, _, err := s.RenderTransportPDF(ctx, invoiceID)
			if err != nil {
				s.log.WithError(err).Warn("transport section unavailable for bundle")
			}
			data = rendered
		case models.SourcePO:
			data = s.downloadIfSet(ctx, doc.POFileKey)
		case models.SourceEmail:
			data = s.downloadIfSet(ctx, doc.ApprovalFileKey)
		}
		sources = append(sources, pdf.MergeSource{Name: name, Data: data})
	}
	if appendix := s.renderAppendix(ctx, invoice, doc); appendix != nil {
		sources = append(sources, pdf.MergeSource{Name: "images", Data: appendix})
	}

	combined, skipped, err := pdf.Merge(sources)
	if err != nil {
		return nil, skipped, fmt.Errorf("failed to merge confirmation bundle: %w", err)
	}

	key := fmt.Sprintf("invoices/%s/confirmation_invoice_%s.pdf", invoiceID, invoice.Number())
	if err := s.storage.Upload(ctx, key, bytes.NewReader(combined), int64(len(combined)), "application/pdf"); err != nil {
		return nil, skipped, fmt.Errorf("failed to store confirmation bundle: %w", err)
	}

	doc.CombinedPDFKey = &key
	if err := s.confirmations.Update(ctx, doc); err != nil {
		return nil, skipped, fmt.Errorf("failed to record confirmation bundle: %w", err)
	}
	if err := s.advanceTo(ctx, invoice, models.StatusFinalized); err != nil {
		return nil, skipped, err
	}

	s.activity.Record(ctx, "invoice.finalized", fmt.Sprintf("invoice %s finalized, bundle %s", invoice.Number(), key))
	return doc, skipped, nil
}

func (s *workflowService) renderInvoiceSection(ctx context.Context, invoice *models.SalesInvoice) ([]byte, string, error) {
	items, err := s.invoices.ListItems(ctx, invoice.ID)
	if err != nil {
		return nil, "", err
	}
	company, err := s.company.Get(ctx)
	if err != nil {
		return nil, "", err
	}
	data, err := pdf.RenderInvoice(invoice, items, company, s.company.GetSignature(ctx))
	return data, "", err
}

func (s *workflowService) downloadIfSet(ctx context.Context, key *string) []byte {
	if key == nil || *key == "" {
		return nil
	}
	data, err := s.storage.Download(ctx, *key)
	if err != nil {
		s.log.WithError(err).WithField("key", *key).Warn("failed to download bundle source")
		return nil
	}
	return data
}

func (s *workflowService) renderAppendix(ctx context.Context, invoice *models.SalesInvoice, doc *models.ConfirmationDocument) []byte {
	images, err := s.confirmations.ListImages(ctx, doc.ID)
	if err != nil || len(images) == 0 {
		return nil
	}

	var photos []pdf.PackedPhoto
	for _, image := range images {
		data, err := s.storage.Download(ctx, image.ImageKey)
		if err != nil {
			s.log.WithError(err).WithField("key", image.ImageKey).Warn("failed to download packed image")
			continue
		}
		notes := ""
		if image.Notes != nil {
			notes = *image.Notes
		}
		photos = append(photos, pdf.PackedPhoto{Data: data, Notes: notes})
	}

	appendix, err := pdf.RenderImageAppendix(invoice.Number(), photos)
	if err != nil {
		s.log.WithError(err).Warn("failed to render packed image appendix")
		return nil
	}
	return appendix
}

// GetCombined streams the stored confirmation bundle.
func (s *workflowService) GetCombined(ctx context.Context, invoiceID uuid.UUID) ([]byte, string, error) {
	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	doc, err := s.confirmations.GetByInvoice(ctx, invoiceID)
	if err != nil || doc.CombinedPDFKey == nil {
		return nil, "", fmt.Errorf("invoice %s has no confirmation bundle yet", invoice.Number())
	}
	data, err := s.storage.Download(ctx, *doc.CombinedPDFKey)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download confirmation bundle: %w", err)
	}
	return data, fmt.Sprintf("confirmation_invoice_%s.pdf", invoice.Number()), nil
}
