package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"tradedocs/internal/models"
	"tradedocs/internal/repositories"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeInvoiceRepo keeps invoices in memory and simulates the display number
// unique constraint, optionally failing the first N inserts to exercise the
// allocation retry loop. Safe for concurrent use, like the pool-backed repo.
type fakeInvoiceRepo struct {
	mu           sync.Mutex
	invoices     map[uuid.UUID]*models.SalesInvoice
	lines        map[uuid.UUID][]*models.InvoiceItem
	numbers      map[string]bool
	failInserts  int
	createCalls  int
	statusWrites []string
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: map[uuid.UUID]*models.SalesInvoice{},
		lines:    map[uuid.UUID][]*models.InvoiceItem{},
		numbers:  map[string]bool{},
	}
}

func (f *fakeInvoiceRepo) CreateWithNumber(ctx context.Context, invoice *models.SalesInvoice, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.failInserts > 0 {
		f.failInserts--
		return &pgconn.PgError{Code: "23505"}
	}
	highest := ""
	for n := range f.numbers {
		if len(n) > len(highest) || (len(n) == len(highest) && n > highest) {
			highest = n
		}
	}
	number := repositories.FormatDisplayNumber(prefix, repositories.NextSequence(highest, prefix))
	if f.numbers[number] {
		return &pgconn.PgError{Code: "23505"}
	}
	f.numbers[number] = true
	invoice.DisplayNumber = &number
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.SalesInvoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	invoice, ok := f.invoices[id]
	if !ok || invoice.IsDeleted {
		return nil, pgx.ErrNoRows
	}
	return invoice, nil
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, invoice *models.SalesInvoice) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeInvoiceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	invoice, ok := f.invoices[id]
	if !ok {
		return pgx.ErrNoRows
	}
	invoice.Status = status
	f.statusWrites = append(f.statusWrites, status)
	return nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, filter repositories.InvoiceFilter) ([]*models.SalesInvoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.SalesInvoice
	for _, invoice := range f.invoices {
		if !invoice.IsDeleted {
			out = append(out, invoice)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ListTrash(ctx context.Context, limit, offset int) ([]*models.SalesInvoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*models.SalesInvoice
	for _, invoice := range f.invoices {
		if invoice.IsDeleted {
			out = append(out, invoice)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if invoice, ok := f.invoices[id]; ok {
		invoice.IsDeleted = true
	}
	return nil
}

func (f *fakeInvoiceRepo) Restore(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if invoice, ok := f.invoices[id]; ok {
		invoice.IsDeleted = false
	}
	return nil
}

func (f *fakeInvoiceRepo) Purge(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.invoices, id)
	delete(f.lines, id)
	return nil
}

func (f *fakeInvoiceRepo) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []*models.InvoiceItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.lines[invoiceID] = items
	return nil
}

func (f *fakeInvoiceRepo) ListItems(ctx context.Context, invoiceID uuid.UUID) ([]*models.InvoiceItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lines[invoiceID], nil
}

func (f *fakeInvoiceRepo) CountByStatus(ctx context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	counts := map[string]int{}
	for _, invoice := range f.invoices {
		if !invoice.IsDeleted {
			counts[invoice.Status]++
		}
	}
	return counts, nil
}

type fakeItemRepo struct {
	items map[uuid.UUID]*models.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[uuid.UUID]*models.Item{}}
}

func (f *fakeItemRepo) Create(ctx context.Context, item *models.Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, ok := f.items[id]
	if !ok || item.IsDeleted {
		return nil, pgx.ErrNoRows
	}
	return item, nil
}

func (f *fakeItemRepo) GetByName(ctx context.Context, name string) (*models.Item, error) {
	for _, item := range f.items {
		if item.Name == name && !item.IsDeleted {
			return item, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeItemRepo) Update(ctx context.Context, item *models.Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeItemRepo) List(ctx context.Context, search string, limit, offset int) ([]*models.Item, error) {
	var out []*models.Item
	for _, item := range f.items {
		if !item.IsDeleted {
			out = append(out, item)
		}
	}
	return out, nil
}

func (f *fakeItemRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if item, ok := f.items[id]; ok {
		item.IsDeleted = true
	}
	return nil
}

type fakeBuyerRepo struct {
	buyers map[uuid.UUID]*models.Buyer
}

func newFakeBuyerRepo() *fakeBuyerRepo { return &fakeBuyerRepo{buyers: map[uuid.UUID]*models.Buyer{}} }

func (f *fakeBuyerRepo) Create(ctx context.Context, buyer *models.Buyer) error {
	f.buyers[buyer.ID] = buyer
	return nil
}

func (f *fakeBuyerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Buyer, error) {
	buyer, ok := f.buyers[id]
	if !ok || buyer.IsDeleted {
		return nil, pgx.ErrNoRows
	}
	return buyer, nil
}

func (f *fakeBuyerRepo) Update(ctx context.Context, buyer *models.Buyer) error {
	f.buyers[buyer.ID] = buyer
	return nil
}

func (f *fakeBuyerRepo) List(ctx context.Context, search string, limit, offset int) ([]*models.Buyer, error) {
	var out []*models.Buyer
	for _, buyer := range f.buyers {
		if !buyer.IsDeleted {
			out = append(out, buyer)
		}
	}
	return out, nil
}

func (f *fakeBuyerRepo) GetByName(ctx context.Context, name string) (*models.Buyer, error) {
	for _, buyer := range f.buyers {
		if buyer.Name == name && !buyer.IsDeleted {
			return buyer, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeBuyerRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if buyer, ok := f.buyers[id]; ok {
		buyer.IsDeleted = true
	}
	return nil
}

type fakeLocationRepo struct {
	locations map[uuid.UUID]*models.StoreLocation
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: map[uuid.UUID]*models.StoreLocation{}}
}

func (f *fakeLocationRepo) Create(ctx context.Context, location *models.StoreLocation) error {
	f.locations[location.ID] = location
	return nil
}

func (f *fakeLocationRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StoreLocation, error) {
	location, ok := f.locations[id]
	if !ok || location.IsDeleted {
		return nil, pgx.ErrNoRows
	}
	return location, nil
}

func (f *fakeLocationRepo) Update(ctx context.Context, location *models.StoreLocation) error {
	f.locations[location.ID] = location
	return nil
}

func (f *fakeLocationRepo) List(ctx context.Context, search string, limit, offset int) ([]*models.StoreLocation, error) {
	var out []*models.StoreLocation
	for _, location := range f.locations {
		if !location.IsDeleted {
			out = append(out, location)
		}
	}
	return out, nil
}

func (f *fakeLocationRepo) GetByName(ctx context.Context, name string) (*models.StoreLocation, error) {
	for _, location := range f.locations {
		if location.Name == name && !location.IsDeleted {
			return location, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeLocationRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if location, ok := f.locations[id]; ok {
		location.IsDeleted = true
	}
	return nil
}

type fakeChallanRepo struct {
	challans map[uuid.UUID]*models.DeliveryChallan
}

func newFakeChallanRepo() *fakeChallanRepo {
	return &fakeChallanRepo{challans: map[uuid.UUID]*models.DeliveryChallan{}}
}

func (f *fakeChallanRepo) Create(ctx context.Context, challan *models.DeliveryChallan) error {
	f.challans[challan.InvoiceID] = challan
	return nil
}

func (f *fakeChallanRepo) GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.DeliveryChallan, error) {
	challan, ok := f.challans[invoiceID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return challan, nil
}

func (f *fakeChallanRepo) Update(ctx context.Context, challan *models.DeliveryChallan) error {
	f.challans[challan.InvoiceID] = challan
	return nil
}

type fakeTransportRepo struct {
	transports map[uuid.UUID]*models.TransportCharges
}

func newFakeTransportRepo() *fakeTransportRepo {
	return &fakeTransportRepo{transports: map[uuid.UUID]*models.TransportCharges{}}
}

func (f *fakeTransportRepo) Create(ctx context.Context, transport *models.TransportCharges) error {
	f.transports[transport.InvoiceID] = transport
	return nil
}

func (f *fakeTransportRepo) GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.TransportCharges, error) {
	transport, ok := f.transports[invoiceID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return transport, nil
}

func (f *fakeTransportRepo) Update(ctx context.Context, transport *models.TransportCharges) error {
	f.transports[transport.InvoiceID] = transport
	return nil
}

type fakeConfirmationRepo struct {
	docs   map[uuid.UUID]*models.ConfirmationDocument
	images map[uuid.UUID][]*models.PackedImage
}

func newFakeConfirmationRepo() *fakeConfirmationRepo {
	return &fakeConfirmationRepo{
		docs:   map[uuid.UUID]*models.ConfirmationDocument{},
		images: map[uuid.UUID][]*models.PackedImage{},
	}
}

func (f *fakeConfirmationRepo) Create(ctx context.Context, doc *models.ConfirmationDocument) error {
	f.docs[doc.InvoiceID] = doc
	return nil
}

func (f *fakeConfirmationRepo) GetByInvoice(ctx context.Context, invoiceID uuid.UUID) (*models.ConfirmationDocument, error) {
	doc, ok := f.docs[invoiceID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return doc, nil
}

func (f *fakeConfirmationRepo) Update(ctx context.Context, doc *models.ConfirmationDocument) error {
	f.docs[doc.InvoiceID] = doc
	return nil
}

func (f *fakeConfirmationRepo) AddImage(ctx context.Context, image *models.PackedImage) error {
	f.images[image.ConfirmationID] = append(f.images[image.ConfirmationID], image)
	return nil
}

func (f *fakeConfirmationRepo) ListImages(ctx context.Context, confirmationID uuid.UUID) ([]*models.PackedImage, error) {
	return f.images[confirmationID], nil
}

func (f *fakeConfirmationRepo) DeleteImage(ctx context.Context, id uuid.UUID) error {
	for confID, images := range f.images {
		for i, image := range images {
			if image.ID == id {
				f.images[confID] = append(images[:i], images[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

type fakeActivityRepo struct {
	mu      sync.Mutex
	entries []*models.ActivityLog
}

func (f *fakeActivityRepo) Insert(ctx context.Context, entry *models.ActivityLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeActivityRepo) ListRecent(ctx context.Context, limit int) ([]*models.ActivityLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries, nil
}

// fakeStorage is an in-memory object store.
type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage { return &fakeStorage{objects: map[string][]byte{}} }

func (f *fakeStorage) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return err
	}
	f.objects[objectName] = buf.Bytes()
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, objectName string) ([]byte, error) {
	data, ok := f.objects[objectName]
	if !ok {
		return nil, fmt.Errorf("object %q not found", objectName)
	}
	return data, nil
}

func (f *fakeStorage) Delete(ctx context.Context, objectName string) error {
	delete(f.objects, objectName)
	return nil
}

func (f *fakeStorage) Exists(ctx context.Context, objectName string) (bool, error) {
	_, ok := f.objects[objectName]
	return ok, nil
}

func (f *fakeStorage) GetPresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	return "https://storage.example/" + objectName, nil
}

func (f *fakeStorage) EnsureBucket(ctx context.Context) error { return nil }

// fakeCompanyService serves a fixed profile without cache or storage.
type fakeCompanyService struct {
	company *models.CompanyProfile
}

func (f *fakeCompanyService) Get(ctx context.Context) (*models.CompanyProfile, error) {
	if f.company == nil {
		return &models.CompanyProfile{StateCode: models.DefaultStateCode}, nil
	}
	return f.company, nil
}

func (f *fakeCompanyService) Update(ctx context.Context, company *models.CompanyProfile) error {
	f.company = company
	return nil
}

func (f *fakeCompanyService) GetSignature(ctx context.Context) []byte { return nil }

func (f *fakeCompanyService) UploadSignature(ctx context.Context, filename string, reader io.Reader, size int64) error {
	return nil
}
