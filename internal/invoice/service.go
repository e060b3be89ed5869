package invoice

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/invoice-tracker/internal/document"
	"github.com/zombor/invoice-tracker/internal/extraction"
	"github.com/zombor/invoice-tracker/internal/scanning"
)

// IDGenerator generates unique IDs for invoices and payments
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now().UTC()
}

// Service handles invoice and payment operations
type Service struct {
	db          DB
	scanner     scanning.Scanner
	storage     Storage
	extractor   *extraction.Extractor
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a Service with UUID ids and the default vendor registry
func NewService(db DB, scanner scanning.Scanner, storage Storage) *Service {
	return NewServiceWithDeps(db, scanner, storage, extraction.New(), &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, storage Storage, extractor *extraction.Extractor, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		scanner:     scanner,
		storage:     storage,
		extractor:   extractor,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	reUnsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	reSpaces      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename strips special characters and truncates the base name to 50 characters
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	base = reUnsafeChars.ReplaceAllString(base, "")
	base = strings.TrimSpace(reSpaces.ReplaceAllString(base, " "))

	if len(base) > 50 {
		base = base[:50]
	}
	if base == "" {
		base = "invoice"
	}
	return base + ext
}

// isBlockStream reports whether an upload is an already-OCR'd block stream
func isBlockStream(filename, contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i != -1 {
		ct = ct[:i]
	}
	return ct == "application/json" || strings.EqualFold(filepath.Ext(filename), ".json")
}

// blocksFor returns the block stream of an uploaded document
func (s *Service) blocksFor(filename string, data []byte, contentType string) (document.Stream, error) {
	if isBlockStream(filename, contentType) {
		blocks, err := document.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding block stream: %w", err)
		}
		return blocks, nil
	}
	if s.scanner == nil {
		return nil, fmt.Errorf("no scanner configured for %s", contentType)
	}
	blocks, err := s.scanner.ScanDocument(data, contentType)
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return blocks, nil
}

// ProcessInvoice stores an uploaded document, extracts its fields and saves the record
func (s *Service) ProcessInvoice(filename string, data []byte, contentType string) (*Invoice, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedPath, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	discard := func() {
		if err := s.storage.Delete(savedPath); err != nil {
			slog.Warn("Failed to delete file", "filename", savedPath, "error", err)
		}
	}

	blocks, err := s.blocksFor(filename, data, contentType)
	if err != nil {
		slog.Error("Failed to read document",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		discard()
		return nil, err
	}

	vendor, extracted, err := s.extractor.Run(blocks)
	if err != nil {
		var unsupported *extraction.UnsupportedVendorError
		if errors.As(err, &unsupported) {
			slog.Warn("Unsupported vendor", "filename", filename, "blocks", len(unsupported.Blocks))
		}
		discard()
		return nil, fmt.Errorf("extracting invoice: %w", err)
	}

	invoice := &Invoice{
		ID:          id,
		Filename:    savedPath,
		ContentType: contentType,
		Vendor:      vendor,
		Invoice:     extracted,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.SaveInvoice(invoice); err != nil {
		discard()
		return nil, fmt.Errorf("saving invoice to database: %w", err)
	}

	slog.Info("Invoice processed",
		"id", id,
		"vendor", vendor,
		"items", len(extracted.Items),
	)
	return invoice, nil
}

// ExtractBlocks extracts an invoice from a block stream without storing anything
func (s *Service) ExtractBlocks(blocks document.Stream) (extraction.Invoice, error) {
	return s.extractor.Extract(blocks)
}

// GetInvoice retrieves an invoice by ID
func (s *Service) GetInvoice(id string) (*Invoice, error) {
	invoice, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	return invoice, nil
}

// ListInvoices returns all invoices, newest first
func (s *Service) ListInvoices() ([]*Invoice, error) {
	invoices, err := s.db.ListInvoices()
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	sort.SliceStable(invoices, func(i, j int) bool {
		return invoices[i].CreatedAt.After(invoices[j].CreatedAt)
	})
	return invoices, nil
}

// DeleteInvoice removes an invoice and its file
func (s *Service) DeleteInvoice(id string) error {
	invoice, err := s.db.GetInvoice(id)
	if err != nil {
		return fmt.Errorf("getting invoice for deletion: %w", err)
	}

	if err := s.storage.Delete(invoice.Filename); err != nil {
		slog.Warn("Failed to delete file", "filename", invoice.Filename, "error", err)
	}

	if err := s.db.DeleteInvoice(id); err != nil {
		return fmt.Errorf("deleting invoice from database: %w", err)
	}
	return nil
}

// GetInvoiceFile retrieves the original document of an invoice
func (s *Service) GetInvoiceFile(id string) ([]byte, string, error) {
	invoice, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice: %w", err)
	}

	data, err := s.storage.Get(invoice.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice file: %w", err)
	}
	return data, invoice.ContentType, nil
}

// CreatePayment settles the given invoices and records their total
func (s *Service) CreatePayment(invoiceIDs []string) (*Payment, error) {
	if len(invoiceIDs) == 0 {
		return nil, fmt.Errorf("at least one invoice is required")
	}

	now := s.timeSource.Now()
	id := s.idGenerator.Generate()

	invoices := make([]*Invoice, 0, len(invoiceIDs))
	seen := make(map[string]bool, len(invoiceIDs))
	var total int64
	for _, invoiceID := range invoiceIDs {
		if seen[invoiceID] {
			return nil, fmt.Errorf("invoice %s listed more than once", invoiceID)
		}
		seen[invoiceID] = true

		invoice, err := s.db.GetInvoice(invoiceID)
		if err != nil {
			return nil, fmt.Errorf("getting invoice %s: %w", invoiceID, err)
		}
		if invoice.Paid() {
			return nil, fmt.Errorf("invoice %s is already paid", invoiceID)
		}
		cents, err := ParseCents(invoice.AmountDue)
		if err != nil {
			return nil, fmt.Errorf("invoice %s amount due: %w", invoiceID, err)
		}
		total += cents
		invoices = append(invoices, invoice)
	}

	payment := &Payment{
		ID:          id,
		InvoiceIDs:  invoiceIDs,
		TotalAmount: total,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	paid := make([]*Invoice, len(invoices))
	for i, invoice := range invoices {
		stamped := *invoice
		stamped.PaymentID = id
		stamped.UpdatedAt = now
		paid[i] = &stamped
	}
	if err := s.db.RecordPayment(payment, paid); err != nil {
		return nil, fmt.Errorf("saving payment: %w", err)
	}

	return payment, nil
}

// GetPaymentWithInvoices retrieves a payment and the invoices it settled
func (s *Service) GetPaymentWithInvoices(id string) (*Payment, []*Invoice, error) {
	payment, err := s.db.GetPayment(id)
	if err != nil {
		return nil, nil, fmt.Errorf("getting payment: %w", err)
	}

	invoices := make([]*Invoice, 0, len(payment.InvoiceIDs))
	for _, invoiceID := range payment.InvoiceIDs {
		invoice, err := s.db.GetInvoice(invoiceID)
		if err != nil {
			return nil, nil, fmt.Errorf("getting invoice %s: %w", invoiceID, err)
		}
		invoices = append(invoices, invoice)
	}
	return payment, invoices, nil
}

// ListPayments returns all payments
func (s *Service) ListPayments() ([]*Payment, error) {
	payments, err := s.db.ListPayments()
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	return payments, nil
}
