package invoice

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zombor/invoice-tracker/internal/document"
	"github.com/zombor/invoice-tracker/internal/extraction"
)

// maxUploadSize bounds uploads, high-resolution phone photos included
const maxUploadSize = int64(50 << 20)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// statusFor maps a service error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, extraction.ErrUnsupportedVendor):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, document.ErrUnknownFormat), errors.As(err, new(*json.SyntaxError)):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// contentTypeFor determines the content type of an upload, falling back to its extension
func contentTypeFor(filename, declared string) string {
	contentType := strings.ToLower(strings.TrimSpace(declared))
	if contentType != "" && contentType != "application/octet-stream" {
		return contentType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

// handleExtract extracts an invoice from a posted block stream without storing it
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	blocks, err := document.Decode(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	invoice, err := s.service.ExtractBlocks(blocks)
	if err != nil {
		writeJSONError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// handleListInvoices returns all invoices
func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.service.ListInvoices()
	if err != nil {
		slog.Error("Error listing invoices", "error", err)
		writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

// handleUploadInvoice stores and extracts an uploaded invoice document
func (s *Server) handleUploadInvoice(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, "File is too large. Maximum size is 50MB.", http.StatusRequestEntityTooLarge)
			return
		}
		writeJSONError(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		writeJSONError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeJSONError(w, "Error reading file", http.StatusInternalServerError)
		return
	}

	contentType := contentTypeFor(header.Filename, header.Header.Get("Content-Type"))
	invoice, err := s.service.ProcessInvoice(header.Filename, data, contentType)
	if err != nil {
		slog.Error("Error processing invoice", "filename", header.Filename, "error", err)
		writeJSONError(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}

// handleGetInvoice returns a single invoice
func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := s.service.GetInvoice(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, "Invoice not found", statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// handleGetInvoiceFile returns the original document of an invoice
func (s *Server) handleGetInvoiceFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetInvoiceFile(r.PathValue("id"))
	if err != nil {
		slog.Error("Error reading invoice file", "id", r.PathValue("id"), "error", err)
		writeJSONError(w, "File not found", statusFor(err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteInvoice deletes an invoice and its document
func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteInvoice(r.PathValue("id")); err != nil {
		writeJSONError(w, "Error deleting invoice", statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportInvoices returns all invoices as an XLSX workbook
func (s *Server) handleExportInvoices(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ExportXLSX()
	if err != nil {
		slog.Error("Error exporting invoices", "error", err)
		writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="invoices.xlsx"`)
	w.Write(data)
}

// handleListPayments returns all payments
func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.service.ListPayments()
	if err != nil {
		slog.Error("Error listing payments", "error", err)
		writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// handleCreatePayment settles the posted invoices
func (s *Server) handleCreatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InvoiceIDs []string `json:"invoice_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, err := s.service.CreatePayment(req.InvoiceIDs)
	if err != nil {
		slog.Error("Error creating payment", "error", err)
		code := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			code = http.StatusNotFound
		}
		writeJSONError(w, err.Error(), code)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

// handleGetPayment returns a payment with the invoices it settled
func (s *Server) handleGetPayment(w http.ResponseWriter, r *http.Request) {
	payment, invoices, err := s.service.GetPaymentWithInvoices(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, "Payment not found", statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"payment":  payment,
		"invoices": invoices,
	})
}
