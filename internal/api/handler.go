package api

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/privafirst/expense-tracker/internal/extractor"
	"github.com/privafirst/expense-tracker/internal/models"
	"github.com/privafirst/expense-tracker/internal/parser"
	"github.com/privafirst/expense-tracker/internal/store"
	"github.com/privafirst/expense-tracker/internal/writer"
)

const pageBreakMarker = "\n---PAGE_BREAK---\n"

// ExtractResponse is the JSON response from the /api/extract and
// /api/import endpoints.
type ExtractResponse struct {
	Success          bool                       `json:"success"`
	Error            string                     `json:"error,omitempty"`
	Year             int                        `json:"year,omitempty"`
	YearInferred     bool                       `json:"yearInferred,omitempty"`
	Payments         []models.PaymentRecord     `json:"payments"`
	Transactions     []models.TransactionRecord `json:"transactions"`
	PaymentCount     int                        `json:"paymentCount"`
	TransactionCount int                        `json:"transactionCount"`
	TotalPayments    string                     `json:"totalPayments"`
	TotalCharges     string                     `json:"totalCharges"`
	PaymentsCSV      string                     `json:"paymentsCsv,omitempty"`
	TransactionsCSV  string                     `json:"transactionsCsv,omitempty"`
	Inserted         int                        `json:"inserted,omitempty"`
	Skipped          int                        `json:"skipped,omitempty"`
}

// Handler holds the HTTP handlers for the API. Store is optional: without
// it the extract endpoint still works and /api/import reports unavailable.
type Handler struct {
	Store *store.Store
}

// Register sets up the API routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/api/health", HandleHealth)
	app.Post("/api/extract", HandleExtract)
	app.Post("/api/import", h.HandleImport)
}

// HandleHealth reports service liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"engine": "fiber",
	})
}

// HandleExtract extracts records from an uploaded statement and returns
// them as JSON plus rendered CSV.
func HandleExtract(c *fiber.Ctx) error {
	st, name, err := extractStatement(c)
	if st == nil {
		// extractStatement already wrote the error response
		return err
	}
	resp, err := buildResponse(st, c.FormValue("header") != "false")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}
	slog.Info("statement extracted",
		"file", name,
		"payments", resp.PaymentCount,
		"transactions", resp.TransactionCount)
	return c.JSON(resp)
}

// HandleImport extracts records and persists them, reporting how many rows
// were newly inserted versus skipped as duplicates.
func (h *Handler) HandleImport(c *fiber.Ctx) error {
	if h.Store == nil {
		return writeError(c, fiber.StatusServiceUnavailable, "Database is not configured.")
	}

	st, name, err := extractStatement(c)
	if st == nil {
		return err
	}

	ctx := c.Context()
	pIns, pSkip, err := h.Store.UpsertPayments(ctx, st.Payments, name)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Failed to store payments: %v", err))
	}
	tIns, tSkip, err := h.Store.UpsertTransactions(ctx, st.Transactions, name)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Failed to store transactions: %v", err))
	}

	resp, err := buildResponse(st, false)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}
	resp.Inserted = pIns + tIns
	resp.Skipped = pSkip + tSkip
	slog.Info("statement imported",
		"file", name,
		"inserted", resp.Inserted,
		"skipped", resp.Skipped)
	return c.JSON(resp)
}

// extractStatement pulls page text out of the request — either a PDF upload
// in the "file" field or pre-extracted text in "extractedText" — and parses
// it. The returned name identifies the statement for dedup purposes.
func extractStatement(c *fiber.Ctx) (*models.Statement, string, error) {
	var pages []string
	name := ""

	if text := c.FormValue("extractedText"); text != "" {
		for _, page := range strings.Split(text, pageBreakMarker) {
			if page = strings.TrimSpace(page); page != "" {
				pages = append(pages, page)
			}
		}
		name = c.FormValue("filename")
	}

	if len(pages) == 0 {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, "", writeError(c, fiber.StatusBadRequest, "No file uploaded. Use form field 'file' or 'extractedText'.")
		}
		if !strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
			return nil, "", writeError(c, fiber.StatusBadRequest, "Only PDF files are supported.")
		}
		name = header.Filename

		upload, err := header.Open()
		if err != nil {
			return nil, "", writeError(c, fiber.StatusInternalServerError, "Failed to read uploaded file.")
		}
		defer upload.Close()

		tmpFile, err := os.CreateTemp("", "statement-*.pdf")
		if err != nil {
			return nil, "", writeError(c, fiber.StatusInternalServerError, "Failed to create temp file.")
		}
		defer os.Remove(tmpFile.Name())

		if _, err := io.Copy(tmpFile, upload); err != nil {
			tmpFile.Close()
			return nil, "", writeError(c, fiber.StatusInternalServerError, "Failed to save uploaded file.")
		}
		tmpFile.Close()

		pages, err = extractor.ExtractText(tmpFile.Name())
		if err != nil {
			return nil, "", writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("PDF extraction failed: %v", err))
		}
	}

	p, err := parser.AutoDetect(pages)
	if err != nil {
		return nil, "", writeError(c, fiber.StatusUnprocessableEntity, err.Error())
	}

	st, err := p.Parse(pages)
	if err != nil {
		return nil, "", writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("Parsing failed: %v", err))
	}
	return st, name, nil
}

func buildResponse(st *models.Statement, includeHeader bool) (*ExtractResponse, error) {
	w := &writer.CSVWriter{IncludeHeader: includeHeader}

	var payBuf, txnBuf bytes.Buffer
	if err := w.WritePayments(&payBuf, st); err != nil {
		return nil, fmt.Errorf("CSV generation failed: %w", err)
	}
	if err := w.WriteTransactions(&txnBuf, st); err != nil {
		return nil, fmt.Errorf("CSV generation failed: %w", err)
	}

	totalPayments := decimal.Zero
	for _, rec := range st.Payments {
		totalPayments = totalPayments.Add(rec.Amount)
	}
	totalCharges := decimal.Zero
	for _, rec := range st.Transactions {
		totalCharges = totalCharges.Add(rec.Amount)
	}

	// nil slices marshal to JSON null, not []
	payments := st.Payments
	if payments == nil {
		payments = []models.PaymentRecord{}
	}
	transactions := st.Transactions
	if transactions == nil {
		transactions = []models.TransactionRecord{}
	}

	return &ExtractResponse{
		Success:          true,
		Year:             st.Year,
		YearInferred:     st.YearInferred,
		Payments:         payments,
		Transactions:     transactions,
		PaymentCount:     len(payments),
		TransactionCount: len(transactions),
		TotalPayments:    totalPayments.StringFixed(2),
		TotalCharges:     totalCharges.StringFixed(2),
		PaymentsCSV:      payBuf.String(),
		TransactionsCSV:  txnBuf.String(),
	}, nil
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ExtractResponse{
		Success: false,
		Error:   msg,
	})
}
