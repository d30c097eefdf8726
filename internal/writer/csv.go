package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/privafirst/expense-tracker/internal/models"
)

const dateLayout = "2006-01-02"

// CSVWriter writes extracted statement records to CSV.
type CSVWriter struct {
	IncludeHeader bool
}

// WritePaymentsToFile writes the payment records to a CSV file.
func (w *CSVWriter) WritePaymentsToFile(path string, st *models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.WritePayments(f, st)
}

// WriteTransactionsToFile writes the charge records to a CSV file.
func (w *CSVWriter) WriteTransactionsToFile(path string, st *models.Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.WriteTransactions(f, st)
}

// WritePayments writes the payment records in CSV format.
func (w *CSVWriter) WritePayments(out io.Writer, st *models.Statement) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	w.writeMetadata(writer, st)

	header := []string{"trans_date", "post_date", "description", "amount", "source"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range st.Payments {
		row := []string{
			rec.TransDate.Format(dateLayout),
			rec.PostDate.Format(dateLayout),
			rec.Description,
			rec.Amount.StringFixed(2),
			rec.Source,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// WriteTransactions writes the charge records in CSV format.
func (w *CSVWriter) WriteTransactions(out io.Writer, st *models.Statement) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	w.writeMetadata(writer, st)

	header := []string{"trans_date", "post_date", "description", "category", "amount", "location", "city", "province", "source"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range st.Transactions {
		row := []string{
			rec.TransDate.Format(dateLayout),
			rec.PostDate.Format(dateLayout),
			rec.Description,
			rec.Category,
			rec.Amount.StringFixed(2),
			rec.Location,
			rec.City,
			rec.Province,
			rec.Source,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

// writeMetadata emits statement metadata as comment rows ahead of the
// column header.
func (w *CSVWriter) writeMetadata(writer *csv.Writer, st *models.Statement) {
	if !w.IncludeHeader {
		return
	}
	writer.Write([]string{"# Statement Year", strconv.Itoa(st.Year)})
	if st.YearInferred {
		writer.Write([]string{"# Year Inferred", "true"})
	}
}
