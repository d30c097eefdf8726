package store

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/privafirst/expense-tracker/internal/models"
)

const keyDateLayout = "2006-01-02"

func hashKey(parts []string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// paymentKey builds the dedup natural key for a payment:
// (source, statement_file, trans_date, post_date, description, amount).
// Amount is fixed to two decimals so the same row always hashes identically.
func paymentKey(rec models.PaymentRecord, statementFile string) string {
	return hashKey([]string{
		rec.Source,
		statementFile,
		rec.TransDate.Format(keyDateLayout),
		rec.PostDate.Format(keyDateLayout),
		rec.Description,
		rec.Amount.StringFixed(2),
	})
}

// transactionKey builds the dedup natural key for a charge:
// (source, statement_file, trans_date, post_date, description, category, amount).
func transactionKey(rec models.TransactionRecord, statementFile string) string {
	return hashKey([]string{
		rec.Source,
		statementFile,
		rec.TransDate.Format(keyDateLayout),
		rec.PostDate.Format(keyDateLayout),
		rec.Description,
		rec.Category,
		rec.Amount.StringFixed(2),
	})
}
