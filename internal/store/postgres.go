package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/privafirst/expense-tracker/internal/models"
)

// Store persists extracted statement records in PostgreSQL. Inserts are
// idempotent: each record carries a natural key hashed from its identifying
// fields, and re-importing the same statement skips rows already present.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

const schemaDDL = `
CREATE SCHEMA IF NOT EXISTS expense;

CREATE TABLE IF NOT EXISTS expense.payments (
    id              BIGSERIAL PRIMARY KEY,
    natural_key     TEXT NOT NULL UNIQUE,
    trans_date      DATE NOT NULL,
    post_date       DATE NOT NULL,
    description     TEXT NOT NULL,
    amount          NUMERIC(12, 2) NOT NULL,
    source          TEXT NOT NULL DEFAULT 'CIBC',
    statement_file  TEXT NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS expense.transactions (
    id              BIGSERIAL PRIMARY KEY,
    natural_key     TEXT NOT NULL UNIQUE,
    trans_date      DATE NOT NULL,
    post_date       DATE NOT NULL,
    description     TEXT NOT NULL,
    category        TEXT NOT NULL,
    amount          NUMERIC(12, 2) NOT NULL,
    location        TEXT,
    city            TEXT,
    province        TEXT,
    source          TEXT NOT NULL DEFAULT 'CIBC',
    statement_file  TEXT NOT NULL,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_transactions_trans_date
    ON expense.transactions (trans_date);

CREATE INDEX IF NOT EXISTS idx_transactions_category
    ON expense.transactions (category);

CREATE INDEX IF NOT EXISTS idx_transactions_city
    ON expense.transactions (city);

CREATE INDEX IF NOT EXISTS idx_payments_trans_date
    ON expense.payments (trans_date);
`

// Init creates the schema, tables, and indexes if they do not exist.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

const insertPaymentSQL = `
	INSERT INTO expense.payments (
		natural_key, trans_date, post_date,
		description, amount, source, statement_file
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (natural_key) DO NOTHING`

const insertTransactionSQL = `
	INSERT INTO expense.transactions (
		natural_key, trans_date, post_date,
		description, category, amount,
		location, city, province,
		source, statement_file
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (natural_key) DO NOTHING`

// UpsertPayments inserts payment records, skipping duplicates by natural
// key. Returns how many rows were inserted and how many were skipped.
func (s *Store) UpsertPayments(ctx context.Context, recs []models.PaymentRecord, statementFile string) (inserted, skipped int, err error) {
	if len(recs) == 0 {
		return 0, 0, nil
	}

	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(insertPaymentSQL,
			paymentKey(rec, statementFile),
			rec.TransDate,
			rec.PostDate,
			rec.Description,
			rec.Amount,
			rec.Source,
			statementFile,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range recs {
		tag, execErr := results.Exec()
		if execErr != nil {
			return inserted, skipped, fmt.Errorf("failed to insert payment: %w", execErr)
		}
		if tag.RowsAffected() > 0 {
			inserted++
		} else {
			skipped++
		}
	}
	return inserted, skipped, nil
}

// UpsertTransactions inserts charge records, skipping duplicates by natural
// key. Returns how many rows were inserted and how many were skipped.
func (s *Store) UpsertTransactions(ctx context.Context, recs []models.TransactionRecord, statementFile string) (inserted, skipped int, err error) {
	if len(recs) == 0 {
		return 0, 0, nil
	}

	batch := &pgx.Batch{}
	for _, rec := range recs {
		batch.Queue(insertTransactionSQL,
			transactionKey(rec, statementFile),
			rec.TransDate,
			rec.PostDate,
			rec.Description,
			rec.Category,
			rec.Amount,
			rec.Location,
			rec.City,
			rec.Province,
			rec.Source,
			statementFile,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range recs {
		tag, execErr := results.Exec()
		if execErr != nil {
			return inserted, skipped, fmt.Errorf("failed to insert transaction: %w", execErr)
		}
		if tag.RowsAffected() > 0 {
			inserted++
		} else {
			skipped++
		}
	}
	return inserted, skipped, nil
}
