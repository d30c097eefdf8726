package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/privafirst/expense-tracker/internal/config"
	"github.com/privafirst/expense-tracker/internal/extractor"
	"github.com/privafirst/expense-tracker/internal/models"
	"github.com/privafirst/expense-tracker/internal/parser"
	"github.com/privafirst/expense-tracker/internal/store"
	"github.com/privafirst/expense-tracker/internal/writer"
)

const version = "1.0.0"

func main() {
	issuerFlag := flag.String("issuer", "", "Statement issuer: cibc (auto-detected if omitted)")
	outputFlag := flag.String("output", "", "Output directory for CSV files (defaults to the input file's directory)")
	headerFlag := flag.Bool("header", true, "Include statement metadata header rows in CSV")
	saveFlag := flag.Bool("save", false, "Persist extracted records to PostgreSQL")
	initDBFlag := flag.Bool("init-db", false, "Create database schema and exit")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Credit Card Statement Expense Tracker

Extracts payments and transactions from CIBC credit card statement PDFs
into structured CSV files, with optional PostgreSQL import.

Usage:
  expense-tracker [flags] <input.pdf> [input2.pdf ...]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Extract a statement to CSV
  expense-tracker statement_dec.pdf

  # Extract several statements into one directory
  expense-tracker --output=exports nov.pdf dec.pdf jan.pdf

  # Extract and import into PostgreSQL (connection from env / .env)
  expense-tracker --save statement_dec.pdf

  # Create the database schema
  expense-tracker --init-db
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("expense-tracker v%s\n", version)
		os.Exit(0)
	}

	cfg := config.Load()

	if *initDBFlag {
		if err := initDatabase(cfg); err != nil {
			fatalf("Database init failed: %v\n", err)
		}
		fmt.Println("Database schema ready.")
		os.Exit(0)
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	var db *store.Store
	if *saveFlag {
		var err error
		db, err = store.Open(context.Background(), cfg.Database.DSN())
		if err != nil {
			fatalf("Database connection failed: %v\n", err)
		}
		defer db.Close()
	}

	failures := 0
	for _, inputPath := range flag.Args() {
		if err := processFile(inputPath, models.Issuer(strings.ToLower(*issuerFlag)), *outputFlag, *headerFlag, db); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			failures++
		}
	}
	if failures > 0 {
		os.Exit(1)
	}
}

func initDatabase(cfg *config.Config) error {
	db, err := store.Open(context.Background(), cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Init(context.Background())
}

func processFile(inputPath string, issuer models.Issuer, outputDir string, includeHeader bool, db *store.Store) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	pages, err := extractor.ExtractText(inputPath)
	if err != nil {
		return fmt.Errorf("PDF extraction failed: %w", err)
	}

	fmt.Printf("  Extracted text from %d page(s)\n", len(pages))

	var p parser.Parser
	if issuer != "" {
		p, err = parser.New(issuer)
	} else {
		p, err = parser.AutoDetect(pages)
	}
	if err != nil {
		return err
	}

	st, err := p.Parse(pages)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	fmt.Printf("  Found %d payment(s), %d transaction(s)\n", len(st.Payments), len(st.Transactions))
	if st.YearInferred {
		fmt.Printf("  Warning: no statement period found; dates assume year %d\n", st.Year)
	}
	if len(st.Payments) == 0 && len(st.Transactions) == 0 {
		fmt.Println("  Warning: no records found. The PDF layout may not match expected patterns.")
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	dir := outputDir
	if dir == "" {
		dir = filepath.Dir(inputPath)
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := &writer.CSVWriter{IncludeHeader: includeHeader}

	paymentsPath := filepath.Join(dir, base+"_payments.csv")
	if err := w.WritePaymentsToFile(paymentsPath, st); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}
	fmt.Printf("  Payments: %s\n", paymentsPath)

	transactionsPath := filepath.Join(dir, base+"_transactions.csv")
	if err := w.WriteTransactionsToFile(transactionsPath, st); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}
	fmt.Printf("  Transactions: %s\n", transactionsPath)

	if db != nil {
		ctx := context.Background()
		statementFile := filepath.Base(inputPath)

		pIns, pSkip, err := db.UpsertPayments(ctx, st.Payments, statementFile)
		if err != nil {
			return fmt.Errorf("database import failed: %w", err)
		}
		tIns, tSkip, err := db.UpsertTransactions(ctx, st.Transactions, statementFile)
		if err != nil {
			return fmt.Errorf("database import failed: %w", err)
		}
		fmt.Printf("  Imported: %d new, %d duplicate(s) skipped\n", pIns+tIns, pSkip+tSkip)
	}

	fmt.Println("  Done.")
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
