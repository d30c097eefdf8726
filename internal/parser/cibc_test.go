package parser

import (
	"testing"
	"time"

	"github.com/privafirst/expense-tracker/internal/models"
)

func TestCIBCParser_Parse(t *testing.T) {
	p := &CIBCParser{}

	pages := []string{
		`CIBC Credit Card Statement
Card number 4500 XXXX XXXX 1234
Transactions from November 16 to December 15, 2023
Page 1 of 2

Your payments
Nov 28 Nov 28 PAYMENT THANK YOU/PAIEMENT MERCI 830.00
Dec 1 Dec 2 PAYMENT THANK YOU/PAIEMENT MERCI 146.90
Total payments $976.90`,
		`Page 2 of 2
Your new charges and credits
Nov 20 Nov 21 TIM HORTONS #1234 OTTAWA ON Restaurants 4.56
Nov 22 Nov 23 WAL-MART SUPERCENTER#1001 OTTAWA ON Retail and Grocery 98.76
Nov 25 Nov 26 IC* INSTACART MID-HNS Other Transactions 25.00
Total for 4500 XXXX XXXX 1234 $128.32
*0502530000*`,
	}

	st, err := p.Parse(pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if st.Year != 2023 {
		t.Errorf("year: got %d, want 2023", st.Year)
	}
	if st.YearInferred {
		t.Error("year was read from the statement, YearInferred should be false")
	}

	if len(st.Payments) != 2 {
		t.Fatalf("payments: got %d, want 2", len(st.Payments))
	}
	pay := st.Payments[0]
	if got, want := pay.TransDate, time.Date(2023, time.November, 28, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("payment trans date: got %v, want %v", got, want)
	}
	if pay.Description != "PAYMENT THANK YOU/PAIEMENT MERCI" {
		t.Errorf("payment description: got %q", pay.Description)
	}
	if pay.Amount.StringFixed(2) != "830.00" {
		t.Errorf("payment amount: got %s, want 830.00", pay.Amount)
	}
	if pay.Source != "CIBC" {
		t.Errorf("payment source: got %q, want CIBC", pay.Source)
	}

	if len(st.Transactions) != 3 {
		t.Fatalf("transactions: got %d, want 3", len(st.Transactions))
	}

	tim := st.Transactions[0]
	if tim.Category != "Restaurants" {
		t.Errorf("category: got %q, want Restaurants", tim.Category)
	}
	if tim.Description != "TIM HORTONS #1234 OTTAWA ON" {
		t.Errorf("description: got %q", tim.Description)
	}
	if tim.City != "Ottawa" || tim.Province != "ON" {
		t.Errorf("location: got city=%q province=%q, want Ottawa ON", tim.City, tim.Province)
	}
	if tim.Location != "Ottawa ON" {
		t.Errorf("location string: got %q, want %q", tim.Location, "Ottawa ON")
	}

	mid := st.Transactions[2]
	if mid.Category != "Other Transactions" {
		t.Errorf("category: got %q, want Other Transactions", mid.Category)
	}
	if mid.City != "Halifax" || mid.Province != "NS" {
		t.Errorf("location: got city=%q province=%q, want Halifax NS", mid.City, mid.Province)
	}
	if mid.Amount.StringFixed(2) != "25.00" {
		t.Errorf("amount: got %s, want 25.00", mid.Amount)
	}

	t.Logf("parsed %d payments, %d transactions", len(st.Payments), len(st.Transactions))
}

func TestRowPattern(t *testing.T) {
	line := "Jan 5 Jan 7 TIM HORTONS OTTAWA ON Retail and Grocery 12.34"
	m := rowPattern.FindStringSubmatch(line)
	if m == nil {
		t.Fatalf("rowPattern did not match %q", line)
	}
	if m[1] != "Jan" || m[2] != "5" || m[3] != "Jan" || m[4] != "7" {
		t.Errorf("dates: got %s %s / %s %s, want Jan 5 / Jan 7", m[1], m[2], m[3], m[4])
	}
	if m[5] != "TIM HORTONS OTTAWA ON Retail and Grocery" {
		t.Errorf("body: got %q", m[5])
	}
	if m[6] != "12.34" {
		t.Errorf("amount: got %q, want 12.34", m[6])
	}

	for _, bad := range []string{
		"Your payments",
		"Total payments $976.90",
		"TIM HORTONS OTTAWA ON 12.34",
		"Jan 5 TIM HORTONS 12.34",
	} {
		if rowPattern.MatchString(bad) {
			t.Errorf("rowPattern should not match %q", bad)
		}
	}
}

func TestCIBCParser_RowsOutsideSectionsIgnored(t *testing.T) {
	p := &CIBCParser{}

	// Row-shaped lines before any marker, and after the payments total, must
	// be dropped.
	pages := []string{
		`Transactions from January 1 to January 31, 2024
Jan 2 Jan 3 NOT A REAL ROW YET 10.00
Your payments
Jan 5 Jan 6 PAYMENT THANK YOU 100.00
Total payments $100.00
Jan 7 Jan 8 BETWEEN SECTIONS 20.00
Your new charges and credits
Jan 9 Jan 10 SHOP OTTAWA ON Retail and Grocery 30.00`,
	}

	st, err := p.Parse(pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Payments) != 1 {
		t.Errorf("payments: got %d, want 1", len(st.Payments))
	}
	if len(st.Transactions) != 1 {
		t.Errorf("transactions: got %d, want 1", len(st.Transactions))
	}
}

func TestCIBCParser_TotalLineInsideChargesKeepsSection(t *testing.T) {
	p := &CIBCParser{}

	// A stray payments-total line inside the charges section must not close
	// it; only the payments section ends on that marker.
	pages := []string{
		`Transactions from January 1 to January 31, 2024
Your new charges and credits
Jan 9 Jan 10 SHOP OTTAWA ON Retail and Grocery 30.00
Total payments $100.00
Jan 11 Jan 12 CAFE MONTREAL QC Restaurants 15.00`,
	}

	st, err := p.Parse(pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Transactions) != 2 {
		t.Fatalf("transactions: got %d, want 2", len(st.Transactions))
	}
	if st.Transactions[1].City != "Montreal" {
		t.Errorf("second charge city: got %q, want Montreal", st.Transactions[1].City)
	}
}

func TestCIBCParser_HeaderMarkersRequirePrefix(t *testing.T) {
	p := &CIBCParser{}

	// Prose mentioning a section header mid-sentence must not open the
	// section.
	pages := []string{
		`Transactions from January 1 to January 31, 2024
Information about Your payments is shown below
Jan 5 Jan 6 PAYMENT THANK YOU 100.00`,
	}

	st, err := p.Parse(pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Payments) != 0 {
		t.Errorf("payments: got %d, want 0", len(st.Payments))
	}
}

func TestCIBCParser_DoubledSpacesInMarkers(t *testing.T) {
	p := &CIBCParser{}

	// Internal whitespace is collapsed before classification, so a total
	// line with doubled spaces still ends the payments section.
	pages := []string{
		"Transactions from January 1 to January 31, 2024\n" +
			"Your  payments\n" +
			"Jan 5 Jan 6 PAYMENT THANK YOU 100.00\n" +
			"Total payments  $100.00\n" +
			"Jan 7 Jan 8 AFTER THE TOTAL 20.00",
	}

	st, err := p.Parse(pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Payments) != 1 {
		t.Fatalf("payments: got %d, want 1", len(st.Payments))
	}
	if st.Payments[0].Description != "PAYMENT THANK YOU" {
		t.Errorf("description: got %q", st.Payments[0].Description)
	}
}

func TestCIBCParser_YearFallback(t *testing.T) {
	p := &CIBCParser{Now: func() time.Time {
		return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	}}

	pages := []string{
		`Your payments
Feb 1 Feb 2 PAYMENT THANK YOU 50.00
Total payments $50.00`,
	}

	st, err := p.Parse(pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Year != 2025 {
		t.Errorf("year: got %d, want 2025", st.Year)
	}
	if !st.YearInferred {
		t.Error("expected YearInferred to be set when no period marker exists")
	}
}

func TestCIBCParser_LeapDayClampsInRow(t *testing.T) {
	p := &CIBCParser{}

	pages := []string{
		`Transactions from February 1 to February 29, 2023
Your new charges and credits
Feb 29 Feb 29 SHOP OTTAWA ON Retail and Grocery 10.00`,
	}

	st, err := p.Parse(pages)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Transactions) != 1 {
		t.Fatalf("transactions: got %d, want 1", len(st.Transactions))
	}
	want := time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC)
	if got := st.Transactions[0].TransDate; !got.Equal(want) {
		t.Errorf("trans date: got %v, want %v", got, want)
	}
}

func TestCIBCParser_BadDateAborts(t *testing.T) {
	p := &CIBCParser{}

	pages := []string{
		`Transactions from January 1 to January 31, 2024
Your payments
Jan 0 Jan 2 PAYMENT THANK YOU 10.00`,
	}

	if _, err := p.Parse(pages); err == nil {
		t.Fatal("expected an error for a day-zero date token")
	}
}

func TestCIBCParser_Detect(t *testing.T) {
	p := &CIBCParser{}

	if !p.Detect([]string{"...\nYour new charges and credits\n..."}) {
		t.Error("expected CIBC markers to be detected")
	}
	if p.Detect([]string{"Barclays Bank UK PLC\nYour Statement"}) {
		t.Error("did not expect detection on a non-CIBC page")
	}
}

func TestAutoDetect(t *testing.T) {
	p, err := AutoDetect([]string{"Your payments\n"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IssuerName() != "CIBC" {
		t.Errorf("issuer: got %q, want CIBC", p.IssuerName())
	}

	if _, err := AutoDetect([]string{"unrelated text"}); err == nil {
		t.Error("expected an error for unrecognized pages")
	}
}

func TestNew(t *testing.T) {
	p, err := New(models.IssuerCIBC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.IssuerName() != "CIBC" {
		t.Errorf("issuer: got %q, want CIBC", p.IssuerName())
	}

	if _, err := New(models.Issuer("rbc")); err == nil {
		t.Error("expected an error for an unsupported issuer")
	}
}
