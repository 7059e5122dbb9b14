package ingest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/AnchalSR/credit-system.backend/internal/domain/port"
)

// WorkbookSource implements port.SeedSource over the historical xlsx books.
// Column positions are resolved from the header row, so reordered sheets
// still load.
type WorkbookSource struct {
	customerPath string
	loanPath     string
}

// NewWorkbookSource points the source at the two workbook files.
func NewWorkbookSource(customerPath, loanPath string) *WorkbookSource {
	return &WorkbookSource{customerPath: customerPath, loanPath: loanPath}
}

// Customers reads the customer book. Rows that fail to parse come back
// zero-valued and are skipped downstream.
func (s *WorkbookSource) Customers(_ context.Context) ([]port.SeedCustomerRow, error) {
	rows, header, err := readSheet(s.customerPath)
	if err != nil {
		return nil, fmt.Errorf("customer book: %w", err)
	}

	out := make([]port.SeedCustomerRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, port.SeedCustomerRow{
			CustomerID:    cellInt64(row, header, "customer id"),
			FirstName:     cellString(row, header, "first name"),
			LastName:      cellString(row, header, "last name"),
			Age:           int(cellInt64(row, header, "age")),
			PhoneNumber:   cellString(row, header, "phone number"),
			MonthlySalary: cellDecimal(row, header, "monthly salary"),
			ApprovedLimit: cellDecimal(row, header, "approved limit"),
			CurrentDebt:   cellDecimal(row, header, "current debt"),
		})
	}
	return out, nil
}

// Loans reads the loan book.
func (s *WorkbookSource) Loans(_ context.Context) ([]port.SeedLoanRow, error) {
	rows, header, err := readSheet(s.loanPath)
	if err != nil {
		return nil, fmt.Errorf("loan book: %w", err)
	}

	out := make([]port.SeedLoanRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, port.SeedLoanRow{
			CustomerID:     cellInt64(row, header, "customer id"),
			LoanID:         cellInt64(row, header, "loan id"),
			Principal:      cellDecimal(row, header, "loan amount"),
			TenureMonths:   int(cellInt64(row, header, "tenure")),
			InterestRate:   cellDecimal(row, header, "interest rate"),
			EMIsPaidOnTime: int(cellInt64(row, header, "emis paid on time")),
			StartDate:      cellDate(row, header, "date of approval"),
			EndDate:        cellDate(row, header, "end date"),
		})
	}
	return out, nil
}

// readSheet returns the data rows of the first sheet plus a header index
// keyed by lowercased column title.
func readSheet(path string) ([][]string, map[string]int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}

	header := make(map[string]int, len(rows[0]))
	for i, title := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(title))] = i
	}
	return rows[1:], header, nil
}

func cellString(row []string, header map[string]int, column string) string {
	idx, ok := header[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func cellInt64(row []string, header map[string]int, column string) int64 {
	raw := cellString(row, header, column)
	if raw == "" {
		return 0
	}
	// Numeric cells sometimes render with a decimal point.
	if dot := strings.IndexByte(raw, '.'); dot >= 0 {
		raw = raw[:dot]
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func cellDecimal(row []string, header map[string]int, column string) decimal.Decimal {
	raw := strings.ReplaceAll(cellString(row, header, column), ",", "")
	if raw == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return v
}

var dateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/06",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

func cellDate(row []string, header map[string]int, column string) time.Time {
	raw := cellString(row, header, column)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
