package ingest_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/AnchalSR/credit-system.backend/internal/infrastructure/ingest"
)

func writeBook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func TestWorkbookSourceCustomers(t *testing.T) {
	dir := t.TempDir()
	customerPath := filepath.Join(dir, "customers.xlsx")

	writeBook(t, customerPath, [][]any{
		{"Customer ID", "First Name", "Last Name", "Age", "Phone Number", "Monthly Salary", "Approved Limit", "Current Debt"},
		{"1", " Aarav ", "Sharma", "28", "9876543210", "50,000", "1,800,000", "0"},
		{"2.0", "Diya", "Patel", "34", "9123456780", "75000.50", "2700000", "120000"},
		{"", "Headerless", "", "", "", "oops", "", ""},
	})

	src := ingest.NewWorkbookSource(customerPath, "")
	rows, err := src.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, int64(1), rows[0].CustomerID)
	assert.Equal(t, "Aarav", rows[0].FirstName)
	assert.Equal(t, 28, rows[0].Age)
	assert.Equal(t, "50000", rows[0].MonthlySalary.String())
	assert.Equal(t, "1800000", rows[0].ApprovedLimit.String())

	// Numeric cells rendered with a trailing decimal point still parse.
	assert.Equal(t, int64(2), rows[1].CustomerID)
	assert.Equal(t, "75000.5", rows[1].MonthlySalary.String())

	// Malformed cells come back zero-valued for the use case to skip.
	assert.Equal(t, int64(0), rows[2].CustomerID)
	assert.True(t, rows[2].MonthlySalary.IsZero())
}

func TestWorkbookSourceLoans(t *testing.T) {
	dir := t.TempDir()
	loanPath := filepath.Join(dir, "loans.xlsx")

	writeBook(t, loanPath, [][]any{
		{"Customer ID", "Loan ID", "Loan Amount", "Tenure", "Interest Rate", "EMIs paid on Time", "Date of Approval", "End Date"},
		{"1", "101", "500000", "24", "15", "6", "2023-02-01", "2025-02-01"},
		{"1", "102", "300000", "12", "10.5", "12", "8/1/19", "not a date"},
	})

	src := ingest.NewWorkbookSource("", loanPath)
	rows, err := src.Loans(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(101), rows[0].LoanID)
	assert.Equal(t, int64(1), rows[0].CustomerID)
	assert.Equal(t, "500000", rows[0].Principal.String())
	assert.Equal(t, 24, rows[0].TenureMonths)
	assert.Equal(t, 6, rows[0].EMIsPaidOnTime)
	assert.Equal(t, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), rows[0].StartDate)

	assert.Equal(t, time.Date(2019, 8, 1, 0, 0, 0, 0, time.UTC), rows[1].StartDate)
	assert.True(t, rows[1].EndDate.IsZero())
}

func TestWorkbookSourceMissingFile(t *testing.T) {
	src := ingest.NewWorkbookSource(filepath.Join(t.TempDir(), "absent.xlsx"), "")
	_, err := src.Customers(context.Background())
	require.Error(t, err)
}
