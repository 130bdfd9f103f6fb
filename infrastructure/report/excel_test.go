package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/minimart-api/internal/domain"
)

func TestNewSalesWorkbook(t *testing.T) {
	entries := []domain.DailySalesEntry{
		{
			ID: "sales-1", Date: "2026-01-29", CashierName: "สมชาย",
			Channels:       domain.PaymentChannels{Cash: 5000, QR: 3000, Bank: 2000, Government: 1000},
			Reconciliation: domain.Reconciliation{ExpectedAmount: 11000, ActualAmount: 10800, Difference: -200},
			Total:          11000,
			Status:         domain.SalesStatusSubmitted,
		},
		{
			ID: "sales-2", Date: "2026-01-30", CashierName: "มาลี",
			Channels: domain.PaymentChannels{Cash: 100},
			Total:    100,
			Status:   domain.SalesStatusApproved,
		},
	}

	f, err := NewSalesWorkbook(entries)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SalesSheetName}, f.GetSheetList())

	rows, err := f.GetRows(SalesSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, salesHeadings, rows[0])
	assert.Equal(t, "sales-1", rows[1][0])
	assert.Equal(t, "-200", rows[1][10])
	assert.Equal(t, "approved", rows[2][11])

	formula, err := f.GetCellFormula(SalesSheetName, "H4")
	require.NoError(t, err)
	assert.Equal(t, "SUM(H2:H3)", formula)
}

func TestNewSalesWorkbook_Empty(t *testing.T) {
	f, err := NewSalesWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SalesSheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
