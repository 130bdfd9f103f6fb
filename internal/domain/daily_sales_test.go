package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func sampleEntry() DailySalesEntry {
	return Recalculate(DailySalesEntry{
		ID:             "sales-1",
		Date:           "2026-01-29",
		CashierID:      "cashier-1",
		CashierName:    "สมชาย",
		Channels:       PaymentChannels{Cash: 5000, QR: 3000, Bank: 2000, Government: 1000},
		Reconciliation: Reconciliation{ExpectedAmount: 11000, ActualAmount: 11000},
		Status:         SalesStatusSubmitted,
		SubmittedAt:    time.Date(2026, 1, 29, 18, 0, 0, 0, time.UTC),
		SubmittedBy:    "user-1",
	})
}

func TestSalesStatus_CanAdvanceTo(t *testing.T) {
	assert.True(t, SalesStatusSubmitted.CanAdvanceTo(SalesStatusAudited))
	assert.True(t, SalesStatusSubmitted.CanAdvanceTo(SalesStatusApproved))
	assert.True(t, SalesStatusAudited.CanAdvanceTo(SalesStatusAudited))
	assert.False(t, SalesStatusApproved.CanAdvanceTo(SalesStatusSubmitted))
	assert.False(t, SalesStatusAudited.CanAdvanceTo(SalesStatusSubmitted))
	assert.False(t, SalesStatus("draft").CanAdvanceTo(SalesStatusApproved))
}

func TestApplyPatch(t *testing.T) {
	tests := []struct {
		name     string
		patch    DailySalesPatch
		validate func(t *testing.T, before, after DailySalesEntry)
	}{
		{
			name:  "Patch vazio não altera nada",
			patch: DailySalesPatch{},
			validate: func(t *testing.T, before, after DailySalesEntry) {
				assert.Equal(t, before, after)
			},
		},
		{
			name:  "Alterar um meio de pagamento recalcula o total",
			patch: DailySalesPatch{Channels: &ChannelsPatch{Cash: ptr(6000.0)}},
			validate: func(t *testing.T, before, after DailySalesEntry) {
				assert.Equal(t, 6000.0, after.Channels.Cash)
				assert.Equal(t, before.Channels.QR, after.Channels.QR)
				assert.Equal(t, 12000.0, after.Total)
			},
		},
		{
			name:  "Alterar o valor conferido recalcula a diferença",
			patch: DailySalesPatch{Reconciliation: &ReconciliationPatch{ActualAmount: ptr(10800.0)}},
			validate: func(t *testing.T, before, after DailySalesEntry) {
				assert.Equal(t, -200.0, after.Reconciliation.Difference)
				assert.Equal(t, 11000.0, after.Total)
			},
		},
		{
			name: "Total e diferença enviados pelo cliente são ignorados",
			patch: DailySalesPatch{
				Total:          ptr(1.0),
				Reconciliation: &ReconciliationPatch{Difference: ptr(50.0)},
			},
			validate: func(t *testing.T, before, after DailySalesEntry) {
				assert.Equal(t, before.Total, after.Total)
				assert.Equal(t, before.Reconciliation.Difference, after.Reconciliation.Difference)
			},
		},
		{
			name: "Campos de auditoria são copiados e a data truncada em milissegundos",
			patch: DailySalesPatch{
				Status:    ptr(SalesStatusAudited),
				AuditedAt: ptr(time.Date(2026, 1, 30, 9, 0, 0, 123456789, time.UTC)),
				AuditedBy: ptr("auditor-1"),
			},
			validate: func(t *testing.T, before, after DailySalesEntry) {
				assert.Equal(t, SalesStatusAudited, after.Status)
				assert.Equal(t, "auditor-1", after.AuditedBy)
				assert.Equal(t, time.Date(2026, 1, 30, 9, 0, 0, 123000000, time.UTC), *after.AuditedAt)
				assert.Equal(t, before.SubmittedAt, after.SubmittedAt)
				assert.Equal(t, before.SubmittedBy, after.SubmittedBy)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := sampleEntry()
			after := ApplyPatch(before, tt.patch)
			tt.validate(t, before, after)
		})
	}
}

func TestNewEntryFromPatch_DefaultsToSubmitted(t *testing.T) {
	entry := NewEntryFromPatch(DailySalesPatch{
		Date:      ptr("2026-01-29"),
		CashierID: ptr("cashier-1"),
		Channels:  &ChannelsPatch{Cash: ptr(100.0), QR: ptr(0.0), Bank: ptr(0.0), Government: ptr(0.0)},
	})

	assert.Equal(t, SalesStatusSubmitted, entry.Status)
	assert.Equal(t, 100.0, entry.Total)
}

func TestDailySalesPatch_ChangesStatus(t *testing.T) {
	assert.False(t, DailySalesPatch{}.ChangesStatus(SalesStatusSubmitted))
	assert.False(t, DailySalesPatch{Status: ptr(SalesStatusSubmitted)}.ChangesStatus(SalesStatusSubmitted))
	assert.True(t, DailySalesPatch{Status: ptr(SalesStatusApproved)}.ChangesStatus(SalesStatusSubmitted))
	assert.True(t, DailySalesPatch{}.IsEmpty())
	assert.False(t, DailySalesPatch{AuditNotes: ptr("ok")}.IsEmpty())
}
