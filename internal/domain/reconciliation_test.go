package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTotal(t *testing.T) {
	tests := []struct {
		name     string
		channels PaymentChannels
		expected float64
	}{
		{
			name:     "Soma dos quatro meios de pagamento",
			channels: PaymentChannels{Cash: 5000, QR: 3000, Bank: 2000, Government: 1000},
			expected: 11000,
		},
		{
			name:     "Valores com centavos não acumulam erro",
			channels: PaymentChannels{Cash: 0.1, QR: 0.2, Bank: 0, Government: 0},
			expected: 0.3,
		},
		{
			name:     "Todos zerados",
			channels: PaymentChannels{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateTotal(tt.channels))
		})
	}
}

func TestCalculateDifference(t *testing.T) {
	tests := []struct {
		name     string
		rec      Reconciliation
		expected float64
	}{
		{"Caixa conferido sem diferença", Reconciliation{ExpectedAmount: 11000, ActualAmount: 11000}, 0},
		{"Falta no caixa gera diferença negativa", Reconciliation{ExpectedAmount: 11000, ActualAmount: 10800}, -200},
		{"Sobra no caixa gera diferença positiva", Reconciliation{ExpectedAmount: 100.5, ActualAmount: 101}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculateDifference(tt.rec))
		})
	}
}

func TestRecalculate_IgnoresClientValues(t *testing.T) {
	entry := DailySalesEntry{
		Channels:       PaymentChannels{Cash: 5000, QR: 3000, Bank: 2000, Government: 1000},
		Reconciliation: Reconciliation{ExpectedAmount: 11000, ActualAmount: 10800, Difference: 999},
		Total:          1,
	}

	got := Recalculate(entry)

	assert.Equal(t, 11000.0, got.Total)
	assert.Equal(t, -200.0, got.Reconciliation.Difference)
}
