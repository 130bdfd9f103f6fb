package domain

import "github.com/shopspring/decimal"

// CalculateTotal soma os quatro meios de pagamento
func CalculateTotal(c PaymentChannels) float64 {
	return decimal.NewFromFloat(c.Cash).
		Add(decimal.NewFromFloat(c.QR)).
		Add(decimal.NewFromFloat(c.Bank)).
		Add(decimal.NewFromFloat(c.Government)).
		InexactFloat64()
}

// CalculateDifference retorna o valor contado menos o valor esperado em caixa
func CalculateDifference(r Reconciliation) float64 {
	return decimal.NewFromFloat(r.ActualAmount).
		Sub(decimal.NewFromFloat(r.ExpectedAmount)).
		InexactFloat64()
}

// Recalculate substitui Total e Difference pelos valores calculados a partir dos campos de origem.
// Valores enviados pelo cliente para esses campos nunca sobrevivem a esta chamada.
func Recalculate(entry DailySalesEntry) DailySalesEntry {
	entry.Total = CalculateTotal(entry.Channels)
	entry.Reconciliation.Difference = CalculateDifference(entry.Reconciliation)
	return entry
}
