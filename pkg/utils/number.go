package utils

import "github.com/shopspring/decimal"

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

// SumAmounts soma valores monetários sem acumular erro de ponto flutuante
func SumAmounts(amounts ...float64) float64 {
	sum := decimal.Zero
	for _, amount := range amounts {
		sum = sum.Add(decimal.NewFromFloat(amount))
	}
	return sum.InexactFloat64()
}
