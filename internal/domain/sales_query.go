package domain

import (
	"sort"
	"strings"
)

type SortKey string

const (
	SortByDate        SortKey = "date"
	SortByCashierName SortKey = "cashierName"
	SortByTotal       SortKey = "total"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Matches aplica todos os filtros informados. Datas são comparadas como texto AAAA-MM-DD, com limites inclusivos.
func (f SalesFilter) Matches(entry DailySalesEntry) bool {
	if f.DateFrom != "" && entry.Date < f.DateFrom {
		return false
	}
	if f.DateTo != "" && entry.Date > f.DateTo {
		return false
	}
	if f.Status != "" && entry.Status != f.Status {
		return false
	}
	if f.CashierName != "" &&
		!strings.Contains(strings.ToLower(entry.CashierName), strings.ToLower(f.CashierName)) {
		return false
	}
	return true
}

// IsEmpty indica se nenhum filtro foi informado
func (f SalesFilter) IsEmpty() bool {
	return f.DateFrom == "" && f.DateTo == "" && f.Status == "" && f.CashierName == ""
}

// Validate verifica o formato dos filtros recebidos na query string
func (f SalesFilter) Validate() ValidationResult {
	result := newValidationResult()

	if f.DateFrom != "" && !isDate(f.DateFrom) {
		result.Add("dateFrom", "Data deve estar no formato AAAA-MM-DD")
	}
	if f.DateTo != "" && !isDate(f.DateTo) {
		result.Add("dateTo", "Data deve estar no formato AAAA-MM-DD")
	}
	if f.Status != "" && !f.Status.IsValid() {
		result.Add("status", "Deve ser um dos valores: submitted audited approved")
	}

	return result
}

func isDate(value string) bool {
	return validate.Var(value, "datetime="+DateLayout) == nil
}

func FilterEntries(entries []DailySalesEntry, filter SalesFilter) []DailySalesEntry {
	filtered := make([]DailySalesEntry, 0, len(entries))
	for _, entry := range entries {
		if filter.Matches(entry) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// SortEntries ordena uma cópia dos lançamentos. Empates são desfeitos por submittedAt, na mesma direção.
func SortEntries(entries []DailySalesEntry, key SortKey, order SortOrder) []DailySalesEntry {
	sorted := make([]DailySalesEntry, len(entries))
	copy(sorted, entries)

	less := func(a, b DailySalesEntry) int {
		switch key {
		case SortByCashierName:
			return strings.Compare(a.CashierName, b.CashierName)
		case SortByTotal:
			switch {
			case a.Total < b.Total:
				return -1
			case a.Total > b.Total:
				return 1
			}
			return 0
		default:
			return strings.Compare(a.Date, b.Date)
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := less(sorted[i], sorted[j])
		if cmp == 0 {
			cmp = sorted[i].SubmittedAt.Compare(sorted[j].SubmittedAt)
		}
		if order == SortAsc {
			return cmp < 0
		}
		return cmp > 0
	})

	return sorted
}
