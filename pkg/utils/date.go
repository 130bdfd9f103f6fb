package utils

import "time"

const DateLayout = "2006-01-02"

// ParseDate converte uma data AAAA-MM-DD para meia-noite UTC. String vazia retorna nil.
func ParseDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}

// FormatDate formata a data no fuso UTC como AAAA-MM-DD
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// SameLocalDay indica se os dois instantes caem no mesmo dia do calendário local
func SameLocalDay(a, b time.Time) bool {
	ya, ma, da := a.Local().Date()
	yb, mb, db := b.Local().Date()
	return ya == yb && ma == mb && da == db
}
