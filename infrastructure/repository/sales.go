package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vfg2006/minimart-api/internal/domain"
)

const salesCollection = "daily_sales"

var ErrNotFound = errors.New("registro não encontrado")

// SalesRepository é o único ponto de acesso aos lançamentos diários persistidos.
// Todas as implementações devem se comportar de forma idêntica para a mesma sequência de operações.
type SalesRepository interface {
	Initialize(ctx context.Context) error
	ListAll(ctx context.Context) ([]domain.DailySalesEntry, error)
	// ListByDateRange retorna os lançamentos com from <= date <= to. Limite vazio não restringe.
	ListByDateRange(ctx context.Context, from, to string) ([]domain.DailySalesEntry, error)
	ListByStatus(ctx context.Context, status domain.SalesStatus) ([]domain.DailySalesEntry, error)
	GetByID(ctx context.Context, id string) (*domain.DailySalesEntry, error)
	Count(ctx context.Context) (int, error)
	Add(ctx context.Context, entry domain.DailySalesEntry) (*domain.DailySalesEntry, error)
	Update(ctx context.Context, id string, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error)
	Delete(ctx context.Context, id string) error
}

var timeNow = time.Now

// prepareNewEntry define submittedAt e o status inicial, recalcula os campos derivados e valida
func prepareNewEntry(entry domain.DailySalesEntry) (domain.DailySalesEntry, error) {
	entry.ID = ""
	entry.SubmittedAt = timeNow().UTC().Truncate(time.Millisecond)
	if entry.Status == "" {
		entry.Status = domain.SalesStatusSubmitted
	}
	entry.AuditedAt = truncateTime(entry.AuditedAt)

	entry = domain.Recalculate(entry)

	if err := domain.ValidateEntry(entry, domain.ValidationCreate).Err(); err != nil {
		return entry, err
	}

	return entry, nil
}

// mergeEntry aplica o patch sobre o registro armazenado e valida o resultado, incluindo a transição de status
func mergeEntry(stored domain.DailySalesEntry, patch domain.DailySalesPatch) (domain.DailySalesEntry, error) {
	merged := domain.ApplyPatch(stored, patch)

	result := domain.ValidateEntry(merged, domain.ValidationUpdate)
	result.Merge(domain.ValidateStatusTransition(stored.Status, merged.Status))

	if err := result.Err(); err != nil {
		return stored, err
	}

	return merged, nil
}

func inDateRange(date, from, to string) bool {
	if from != "" && date < from {
		return false
	}
	if to != "" && date > to {
		return false
	}
	return true
}

func truncateTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	truncated := t.UTC().Truncate(time.Millisecond)
	return &truncated
}

func cloneEntry(entry domain.DailySalesEntry) domain.DailySalesEntry {
	entry.AuditedAt = truncateTime(entry.AuditedAt)
	return entry
}
