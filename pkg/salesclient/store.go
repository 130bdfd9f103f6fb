package salesclient

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/pkg/utils"
)

// Stats resume a coleção local. É recalculado após cada busca ou alteração.
type Stats struct {
	TotalSales      float64 `json:"totalSales"`
	TotalEntries    int     `json:"totalEntries"`
	PendingApproval int     `json:"pendingApproval"`
	ApprovedToday   int     `json:"approvedToday"`
}

// ChannelTotals soma as vendas por meio de pagamento
type ChannelTotals struct {
	Cash       float64 `json:"cash"`
	QR         float64 `json:"qr"`
	Bank       float64 `json:"bank"`
	Government float64 `json:"government"`
}

// Store espelha no cliente os lançamentos buscados no servidor. A resposta do servidor sempre
// substitui o estado local; nada é calculado de forma otimista.
type Store struct {
	api SalesAPI
	now func() time.Time

	mu        sync.RWMutex
	entries   []domain.DailySalesEntry
	selected  *domain.DailySalesEntry
	filters   domain.SalesFilter
	sortBy    domain.SortKey
	sortOrder domain.SortOrder
	stats     Stats
	err       error
}

func NewStore(api SalesAPI) *Store {
	return &Store{
		api:       api,
		now:       time.Now,
		entries:   []domain.DailySalesEntry{},
		sortBy:    domain.SortByDate,
		sortOrder: domain.SortDesc,
	}
}

// Fetch substitui a coleção local pela lista completa do servidor
func (s *Store) Fetch(ctx context.Context) error {
	entries, err := s.api.ListSales(ctx, domain.SalesFilter{})
	if err != nil {
		s.fail(err, "Erro ao buscar lançamentos")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = entries
	s.err = nil
	s.recalculateLocked()
	return nil
}

// FetchByID busca um lançamento e o torna o selecionado
func (s *Store) FetchByID(ctx context.Context, id string) (*domain.DailySalesEntry, error) {
	entry, err := s.api.GetSales(ctx, id)
	if err != nil {
		s.fail(err, "Erro ao buscar lançamento")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = entry
	s.err = nil
	return entry, nil
}

func (s *Store) Add(ctx context.Context, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error) {
	created, err := s.api.CreateSales(ctx, patch)
	if err != nil {
		s.fail(err, "Erro ao registrar lançamento")
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, *created)
	s.err = nil
	s.recalculateLocked()
	return created, nil
}

func (s *Store) Update(ctx context.Context, id string, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error) {
	updated, err := s.api.UpdateSales(ctx, id, patch)
	if err != nil {
		s.fail(err, "Erro ao atualizar lançamento")
		return nil, err
	}

	s.replace(*updated)
	return updated, nil
}

// Approve usa o atalho de aprovação do servidor, que preenche auditedAt e auditedBy
func (s *Store) Approve(ctx context.Context, id string, notes string) (*domain.DailySalesEntry, error) {
	approved, err := s.api.ApproveSales(ctx, id, notes)
	if err != nil {
		s.fail(err, "Erro ao aprovar lançamento")
		return nil, err
	}

	s.replace(*approved)
	return approved, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteSales(ctx, id); err != nil {
		s.fail(err, "Erro ao remover lançamento")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	remaining := s.entries[:0]
	for _, entry := range s.entries {
		if entry.ID != id {
			remaining = append(remaining, entry)
		}
	}
	s.entries = remaining

	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}

	s.err = nil
	s.recalculateLocked()
	return nil
}

func (s *Store) replace(entry domain.DailySalesEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.entries {
		if s.entries[i].ID == entry.ID {
			s.entries[i] = entry
			found = true
			break
		}
	}
	if !found {
		logrus.WithField("entry_id", entry.ID).Debug("Lançamento atualizado não estava na coleção local")
	}

	if s.selected != nil && s.selected.ID == entry.ID {
		selected := entry
		s.selected = &selected
	}

	s.err = nil
	s.recalculateLocked()
}

func (s *Store) fail(err error, message string) {
	logrus.WithError(err).Warn(message)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Store) recalculateLocked() {
	today := s.now()

	stats := Stats{TotalEntries: len(s.entries)}
	total := decimal.Zero

	for _, entry := range s.entries {
		total = total.Add(decimal.NewFromFloat(domain.CalculateTotal(entry.Channels)))

		switch entry.Status {
		case domain.SalesStatusSubmitted:
			stats.PendingApproval++
		case domain.SalesStatusApproved:
			approvedAt := entry.SubmittedAt
			if entry.AuditedAt != nil {
				approvedAt = *entry.AuditedAt
			}
			if utils.SameLocalDay(approvedAt, today) {
				stats.ApprovedToday++
			}
		}
	}

	stats.TotalSales = utils.RoundWithTwoDecimalPlace(total.InexactFloat64())
	s.stats = stats
}

func (s *Store) SetFilters(filters domain.SalesFilter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
}

func (s *Store) ClearFilters() {
	s.SetFilters(domain.SalesFilter{})
}

func (s *Store) SetSort(key domain.SortKey, order domain.SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortBy = key
	s.sortOrder = order
}

// Select define o lançamento em edição. nil limpa a seleção.
func (s *Store) Select(entry *domain.DailySalesEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry == nil {
		s.selected = nil
		return
	}
	selected := *entry
	s.selected = &selected
}

// Entries retorna uma cópia da coleção local, na ordem recebida
func (s *Store) Entries() []domain.DailySalesEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.DailySalesEntry, len(s.entries))
	copy(entries, s.entries)
	return entries
}

func (s *Store) Selected() *domain.DailySalesEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.selected == nil {
		return nil
	}
	selected := *s.selected
	return &selected
}

func (s *Store) Filters() domain.SalesFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Err retorna a falha da última operação, ou nil se ela teve sucesso
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Filtered aplica os filtros atuais à coleção local
func (s *Store) Filtered() []domain.DailySalesEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.FilterEntries(s.entries, s.filters)
}

// Sorted aplica os filtros e a ordenação atuais
func (s *Store) Sorted() []domain.DailySalesEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SortEntries(domain.FilterEntries(s.entries, s.filters), s.sortBy, s.sortOrder)
}

func (s *Store) SalesByChannel() ChannelTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cash, qr, bank, government []float64
	for _, entry := range s.entries {
		cash = append(cash, entry.Channels.Cash)
		qr = append(qr, entry.Channels.QR)
		bank = append(bank, entry.Channels.Bank)
		government = append(government, entry.Channels.Government)
	}

	return ChannelTotals{
		Cash:       utils.SumAmounts(cash...),
		QR:         utils.SumAmounts(qr...),
		Bank:       utils.SumAmounts(bank...),
		Government: utils.SumAmounts(government...),
	}
}
