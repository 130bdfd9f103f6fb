package domain

import "time"

// DateLayout é o formato das datas de movimento (sem fuso horário)
const DateLayout = "2006-01-02"

type SalesStatus string

const (
	SalesStatusSubmitted SalesStatus = "submitted"
	SalesStatusAudited   SalesStatus = "audited"
	SalesStatusApproved  SalesStatus = "approved"
)

var salesStatusOrder = map[SalesStatus]int{
	SalesStatusSubmitted: 1,
	SalesStatusAudited:   2,
	SalesStatusApproved:  3,
}

func (s SalesStatus) IsValid() bool {
	_, ok := salesStatusOrder[s]
	return ok
}

// CanAdvanceTo indica se a transição de status respeita a ordem submitted → audited → approved.
// Permanecer no mesmo status é permitido.
func (s SalesStatus) CanAdvanceTo(next SalesStatus) bool {
	from, okFrom := salesStatusOrder[s]
	to, okTo := salesStatusOrder[next]
	if !okFrom || !okTo {
		return false
	}
	return to >= from
}

// PaymentChannels são os valores vendidos por meio de pagamento no dia
type PaymentChannels struct {
	Cash       float64 `json:"cash" validate:"gte=0"`
	QR         float64 `json:"qr" validate:"gte=0"`
	Bank       float64 `json:"bank" validate:"gte=0"`
	Government float64 `json:"government" validate:"gte=0"`
}

// Reconciliation é a conferência do dinheiro em caixa.
// Difference é sempre ActualAmount - ExpectedAmount.
type Reconciliation struct {
	ExpectedAmount float64 `json:"expectedAmount" validate:"gte=0"`
	ActualAmount   float64 `json:"actualAmount" validate:"gte=0"`
	Difference     float64 `json:"difference"`
	Notes          string  `json:"notes,omitempty"`
}

type DailySalesEntry struct {
	ID             string          `json:"id"`
	Date           string          `json:"date" validate:"required,datetime=2006-01-02"`
	CashierID      string          `json:"cashierId" validate:"required"`
	CashierName    string          `json:"cashierName"`
	Channels       PaymentChannels `json:"channels"`
	Reconciliation Reconciliation  `json:"reconciliation"`
	Total          float64         `json:"total"`
	Status         SalesStatus     `json:"status" validate:"required,oneof=submitted audited approved"`
	AuditNotes     string          `json:"auditNotes,omitempty"`
	SubmittedAt    time.Time       `json:"submittedAt"`
	SubmittedBy    string          `json:"submittedBy,omitempty"`
	AuditedAt      *time.Time      `json:"auditedAt,omitempty"`
	AuditedBy      string          `json:"auditedBy,omitempty"`
}

type ChannelsPatch struct {
	Cash       *float64 `json:"cash,omitempty" validate:"omitempty,gte=0"`
	QR         *float64 `json:"qr,omitempty" validate:"omitempty,gte=0"`
	Bank       *float64 `json:"bank,omitempty" validate:"omitempty,gte=0"`
	Government *float64 `json:"government,omitempty" validate:"omitempty,gte=0"`
}

type ReconciliationPatch struct {
	ExpectedAmount *float64 `json:"expectedAmount,omitempty" validate:"omitempty,gte=0"`
	ActualAmount   *float64 `json:"actualAmount,omitempty" validate:"omitempty,gte=0"`
	Difference     *float64 `json:"difference,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

// DailySalesPatch é o corpo de criação e de atualização parcial de um lançamento.
// Campos nulos não são alterados. Total e Difference enviados pelo cliente são ignorados.
type DailySalesPatch struct {
	Date           *string              `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	CashierID      *string              `json:"cashierId,omitempty"`
	CashierName    *string              `json:"cashierName,omitempty"`
	Channels       *ChannelsPatch       `json:"channels,omitempty"`
	Reconciliation *ReconciliationPatch `json:"reconciliation,omitempty"`
	Total          *float64             `json:"total,omitempty"`
	Status         *SalesStatus         `json:"status,omitempty" validate:"omitempty,oneof=submitted audited approved"`
	AuditNotes     *string              `json:"auditNotes,omitempty"`
	AuditedAt      *time.Time           `json:"auditedAt,omitempty"`
	AuditedBy      *string              `json:"auditedBy,omitempty"`
}

// IsEmpty indica se o patch não altera nenhum campo persistido
func (p DailySalesPatch) IsEmpty() bool {
	return p.Date == nil && p.CashierID == nil && p.CashierName == nil &&
		p.Channels == nil && p.Reconciliation == nil && p.Status == nil &&
		p.AuditNotes == nil && p.AuditedAt == nil && p.AuditedBy == nil
}

// ChangesStatus indica se o patch altera o status do lançamento
func (p DailySalesPatch) ChangesStatus(current SalesStatus) bool {
	return p.Status != nil && *p.Status != current
}

// ApplyPatch sobrepõe o patch a uma cópia do lançamento e recalcula os campos derivados.
// ID, SubmittedAt e SubmittedBy nunca são alterados.
func ApplyPatch(entry DailySalesEntry, p DailySalesPatch) DailySalesEntry {
	merged := entry

	if p.Date != nil {
		merged.Date = *p.Date
	}
	if p.CashierID != nil {
		merged.CashierID = *p.CashierID
	}
	if p.CashierName != nil {
		merged.CashierName = *p.CashierName
	}

	if c := p.Channels; c != nil {
		if c.Cash != nil {
			merged.Channels.Cash = *c.Cash
		}
		if c.QR != nil {
			merged.Channels.QR = *c.QR
		}
		if c.Bank != nil {
			merged.Channels.Bank = *c.Bank
		}
		if c.Government != nil {
			merged.Channels.Government = *c.Government
		}
	}

	if rc := p.Reconciliation; rc != nil {
		if rc.ExpectedAmount != nil {
			merged.Reconciliation.ExpectedAmount = *rc.ExpectedAmount
		}
		if rc.ActualAmount != nil {
			merged.Reconciliation.ActualAmount = *rc.ActualAmount
		}
		if rc.Notes != nil {
			merged.Reconciliation.Notes = *rc.Notes
		}
	}

	if p.Status != nil {
		merged.Status = *p.Status
	}
	if p.AuditNotes != nil {
		merged.AuditNotes = *p.AuditNotes
	}
	if p.AuditedAt != nil {
		auditedAt := p.AuditedAt.UTC().Truncate(time.Millisecond)
		merged.AuditedAt = &auditedAt
	}
	if p.AuditedBy != nil {
		merged.AuditedBy = *p.AuditedBy
	}

	return Recalculate(merged)
}

// NewEntryFromPatch monta um lançamento novo a partir do corpo de criação
func NewEntryFromPatch(p DailySalesPatch) DailySalesEntry {
	entry := ApplyPatch(DailySalesEntry{}, p)
	if entry.Status == "" {
		entry.Status = SalesStatusSubmitted
	}
	return entry
}

// SalesFilter são os filtros aceitos pela listagem de lançamentos
type SalesFilter struct {
	DateFrom    string
	DateTo      string
	Status      SalesStatus
	CashierName string
}
