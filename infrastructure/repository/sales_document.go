package repository

import (
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/pkg/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// salesDocument é a representação de um lançamento nos bancos de documentos.
// A data do movimento é gravada como timestamp nativo (meia-noite UTC).
type salesDocument struct {
	ObjectID       primitive.ObjectID     `bson:"_id,omitempty" firestore:"-"`
	Date           time.Time              `bson:"date" firestore:"date"`
	CashierID      string                 `bson:"cashierId" firestore:"cashierId"`
	CashierName    string                 `bson:"cashierName" firestore:"cashierName"`
	Channels       channelsDocument       `bson:"channels" firestore:"channels"`
	Reconciliation reconciliationDocument `bson:"reconciliation" firestore:"reconciliation"`
	Total          float64                `bson:"total" firestore:"total"`
	Status         string                 `bson:"status" firestore:"status"`
	AuditNotes     string                 `bson:"auditNotes,omitempty" firestore:"auditNotes,omitempty"`
	SubmittedAt    time.Time              `bson:"submittedAt" firestore:"submittedAt"`
	SubmittedBy    string                 `bson:"submittedBy,omitempty" firestore:"submittedBy,omitempty"`
	AuditedAt      *time.Time             `bson:"auditedAt,omitempty" firestore:"auditedAt,omitempty"`
	AuditedBy      string                 `bson:"auditedBy,omitempty" firestore:"auditedBy,omitempty"`
}

type channelsDocument struct {
	Cash       float64 `bson:"cash" firestore:"cash"`
	QR         float64 `bson:"qr" firestore:"qr"`
	Bank       float64 `bson:"bank" firestore:"bank"`
	Government float64 `bson:"government" firestore:"government"`
}

type reconciliationDocument struct {
	ExpectedAmount float64 `bson:"expectedAmount" firestore:"expectedAmount"`
	ActualAmount   float64 `bson:"actualAmount" firestore:"actualAmount"`
	Difference     float64 `bson:"difference" firestore:"difference"`
	Notes          string  `bson:"notes,omitempty" firestore:"notes,omitempty"`
}

func toSalesDocument(entry domain.DailySalesEntry) (salesDocument, error) {
	date, err := utils.ParseDate(entry.Date)
	if err != nil || date == nil {
		return salesDocument{}, errors.Wrapf(domain.ErrValidationFailed, "data inválida: %q", entry.Date)
	}

	return salesDocument{
		Date:        *date,
		CashierID:   entry.CashierID,
		CashierName: entry.CashierName,
		Channels: channelsDocument{
			Cash:       entry.Channels.Cash,
			QR:         entry.Channels.QR,
			Bank:       entry.Channels.Bank,
			Government: entry.Channels.Government,
		},
		Reconciliation: reconciliationDocument{
			ExpectedAmount: entry.Reconciliation.ExpectedAmount,
			ActualAmount:   entry.Reconciliation.ActualAmount,
			Difference:     entry.Reconciliation.Difference,
			Notes:          entry.Reconciliation.Notes,
		},
		Total:       entry.Total,
		Status:      string(entry.Status),
		AuditNotes:  entry.AuditNotes,
		SubmittedAt: entry.SubmittedAt.UTC(),
		SubmittedBy: entry.SubmittedBy,
		AuditedAt:   truncateTime(entry.AuditedAt),
		AuditedBy:   entry.AuditedBy,
	}, nil
}

func (d salesDocument) toEntry(id string) domain.DailySalesEntry {
	return domain.DailySalesEntry{
		ID:          id,
		Date:        utils.FormatDate(d.Date),
		CashierID:   d.CashierID,
		CashierName: d.CashierName,
		Channels: domain.PaymentChannels{
			Cash:       d.Channels.Cash,
			QR:         d.Channels.QR,
			Bank:       d.Channels.Bank,
			Government: d.Channels.Government,
		},
		Reconciliation: domain.Reconciliation{
			ExpectedAmount: d.Reconciliation.ExpectedAmount,
			ActualAmount:   d.Reconciliation.ActualAmount,
			Difference:     d.Reconciliation.Difference,
			Notes:          d.Reconciliation.Notes,
		},
		Total:       d.Total,
		Status:      domain.SalesStatus(d.Status),
		AuditNotes:  d.AuditNotes,
		SubmittedAt: d.SubmittedAt.UTC(),
		SubmittedBy: d.SubmittedBy,
		AuditedAt:   truncateTime(d.AuditedAt),
		AuditedBy:   d.AuditedBy,
	}
}

// dateBounds converte os limites AAAA-MM-DD do filtro em instantes para consultas nativas
func dateBounds(from, to string) (*time.Time, *time.Time, error) {
	start, err := utils.ParseDate(from)
	if err != nil {
		return nil, nil, errors.Wrapf(domain.ErrValidationFailed, "dateFrom inválido: %q", from)
	}

	end, err := utils.ParseDate(to)
	if err != nil {
		return nil, nil, errors.Wrapf(domain.ErrValidationFailed, "dateTo inválido: %q", to)
	}

	return start, end, nil
}
