package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/minimart-api/infrastructure/database/postgres"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/pkg/utils"
)

const salesTable = "daily_sales"

const createSalesTableSQL = `
CREATE TABLE IF NOT EXISTS daily_sales (
	id              TEXT PRIMARY KEY,
	date            DATE NOT NULL,
	cashier_id      TEXT NOT NULL,
	cashier_name    TEXT NOT NULL DEFAULT '',
	cash            DOUBLE PRECISION NOT NULL DEFAULT 0,
	qr              DOUBLE PRECISION NOT NULL DEFAULT 0,
	bank            DOUBLE PRECISION NOT NULL DEFAULT 0,
	government      DOUBLE PRECISION NOT NULL DEFAULT 0,
	expected_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	actual_amount   DOUBLE PRECISION NOT NULL DEFAULT 0,
	difference      DOUBLE PRECISION NOT NULL DEFAULT 0,
	notes           TEXT NOT NULL DEFAULT '',
	total           DOUBLE PRECISION NOT NULL DEFAULT 0,
	status          TEXT NOT NULL,
	audit_notes     TEXT NOT NULL DEFAULT '',
	submitted_at    TIMESTAMPTZ NOT NULL,
	submitted_by    TEXT NOT NULL DEFAULT '',
	audited_at      TIMESTAMPTZ,
	audited_by      TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_daily_sales_date ON daily_sales (date);
CREATE INDEX IF NOT EXISTS idx_daily_sales_status ON daily_sales (status);
`

var salesColumns = []string{
	"id", "date", "cashier_id", "cashier_name",
	"cash", "qr", "bank", "government",
	"expected_amount", "actual_amount", "difference", "notes",
	"total", "status", "audit_notes",
	"submitted_at", "submitted_by", "audited_at", "audited_by",
}

type salesPostgresRepository struct {
	conn *postgres.Connection
}

func NewSalesPostgresRepository(conn *postgres.Connection) SalesRepository {
	return &salesPostgresRepository{
		conn: conn,
	}
}

func (r *salesPostgresRepository) Initialize(ctx context.Context) error {
	if _, err := r.conn.ExecContext(ctx, createSalesTableSQL); err != nil {
		return errors.Wrap(err, "erro ao criar tabela daily_sales")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSalesEntry(row rowScanner) (domain.DailySalesEntry, error) {
	var (
		entry     domain.DailySalesEntry
		date      time.Time
		status    string
		auditedAt sql.NullTime
	)

	err := row.Scan(
		&entry.ID,
		&date,
		&entry.CashierID,
		&entry.CashierName,
		&entry.Channels.Cash,
		&entry.Channels.QR,
		&entry.Channels.Bank,
		&entry.Channels.Government,
		&entry.Reconciliation.ExpectedAmount,
		&entry.Reconciliation.ActualAmount,
		&entry.Reconciliation.Difference,
		&entry.Reconciliation.Notes,
		&entry.Total,
		&status,
		&entry.AuditNotes,
		&entry.SubmittedAt,
		&entry.SubmittedBy,
		&auditedAt,
		&entry.AuditedBy,
	)
	if err != nil {
		return entry, err
	}

	entry.Date = utils.FormatDate(date)
	entry.Status = domain.SalesStatus(status)
	entry.SubmittedAt = entry.SubmittedAt.UTC()
	if auditedAt.Valid {
		entry.AuditedAt = truncateTime(&auditedAt.Time)
	}

	return entry, nil
}

func (r *salesPostgresRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]domain.DailySalesEntry, error) {
	queryBuilder := squirrel.
		Select(salesColumns...).
		From(salesTable).
		PlaceholderFormat(squirrel.Dollar)

	if where != nil {
		queryBuilder = queryBuilder.Where(where)
	}

	salesSQL, salesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx, salesSQL, salesArgs...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar daily_sales")
	}
	defer rows.Close()

	entries := []domain.DailySalesEntry{}
	for rows.Next() {
		entry, err := scanSalesEntry(rows)
		if err != nil {
			return nil, errors.Wrap(err, "erro ao processar resultado")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante iteração")
	}

	return entries, nil
}

func (r *salesPostgresRepository) ListAll(ctx context.Context) ([]domain.DailySalesEntry, error) {
	return r.list(ctx, nil)
}

func (r *salesPostgresRepository) ListByDateRange(ctx context.Context, from, to string) ([]domain.DailySalesEntry, error) {
	if _, _, err := dateBounds(from, to); err != nil {
		return nil, err
	}

	conditions := squirrel.And{}
	if from != "" {
		conditions = append(conditions, squirrel.GtOrEq{"date": from})
	}
	if to != "" {
		conditions = append(conditions, squirrel.LtOrEq{"date": to})
	}

	if len(conditions) == 0 {
		return r.list(ctx, nil)
	}

	return r.list(ctx, conditions)
}

func (r *salesPostgresRepository) ListByStatus(ctx context.Context, status domain.SalesStatus) ([]domain.DailySalesEntry, error) {
	return r.list(ctx, squirrel.Eq{"status": string(status)})
}

func (r *salesPostgresRepository) getByID(ctx context.Context, q postgres.Queryer, id string, forUpdate bool) (*domain.DailySalesEntry, error) {
	queryBuilder := squirrel.
		Select(salesColumns...).
		From(salesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	if forUpdate {
		queryBuilder = queryBuilder.Suffix("FOR UPDATE")
	}

	salesSQL, salesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	entry, err := scanSalesEntry(q.QueryRowContext(ctx, salesSQL, salesArgs...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao buscar lançamento %s", id)
	}

	return &entry, nil
}

func (r *salesPostgresRepository) GetByID(ctx context.Context, id string) (*domain.DailySalesEntry, error) {
	return r.getByID(ctx, r.conn, id, false)
}

func (r *salesPostgresRepository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+salesTable).Scan(&total)
	if err != nil {
		return 0, errors.Wrap(err, "erro ao contar lançamentos")
	}

	return total, nil
}

func salesValues(entry domain.DailySalesEntry) []any {
	var auditedAt any
	if entry.AuditedAt != nil {
		auditedAt = *entry.AuditedAt
	}

	return []any{
		entry.ID, entry.Date, entry.CashierID, entry.CashierName,
		entry.Channels.Cash, entry.Channels.QR, entry.Channels.Bank, entry.Channels.Government,
		entry.Reconciliation.ExpectedAmount, entry.Reconciliation.ActualAmount,
		entry.Reconciliation.Difference, entry.Reconciliation.Notes,
		entry.Total, string(entry.Status), entry.AuditNotes,
		entry.SubmittedAt, entry.SubmittedBy, auditedAt, entry.AuditedBy,
	}
}

func (r *salesPostgresRepository) Add(ctx context.Context, entry domain.DailySalesEntry) (*domain.DailySalesEntry, error) {
	entry, err := prepareNewEntry(entry)
	if err != nil {
		return nil, err
	}
	entry.ID = uuid.NewString()

	queryBuilder := squirrel.
		Insert(salesTable).
		Columns(salesColumns...).
		Values(salesValues(entry)...).
		PlaceholderFormat(squirrel.Dollar)

	salesSQL, salesArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.conn.ExecContext(ctx, salesSQL, salesArgs...); err != nil {
		return nil, errors.Wrap(err, "erro ao inserir lançamento")
	}

	logrus.WithField("id", entry.ID).Info("Lançamento criado")

	return &entry, nil
}

func (r *salesPostgresRepository) Update(ctx context.Context, id string, patch domain.DailySalesPatch) (*domain.DailySalesEntry, error) {
	var updated domain.DailySalesEntry

	err := r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		stored, err := r.getByID(ctx, tx, id, true)
		if err != nil {
			return err
		}

		merged, err := mergeEntry(*stored, patch)
		if err != nil {
			return err
		}

		values := salesValues(merged)
		setMap := make(map[string]any, len(salesColumns)-1)
		for i, column := range salesColumns {
			if column == "id" {
				continue
			}
			setMap[column] = values[i]
		}

		salesSQL, salesArgs, err := squirrel.
			Update(salesTable).
			SetMap(setMap).
			Where(squirrel.Eq{"id": id}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, salesSQL, salesArgs...); err != nil {
			return errors.Wrapf(err, "erro ao atualizar lançamento %s", id)
		}

		updated = merged
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithField("id", id).Info("Lançamento atualizado")

	return &updated, nil
}

func (r *salesPostgresRepository) Delete(ctx context.Context, id string) error {
	salesSQL, salesArgs, err := squirrel.
		Delete(salesTable).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	result, err := r.conn.ExecContext(ctx, salesSQL, salesArgs...)
	if err != nil {
		return errors.Wrapf(err, "erro ao remover lançamento %s", id)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	logrus.WithField("id", id).Info("Lançamento removido")
	return nil
}
