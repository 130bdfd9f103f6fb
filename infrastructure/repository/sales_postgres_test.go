package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/minimart-api/infrastructure/database/postgres"
	"github.com/vfg2006/minimart-api/internal/domain"
)

var submittedAt = time.Date(2026, 1, 29, 18, 0, 0, 0, time.UTC)

func salesRow(rows *sqlmock.Rows, id string, status domain.SalesStatus) *sqlmock.Rows {
	return rows.AddRow(
		id, time.Date(2026, 1, 29, 0, 0, 0, 0, time.UTC), "cashier-1", "สมชาย",
		5000.0, 3000.0, 2000.0, 1000.0,
		11000.0, 11000.0, 0.0, "",
		11000.0, string(status), "",
		submittedAt, "user-1", nil, "",
	)
}

func newPostgresSalesRepo(t *testing.T) (SalesRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewSalesPostgresRepository(postgres.Wrap(db)), mock
}

func TestSalesPostgresRepository(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		setup    func(mock sqlmock.Sqlmock)
		run      func(repo SalesRepository) (any, error)
		validate func(t *testing.T, result any, err error)
	}{
		{
			name: "Busca por ID converte a linha em lançamento",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM daily_sales WHERE id = \$1`).
					WithArgs("id-1").
					WillReturnRows(salesRow(sqlmock.NewRows(salesColumns), "id-1", domain.SalesStatusSubmitted))
			},
			run: func(repo SalesRepository) (any, error) {
				return repo.GetByID(ctx, "id-1")
			},
			validate: func(t *testing.T, result any, err error) {
				require.NoError(t, err)
				entry := result.(*domain.DailySalesEntry)
				assert.Equal(t, "2026-01-29", entry.Date)
				assert.Equal(t, 11000.0, entry.Total)
				assert.Equal(t, domain.SalesStatusSubmitted, entry.Status)
				assert.Nil(t, entry.AuditedAt)
			},
		},
		{
			name: "Busca por ID inexistente retorna ErrNotFound",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM daily_sales WHERE id = \$1`).
					WithArgs("nao-existe").
					WillReturnRows(sqlmock.NewRows(salesColumns))
			},
			run: func(repo SalesRepository) (any, error) {
				return repo.GetByID(ctx, "nao-existe")
			},
			validate: func(t *testing.T, result any, err error) {
				assert.ErrorIs(t, err, ErrNotFound)
			},
		},
		{
			name: "Intervalo de datas vira condição inclusiva",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM daily_sales WHERE (.*)date >= \$1 AND date <= \$2`).
					WithArgs("2026-01-01", "2026-01-31").
					WillReturnRows(salesRow(sqlmock.NewRows(salesColumns), "id-1", domain.SalesStatusSubmitted))
			},
			run: func(repo SalesRepository) (any, error) {
				return repo.ListByDateRange(ctx, "2026-01-01", "2026-01-31")
			},
			validate: func(t *testing.T, result any, err error) {
				require.NoError(t, err)
				assert.Len(t, result.([]domain.DailySalesEntry), 1)
			},
		},
		{
			name:  "Intervalo com data inválida é rejeitado sem consultar o banco",
			setup: func(mock sqlmock.Sqlmock) {},
			run: func(repo SalesRepository) (any, error) {
				return repo.ListByDateRange(ctx, "01/01/2026", "")
			},
			validate: func(t *testing.T, result any, err error) {
				assert.ErrorIs(t, err, domain.ErrValidationFailed)
			},
		},
		{
			name: "Cadastro insere com ID gerado",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO daily_sales`).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			run: func(repo SalesRepository) (any, error) {
				return repo.Add(ctx, newSalesEntry("2026-01-29"))
			},
			validate: func(t *testing.T, result any, err error) {
				require.NoError(t, err)
				entry := result.(*domain.DailySalesEntry)
				assert.NotEmpty(t, entry.ID)
				assert.Equal(t, 11000.0, entry.Total)
				assert.Equal(t, domain.SalesStatusSubmitted, entry.Status)
			},
		},
		{
			name: "Atualização lê com bloqueio e grava na mesma transação",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT (.+) FROM daily_sales WHERE id = \$1 FOR UPDATE`).
					WithArgs("id-1").
					WillReturnRows(salesRow(sqlmock.NewRows(salesColumns), "id-1", domain.SalesStatusSubmitted))
				mock.ExpectExec(`UPDATE daily_sales SET (.+) WHERE id = \$\d+`).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectCommit()
			},
			run: func(repo SalesRepository) (any, error) {
				return repo.Update(ctx, "id-1", domain.DailySalesPatch{
					Reconciliation: &domain.ReconciliationPatch{ActualAmount: ptr(10800.0)},
				})
			},
			validate: func(t *testing.T, result any, err error) {
				require.NoError(t, err)
				entry := result.(*domain.DailySalesEntry)
				assert.Equal(t, -200.0, entry.Reconciliation.Difference)
				assert.Equal(t, submittedAt, entry.SubmittedAt)
			},
		},
		{
			name: "Retrocesso de status desfaz a transação",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`SELECT (.+) FROM daily_sales WHERE id = \$1 FOR UPDATE`).
					WithArgs("id-1").
					WillReturnRows(salesRow(sqlmock.NewRows(salesColumns), "id-1", domain.SalesStatusApproved))
				mock.ExpectRollback()
			},
			run: func(repo SalesRepository) (any, error) {
				return repo.Update(ctx, "id-1", domain.DailySalesPatch{Status: ptr(domain.SalesStatusAudited)})
			},
			validate: func(t *testing.T, result any, err error) {
				assert.ErrorIs(t, err, domain.ErrValidationFailed)
			},
		},
		{
			name: "Remoção sem linhas afetadas retorna ErrNotFound",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM daily_sales WHERE id = \$1`).
					WithArgs("id-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			run: func(repo SalesRepository) (any, error) {
				return nil, repo.Delete(ctx, "id-1")
			},
			validate: func(t *testing.T, result any, err error) {
				assert.ErrorIs(t, err, ErrNotFound)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newPostgresSalesRepo(t)
			tt.setup(mock)

			result, err := tt.run(repo)
			tt.validate(t, result, err)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
