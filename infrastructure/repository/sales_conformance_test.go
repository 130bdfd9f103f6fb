package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/minimart-api/infrastructure/database/firestoredb"
	"github.com/vfg2006/minimart-api/infrastructure/database/mongodb"
	"github.com/vfg2006/minimart-api/infrastructure/database/postgres"
	"github.com/vfg2006/minimart-api/internal/config"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/pkg/utils"
)

func ptr[T any](v T) *T {
	return &v
}

func newSalesEntry(date string) domain.DailySalesEntry {
	return domain.DailySalesEntry{
		Date:           date,
		CashierID:      "cashier-1",
		CashierName:    "สมชาย",
		Channels:       domain.PaymentChannels{Cash: 5000, QR: 3000, Bank: 2000, Government: 1000},
		Reconciliation: domain.Reconciliation{ExpectedAmount: 11000, ActualAmount: 11000},
		SubmittedBy:    "user-1",
	}
}

// salesBackends devolve o backend de arquivo e, quando as variáveis de ambiente estão definidas,
// os backends de banco de dados
func salesBackends(t *testing.T) map[string]func(t *testing.T) SalesRepository {
	backends := map[string]func(t *testing.T) SalesRepository{
		config.BackendJSON: func(t *testing.T) SalesRepository {
			return NewSalesJSONRepository(t.TempDir())
		},
	}

	if uri := os.Getenv("MONGODB_TEST_URI"); uri != "" {
		backends[config.BackendMongo] = func(t *testing.T) SalesRepository {
			ctx := context.Background()
			suffix, err := utils.GenerateID(8)
			require.NoError(t, err)

			conn, err := mongodb.NewConnection(ctx, config.Mongo{URI: uri, Database: "minimart_test_" + suffix})
			require.NoError(t, err)
			t.Cleanup(func() {
				_ = conn.Database.Drop(ctx)
				_ = conn.Close(ctx)
			})

			return NewSalesMongoRepository(conn.Database)
		}
	}

	if os.Getenv("FIRESTORE_EMULATOR_HOST") != "" {
		backends[config.BackendFirestore] = func(t *testing.T) SalesRepository {
			ctx := context.Background()
			client, err := firestoredb.NewClient(ctx, config.Firestore{ProjectID: "minimart-test"})
			require.NoError(t, err)
			t.Cleanup(func() { _ = client.Close() })

			repo := NewSalesFirestoreRepository(client)
			clearSales(t, repo)
			return repo
		}
	}

	if dsn := os.Getenv("POSTGRES_TEST_DSN"); dsn != "" {
		backends[config.BackendPostgres] = func(t *testing.T) SalesRepository {
			ctx := context.Background()
			conn, err := postgres.NewConnection(ctx, config.Database{DSN: dsn})
			require.NoError(t, err)
			t.Cleanup(func() { _ = conn.Close() })

			repo := NewSalesPostgresRepository(conn)
			require.NoError(t, repo.Initialize(ctx))
			_, err = conn.ExecContext(ctx, "TRUNCATE "+salesTable)
			require.NoError(t, err)
			return repo
		}
	}

	return backends
}

func clearSales(t *testing.T, repo SalesRepository) {
	ctx := context.Background()
	entries, err := repo.ListAll(ctx)
	require.NoError(t, err)
	for _, entry := range entries {
		require.NoError(t, repo.Delete(ctx, entry.ID))
	}
}

func assertSameEntry(t *testing.T, expected, actual domain.DailySalesEntry) {
	t.Helper()

	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Date, actual.Date)
	assert.Equal(t, expected.CashierID, actual.CashierID)
	assert.Equal(t, expected.CashierName, actual.CashierName)
	assert.Equal(t, expected.Channels, actual.Channels)
	assert.Equal(t, expected.Reconciliation, actual.Reconciliation)
	assert.Equal(t, expected.Total, actual.Total)
	assert.Equal(t, expected.Status, actual.Status)
	assert.Equal(t, expected.AuditNotes, actual.AuditNotes)
	assert.Equal(t, expected.SubmittedBy, actual.SubmittedBy)
	assert.Equal(t, expected.AuditedBy, actual.AuditedBy)
	assert.True(t, expected.SubmittedAt.Equal(actual.SubmittedAt), "submittedAt: %v != %v", expected.SubmittedAt, actual.SubmittedAt)

	if expected.AuditedAt == nil {
		assert.Nil(t, actual.AuditedAt)
	} else if assert.NotNil(t, actual.AuditedAt) {
		assert.True(t, expected.AuditedAt.Equal(*actual.AuditedAt))
	}
}

func TestSalesRepository_Conformance(t *testing.T) {
	for backend, open := range salesBackends(t) {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			repo := open(t)
			require.NoError(t, repo.Initialize(ctx))

			t.Run("Cadastro calcula campos derivados e pode ser lido de volta", func(t *testing.T) {
				created, err := repo.Add(ctx, newSalesEntry("2026-01-29"))
				require.NoError(t, err)

				assert.NotEmpty(t, created.ID)
				assert.Equal(t, 11000.0, created.Total)
				assert.Equal(t, 0.0, created.Reconciliation.Difference)
				assert.Equal(t, domain.SalesStatusSubmitted, created.Status)
				assert.False(t, created.SubmittedAt.IsZero())

				stored, err := repo.GetByID(ctx, created.ID)
				require.NoError(t, err)
				assertSameEntry(t, *created, *stored)
			})

			t.Run("Cadastro sem vendas é rejeitado", func(t *testing.T) {
				entry := newSalesEntry("2026-01-29")
				entry.Channels = domain.PaymentChannels{}

				_, err := repo.Add(ctx, entry)
				assert.ErrorIs(t, err, domain.ErrValidationFailed)
			})

			t.Run("Atualizações parciais preservam os demais campos", func(t *testing.T) {
				created, err := repo.Add(ctx, newSalesEntry("2026-01-30"))
				require.NoError(t, err)

				unchanged, err := repo.Update(ctx, created.ID, domain.DailySalesPatch{})
				require.NoError(t, err)
				assertSameEntry(t, *created, *unchanged)

				updated, err := repo.Update(ctx, created.ID, domain.DailySalesPatch{
					Channels: &domain.ChannelsPatch{Cash: ptr(6000.0)},
				})
				require.NoError(t, err)
				assert.Equal(t, 6000.0, updated.Channels.Cash)
				assert.Equal(t, 3000.0, updated.Channels.QR)
				assert.Equal(t, 12000.0, updated.Total)
				assert.Equal(t, created.SubmittedBy, updated.SubmittedBy)
				assert.True(t, created.SubmittedAt.Equal(updated.SubmittedAt))

				updated, err = repo.Update(ctx, created.ID, domain.DailySalesPatch{
					Reconciliation: &domain.ReconciliationPatch{ActualAmount: ptr(10800.0)},
				})
				require.NoError(t, err)
				assert.Equal(t, -200.0, updated.Reconciliation.Difference)
				assert.Equal(t, 11000.0, updated.Reconciliation.ExpectedAmount)

				stored, err := repo.GetByID(ctx, created.ID)
				require.NoError(t, err)
				assertSameEntry(t, *updated, *stored)
			})

			t.Run("Status só avança", func(t *testing.T) {
				created, err := repo.Add(ctx, newSalesEntry("2026-01-31"))
				require.NoError(t, err)

				auditedAt := time.Date(2026, 2, 1, 9, 30, 0, 123456789, time.UTC)
				approved, err := repo.Update(ctx, created.ID, domain.DailySalesPatch{
					Status:     ptr(domain.SalesStatusApproved),
					AuditNotes: ptr("ok"),
					AuditedAt:  &auditedAt,
					AuditedBy:  ptr("owner-1"),
				})
				require.NoError(t, err)
				assert.Equal(t, domain.SalesStatusApproved, approved.Status)
				require.NotNil(t, approved.AuditedAt)
				assert.True(t, auditedAt.Truncate(time.Millisecond).Equal(*approved.AuditedAt))

				_, err = repo.Update(ctx, created.ID, domain.DailySalesPatch{Status: ptr(domain.SalesStatusSubmitted)})
				assert.ErrorIs(t, err, domain.ErrValidationFailed)

				stored, err := repo.GetByID(ctx, created.ID)
				require.NoError(t, err)
				assert.Equal(t, domain.SalesStatusApproved, stored.Status)

				approvedList, err := repo.ListByStatus(ctx, domain.SalesStatusApproved)
				require.NoError(t, err)
				assert.Contains(t, entryIDs(approvedList), created.ID)

				submittedList, err := repo.ListByStatus(ctx, domain.SalesStatusSubmitted)
				require.NoError(t, err)
				assert.NotContains(t, entryIDs(submittedList), created.ID)
			})

			t.Run("Consulta por intervalo de datas é inclusiva", func(t *testing.T) {
				entries, err := repo.ListByDateRange(ctx, "2026-01-30", "2026-01-31")
				require.NoError(t, err)
				for _, entry := range entries {
					assert.GreaterOrEqual(t, entry.Date, "2026-01-30")
					assert.LessOrEqual(t, entry.Date, "2026-01-31")
				}
				assert.Len(t, entries, 2)

				all, err := repo.ListByDateRange(ctx, "", "")
				require.NoError(t, err)
				total, err := repo.Count(ctx)
				require.NoError(t, err)
				assert.Len(t, all, total)
			})

			t.Run("Remoção é definitiva", func(t *testing.T) {
				created, err := repo.Add(ctx, newSalesEntry("2026-02-01"))
				require.NoError(t, err)

				before, err := repo.Count(ctx)
				require.NoError(t, err)

				require.NoError(t, repo.Delete(ctx, created.ID))
				assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrNotFound)

				_, err = repo.GetByID(ctx, created.ID)
				assert.ErrorIs(t, err, ErrNotFound)

				_, err = repo.Update(ctx, created.ID, domain.DailySalesPatch{CashierName: ptr("x")})
				assert.ErrorIs(t, err, ErrNotFound)

				after, err := repo.Count(ctx)
				require.NoError(t, err)
				assert.Equal(t, before-1, after)
			})
		})
	}
}

func entryIDs(entries []domain.DailySalesEntry) []string {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}
