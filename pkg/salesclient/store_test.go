package salesclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/minimart-api/internal/domain"
	"github.com/vfg2006/minimart-api/pkg/salesclient/mocks"
	"go.uber.org/mock/gomock"
)

func clientEntry(id string, status domain.SalesStatus, cash float64) domain.DailySalesEntry {
	return domain.Recalculate(domain.DailySalesEntry{
		ID:          id,
		Date:        "2026-01-29",
		CashierName: "สมชาย",
		Channels:    domain.PaymentChannels{Cash: cash, QR: 0.1, Bank: 0.2},
		Status:      status,
		SubmittedAt: time.Now().Add(-72 * time.Hour),
	})
}

func newTestStore(t *testing.T) (*Store, *mocks.MockSalesAPI) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockSalesAPI(ctrl)
	return NewStore(api), api
}

func TestStore_FetchRecalculatesStats(t *testing.T) {
	ctx := context.Background()
	store, api := newTestStore(t)

	now := time.Now()
	longAgo := now.Add(-48 * time.Hour)

	approvedToday := clientEntry("a", domain.SalesStatusApproved, 100)
	approvedToday.AuditedAt = &now
	approvedBefore := clientEntry("b", domain.SalesStatusApproved, 200)
	approvedBefore.AuditedAt = &longAgo

	api.EXPECT().
		ListSales(ctx, domain.SalesFilter{}).
		Return([]domain.DailySalesEntry{
			approvedToday,
			approvedBefore,
			clientEntry("c", domain.SalesStatusSubmitted, 300),
			clientEntry("d", domain.SalesStatusAudited, 400),
		}, nil)

	require.NoError(t, store.Fetch(ctx))

	stats := store.Stats()
	assert.Equal(t, 4, stats.TotalEntries)
	assert.Equal(t, 1, stats.PendingApproval)
	assert.Equal(t, 1, stats.ApprovedToday)
	assert.Equal(t, 1001.2, stats.TotalSales)
	assert.NoError(t, store.Err())

	totals := store.SalesByChannel()
	assert.Equal(t, 1000.0, totals.Cash)
	assert.Equal(t, 0.4, totals.QR)
	assert.Equal(t, 0.8, totals.Bank)
}

func TestStore_FailureKeepsEntries(t *testing.T) {
	ctx := context.Background()
	store, api := newTestStore(t)

	api.EXPECT().ListSales(ctx, gomock.Any()).Return([]domain.DailySalesEntry{clientEntry("a", domain.SalesStatusSubmitted, 100)}, nil)
	require.NoError(t, store.Fetch(ctx))

	failure := errors.New("servidor indisponível")
	api.EXPECT().ListSales(ctx, gomock.Any()).Return(nil, failure)

	assert.ErrorIs(t, store.Fetch(ctx), failure)
	assert.ErrorIs(t, store.Err(), failure)
	assert.Len(t, store.Entries(), 1)
}

func TestStore_Mutations(t *testing.T) {
	ctx := context.Background()
	store, api := newTestStore(t)

	created := clientEntry("a", domain.SalesStatusSubmitted, 100)
	api.EXPECT().CreateSales(ctx, gomock.Any()).Return(&created, nil)

	_, err := store.Add(ctx, domain.DailySalesPatch{})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Stats().PendingApproval)

	store.Select(&created)

	now := time.Now()
	approved := created
	approved.Status = domain.SalesStatusApproved
	approved.AuditedAt = &now
	api.EXPECT().ApproveSales(ctx, "a", "ok").Return(&approved, nil)

	_, err = store.Approve(ctx, "a", "ok")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Stats().PendingApproval)
	assert.Equal(t, 1, store.Stats().ApprovedToday)
	require.NotNil(t, store.Selected())
	assert.Equal(t, domain.SalesStatusApproved, store.Selected().Status)

	updated := approved
	updated.Channels.Cash = 500
	updated = domain.Recalculate(updated)
	api.EXPECT().UpdateSales(ctx, "a", gomock.Any()).Return(&updated, nil)

	_, err = store.Update(ctx, "a", domain.DailySalesPatch{})
	require.NoError(t, err)
	assert.Equal(t, 500.3, store.Stats().TotalSales)

	api.EXPECT().DeleteSales(ctx, "a").Return(nil)

	require.NoError(t, store.Delete(ctx, "a"))
	assert.Empty(t, store.Entries())
	assert.Nil(t, store.Selected())
	assert.Equal(t, 0, store.Stats().TotalEntries)
}

func TestStore_FetchByID(t *testing.T) {
	ctx := context.Background()
	store, api := newTestStore(t)

	entry := clientEntry("a", domain.SalesStatusSubmitted, 100)
	api.EXPECT().GetSales(ctx, "a").Return(&entry, nil)

	found, err := store.FetchByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", found.ID)
	assert.Equal(t, "a", store.Selected().ID)

	store.Select(nil)
	assert.Nil(t, store.Selected())
}

func TestStore_FilteredAndSorted(t *testing.T) {
	ctx := context.Background()
	store, api := newTestStore(t)

	small := clientEntry("small", domain.SalesStatusSubmitted, 100)
	large := clientEntry("large", domain.SalesStatusSubmitted, 900)
	approved := clientEntry("approved", domain.SalesStatusApproved, 500)

	api.EXPECT().ListSales(ctx, gomock.Any()).Return([]domain.DailySalesEntry{small, large, approved}, nil)
	require.NoError(t, store.Fetch(ctx))

	store.SetFilters(domain.SalesFilter{Status: domain.SalesStatusSubmitted})
	store.SetSort(domain.SortByTotal, domain.SortDesc)

	assert.Len(t, store.Filtered(), 2)

	sorted := store.Sorted()
	require.Len(t, sorted, 2)
	assert.Equal(t, "large", sorted[0].ID)
	assert.Equal(t, "small", sorted[1].ID)

	store.ClearFilters()
	assert.Equal(t, domain.SalesFilter{}, store.Filters())
	assert.Len(t, store.Sorted(), 3)
}
