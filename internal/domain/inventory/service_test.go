package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickstock/internal/core/apperror"
	"pickstock/internal/core/id"
	"pickstock/internal/core/tx"
	"pickstock/internal/domain"
	"pickstock/internal/domain/inventory"
	"pickstock/internal/infrastructure/storage/memory"
)

const companyID = "co1"

func newService() *inventory.Service {
	return inventory.NewService(memory.NewLedgerStore(), tx.Nop{}, domain.NewCompanyLocks())
}

func TestUpsert(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.Upsert(ctx, companyID, inventory.Batch{PartNumber: "PartA", DateCode: "2330", Lot: "L1", Quantity: 5})
	require.NoError(t, err)
	assert.False(t, id.IsNil(created.ID), "new batch gets an id")

	created.Quantity = 8
	updated, err := svc.Upsert(ctx, companyID, created)
	require.NoError(t, err)
	assert.Equal(t, 8, updated.Quantity)

	ledger, err := svc.List(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, 8, ledger[0].Quantity)

	t.Run("unknown id is rejected", func(t *testing.T) {
		_, err := svc.Upsert(ctx, companyID, inventory.Batch{ID: id.New(), PartNumber: "PartB"})
		assert.True(t, apperror.IsNotFound(err))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.Upsert(ctx, companyID, inventory.Batch{Quantity: 1})
		require.Error(t, err)
		_, err = svc.Upsert(ctx, companyID, inventory.Batch{PartNumber: "PartB", Quantity: -1})
		require.Error(t, err)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	created, err := svc.Upsert(ctx, companyID, inventory.Batch{PartNumber: "PartA", Quantity: 0})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, companyID, created.ID))
	assert.True(t, apperror.IsNotFound(svc.Delete(ctx, companyID, created.ID)))
}

func TestImportMergesByTriple(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.Upsert(ctx, companyID, inventory.Batch{PartNumber: "PartA", DateCode: "2330", Lot: "L1", Quantity: 5})
	require.NoError(t, err)

	result, err := svc.Import(ctx, companyID, []inventory.Batch{
		{PartNumber: "PartA", DateCode: "2330", Lot: "L1", Quantity: 3}, // merges
		{PartNumber: "PartA", DateCode: "2401", Lot: "L2", Quantity: 4}, // new lot
		{PartNumber: "PartB", DateCode: "2330", Lot: "L1", Quantity: 2}, // new part
	})
	require.NoError(t, err)
	assert.Equal(t, inventory.ImportResult{Added: 2, Merged: 1}, result)

	ledger, err := svc.List(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, ledger, 3)
	merged := ledger.FindByKey(inventory.BatchKey{PartNumber: "PartA", DateCode: "2330", Lot: "L1"})
	require.NotNil(t, merged)
	assert.Equal(t, 8, merged.Quantity)
}

func TestSummaries(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.Import(ctx, companyID, []inventory.Batch{
		{PartNumber: "PN-10", DateCode: "2330", Lot: "L1", Quantity: 5},
		{PartNumber: "PN-10", DateCode: "2401", Lot: "L2", Quantity: 3},
		{PartNumber: "PN-2", DateCode: "2330", Lot: "L1", Quantity: 7},
	})
	require.NoError(t, err)

	summaries, err := svc.Summaries(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "PN-2", summaries[0].PartNumber, "numeric-aware sort puts PN-2 first")
	assert.Equal(t, inventory.Summary{PartNumber: "PN-10", BatchCount: 2, TotalQuantity: 8}, summaries[1])
}
