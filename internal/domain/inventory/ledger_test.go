package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickstock/internal/core/apperror"
	"pickstock/internal/core/id"
)

func TestLedgerResolve(t *testing.T) {
	a := Batch{ID: id.New(), PartNumber: "PartA", DateCode: "2330", Lot: "L1", Quantity: 5}
	b := Batch{ID: id.New(), PartNumber: "PartA", DateCode: "2330", Lot: "L1", Quantity: 7}
	ledger := Ledger{a, b}

	t.Run("id match wins over triple match", func(t *testing.T) {
		got := ledger.Resolve(&b.ID, b.Key())
		require.NotNil(t, got)
		assert.Equal(t, b.ID, got.ID)
	})

	t.Run("stale id falls back to triple", func(t *testing.T) {
		stale := id.New()
		got := ledger.Resolve(&stale, BatchKey{PartNumber: "PartA", DateCode: "2330", Lot: "L1"})
		require.NotNil(t, got)
		assert.Equal(t, a.ID, got.ID, "first triple match wins")
	})

	t.Run("nil id uses triple", func(t *testing.T) {
		got := ledger.Resolve(nil, a.Key())
		require.NotNil(t, got)
		assert.Equal(t, a.ID, got.ID)
	})

	t.Run("nothing resolves", func(t *testing.T) {
		got := ledger.Resolve(nil, BatchKey{PartNumber: "PartB"})
		assert.Nil(t, got)
	})
}

func TestLedgerDeduct(t *testing.T) {
	ledger := Ledger{{ID: id.New(), PartNumber: "PartA", DateCode: "2330", Lot: "L1", Quantity: 5}}

	err := ledger.Deduct(&ledger[0], 5)
	require.NoError(t, err)
	assert.Equal(t, 0, ledger[0].Quantity, "zero quantity batch stays addressable")

	err = ledger.Deduct(&ledger[0], 1)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, 0, ledger[0].Quantity, "failed deduct mutates nothing")

	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "PartA", appErr.Details["part_number"])
	assert.Equal(t, "2330", appErr.Details["date_code"])
	assert.Equal(t, "L1", appErr.Details["lot"])
}

func TestLedgerRestock(t *testing.T) {
	t.Run("into existing batch", func(t *testing.T) {
		batchID := id.New()
		ledger := Ledger{{ID: batchID, PartNumber: "PartA", DateCode: "2330", Lot: "L1", Quantity: 2}}
		ledger.Restock(RestockLine{BatchID: &batchID, PartNumber: "PartA", DateCode: "2330", Lot: "L1", Quantity: 3})
		assert.Equal(t, 5, ledger[0].Quantity)
		assert.Len(t, ledger, 1)
	})

	t.Run("synthesizes when nothing matches", func(t *testing.T) {
		ledger := Ledger{}
		ledger.Restock(RestockLine{PartNumber: "PartB", Brand: "Acme", DateCode: "2401", Lot: "L9", Quantity: 4})
		require.Len(t, ledger, 1)
		assert.False(t, id.IsNil(ledger[0].ID))
		assert.Equal(t, "PartB", ledger[0].PartNumber)
		assert.Equal(t, 4, ledger[0].Quantity)
	})
}

func TestLedgerClone(t *testing.T) {
	ledger := Ledger{{ID: id.New(), PartNumber: "PartA", Quantity: 5}}
	clone := ledger.Clone()
	clone[0].Quantity = 99
	assert.Equal(t, 5, ledger[0].Quantity)
}
