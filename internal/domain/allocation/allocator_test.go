package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickstock/internal/core/id"
	"pickstock/internal/domain/inventory"
)

func batch(part, dc, lot string, qty int) inventory.Batch {
	return inventory.Batch{ID: id.New(), PartNumber: part, DateCode: dc, Lot: lot, Quantity: qty}
}

func TestPlanDeterministicOrder(t *testing.T) {
	// Deliberately listed newest-first; the plan must still take the
	// lower date code before the higher one.
	snapshot := inventory.Ledger{
		batch("PartA", "2401", "L2", 10),
		batch("PartA", "2330", "L1", 5),
	}

	plan := New("PartA", 8, snapshot, nil)

	require.Len(t, plan.Picks, 2)
	assert.Equal(t, "2330", plan.Picks[0].Batch.DateCode)
	assert.Equal(t, 5, plan.Picks[0].Quantity)
	assert.Equal(t, "2401", plan.Picks[1].Batch.DateCode)
	assert.Equal(t, 3, plan.Picks[1].Quantity)
	assert.Equal(t, 0, plan.Shortfall)
	assert.True(t, plan.Satisfied())
}

func TestPlanNumericAwareSort(t *testing.T) {
	snapshot := inventory.Ledger{
		batch("PartA", "2330", "L10", 1),
		batch("PartA", "2330", "L2", 1),
	}

	plan := New("PartA", 2, snapshot, nil)

	require.Len(t, plan.Picks, 2)
	assert.Equal(t, "L2", plan.Picks[0].Batch.Lot, "L2 sorts before L10 numerically")
	assert.Equal(t, "L10", plan.Picks[1].Batch.Lot)
}

func TestPlanShortfall(t *testing.T) {
	snapshot := inventory.Ledger{batch("PartA", "2330", "L1", 5)}

	plan := New("PartA", 8, snapshot, nil)

	require.Len(t, plan.Picks, 1)
	assert.Equal(t, 5, plan.Picks[0].Quantity)
	assert.Equal(t, 3, plan.Shortfall)
	assert.False(t, plan.Satisfied())
}

func TestPlanRespectsReservations(t *testing.T) {
	first := batch("PartA", "2330", "L1", 5)
	second := batch("PartA", "2401", "L2", 10)
	snapshot := inventory.Ledger{first, second}

	// The draft already claims all of the first batch and part of the
	// second; a new plan may only touch what is left.
	reserved := Reserved{first.ID: 5, second.ID: 4}

	plan := New("PartA", 10, snapshot, reserved)

	require.Len(t, plan.Picks, 1)
	assert.Equal(t, second.ID, plan.Picks[0].Batch.ID)
	assert.Equal(t, 6, plan.Picks[0].Quantity)
	assert.Equal(t, 6, plan.Picks[0].Available)
	assert.Equal(t, 4, plan.Shortfall)
}

func TestPlanIgnoresOtherPartsAndEmptyBatches(t *testing.T) {
	snapshot := inventory.Ledger{
		batch("PartA", "2330", "L1", 0),
		batch("PartB", "2330", "L1", 5),
	}

	plan := New("PartA", 3, snapshot, nil)

	assert.Empty(t, plan.Picks)
	assert.Equal(t, 3, plan.Shortfall)
}

func TestPlanDoesNotMutateSnapshot(t *testing.T) {
	snapshot := inventory.Ledger{batch("PartA", "2330", "L1", 5)}

	_ = New("PartA", 3, snapshot, nil)

	assert.Equal(t, 5, snapshot[0].Quantity)
}
