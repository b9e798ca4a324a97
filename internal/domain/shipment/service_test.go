package shipment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickstock/internal/core/apperror"
	"pickstock/internal/core/id"
	"pickstock/internal/core/reqctx"
	"pickstock/internal/core/tx"
	"pickstock/internal/domain"
	"pickstock/internal/domain/inventory"
	"pickstock/internal/domain/sequence"
	"pickstock/internal/domain/shipment"
	"pickstock/internal/infrastructure/storage/memory"
)

const companyID = "co1"

type fixture struct {
	svc    *shipment.Service
	orders *memory.ShipmentStore
	ledger *memory.LedgerStore
}

func newFixture(t *testing.T, batches ...inventory.Batch) *fixture {
	t.Helper()
	locks := domain.NewCompanyLocks()
	ledger := memory.NewLedgerStore()
	orders := memory.NewShipmentStore()
	gen := sequence.NewGenerator(memory.NewSequenceStore(), orders, locks)
	svc := shipment.NewService(orders, ledger, gen, tx.Nop{}, locks)

	require.NoError(t, ledger.Save(context.Background(), companyID, inventory.Ledger(batches)))
	return &fixture{svc: svc, orders: orders, ledger: ledger}
}

func actorCtx(name string) context.Context {
	return reqctx.WithActor(context.Background(), &reqctx.ActorContext{
		Name:               name,
		CompanyID:          companyID,
		CanConfirm:         true,
		CanCancel:          true,
		CanDeleteCompleted: true,
	})
}

func (f *fixture) batchQty(t *testing.T, batchID id.ID) int {
	t.Helper()
	ledger, err := f.ledger.Load(context.Background(), companyID)
	require.NoError(t, err)
	b := ledger.FindByID(batchID)
	require.NotNil(t, b)
	return b.Quantity
}

func batch(part, dc, lot string, qty int) inventory.Batch {
	return inventory.Batch{ID: id.New(), PartNumber: part, DateCode: dc, Lot: lot, Quantity: qty}
}

func TestCreateAssignsSequentialNumbers(t *testing.T) {
	f := newFixture(t)
	ctx := actorCtx("alice")

	first, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{Name: "Acme"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "230001", first.PickOrderNo)
	assert.Equal(t, shipment.StatusDraft, first.Status)
	assert.Equal(t, "alice", first.Footer.PreparedBy)

	second, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "230002", second.PickOrderNo)

	list, err := f.svc.List(ctx, companyID, shipment.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "230002", list.Items[0].PickOrderNo, "newest first")
}

func TestAddItemAllocatesAndPacks(t *testing.T) {
	older := batch("PartA", "2330", "L1", 5)
	newer := batch("PartA", "2401", "L2", 10)
	f := newFixture(t, newer, older)
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)

	got, err := f.svc.AddItem(ctx, companyID, order.ID, "PartA", 8, true)
	require.NoError(t, err)

	require.Len(t, got.Items, 2)
	assert.Equal(t, "2330", got.Items[0].DateCode)
	assert.Equal(t, 5, got.Items[0].Quantity)
	assert.Equal(t, "2401", got.Items[1].DateCode)
	assert.Equal(t, 3, got.Items[1].Quantity)
	assert.Len(t, got.PackingInfo, 5+3)

	// Planning never touches the ledger.
	assert.Equal(t, 5, f.batchQty(t, older.ID))
	assert.Equal(t, 10, f.batchQty(t, newer.ID))
}

func TestAddItemDoesNotDoubleAllocate(t *testing.T) {
	only := batch("PartA", "2330", "L1", 5)
	f := newFixture(t, only)
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 3, true)
	require.NoError(t, err)

	// Only 2 of 5 remain unreserved within this draft.
	got, err := f.svc.AddItem(ctx, companyID, order.ID, "PartA", 4, true)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 2, got.Items[1].Quantity)

	// And with nothing left, a strict add is rejected outright.
	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 1, false)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestAddItemRejectsShortfallWhenStrict(t *testing.T) {
	f := newFixture(t, batch("PartA", "2330", "L1", 5))
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 8, false)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	got, err := f.svc.Get(ctx, companyID, order.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Items, "rejected add leaves the draft untouched")
}

func TestConfirmDeductsStock(t *testing.T) {
	src := batch("PartA", "2330", "L1", 10)
	f := newFixture(t, src)
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 7, true)
	require.NoError(t, err)

	got, err := f.svc.Confirm(ctx, companyID, order.ID)
	require.NoError(t, err)

	assert.Equal(t, shipment.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, "alice", got.Footer.ApprovedBy)
	assert.Equal(t, 3, f.batchQty(t, src.ID))

	_, err = f.svc.Confirm(ctx, companyID, order.ID)
	require.Error(t, err, "completed shipment cannot be confirmed again")
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
}

func TestConfirmIsAllOrNothing(t *testing.T) {
	a := batch("PartA", "2330", "L1", 10)
	b := batch("PartB", "2330", "L1", 10)
	f := newFixture(t, a, b)
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 5, true)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartB", 5, true)
	require.NoError(t, err)

	// Another confirmed shipment drains PartB in the meantime.
	drain, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, drain.ID, "PartB", 8, true)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, companyID, drain.ID)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, companyID, order.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "PartB", appErr.Details["part_number"], "error names the failing line")

	// The passing PartA line was not deducted either.
	assert.Equal(t, 10, f.batchQty(t, a.ID))

	got, err := f.svc.Get(ctx, companyID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, shipment.StatusDraft, got.Status)
}

func TestConfirmFallsBackToTripleMatch(t *testing.T) {
	src := batch("PartA", "2330", "L1", 10)
	f := newFixture(t, src)
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 4, true)
	require.NoError(t, err)

	// Replace the batch behind the line's back: same triple, new id.
	replacement := batch("PartA", "2330", "L1", 6)
	require.NoError(t, f.ledger.Save(ctx, companyID, inventory.Ledger{replacement}))

	_, err = f.svc.Confirm(ctx, companyID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.batchQty(t, replacement.ID))
}

func TestCancelRestocksExactly(t *testing.T) {
	src := batch("PartA", "2330", "L1", 10)
	f := newFixture(t, src)
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 7, true)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, companyID, order.ID)
	require.NoError(t, err)
	require.Equal(t, 3, f.batchQty(t, src.ID))

	got, err := f.svc.Cancel(ctx, companyID, order.ID)
	require.NoError(t, err)

	assert.Equal(t, shipment.StatusCancelled, got.Status)
	assert.Contains(t, got.Remarks, "[Cancelled]")
	assert.Equal(t, 10, f.batchQty(t, src.ID), "cancel restores exactly what confirm deducted")

	_, err = f.svc.Cancel(ctx, companyID, order.ID)
	require.Error(t, err, "cancel is irreversible and not repeatable")
}

func TestCancelSynthesizesBatchWhenSourceDeleted(t *testing.T) {
	src := batch("PartA", "2330", "L1", 10)
	f := newFixture(t, src)
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 7, true)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, companyID, order.ID)
	require.NoError(t, err)

	// The source batch disappears before the cancel.
	require.NoError(t, f.ledger.Save(ctx, companyID, inventory.Ledger{}))

	_, err = f.svc.Cancel(ctx, companyID, order.ID)
	require.NoError(t, err)

	ledger, err := f.ledger.Load(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, ledger, 1, "restock synthesized a replacement batch")
	assert.Equal(t, "PartA", ledger[0].PartNumber)
	assert.Equal(t, 7, ledger[0].Quantity)
}

func TestDeleteDraftLeavesLedgerAlone(t *testing.T) {
	src := batch("PartA", "2330", "L1", 10)
	f := newFixture(t, src)
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 7, true)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, companyID, order.ID))

	assert.Equal(t, 10, f.batchQty(t, src.ID))
	_, err = f.svc.Get(ctx, companyID, order.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteCompletedRestocksOnce(t *testing.T) {
	src := batch("PartA", "2330", "L1", 10)
	f := newFixture(t, src)
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 7, true)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, companyID, order.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, companyID, order.ID))

	assert.Equal(t, 10, f.batchQty(t, src.ID))
	_, err = f.svc.Get(ctx, companyID, order.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDeleteCancelledDoesNotRestockAgain(t *testing.T) {
	src := batch("PartA", "2330", "L1", 10)
	f := newFixture(t, src)
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 7, true)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, companyID, order.ID)
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, companyID, order.ID)
	require.NoError(t, err)
	require.Equal(t, 10, f.batchQty(t, src.ID))

	require.NoError(t, f.svc.Delete(ctx, companyID, order.ID))
	assert.Equal(t, 10, f.batchQty(t, src.ID), "already restocked at cancellation")
}

func TestRevisionChainKeepsOneDeductionLive(t *testing.T) {
	src := batch("PartA", "2330", "L1", 20)
	f := newFixture(t, src)
	ctx := actorCtx("alice")

	// Original order ships 10.
	original, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, original.ID, "PartA", 10, true)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, companyID, original.ID)
	require.NoError(t, err)
	require.Equal(t, 10, f.batchQty(t, src.ID))

	// Revision corrects it down to 7.
	revision, err := f.svc.Revise(ctx, companyID, original.ID)
	require.NoError(t, err)
	assert.Equal(t, original.PickOrderNo+"-2", revision.PickOrderNo)
	assert.Equal(t, shipment.StatusDraft, revision.Status)

	revision.Items[0].Quantity = 7
	_, err = f.svc.SaveDraft(ctx, companyID, revision)
	require.NoError(t, err)

	confirmed, err := f.svc.Confirm(ctx, companyID, revision.ID)
	require.NoError(t, err)
	assert.Equal(t, shipment.StatusCompleted, confirmed.Status)

	// Predecessor restocked (+10), revision deducted (-7).
	assert.Equal(t, 13, f.batchQty(t, src.ID))

	predecessor, err := f.svc.Get(ctx, companyID, original.ID)
	require.NoError(t, err)
	assert.Equal(t, shipment.StatusCancelled, predecessor.Status)
	assert.Contains(t, predecessor.Remarks, "[Cancelled]")
}

func TestRevisionConfirmWithoutPredecessorIsNoOp(t *testing.T) {
	src := batch("PartA", "2330", "L1", 20)
	f := newFixture(t, src)
	ctx := actorCtx("alice")

	original, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, original.ID, "PartA", 10, true)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, companyID, original.ID)
	require.NoError(t, err)

	revision, err := f.svc.Revise(ctx, companyID, original.ID)
	require.NoError(t, err)

	// The predecessor vanishes before the revision confirms.
	require.NoError(t, f.svc.Delete(ctx, companyID, original.ID))
	require.Equal(t, 20, f.batchQty(t, src.ID))

	_, err = f.svc.Confirm(ctx, companyID, revision.ID)
	require.NoError(t, err, "missing predecessor is not an error")
	assert.Equal(t, 10, f.batchQty(t, src.ID))
}

func TestRevisionFailedConfirmRollsBackPredecessorRestock(t *testing.T) {
	src := batch("PartA", "2330", "L1", 10)
	f := newFixture(t, src)
	ctx := actorCtx("alice")

	original, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, original.ID, "PartA", 10, true)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, companyID, original.ID)
	require.NoError(t, err)

	revision, err := f.svc.Revise(ctx, companyID, original.ID)
	require.NoError(t, err)

	// Make the revision unconfirmable: it now asks for more than even
	// the restocked predecessor quantity would cover.
	revision.Items[0].Quantity = 11
	_, err = f.svc.SaveDraft(ctx, companyID, revision)
	require.NoError(t, err)

	_, err = f.svc.Confirm(ctx, companyID, revision.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// Predecessor restock was rolled back along with everything else.
	assert.Equal(t, 0, f.batchQty(t, src.ID))
	predecessor, err := f.svc.Get(ctx, companyID, original.ID)
	require.NoError(t, err)
	assert.Equal(t, shipment.StatusCompleted, predecessor.Status)
}

func TestReviseRejectsDuplicateAndNonCompleted(t *testing.T) {
	f := newFixture(t, batch("PartA", "2330", "L1", 10))
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)

	_, err = f.svc.Revise(ctx, companyID, order.ID)
	require.Error(t, err, "drafts cannot be revised")

	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 5, true)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, companyID, order.ID)
	require.NoError(t, err)

	_, err = f.svc.Revise(ctx, companyID, order.ID)
	require.NoError(t, err)
	_, err = f.svc.Revise(ctx, companyID, order.ID)
	require.Error(t, err, "next revision number already minted")
}

func TestPermissionsAreEnforced(t *testing.T) {
	f := newFixture(t, batch("PartA", "2330", "L1", 10))
	full := actorCtx("alice")

	order, err := f.svc.Create(full, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(full, companyID, order.ID, "PartA", 5, true)
	require.NoError(t, err)

	limited := reqctx.WithActor(context.Background(), &reqctx.ActorContext{Name: "bob", CompanyID: companyID})

	_, err = f.svc.Confirm(limited, companyID, order.ID)
	require.Error(t, err)
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)

	_, err = f.svc.Confirm(full, companyID, order.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(limited, companyID, order.ID)
	require.Error(t, err)

	err = f.svc.Delete(limited, companyID, order.ID)
	require.Error(t, err, "completed delete needs its own capability")
}

func TestListFilters(t *testing.T) {
	f := newFixture(t, batch("PartA", "2330", "L1", 10))
	ctx := actorCtx("alice")

	draft, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{ID: "C1", Name: "Acme Corp"}, nil)
	require.NoError(t, err)

	completed, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{ID: "C2", Name: "Globex"}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, completed.ID, "PartA", 5, true)
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, companyID, completed.ID)
	require.NoError(t, err)

	status := shipment.StatusDraft
	byStatus, err := f.svc.List(ctx, companyID, shipment.ListFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, byStatus.Items, 1)
	assert.Equal(t, draft.ID, byStatus.Items[0].ID)

	byCustomer, err := f.svc.List(ctx, companyID, shipment.ListFilter{CustomerID: "C2"})
	require.NoError(t, err)
	require.Len(t, byCustomer.Items, 1)
	assert.Equal(t, completed.ID, byCustomer.Items[0].ID)

	bySearch, err := f.svc.List(ctx, companyID, shipment.ListFilter{Search: "acme"})
	require.NoError(t, err)
	require.Len(t, bySearch.Items, 1)
	assert.Equal(t, draft.ID, bySearch.Items[0].ID)

	byApprover, err := f.svc.List(ctx, companyID, shipment.ListFilter{ApprovedBy: "alice"})
	require.NoError(t, err)
	require.Len(t, byApprover.Items, 1)
	assert.Equal(t, completed.ID, byApprover.Items[0].ID)
}

func TestEditAndRemoveLine(t *testing.T) {
	f := newFixture(t, batch("PartA", "2330", "L1", 10), batch("PartB", "2330", "L1", 10))
	ctx := actorCtx("alice")

	order, err := f.svc.Create(ctx, companyID, shipment.CustomerInfo{}, nil)
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, companyID, order.ID, "PartA", 5, true)
	require.NoError(t, err)
	got, err := f.svc.AddItem(ctx, companyID, order.ID, "PartB", 5, true)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)

	edited := got.Items[0]
	edited.Quantity = 3
	edited.Remarks = "reduced per customer request"
	got, err = f.svc.EditLine(ctx, companyID, order.ID, 0, edited)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Items[0].Quantity)

	got, err = f.svc.RemoveLine(ctx, companyID, order.ID, 1)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "PartA", got.Items[0].PartNumber)
	assert.Len(t, got.PackingInfo, 8, "packing rows are not reclaimed")

	_, err = f.svc.RemoveLine(ctx, companyID, order.ID, 5)
	require.Error(t, err)
}
