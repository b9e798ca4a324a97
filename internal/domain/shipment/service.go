package shipment

import (
	"context"
	"time"

	"pickstock/internal/core/apperror"
	"pickstock/internal/core/tx"
	"pickstock/internal/domain"
	"pickstock/internal/domain/allocation"
	"pickstock/internal/domain/inventory"
	"pickstock/internal/domain/sequence"
	"pickstock/pkg/logger"
)

// Service runs the shipment lifecycle. Every mutating operation takes
// the company lock, works on cloned collections and persists ledger
// and orders together inside one transaction, so a failed step never
// leaves a half-applied state behind.
type Service struct {
	orders    Store
	ledger    inventory.Store
	sequence  *sequence.Generator
	txManager tx.Manager
	locks     *domain.CompanyLocks
	now       func() time.Time
}

// NewService creates the shipment service.
func NewService(orders Store, ledger inventory.Store, seq *sequence.Generator, txManager tx.Manager, locks *domain.CompanyLocks) *Service {
	return &Service{
		orders:    orders,
		ledger:    ledger,
		sequence:  seq,
		txManager: txManager,
		locks:     locks,
		now:       time.Now,
	}
}

// Create issues the next pick-order number and stores a fresh draft.
// The number is persisted by the generator before the draft lands, so
// a crash in between wastes a number but never reuses one.
func (s *Service) Create(ctx context.Context, companyID string, info CustomerInfo, deliveryDate *time.Time) (Order, error) {
	actor := domain.ActorFromContext(ctx)

	number, err := s.sequence.Next(ctx, companyID)
	if err != nil {
		return Order{}, err
	}

	order := NewOrder(number, info, actor.Name, s.now())
	order.DeliveryDate = deliveryDate

	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		orders, err := s.orders.Load(ctx, companyID)
		if err != nil {
			return err
		}
		next := append([]Order{order}, orders...)
		return s.orders.Save(ctx, companyID, next)
	})
	if err != nil {
		return Order{}, err
	}

	logger.Info(ctx, "shipment draft created",
		"pick_order_no", order.PickOrderNo,
		"customer", order.CustomerInfo.ShortName,
	)
	return order, nil
}

// Get returns one order by id.
func (s *Service) Get(ctx context.Context, companyID, orderID string) (Order, error) {
	orders, err := s.orders.Load(ctx, companyID)
	if err != nil {
		return Order{}, err
	}
	for _, o := range orders {
		if o.ID == orderID {
			return o.Clone(), nil
		}
	}
	return Order{}, apperror.NewNotFound("shipment", orderID)
}

// List returns orders passing the filter, newest first.
func (s *Service) List(ctx context.Context, companyID string, filter ListFilter) (domain.ListResult[Order], error) {
	orders, err := s.orders.Load(ctx, companyID)
	if err != nil {
		return domain.ListResult[Order]{}, err
	}
	items := make([]Order, 0, len(orders))
	for _, o := range orders {
		if filter.Matches(o) {
			items = append(items, o.Clone())
		}
	}
	return domain.ListResult[Order]{Items: items, TotalCount: int64(len(items))}, nil
}

// Plan previews an allocation for a draft without applying it.
func (s *Service) Plan(ctx context.Context, companyID, orderID, partNumber string, quantity int) (allocation.Plan, error) {
	if quantity <= 0 {
		return allocation.Plan{}, apperror.NewValidation("requested quantity must be positive")
	}
	order, err := s.Get(ctx, companyID, orderID)
	if err != nil {
		return allocation.Plan{}, err
	}
	ledger, err := s.ledger.Load(ctx, companyID)
	if err != nil {
		return allocation.Plan{}, err
	}
	return allocation.New(partNumber, quantity, ledger, order.Reserved()), nil
}

// AddItem allocates quantity units of partNumber to the draft and
// appends the resulting lines. Stock already claimed by the draft's
// existing lines is not allocated twice. With allowPartial the plan is
// applied even when short; otherwise a shortfall rejects the whole add.
// No ledger mutation happens here; stock moves only at confirm.
func (s *Service) AddItem(ctx context.Context, companyID, orderID, partNumber string, quantity int, allowPartial bool) (Order, error) {
	if quantity <= 0 {
		return Order{}, apperror.NewValidation("requested quantity must be positive")
	}

	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	var result Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		orders, err := s.orders.Load(ctx, companyID)
		if err != nil {
			return err
		}
		idx := findOrder(orders, orderID)
		if idx < 0 {
			return apperror.NewNotFound("shipment", orderID)
		}
		if orders[idx].Status != StatusDraft {
			return apperror.NewInvalidTransition("add items to", string(orders[idx].Status))
		}

		ledger, err := s.ledger.Load(ctx, companyID)
		if err != nil {
			return err
		}

		order := orders[idx].Clone()
		plan := allocation.New(partNumber, quantity, ledger, order.Reserved())
		if len(plan.Picks) == 0 {
			return apperror.NewInsufficientStock(partNumber, "", "", quantity, 0)
		}
		if plan.Shortfall > 0 && !allowPartial {
			return apperror.NewInsufficientStock(partNumber, "", "", quantity, quantity-plan.Shortfall)
		}
		if plan.Shortfall > 0 {
			logger.Warn(ctx, "partial allocation accepted",
				"pick_order_no", order.PickOrderNo,
				"part_number", partNumber,
				"requested", quantity,
				"allocated", quantity-plan.Shortfall,
			)
		}

		order.AppendItems(plan.Picks)
		order.LastModified = s.now()

		next := cloneOrders(orders)
		next[idx] = order
		if err := s.orders.Save(ctx, companyID, next); err != nil {
			return err
		}
		result = order
		return nil
	})
	return result, err
}

// SaveDraft applies the caller's edits to a draft: customer info,
// remarks, delivery date, footer, line items and packing rows. Status
// and timestamps stay under the lifecycle's control.
func (s *Service) SaveDraft(ctx context.Context, companyID string, updated Order) (Order, error) {
	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	var result Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		orders, err := s.orders.Load(ctx, companyID)
		if err != nil {
			return err
		}
		idx := findOrder(orders, updated.ID)
		if idx < 0 {
			return apperror.NewNotFound("shipment", updated.ID)
		}
		if orders[idx].Status != StatusDraft {
			return apperror.NewInvalidTransition("edit", string(orders[idx].Status))
		}

		order := orders[idx].Clone()
		order.CustomerInfo = updated.CustomerInfo
		order.Remarks = updated.Remarks
		order.DeliveryDate = updated.DeliveryDate
		order.Footer = updated.Footer
		order.Items = append([]LineItem(nil), updated.Items...)
		order.PackingInfo = append([]PackingRow(nil), updated.PackingInfo...)
		order.LastModified = s.now()

		next := cloneOrders(orders)
		next[idx] = order
		if err := s.orders.Save(ctx, companyID, next); err != nil {
			return err
		}
		result = order
		return nil
	})
	return result, err
}

// EditLine replaces one line of a draft by index.
func (s *Service) EditLine(ctx context.Context, companyID, orderID string, index int, line LineItem) (Order, error) {
	return s.editLines(ctx, companyID, orderID, func(items []LineItem) ([]LineItem, error) {
		if index < 0 || index >= len(items) {
			return nil, apperror.NewValidation("line index out of range").WithDetail("index", index)
		}
		items[index] = line
		return items, nil
	})
}

// RemoveLine removes one line of a draft by index. Packing rows are
// not reclaimed; their count only ever grows.
func (s *Service) RemoveLine(ctx context.Context, companyID, orderID string, index int) (Order, error) {
	return s.editLines(ctx, companyID, orderID, func(items []LineItem) ([]LineItem, error) {
		if index < 0 || index >= len(items) {
			return nil, apperror.NewValidation("line index out of range").WithDetail("index", index)
		}
		return append(items[:index], items[index+1:]...), nil
	})
}

func (s *Service) editLines(ctx context.Context, companyID, orderID string, edit func([]LineItem) ([]LineItem, error)) (Order, error) {
	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	var result Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		orders, err := s.orders.Load(ctx, companyID)
		if err != nil {
			return err
		}
		idx := findOrder(orders, orderID)
		if idx < 0 {
			return apperror.NewNotFound("shipment", orderID)
		}
		if orders[idx].Status != StatusDraft {
			return apperror.NewInvalidTransition("edit", string(orders[idx].Status))
		}

		order := orders[idx].Clone()
		items, err := edit(order.Items)
		if err != nil {
			return err
		}
		order.Items = items
		order.LastModified = s.now()

		next := cloneOrders(orders)
		next[idx] = order
		if err := s.orders.Save(ctx, companyID, next); err != nil {
			return err
		}
		result = order
		return nil
	})
	return result, err
}

// Confirm turns a draft into a completed shipment and deducts its
// stock, all-or-nothing. For a revision the superseded predecessor is
// restocked and cancelled first, inside the same transaction; if any
// line then fails to validate the whole confirm aborts, predecessor
// restock included.
func (s *Service) Confirm(ctx context.Context, companyID, orderID string) (Order, error) {
	actor := domain.ActorFromContext(ctx)
	if !actor.CanConfirm {
		return Order{}, apperror.NewForbidden("confirming shipments is not allowed for this user")
	}

	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	var result Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		orders, err := s.orders.Load(ctx, companyID)
		if err != nil {
			return err
		}
		idx := findOrder(orders, orderID)
		if idx < 0 {
			return apperror.NewNotFound("shipment", orderID)
		}
		if orders[idx].Status != StatusDraft {
			return apperror.NewInvalidTransition("confirm", string(orders[idx].Status))
		}

		ledger, err := s.ledger.Load(ctx, companyID)
		if err != nil {
			return err
		}

		// All mutation happens on clones; an error below discards
		// everything, so no partial state can ever be persisted.
		nextLedger := ledger.Clone()
		next := cloneOrders(orders)
		order := &next[idx]
		now := s.now()

		if IsRevision(order.PickOrderNo) {
			s.supersedePredecessor(ctx, next, &nextLedger, order.PickOrderNo, now)
		}

		if err := order.ValidateLines(); err != nil {
			return err
		}
		for _, li := range order.Items {
			key := inventory.BatchKey{PartNumber: li.PartNumber, DateCode: li.DateCode, Lot: li.Lot}
			batch := nextLedger.Resolve(li.InventoryBatchID, key)
			if batch == nil {
				return apperror.NewInsufficientStock(li.PartNumber, li.DateCode, li.Lot, li.Quantity, 0)
			}
			if err := nextLedger.Deduct(batch, li.Quantity); err != nil {
				return err
			}
		}

		order.Status = StatusCompleted
		order.CompletedAt = &now
		order.LastModified = now
		order.Footer.ApprovedBy = actor.Name

		if err := s.ledger.Save(ctx, companyID, nextLedger); err != nil {
			return err
		}
		if err := s.orders.Save(ctx, companyID, next); err != nil {
			return err
		}
		result = *order
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	logger.Info(ctx, "shipment confirmed",
		"pick_order_no", result.PickOrderNo,
		"lines", len(result.Items),
	)
	return result, nil
}

// supersedePredecessor restocks and cancels the completed predecessor
// of a revision. A missing predecessor is logged and skipped; the
// revision's own confirm proceeds.
func (s *Service) supersedePredecessor(ctx context.Context, orders []Order, ledger *inventory.Ledger, pickOrderNo string, now time.Time) {
	predNo, ok := PredecessorNo(pickOrderNo)
	if !ok {
		logger.Warn(ctx, "malformed revision suffix, skipping predecessor handling",
			"pick_order_no", pickOrderNo,
		)
		return
	}
	for i := range orders {
		if orders[i].PickOrderNo != predNo || orders[i].Status != StatusCompleted {
			continue
		}
		for _, li := range orders[i].Items {
			ledger.Restock(li.RestockLine())
		}
		orders[i].MarkCancelled(now)
		logger.Info(ctx, "predecessor revision superseded",
			"pick_order_no", pickOrderNo,
			"predecessor", predNo,
		)
		return
	}
	logger.Warn(ctx, "predecessor not found, confirming without restock",
		"pick_order_no", pickOrderNo,
		"predecessor", predNo,
	)
}

// Cancel restocks a completed shipment's lines and marks it cancelled.
// Irreversible.
func (s *Service) Cancel(ctx context.Context, companyID, orderID string) (Order, error) {
	actor := domain.ActorFromContext(ctx)
	if !actor.CanCancel {
		return Order{}, apperror.NewForbidden("cancelling shipments is not allowed for this user")
	}

	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	var result Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		orders, err := s.orders.Load(ctx, companyID)
		if err != nil {
			return err
		}
		idx := findOrder(orders, orderID)
		if idx < 0 {
			return apperror.NewNotFound("shipment", orderID)
		}
		if orders[idx].Status != StatusCompleted {
			return apperror.NewInvalidTransition("cancel", string(orders[idx].Status))
		}

		ledger, err := s.ledger.Load(ctx, companyID)
		if err != nil {
			return err
		}
		nextLedger := ledger.Clone()
		next := cloneOrders(orders)
		order := &next[idx]

		for _, li := range order.Items {
			nextLedger.Restock(li.RestockLine())
		}
		order.MarkCancelled(s.now())

		if err := s.ledger.Save(ctx, companyID, nextLedger); err != nil {
			return err
		}
		if err := s.orders.Save(ctx, companyID, next); err != nil {
			return err
		}
		result = *order
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	logger.Info(ctx, "shipment cancelled, inventory restocked",
		"pick_order_no", result.PickOrderNo,
		"lines", len(result.Items),
	)
	return result, nil
}

// Delete removes a shipment. Drafts and cancelled shipments go without
// ledger effect; a completed shipment is restocked exactly once and
// then removed, in one transaction.
func (s *Service) Delete(ctx context.Context, companyID, orderID string) error {
	actor := domain.ActorFromContext(ctx)

	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	var deleted Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		orders, err := s.orders.Load(ctx, companyID)
		if err != nil {
			return err
		}
		idx := findOrder(orders, orderID)
		if idx < 0 {
			return apperror.NewNotFound("shipment", orderID)
		}
		deleted = orders[idx]

		if deleted.Status == StatusCompleted {
			if !actor.CanDeleteCompleted {
				return apperror.NewForbidden("deleting completed shipments is not allowed for this user")
			}
			ledger, err := s.ledger.Load(ctx, companyID)
			if err != nil {
				return err
			}
			nextLedger := ledger.Clone()
			for _, li := range deleted.Items {
				nextLedger.Restock(li.RestockLine())
			}
			if err := s.ledger.Save(ctx, companyID, nextLedger); err != nil {
				return err
			}
		}

		next := make([]Order, 0, len(orders)-1)
		for i, o := range orders {
			if i == idx {
				continue
			}
			next = append(next, o)
		}
		return s.orders.Save(ctx, companyID, next)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "shipment deleted",
		"pick_order_no", deleted.PickOrderNo,
		"status", deleted.Status,
		"restocked", deleted.Status == StatusCompleted,
	)
	return nil
}

// Revise mints the next revision draft of a completed shipment: same
// lines, customer info and packing, a fresh "-n" number and timestamps.
// Confirming the new draft later supersedes this one.
func (s *Service) Revise(ctx context.Context, companyID, orderID string) (Order, error) {
	actor := domain.ActorFromContext(ctx)

	s.locks.Lock(companyID)
	defer s.locks.Unlock(companyID)

	var result Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		orders, err := s.orders.Load(ctx, companyID)
		if err != nil {
			return err
		}
		idx := findOrder(orders, orderID)
		if idx < 0 {
			return apperror.NewNotFound("shipment", orderID)
		}
		if orders[idx].Status != StatusCompleted {
			return apperror.NewInvalidTransition("revise", string(orders[idx].Status))
		}

		nextNo := NextRevisionNo(orders[idx].PickOrderNo)
		if findOrder(orders, nextNo) >= 0 {
			return apperror.NewConflict("revision " + nextNo + " already exists")
		}

		now := s.now()
		revision := orders[idx].Clone()
		revision.ID = nextNo
		revision.PickOrderNo = nextNo
		revision.Status = StatusDraft
		revision.CreatedAt = now
		revision.LastModified = now
		revision.CompletedAt = nil
		revision.Footer.PreparedBy = actor.Name
		revision.Footer.ApprovedBy = ""

		next := append([]Order{revision}, orders...)
		if err := s.orders.Save(ctx, companyID, next); err != nil {
			return err
		}
		result = revision
		return nil
	})
	if err != nil {
		return Order{}, err
	}

	logger.Info(ctx, "revision draft created",
		"pick_order_no", result.PickOrderNo,
		"source", orderID,
	)
	return result, nil
}

func findOrder(orders []Order, orderID string) int {
	for i := range orders {
		if orders[i].ID == orderID {
			return i
		}
	}
	return -1
}

func cloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}
