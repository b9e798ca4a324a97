package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pickstock/internal/domain/sequence"
	"pickstock/internal/domain/shipment"
)

const shipmentsTable = "shipments"

// Compile-time checks.
var (
	_ shipment.Store       = (*ShipmentRepo)(nil)
	_ sequence.OrderSource = (*ShipmentRepo)(nil)
)

// ShipmentRepo stores one order collection per company. Scalar fields
// get their own columns for filtering; the nested structures (customer
// snapshot, lines, packing rows, footer) live in JSONB.
type ShipmentRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewShipmentRepo creates a new shipment repository.
func NewShipmentRepo(txm *TxManager) *ShipmentRepo {
	return &ShipmentRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

type shipmentRow struct {
	ID           string     `db:"id"`
	PickOrderNo  string     `db:"pick_order_no"`
	Status       string     `db:"status"`
	CreatedAt    time.Time  `db:"created_at"`
	LastModified time.Time  `db:"last_modified"`
	CompletedAt  *time.Time `db:"completed_at"`
	DeliveryDate *time.Time `db:"delivery_date"`
	CustomerInfo []byte     `db:"customer_info"`
	Remarks      string     `db:"remarks"`
	Items        []byte     `db:"items"`
	PackingInfo  []byte     `db:"packing_info"`
	Footer       []byte     `db:"footer"`
}

func (row shipmentRow) toOrder() (shipment.Order, error) {
	order := shipment.Order{
		ID:           row.ID,
		PickOrderNo:  row.PickOrderNo,
		Status:       shipment.Status(row.Status),
		CreatedAt:    row.CreatedAt,
		LastModified: row.LastModified,
		CompletedAt:  row.CompletedAt,
		DeliveryDate: row.DeliveryDate,
		Remarks:      row.Remarks,
	}
	if err := json.Unmarshal(row.CustomerInfo, &order.CustomerInfo); err != nil {
		return shipment.Order{}, fmt.Errorf("decode customer info: %w", err)
	}
	if err := json.Unmarshal(row.Items, &order.Items); err != nil {
		return shipment.Order{}, fmt.Errorf("decode items: %w", err)
	}
	if err := json.Unmarshal(row.PackingInfo, &order.PackingInfo); err != nil {
		return shipment.Order{}, fmt.Errorf("decode packing info: %w", err)
	}
	if err := json.Unmarshal(row.Footer, &order.Footer); err != nil {
		return shipment.Order{}, fmt.Errorf("decode footer: %w", err)
	}
	return order, nil
}

// Load implements shipment.Store.
func (r *ShipmentRepo) Load(ctx context.Context, companyID string) ([]shipment.Order, error) {
	sql, args, err := r.builder.
		Select("id", "pick_order_no", "status", "created_at", "last_modified",
			"completed_at", "delivery_date", "customer_info", "remarks",
			"items", "packing_info", "footer").
		From(shipmentsTable).
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load shipments query: %w", err)
	}

	var rows []shipmentRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("load shipments: %w", err)
	}

	orders := make([]shipment.Order, 0, len(rows))
	for _, row := range rows {
		order, err := row.toOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Save implements shipment.Store.
func (r *ShipmentRepo) Save(ctx context.Context, companyID string, orders []shipment.Order) error {
	delSQL, delArgs, err := r.builder.
		Delete(shipmentsTable).
		Where(squirrel.Eq{"company_id": companyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete shipments query: %w", err)
	}
	q := r.txm.GetQuerier(ctx)
	if _, err := q.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete shipments: %w", err)
	}

	if len(orders) == 0 {
		return nil
	}

	ins := r.builder.Insert(shipmentsTable).Columns(
		"company_id", "id", "pick_order_no", "status", "created_at",
		"last_modified", "completed_at", "delivery_date", "customer_info",
		"remarks", "items", "packing_info", "footer", "position",
	)
	for i, o := range orders {
		customerInfo, err := json.Marshal(o.CustomerInfo)
		if err != nil {
			return fmt.Errorf("encode customer info: %w", err)
		}
		items, err := json.Marshal(o.Items)
		if err != nil {
			return fmt.Errorf("encode items: %w", err)
		}
		packingInfo, err := json.Marshal(o.PackingInfo)
		if err != nil {
			return fmt.Errorf("encode packing info: %w", err)
		}
		footer, err := json.Marshal(o.Footer)
		if err != nil {
			return fmt.Errorf("encode footer: %w", err)
		}
		ins = ins.Values(
			companyID, o.ID, o.PickOrderNo, string(o.Status), o.CreatedAt,
			o.LastModified, o.CompletedAt, o.DeliveryDate, customerInfo,
			o.Remarks, items, packingInfo, footer, i,
		)
	}
	insSQL, insArgs, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert shipments query: %w", err)
	}
	if _, err := q.Exec(ctx, insSQL, insArgs...); err != nil {
		return fmt.Errorf("insert shipments: %w", err)
	}
	return nil
}

// PickOrderNumbers implements shipment.Store and sequence.OrderSource.
func (r *ShipmentRepo) PickOrderNumbers(ctx context.Context, companyID string) ([]string, error) {
	sql, args, err := r.builder.
		Select("pick_order_no").
		From(shipmentsTable).
		Where(squirrel.Eq{"company_id": companyID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build pick order numbers query: %w", err)
	}

	var numbers []string
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &numbers, sql, args...); err != nil {
		return nil, fmt.Errorf("load pick order numbers: %w", err)
	}
	return numbers, nil
}
