package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pickstock/internal/core/id"
	"pickstock/internal/domain/inventory"
)

const batchesTable = "inventory_batches"

// Compile-time check that LedgerRepo implements inventory.Store.
var _ inventory.Store = (*LedgerRepo)(nil)

// LedgerRepo stores one batch collection per company. Save replaces the
// company's rows wholesale; the caller's transaction makes it atomic
// with the shipment writes that triggered it. A position column keeps
// collection order stable, which matters for the triple-match fallback
// ("first match wins").
type LedgerRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(txm *TxManager) *LedgerRepo {
	return &LedgerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

type batchRow struct {
	ID              id.ID  `db:"id"`
	PartNumber      string `db:"part_number"`
	Brand           string `db:"brand"`
	CountryOfOrigin string `db:"country_of_origin"`
	DateCode        string `db:"date_code"`
	Lot             string `db:"lot"`
	Bin             string `db:"bin"`
	Quantity        int    `db:"quantity"`
}

// Load implements inventory.Store.
func (r *LedgerRepo) Load(ctx context.Context, companyID string) (inventory.Ledger, error) {
	sql, args, err := r.builder.
		Select("id", "part_number", "brand", "country_of_origin", "date_code", "lot", "bin", "quantity").
		From(batchesTable).
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load batches query: %w", err)
	}

	var rows []batchRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("load batches: %w", err)
	}

	ledger := make(inventory.Ledger, 0, len(rows))
	for _, row := range rows {
		ledger = append(ledger, inventory.Batch(row))
	}
	return ledger, nil
}

// Save implements inventory.Store.
func (r *LedgerRepo) Save(ctx context.Context, companyID string, ledger inventory.Ledger) error {
	delSQL, delArgs, err := r.builder.
		Delete(batchesTable).
		Where(squirrel.Eq{"company_id": companyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete batches query: %w", err)
	}
	q := r.txm.GetQuerier(ctx)
	if _, err := q.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete batches: %w", err)
	}

	if len(ledger) == 0 {
		return nil
	}

	ins := r.builder.Insert(batchesTable).Columns(
		"company_id", "id", "part_number", "brand", "country_of_origin",
		"date_code", "lot", "bin", "quantity", "position",
	)
	for i, b := range ledger {
		ins = ins.Values(
			companyID, b.ID, b.PartNumber, b.Brand, b.CountryOfOrigin,
			b.DateCode, b.Lot, b.Bin, b.Quantity, i,
		)
	}
	insSQL, insArgs, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert batches query: %w", err)
	}
	if _, err := q.Exec(ctx, insSQL, insArgs...); err != nil {
		return fmt.Errorf("insert batches: %w", err)
	}
	return nil
}
