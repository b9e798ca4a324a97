package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"pickstock/internal/core/apperror"
	"pickstock/internal/domain/sequence"
)

const sequenceMarksTable = "sequence_marks"

// Compile-time check that SequenceRepo implements sequence.Store.
var _ sequence.Store = (*SequenceRepo)(nil)

// SequenceRepo persists the per-company high-water mark. The save is a
// compare-and-set UPDATE, so two generators racing across processes
// cannot both persist the same candidate: the loser sees zero affected
// rows and gets a SequenceCollision to retry on.
type SequenceRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewSequenceRepo creates a new sequence repository.
func NewSequenceRepo(txm *TxManager) *SequenceRepo {
	return &SequenceRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// LoadHighWaterMark implements sequence.Store.
func (r *SequenceRepo) LoadHighWaterMark(ctx context.Context, companyID string) (int64, error) {
	sql, args, err := r.builder.
		Select("high_water_mark").
		From(sequenceMarksTable).
		Where(squirrel.Eq{"company_id": companyID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build load mark query: %w", err)
	}

	var mark int64
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &mark, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("load mark: %w", err)
	}
	return mark, nil
}

// SaveHighWaterMark implements sequence.Store.
func (r *SequenceRepo) SaveHighWaterMark(ctx context.Context, companyID string, prev, next int64) error {
	q := r.txm.GetQuerier(ctx)

	updSQL, updArgs, err := r.builder.
		Update(sequenceMarksTable).
		Set("high_water_mark", next).
		Where(squirrel.Eq{"company_id": companyID, "high_water_mark": prev}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update mark query: %w", err)
	}
	tag, err := q.Exec(ctx, updSQL, updArgs...)
	if err != nil {
		return fmt.Errorf("update mark: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// No row updated: either the company has no mark yet or another
	// generator moved it past prev. Only the first insert may win.
	if prev == 0 {
		insSQL, insArgs, err := r.builder.
			Insert(sequenceMarksTable).
			Columns("company_id", "high_water_mark").
			Values(companyID, next).
			Suffix("ON CONFLICT (company_id) DO NOTHING").
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert mark query: %w", err)
		}
		tag, err := q.Exec(ctx, insSQL, insArgs...)
		if err != nil {
			return fmt.Errorf("insert mark: %w", err)
		}
		if tag.RowsAffected() > 0 {
			return nil
		}
	}
	return apperror.NewSequenceCollision(companyID, next)
}
