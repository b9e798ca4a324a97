package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pickstock/internal/domain/customer"
)

const customersTable = "customers"

// Compile-time check that CustomerRepo implements customer.Store.
var _ customer.Store = (*CustomerRepo)(nil)

// CustomerRepo stores one customer collection per company.
type CustomerRepo struct {
	txm     *TxManager
	builder squirrel.StatementBuilderType
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txm *TxManager) *CustomerRepo {
	return &CustomerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Load implements customer.Store.
func (r *CustomerRepo) Load(ctx context.Context, companyID string) ([]customer.Customer, error) {
	sql, args, err := r.builder.
		Select("id", "short_name", "name", "contact", "phone", "email").
		From(customersTable).
		Where(squirrel.Eq{"company_id": companyID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load customers query: %w", err)
	}

	var customers []customer.Customer
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &customers, sql, args...); err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
	return customers, nil
}

// Save implements customer.Store.
func (r *CustomerRepo) Save(ctx context.Context, companyID string, customers []customer.Customer) error {
	delSQL, delArgs, err := r.builder.
		Delete(customersTable).
		Where(squirrel.Eq{"company_id": companyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete customers query: %w", err)
	}
	q := r.txm.GetQuerier(ctx)
	if _, err := q.Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete customers: %w", err)
	}

	if len(customers) == 0 {
		return nil
	}

	ins := r.builder.Insert(customersTable).Columns(
		"company_id", "id", "short_name", "name", "contact", "phone", "email", "position",
	)
	for i, c := range customers {
		ins = ins.Values(companyID, c.ID, c.ShortName, c.Name, c.Contact, c.Phone, c.Email, i)
	}
	insSQL, insArgs, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build insert customers query: %w", err)
	}
	if _, err := q.Exec(ctx, insSQL, insArgs...); err != nil {
		return fmt.Errorf("insert customers: %w", err)
	}
	return nil
}
