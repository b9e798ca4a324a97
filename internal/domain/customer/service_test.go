package customer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickstock/internal/core/apperror"
	"pickstock/internal/core/tx"
	"pickstock/internal/domain"
	"pickstock/internal/domain/customer"
	"pickstock/internal/infrastructure/storage/memory"
)

const companyID = "co1"

func newService() *customer.Service {
	return customer.NewService(memory.NewCustomerStore(), tx.Nop{}, domain.NewCompanyLocks())
}

func TestCreateRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.Create(ctx, companyID, customer.Customer{ID: "C1", Name: "Acme Corp"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, companyID, customer.Customer{ID: "C1", Name: "Acme Again"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.Create(ctx, companyID, customer.Customer{ID: "C1", Name: "Acme Corp"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, companyID, customer.Customer{ID: "C1", Name: "Acme Corp", Contact: "Jo"})
	require.NoError(t, err)
	assert.Equal(t, "Jo", updated.Contact)

	require.NoError(t, svc.Delete(ctx, companyID, "C1"))
	_, err = svc.Get(ctx, companyID, "C1")
	assert.True(t, apperror.IsNotFound(err))

	_, err = svc.Update(ctx, companyID, customer.Customer{ID: "C1"})
	assert.True(t, apperror.IsNotFound(err))
}

func TestImportSkipsExisting(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	_, err := svc.Create(ctx, companyID, customer.Customer{ID: "C1", Name: "Acme Corp"})
	require.NoError(t, err)

	result, err := svc.Import(ctx, companyID, []customer.Customer{
		{ID: "C1", Name: "Acme Overwrite Attempt"},
		{ID: "C2", Name: "Globex"},
	})
	require.NoError(t, err)
	assert.Equal(t, customer.ImportResult{Added: 1, Skipped: 1}, result)

	got, err := svc.Get(ctx, companyID, "C1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name, "existing rows are never overwritten by import")
}
