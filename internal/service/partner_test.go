package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"care-admin-service/internal/repository"
	"care-admin-service/internal/store"
)

func newPartnerFixture(t *testing.T) (*PartnerService, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	return NewPartnerService(repository.NewPathologyRepository(mem)), mem
}

func seedPathology(t *testing.T, mem *store.MemoryStore, id string, verified bool) {
	t.Helper()
	require.NoError(t, mem.Update(context.Background(), "pathologyPartners/"+id, map[string]interface{}{
		"path_name":    "Lab " + id,
		"path_phoneNo": "98765000" + id,
		"path_address": "MG Road",
		"verified":     verified,
		"isOpen":       true,
	}))
}

func TestVerifyPathology(t *testing.T) {
	ctx := context.Background()
	svc, mem := newPartnerFixture(t)
	seedPathology(t, mem, "P1", false)
	seedPathology(t, mem, "P2", false)

	unverified, err := svc.GetUnverified(ctx)
	require.NoError(t, err)
	require.Len(t, unverified, 2)

	require.NoError(t, svc.Verify(ctx, "P1"))

	// Desaparece de la vista de pendientes...
	unverified, err = svc.GetUnverified(ctx)
	require.NoError(t, err)
	require.Len(t, unverified, 1)
	assert.Equal(t, "P2", unverified[0].ID)

	// ...y no vuelve a aparecer después de una recarga completa.
	unverified, err = svc.GetUnverified(ctx)
	require.NoError(t, err)
	require.Len(t, unverified, 1)

	all, err := svc.GetAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	for _, p := range all {
		if p.ID == "P1" {
			assert.True(t, p.Verified)
		}
	}
}

func TestVerifyUnknownPathology(t *testing.T) {
	svc, _ := newPartnerFixture(t)
	err := svc.Verify(context.Background(), "NOPE")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPathologySearch(t *testing.T) {
	ctx := context.Background()
	svc, mem := newPartnerFixture(t)
	seedPathology(t, mem, "P1", true)
	seedPathology(t, mem, "P2", true)

	found, err := svc.GetAll(ctx, "lab p2")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "P2", found[0].ID)

	none, err := svc.GetAll(ctx, "no existe")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPathologyTransactions(t *testing.T) {
	ctx := context.Background()
	svc, mem := newPartnerFixture(t)
	seedPathology(t, mem, "P1", true)

	txs := map[string]map[string]interface{}{
		"T1": {"transactionKey": "T1", "initiatedAt": "2025-06-01T10:00:00+05:30", "totalAmount": 450.0,
			"paymentDetails": map[string]interface{}{"amount": 450.0, "contact": "9876500001", "status": "captured"}},
		"T2": {"transactionKey": "T2", "initiatedAt": "2025-06-03T10:00:00+05:30", "totalAmount": 900.0,
			"paymentDetails": map[string]interface{}{"amount": 900.0, "contact": "9876500002", "status": "created"}},
	}
	for id, tx := range txs {
		require.NoError(t, mem.Update(ctx, "pathologyPartners/P1/transactions/"+id, tx))
	}

	t.Run("newest first by default", func(t *testing.T) {
		out, err := svc.Transactions(ctx, "P1", "", "")
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "T2", out[0].TransactionKey)
	})

	t.Run("ascending sort", func(t *testing.T) {
		out, err := svc.Transactions(ctx, "P1", "", "asc")
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "T1", out[0].TransactionKey)
	})

	t.Run("search by contact", func(t *testing.T) {
		out, err := svc.Transactions(ctx, "P1", "9876500002", "")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "T2", out[0].TransactionKey)
	})

	t.Run("search by amount", func(t *testing.T) {
		out, err := svc.Transactions(ctx, "P1", "450", "")
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "T1", out[0].TransactionKey)
	})
}
