package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"care-admin-service/internal/repository"
	"care-admin-service/internal/store"
)

func newBookingFixture(t *testing.T) (*BookingService, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	repo := repository.NewOrderRepository(mem)
	svc, err := NewBookingService(repo, "Asia/Kolkata")
	require.NoError(t, err)
	return svc, mem
}

func seedOrder(t *testing.T, mem *store.MemoryStore, id string, fields map[string]interface{}) {
	t.Helper()
	require.NoError(t, mem.Update(context.Background(), "transportOrders/"+id, fields))
	if uid, ok := fields["userId"].(string); ok && uid != "" {
		require.NoError(t, mem.Update(context.Background(), "users/"+uid+"/transportOrders/"+id, fields))
	}
	mem.ResetWrites()
}

func TestCommitBookingEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("persists canonical booking and derived arrival", func(t *testing.T) {
		svc, mem := newBookingFixture(t)
		seedOrder(t, mem, "TX1", map[string]interface{}{"status": "pending", "userNumber": "9876543210"})

		require.NoError(t, svc.CommitBookingEdit(ctx, "TX1", "2025-06-11", "23:14", "confirmed"))

		data, err := mem.Get(ctx, "transportOrders/TX1")
		require.NoError(t, err)
		assert.Equal(t, "2025-06-11T23:14:00+05:30", data["bookingTime"])
		assert.Equal(t, "2025-06-11T23:04:00+05:30", data["arrivalTime"])
		assert.Equal(t, "confirmed", data["status"])
		// El booleano legado no se escribe nunca.
		assert.NotContains(t, data, "isCompleted")
	})

	t.Run("ledger only when order has no customer reference", func(t *testing.T) {
		svc, mem := newBookingFixture(t)
		seedOrder(t, mem, "TX1", map[string]interface{}{"status": "pending"})

		require.NoError(t, svc.CommitBookingEdit(ctx, "TX1", "2025-06-11", "23:14", "confirmed"))

		writes := mem.Writes()
		require.Len(t, writes, 1)
		assert.Equal(t, "transportOrders/TX1", writes[0].Path)
	})

	t.Run("ledger and mirror end up identical", func(t *testing.T) {
		svc, mem := newBookingFixture(t)
		seedOrder(t, mem, "TX2", map[string]interface{}{"status": "pending", "userId": "U1"})

		require.NoError(t, svc.CommitBookingEdit(ctx, "TX2", "2025-06-11", "23:14", "completed"))

		ledger, err := mem.Get(ctx, "transportOrders/TX2")
		require.NoError(t, err)
		mirror, err := mem.Get(ctx, "users/U1/transportOrders/TX2")
		require.NoError(t, err)
		for _, field := range []string{"bookingTime", "arrivalTime", "status"} {
			assert.Equal(t, ledger[field], mirror[field], field)
		}
	})

	t.Run("idempotent for the same draft", func(t *testing.T) {
		svc, mem := newBookingFixture(t)
		seedOrder(t, mem, "TX1", map[string]interface{}{"status": "pending"})

		require.NoError(t, svc.CommitBookingEdit(ctx, "TX1", "2025-06-11", "23:14", "confirmed"))
		first, err := mem.Get(ctx, "transportOrders/TX1")
		require.NoError(t, err)

		require.NoError(t, svc.CommitBookingEdit(ctx, "TX1", "2025-06-11", "23:14", "confirmed"))
		second, err := mem.Get(ctx, "transportOrders/TX1")
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("missing date or time rejects with zero writes", func(t *testing.T) {
		svc, mem := newBookingFixture(t)
		seedOrder(t, mem, "TX1", map[string]interface{}{"status": "pending"})

		for _, tc := range [][2]string{{"", "23:14"}, {"2025-06-11", ""}, {"", ""}} {
			err := svc.CommitBookingEdit(ctx, "TX1", tc[0], tc[1], "confirmed")
			assert.Error(t, err)
		}
		assert.Empty(t, mem.Writes())
	})

	t.Run("invalid status rejects with zero writes", func(t *testing.T) {
		svc, mem := newBookingFixture(t)
		seedOrder(t, mem, "TX1", map[string]interface{}{"status": "pending"})

		err := svc.CommitBookingEdit(ctx, "TX1", "2025-06-11", "23:14", "cancelled")
		assert.ErrorIs(t, err, ErrInvalidStatus)
		assert.Empty(t, mem.Writes())
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _ := newBookingFixture(t)
		err := svc.CommitBookingEdit(ctx, "NOPE", "2025-06-11", "23:14", "confirmed")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("mirror failure is reported as partial", func(t *testing.T) {
		svc, mem := newBookingFixture(t)
		seedOrder(t, mem, "TX2", map[string]interface{}{"status": "pending", "userId": "U1"})
		mem.FailWith("users/", errors.New("permission denied"))

		err := svc.CommitBookingEdit(ctx, "TX2", "2025-06-11", "23:14", "confirmed")
		assert.ErrorIs(t, err, ErrPartialWrite)

		// El ledger quedó escrito igual: no hay rollback.
		data, gerr := mem.Get(ctx, "transportOrders/TX2")
		require.NoError(t, gerr)
		assert.Equal(t, "confirmed", data["status"])
	})

	t.Run("total failure is reported as write failure", func(t *testing.T) {
		svc, mem := newBookingFixture(t)
		seedOrder(t, mem, "TX2", map[string]interface{}{"status": "pending", "userId": "U1"})
		mem.FailWith("users/", errors.New("permission denied"))
		mem.FailWith("transportOrders/", errors.New("network down"))

		err := svc.CommitBookingEdit(ctx, "TX2", "2025-06-11", "23:14", "confirmed")
		assert.ErrorIs(t, err, ErrWriteFailed)
		assert.NotErrorIs(t, err, ErrPartialWrite)
	})
}

func TestGetAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, mem := newBookingFixture(t)
	seedOrder(t, mem, "TX1", map[string]interface{}{"status": "pending"})
	seedOrder(t, mem, "TX2", map[string]interface{}{"status": "pending"})
	seedOrder(t, mem, "TX3", map[string]interface{}{"isCompleted": true})

	orders, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	// Orden de inserción invertido: la última primero.
	assert.Equal(t, "TX3", orders[0].ID)
	assert.Equal(t, "TX1", orders[2].ID)
	// Registro legado con booleano: el estado efectivo sale del flag.
	assert.Equal(t, "completed", string(orders[0].EffectiveStatus()))
}
