package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionDefaults(t *testing.T) {
	s := NewSession(7)
	assert.Equal(t, uint(7), s.UserID)
	assert.Equal(t, StepCheckout, s.Step)
	assert.Equal(t, DeliveryPickup, s.DeliveryMethod)
	assert.Empty(t, s.TransactionID)
}

func TestBackAndResumeKeepDetails(t *testing.T) {
	s := NewSession(1)
	require.NoError(t, s.SetDeliveryMethod(DeliveryDelivery))
	s.SetTransactionID("MP24XYZ")

	s.Back()
	assert.Equal(t, StepCart, s.Step)
	assert.Equal(t, DeliveryDelivery, s.DeliveryMethod)
	assert.Equal(t, "MP24XYZ", s.TransactionID)

	s.Resume()
	assert.Equal(t, StepCheckout, s.Step)
}

func TestSetDeliveryMethodRejectsUnknown(t *testing.T) {
	s := NewSession(1)
	assert.ErrorIs(t, s.SetDeliveryMethod("drone"), ErrInvalidDelivery)
	assert.Equal(t, DeliveryPickup, s.DeliveryMethod)
}

func TestReadyToSubmit(t *testing.T) {
	s := NewSession(1)
	assert.ErrorIs(t, s.ReadyToSubmit(), ErrTransactionID)

	s.SetTransactionID("   ")
	assert.ErrorIs(t, s.ReadyToSubmit(), ErrTransactionID)

	s.SetTransactionID("  MP24XYZ  ")
	require.NoError(t, s.ReadyToSubmit())
	assert.Equal(t, "MP24XYZ", s.TransactionID)

	s.Back()
	assert.ErrorIs(t, s.ReadyToSubmit(), ErrNotAtCheckoutStep)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	s := NewSession(1)
	s.SetTransactionID("ABC")
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ABC", got.TransactionID)

	// the store hands out copies, not aliases
	got.TransactionID = "mutated"
	again, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "ABC", again.TransactionID)

	require.NoError(t, store.Delete(ctx, 1))
	_, err = store.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
