package orders

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pistanero/storefront/internal/cart"
	"github.com/pistanero/storefront/internal/checkout"
	"github.com/pistanero/storefront/internal/models"
)

// fakeNotifier records notices and can be told to fail.
type fakeNotifier struct {
	notices []StatusNotice
	err     error
}

func (f *fakeNotifier) OrderStatusChanged(_ context.Context, n StatusNotice) error {
	f.notices = append(f.notices, n)
	return f.err
}

type testEnv struct {
	DB       *gorm.DB
	Svc      *Service
	Notifier *fakeNotifier
	Sessions *checkout.MemoryStore
	User     *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CartItem{}, &models.Order{}, &models.OrderItem{}, &models.User{},
	))

	notifier := &fakeNotifier{}
	sessions := checkout.NewMemoryStore()
	user := &models.User{Email: "ana@example.com", FullName: "Ana", Phone: "0771699039"}
	require.NoError(t, db.Create(user).Error)

	return &testEnv{
		DB:       db,
		Notifier: notifier,
		Sessions: sessions,
		User:     user,
		Svc: &Service{
			DB:       db,
			Cart:     cart.NewStore(db),
			Sessions: sessions,
			Notifier: notifier,
			Log:      slog.Default(),
		},
	}
}

func (env *testEnv) checkoutSession(t *testing.T, txID string) *checkout.Session {
	sess := checkout.NewSession(env.User.ID)
	sess.SetTransactionID(txID)
	require.NoError(t, env.Sessions.Save(context.Background(), sess))
	return sess
}

func (env *testEnv) orderCount(t *testing.T) int64 {
	var n int64
	require.NoError(t, env.DB.Model(&models.Order{}).Count(&n).Error)
	return n
}

func TestPlaceOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.DB.Create(&models.CartItem{
		UserID: env.User.ID, ProductID: 1,
		Name: "Pro Tennis Racket", UnitPrice: 189.99, Quantity: 2,
	}).Error)
	sess := env.checkoutSession(t, "MP24XYZ")

	order, err := env.Svc.Place(ctx, env.User, sess)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.InDelta(t, 379.98, order.Total, 1e-9)
	assert.Equal(t, "MP24XYZ", order.TransactionID)
	assert.Equal(t, "pickup", order.DeliveryMethod)
	assert.Equal(t, "ana@example.com", order.CustomerEmail)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Pro Tennis Racket", order.Items[0].Name)
	assert.Equal(t, uint(2), order.Items[0].Quantity)

	// cart is cleared and the session discarded
	var remaining int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Where("user_id = ?", env.User.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
	_, err = env.Sessions.Get(ctx, env.User.ID)
	assert.ErrorIs(t, err, checkout.ErrSessionNotFound)

	// pending confirmation goes out
	require.Len(t, env.Notifier.notices, 1)
	assert.Equal(t, models.OrderStatusPending, env.Notifier.notices[0].Status)
	assert.Equal(t, order.ID, env.Notifier.notices[0].OrderID)
}

func TestPlaceOrderEmptyTransactionID(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.DB.Create(&models.CartItem{
		UserID: env.User.ID, ProductID: 1, Name: "Balls", UnitPrice: 9.99, Quantity: 1,
	}).Error)
	sess := env.checkoutSession(t, "   ")

	_, err := env.Svc.Place(context.Background(), env.User, sess)
	assert.ErrorIs(t, err, checkout.ErrTransactionID)

	// no order was created, cart untouched
	assert.Zero(t, env.orderCount(t))
	var remaining int64
	require.NoError(t, env.DB.Model(&models.CartItem{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	sess := env.checkoutSession(t, "MP24XYZ")

	_, err := env.Svc.Place(context.Background(), env.User, sess)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, env.orderCount(t))
}

func placedOrder(t *testing.T, env *testEnv) *models.Order {
	require.NoError(t, env.DB.Create(&models.CartItem{
		UserID: env.User.ID, ProductID: 1, Name: "Racket", UnitPrice: 100, Quantity: 1,
	}).Error)
	sess := env.checkoutSession(t, "TX1")
	order, err := env.Svc.Place(context.Background(), env.User, sess)
	require.NoError(t, err)
	return order
}

func TestSetStatusSkipsIntermediateStates(t *testing.T) {
	env := newTestEnv(t)
	order := placedOrder(t, env)
	env.Notifier.notices = nil

	// pending -> delivered directly; the transition graph is unrestricted
	updated, err := env.Svc.SetStatus(context.Background(), order.ID, models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)

	var stored models.Order
	require.NoError(t, env.DB.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusDelivered, stored.Status)

	require.Len(t, env.Notifier.notices, 1)
	assert.Equal(t, models.OrderStatusDelivered, env.Notifier.notices[0].Status)
	assert.Equal(t, "ana@example.com", env.Notifier.notices[0].Email)
	assert.InDelta(t, 100, env.Notifier.notices[0].Total, 1e-9)
}

func TestSetStatusSurvivesNotifierFailure(t *testing.T) {
	env := newTestEnv(t)
	order := placedOrder(t, env)
	env.Notifier.err = errors.New("smtp down")

	updated, err := env.Svc.SetStatus(context.Background(), order.ID, models.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, updated.Status)

	var stored models.Order
	require.NoError(t, env.DB.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderStatusProcessing, stored.Status)
}

func TestSetStatusValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.Svc.SetStatus(context.Background(), 1, "shipped")
	assert.ErrorIs(t, err, ErrBadStatus)

	_, err = env.Svc.SetStatus(context.Background(), 999, models.OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i, st := range []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusPending, models.OrderStatusDelivered,
	} {
		require.NoError(t, env.DB.Create(&models.Order{
			UserID: env.User.ID, Total: float64(100 * (i + 1)), Status: st,
			TransactionID: "t", DeliveryMethod: "pickup",
		}).Error)
	}

	st, err := env.Svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.TotalOrders)
	assert.InDelta(t, 600, st.GrossSales, 1e-9)
	assert.Equal(t, int64(2), st.Pending)
	assert.Zero(t, st.Processing)
	assert.Equal(t, int64(1), st.Delivered)
}
