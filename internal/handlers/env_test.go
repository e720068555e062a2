package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pistanero/storefront/internal/cart"
	"github.com/pistanero/storefront/internal/checkout"
	"github.com/pistanero/storefront/internal/config"
	"github.com/pistanero/storefront/internal/handlers"
	"github.com/pistanero/storefront/internal/logging"
	authmw "github.com/pistanero/storefront/internal/middleware/auth"
	"github.com/pistanero/storefront/internal/middleware/ratelim"
	"github.com/pistanero/storefront/internal/models"
	"github.com/pistanero/storefront/internal/orders"
	httpserver "github.com/pistanero/storefront/internal/transport/http"
)

// fakeSink records published events instead of talking to a broker.
type fakeSink struct {
	events []publishedEvent
}

type publishedEvent struct {
	Topic string
	Key   string
	Event any
}

func (f *fakeSink) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.events = append(f.events, publishedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

type fakeNotifier struct {
	notices []orders.StatusNotice
}

func (f *fakeNotifier) OrderStatusChanged(_ context.Context, n orders.StatusNotice) error {
	f.notices = append(f.notices, n)
	return nil
}

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	Sessions *checkout.MemoryStore
	Events   *fakeSink
	Notifier *fakeNotifier

	jwtSecret     []byte
	refreshSecret []byte
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	jwtSecret := []byte("test-jwt-secret")
	refreshSecret := []byte("test-refresh-secret")

	events := &fakeSink{}
	notifier := &fakeNotifier{}
	sessions := checkout.NewMemoryStore()
	cartStore := cart.NewStore(db)
	logger := logging.New("error")

	orderSvc := &orders.Service{
		DB:       db,
		Cart:     cartStore,
		Sessions: sessions,
		Notifier: notifier,
		Log:      logger,
	}
	tokens := &authmw.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Events: events},
		ProductHandler:  &handlers.ProductHandler{DB: db, Events: events},
		SearchHandler:   &handlers.SearchHandler{},
		CartHandler:     &handlers.CartHandler{DB: db, Cart: cartStore, Events: events},
		CheckoutHandler: &handlers.CheckoutHandler{DB: db, Cart: cartStore, Sessions: sessions, Orders: orderSvc, Events: events},
		OrderHandler:    &handlers.OrderHandler{Orders: orderSvc},
		EventHandler:    &handlers.EventHandler{DB: db},
		UserHandler:     &handlers.UserHandler{DB: db},
		UploadHandler:   &handlers.UploadHandler{},
		Tokens:          tokens,
		LoginLimiter:    ratelim.New(100, 100),
	})

	return &testEnv{
		T:             t,
		E:             e,
		DB:            db,
		Sessions:      sessions,
		Events:        events,
		Notifier:      notifier,
		jwtSecret:     jwtSecret,
		refreshSecret: refreshSecret,
	}
}

func (env *testEnv) createUser(email string, admin bool) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		FullName:     "Ana",
		Phone:        "0771699039",
		CreatedAt:    time.Now(),
	}
	require.NoError(env.T, env.DB.Create(user).Error)
	if admin {
		require.NoError(env.T, env.DB.Create(&models.UserRole{UserID: user.ID, Role: authmw.AdminRole}).Error)
	}
	return user
}

func (env *testEnv) authCookies(user *models.User) []*http.Cookie {
	access, err := authmw.SignAccessToken(user.ID, env.jwtSecret)
	require.NoError(env.T, err)
	refresh, err := authmw.SignRefreshToken(user.ID, env.refreshSecret)
	require.NoError(env.T, err)
	require.NoError(env.T, authmw.SaveRefreshToken(env.DB, refresh, user.ID))

	return []*http.Cookie{
		{Name: "accessToken", Value: access, Path: "/"},
		{Name: "refreshToken", Value: refresh, Path: "/"},
	}
}

func (env *testEnv) doJSON(method, path string, payload any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		require.NoError(env.T, json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) addProduct(name string, price float64) *models.Product {
	p := &models.Product{
		Name: name, Price: price,
		Category: "Rackets", Section: "sports",
		CreatedAt: time.Now(),
	}
	require.NoError(env.T, env.DB.Create(p).Error)
	return p
}
