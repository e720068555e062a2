package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pistanero/storefront/internal/models"
)

func TestAdminUserRoster(t *testing.T) {
	env := newTestEnv(t)
	ana := env.createUser("ana@example.com", false)
	env.placeOrder(ana, 189.99)
	admin := env.createUser("admin@example.com", true)
	cks := env.authCookies(admin)

	rec := env.doJSON(http.MethodGet, "/api/v1/admin/users", nil, cks...)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 2)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = env.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/admin/users/%d/orders", ana.ID), nil, cks...)
	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, ana.ID, orders[0].UserID)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, "Racket", orders[0].Items[0].Name)
}

func TestUserRosterForbiddenForCustomer(t *testing.T) {
	env := newTestEnv(t)
	ana := env.createUser("ana@example.com", false)

	rec := env.doJSON(http.MethodGet, "/api/v1/admin/users", nil, env.authCookies(ana)...)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "ana@example.com")
}
