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

type productList struct {
	Data []models.Product `json:"data"`
	Meta struct {
		Page       int   `json:"page"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
		HasNext    bool  `json:"has_next"`
	} `json:"meta"`
}

func TestListProductsFilters(t *testing.T) {
	env := newTestEnv(t)

	racket := env.addProduct("Pro Racket", 189.99)
	racket.IsFeatured = true
	require.NoError(t, env.DB.Save(racket).Error)
	env.addProduct("Tennis Balls", 12.50)

	rec := env.doJSON(http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list productList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Data, 2)
	assert.Equal(t, int64(2), list.Meta.Total)
	assert.False(t, list.Meta.HasNext)

	rec = env.doJSON(http.MethodGet, "/api/v1/products?featured=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Pro Racket", list.Data[0].Name)
}

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	p := env.addProduct("Racket", 100)

	rec := env.doJSON(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", p.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, p.Name, got.Name)

	rec = env.doJSON(http.MethodGet, "/api/v1/products/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductAdminCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser("admin@example.com", true)
	cks := env.authCookies(admin)

	rec := env.doJSON(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name":     "Court Shoes",
		"price":    79.90,
		"category": "Footwear",
		"section":  "sports",
	}, cks...)
	require.Equal(t, http.StatusCreated, rec.Code)

	var prod models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))
	require.NotZero(t, prod.ID)

	rec = env.doJSON(http.MethodPatch, fmt.Sprintf("/api/v1/admin/products/%d", prod.ID), map[string]any{
		"name":  "Court Shoes v2",
		"price": 84.90,
	}, cks...)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))
	assert.Equal(t, "Court Shoes v2", prod.Name)

	rec = env.doJSON(http.MethodPost, fmt.Sprintf("/api/v1/admin/products/%d/featured", prod.ID), nil, cks...)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prod))
	assert.True(t, prod.IsFeatured)

	rec = env.doJSON(http.MethodDelete, fmt.Sprintf("/api/v1/admin/products/%d", prod.ID), nil, cks...)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var n int64
	require.NoError(t, env.DB.Model(&models.Product{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestProductValidation(t *testing.T) {
	env := newTestEnv(t)
	cks := env.authCookies(env.createUser("admin@example.com", true))

	rec := env.doJSON(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name": "", "price": 10.0,
	}, cks...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.doJSON(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name": "Free Racket", "price": 0.0,
	}, cks...)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductAdminGate(t *testing.T) {
	env := newTestEnv(t)
	cks := env.authCookies(env.createUser("ana@example.com", false))

	rec := env.doJSON(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"name": "Racket", "price": 100.0,
	}, cks...)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var n int64
	require.NoError(t, env.DB.Model(&models.Product{}).Count(&n).Error)
	assert.Zero(t, n)
}
