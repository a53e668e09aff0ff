package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nashikconnect/vyapaar/internal/domain"
)

func TestProductNeedsStoreProfile(t *testing.T) {
	env := newTestEnv(t)
	token := env.signup("shop@example.com", domain.RoleMerchant)

	rec := env.do(http.MethodGet, "/merchant/store", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/merchant/products", map[string]interface{}{"name": "Diya", "price": 40}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "NO_STORE", e.Code)
	assert.Equal(t, "Please create your store profile first in Settings", e.Message)
}

func TestStoreSaveKeepsID(t *testing.T) {
	env := newTestEnv(t)
	token, storeID := env.openStore("shop@example.com")

	rec := env.do(http.MethodPut, "/merchant/store", map[string]interface{}{
		"store_name": "Ramkund Prasad Bhandar", "address": "Panchavati, Nashik", "category": "Food",
		"phone": "+91 98765 43210", "is_active": true,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode(t, rec)
	assert.Equal(t, storeID, data["id"])
	assert.Equal(t, "Ramkund Prasad Bhandar", data["store_name"])

	rec = env.do(http.MethodPut, "/merchant/store", map[string]interface{}{"category": "Food", "email": "bad"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", e.Code)
	details := e.Details.(map[string]interface{})
	assert.Equal(t, "Store name is required", details["store_name"])
	assert.Equal(t, "Invalid email format", details["email"])
}

func TestProductLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token, storeID := env.openStore("shop@example.com")

	p := env.addProduct(token, map[string]interface{}{
		"name": "Brass diya", "price": 149.999, "stock": 12, "serial_no": "diya-01",
	})
	assert.Equal(t, domain.ProductFormIcon, p["image_url"])
	assert.Equal(t, domain.DefaultCategory, p["category"])
	assert.Equal(t, 150.0, p["price"])
	assert.Equal(t, "DIYA-01", p["serial_no"])
	assert.Equal(t, storeID, p["store_id"])
	id := p["id"].(string)

	rec := env.do(http.MethodPut, "/merchant/products/"+id, map[string]interface{}{
		"name": "Brass diya", "price": 120, "stock": 3, "is_active": false,
	}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, decode(t, rec)["is_active"])

	rec = env.do(http.MethodGet, "/merchant/products", nil, token)
	items, total := decodeList(t, rec)
	assert.Equal(t, 1.0, total)
	require.Len(t, items, 1)

	rec = env.do(http.MethodPost, "/merchant/products", map[string]interface{}{"price": -1}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	details := decodeError(t, rec).Details.(map[string]interface{})
	assert.Equal(t, "Product name is required", details["name"])
	assert.Equal(t, "Price cannot be negative", details["price"])

	other := env.signup("other@example.com", domain.RoleMerchant)
	rec = env.do(http.MethodGet, "/merchant/products/"+id, nil, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarketShowsActiveProducts(t *testing.T) {
	env := newTestEnv(t)
	token, storeID := env.openStore("shop@example.com")
	env.addProduct(token, map[string]interface{}{"name": "Rudraksha mala", "price": 300})
	env.addProduct(token, map[string]interface{}{"name": "Hidden", "price": 10, "is_active": false})

	rec := env.do(http.MethodGet, "/market/stores", nil, "")
	stores, total := decodeList(t, rec)
	assert.Equal(t, 1.0, total)
	require.Len(t, stores, 1)

	rec = env.do(http.MethodGet, "/market/stores/"+storeID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	products := decode(t, rec)["products"].([]interface{})
	require.Len(t, products, 1)
	assert.Equal(t, "Rudraksha mala", products[0].(map[string]interface{})["name"])

	rec = env.do(http.MethodGet, "/market/stores/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportImportAndDashboard(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.openStore("shop@example.com")
	env.addProduct(token, map[string]interface{}{"name": "Kumkum", "price": 20, "stock": 2})

	rec := env.do(http.MethodGet, "/merchant/products/export.csv", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "products.csv")
	assert.Contains(t, rec.Body.String(), "Kumkum")

	rec = env.do(http.MethodGet, "/merchant/products/export.xlsx", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxMime, rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"))

	csv := "name,description,price,stock,category,serial_no,image_url,is_active\n" +
		"Agarbatti,Sandal,35,40,Pooja,,,true\n"
	rec = env.upload("/merchant/products/import", "products.csv", []byte(csv), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1.0, decode(t, rec)["imported"])

	rec = env.do(http.MethodGet, "/merchant/dashboard", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode(t, rec)
	assert.Equal(t, 2.0, d["products"])
	assert.Equal(t, 42.0, d["total_stock"])
}
