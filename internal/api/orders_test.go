package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var guideForm = map[string]interface{}{
	"full_name":        "Sneha Patil",
	"email":            "sneha@example.com",
	"phone":            "98765 43210",
	"college_name":     "KTHM College",
	"age":              21,
	"student_id":       "KTHM-2231",
	"daily_rate":       800,
	"languages_spoken": "Marathi, Hindi, English",
	"specialization":   "Temples, Food walks",
}

func TestGuideEnrollListAndBook(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/guides", guideForm, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	g := decode(t, rec)
	assert.Equal(t, true, g["is_verified"])
	assert.Equal(t, []interface{}{"Marathi", "Hindi", "English"}, g["languages_spoken"])

	rec = env.do(http.MethodGet, "/guides", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.True(t, strings.HasPrefix(body.Data[0]["whatsapp_url"].(string), "https://wa.me/919876543210?text="))

	date := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	rec = env.do(http.MethodPost, "/guides/"+g["id"].(string)+"/book", map[string]interface{}{"date": date, "days": 2}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	booking := decode(t, rec)
	assert.Equal(t, 1600.0, booking["quote"])

	rec = env.do(http.MethodPost, "/guides/"+g["id"].(string)+"/book", map[string]interface{}{"date": "2001-01-01"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_BOOKING", decodeError(t, rec).Code)

	rec = env.do(http.MethodPost, "/guides/missing/book", map[string]interface{}{"date": date}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGuideEnrollValidation(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodPost, "/guides", map[string]interface{}{"age": 12, "email": "x"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	details := decodeError(t, rec).Details.(map[string]interface{})
	assert.Equal(t, "Age must be between 16 and 40", details["age"])
	assert.Equal(t, "Invalid email format", details["email"])
	assert.Equal(t, "At least one language is required", details["languages_spoken"])
}

func checkoutForm(storeID string, items ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"full_name": "Ravi Kumar", "email": "ravi@example.com", "phone": "9876543210",
		"address": "Ramkund", "city": "Nashik", "state": "Maharashtra", "pincode": "422001",
		"payment_method": "upi", "store_id": storeID, "items": items,
	}
}

func TestCheckout(t *testing.T) {
	env := newTestEnv(t)
	token, storeID := env.openStore("shop@example.com")
	p := env.addProduct(token, map[string]interface{}{"name": "Peda", "price": 120, "stock": 10})

	rec := env.do(http.MethodPost, "/checkout/quote", map[string]interface{}{
		"store_id": storeID, "items": []map[string]interface{}{{"product_id": p["id"], "quantity": 5}},
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	quote := decode(t, rec)
	assert.Equal(t, 600.0, quote["total"])
	assert.Equal(t, true, quote["free_delivery"])

	rec = env.do(http.MethodPost, "/checkout/quote", map[string]interface{}{
		"store_id": storeID, "items": []map[string]interface{}{{"product_id": p["id"], "quantity": -3}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Quantity must be at least 1",
		decodeError(t, rec).Details.(map[string]interface{})["items[0].quantity"])

	rec = env.do(http.MethodPost, "/checkout",
		checkoutForm(storeID, map[string]interface{}{"product_id": p["id"], "quantity": 2}), "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode(t, rec)
	assert.Equal(t, 240.0, order["subtotal"])
	assert.Equal(t, 50.0, order["delivery_fee"])
	assert.Equal(t, 290.0, order["total"])
	assert.True(t, strings.HasPrefix(order["order_number"].(string), "ORD-"))

	rec = env.do(http.MethodPost, "/checkout", checkoutForm(storeID), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Your cart is empty", decodeError(t, rec).Message)

	form := checkoutForm(storeID, map[string]interface{}{"product_id": p["id"], "quantity": 1})
	form["pincode"] = "42200"
	rec = env.do(http.MethodPost, "/checkout", form, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid pincode", decodeError(t, rec).Details.(map[string]interface{})["pincode"])
}
