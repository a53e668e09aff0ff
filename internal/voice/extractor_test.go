package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFullSentence(t *testing.T) {
	transcript := "Silver nose ring, price ₹850, stock 12 pieces, jewelry item"
	c := Extract(transcript)

	assert.Equal(t, "", c.SerialNumber())
	assert.Equal(t, "Silver nose ring, price ₹850, stock 12 pieces, jew", c.Name())
	assert.Equal(t, 850.0, c.Price())
	assert.Equal(t, 12, c.Stock())
	assert.Equal(t, "Jewelry", c.Category())
	assert.Equal(t, transcript, c.Description())
}

func TestExtractSerialAndTrailingMarker(t *testing.T) {
	c := Extract("SKU-001 is a wool shawl costing rs 1200")
	assert.Equal(t, "SKU-001", c.SerialNumber())
	assert.Equal(t, 1200.0, c.Price())
	assert.Equal(t, 0, c.Stock())
	assert.Equal(t, "", c.Category())
}

func TestExtractSerialForms(t *testing.T) {
	cases := map[string]string{
		"sku001 brass lamp":            "SKU001",
		"serial number AB12 cotton":    "AB12",
		"code: x-99 for the idol":      "X-99",
		"serial no. 7781 handicraft":   "7781",
		"barcode 1234 should not hit":  "",
		"product code 55 rupees 10":    "55",
		"no identifier in this speech": "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Extract(in).SerialNumber(), in)
	}
}

func TestExtractPriceForms(t *testing.T) {
	cases := map[string]float64{
		"Brass diya ₹1,200":               1200,
		"Tulsi mala for 450 rupees":       450,
		"Kurta Rs. 99.50":                 99.5,
		"Incense sticks 30 rs":            30,
		"price one rupee":                 0,
		"Peda box 1 rupee then ₹5":        5,
		"no price spoken at all here yet": 0,
	}
	for in, want := range cases {
		assert.Equal(t, want, Extract(in).Price(), in)
	}
}

func TestExtractStockForms(t *testing.T) {
	assert.Equal(t, 5, Extract("5 items available").Stock())
	assert.Equal(t, 40, Extract("we have 40 units").Stock())
	assert.Equal(t, 3, Extract("3 stock and 9 pieces").Stock())
	assert.Equal(t, 0, Extract("stock is plenty").Stock())
}

func TestExtractCategoryOrder(t *testing.T) {
	assert.Equal(t, "Clothing", Extract("food themed clothing").Category())
	assert.Equal(t, "Home decor", Extract("A HOME DECOR hanging").Category())
	// substring matches are accepted
	assert.Equal(t, "Food", Extract("food for thought").Category())
}

func TestExtractEmptyTranscript(t *testing.T) {
	c := Extract("")
	assert.Equal(t, "", c.SerialNumber())
	assert.Equal(t, "", c.Name())
	assert.Equal(t, 0.0, c.Price())
	assert.Equal(t, 0, c.Stock())
	assert.Equal(t, "", c.Category())
	assert.Equal(t, "", c.Description())
}

func TestExtractNameSegments(t *testing.T) {
	assert.Equal(t, "Silver Ring", Extract("Silver Ring.  ").Name())
	assert.Equal(t, "Rudraksha", Extract("  ! Rudraksha? Fifty rupees").Name())
	assert.Equal(t, "", Extract("...").Name())
}

func TestExtractDeterministic(t *testing.T) {
	in := "code 42 handicraft lamp ₹300 and 7 pieces"
	assert.Equal(t, Extract(in), Extract(in))
}

func TestCandidateMarshalJSON(t *testing.T) {
	raw, err := json.Marshal(Extract("SKU-9 shawl ₹100, 2 pieces clothing"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "SKU-9", got["serial_number"])
	assert.Equal(t, 100.0, got["price"])
	assert.Equal(t, 2.0, got["stock"])
	assert.Equal(t, "Clothing", got["category"])
}
