package invoice

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2026, time.October, 5, 10, 30, 0, 0, time.UTC)

func sampleDocument() Document {
	customer := Customer{
		Name:    "Ravi  Kumar",
		Email:   "ravi@example.com",
		Phone:   "9876543210",
		Address: "Flat 4, Shanti Niwas, near Ramkund, Panchavati, Nashik, Maharashtra 422003, India",
	}
	item := Item{
		ID:    "abcdef12-3456-7890-abcd-ef1234567890",
		Name:  "Wool Shawl",
		Price: decimal.NewFromInt(1200),
	}
	return New(customer, item, 2, issuedAt)
}

func TestNewComputesTotals(t *testing.T) {
	d := sampleDocument()
	assert.Equal(t, "2400", d.Subtotal.String())
	assert.Equal(t, "432.00", d.Tax.StringFixed(2))
	assert.Equal(t, "2832.00", d.Total.StringFixed(2))
	assert.Equal(t, "ABCDEF12-2", d.UniqueCode)
	assert.Equal(t, "05 October 2026", d.Date)
	assert.Equal(t, 2, d.Quantity)
}

func TestTaxRoundsToPaise(t *testing.T) {
	d := New(Customer{Name: "A"}, Item{ID: "x", Price: decimal.RequireFromString("99.99")}, 3, issuedAt)
	assert.Equal(t, "299.97", d.Subtotal.String())
	// 299.97 * 0.18 = 53.9946
	assert.Equal(t, "53.99", d.Tax.String())
	assert.Equal(t, "353.96", d.Total.String())
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "INV-52000123", Number(time.UnixMilli(1729152000123)))
	assert.Len(t, Number(time.Now()), len("INV-")+8)
}

func TestUniqueCodeShortID(t *testing.T) {
	assert.Equal(t, "AB-1", UniqueCode("ab", 1))
}

func TestUniqueCodeKeepsRunesWhole(t *testing.T) {
	code := UniqueCode("दियाdiya-0001", 3)
	assert.Equal(t, "दियाDIYA-3", code)
	assert.True(t, utf8.ValidString(code))
}

func TestFilename(t *testing.T) {
	d := sampleDocument()
	assert.Equal(t, "Invoice_"+d.Number+"_Ravi_Kumar.pdf", d.Filename())
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "2,400", FormatAmount(decimal.NewFromInt(2400)))
	assert.Equal(t, "99.5", FormatAmount(decimal.RequireFromString("99.50")))
	assert.Equal(t, "432.00", FormatMoney(decimal.NewFromInt(432)))
	assert.Equal(t, "2,832.00", FormatMoney(decimal.RequireFromString("2832")))
}

func TestPreview(t *testing.T) {
	p := sampleDocument().Preview()
	assert.Equal(t, "₹1,200", p.UnitPriceText)
	assert.Equal(t, "₹2,400", p.SubtotalText)
	assert.Equal(t, "₹432.00", p.TaxText)
	assert.Equal(t, "₹2,832.00", p.TotalText)
}

func TestRenderLayout(t *testing.T) {
	d := sampleDocument()
	raw, err := render(d, false)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))

	for _, want := range []string{
		"(NASHIK CONNECT)",
		"(Invoice #: " + d.Number + ")",
		"(Code: ABCDEF12-2)",
		"(BILL TO:)",
		"(Product Name)",
		"(Rs.2,832.00)",
		"(GST \\(18%\\):)",
		"(Payment Terms: Due upon receipt)",
	} {
		assert.Contains(t, string(raw), want)
	}
	assert.Equal(t, 1, bytes.Count(raw, []byte("/Type /Page\n")))
}

func TestRenderCompressed(t *testing.T) {
	raw, err := Render(sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
	assert.Greater(t, len(raw), 1000)
}
