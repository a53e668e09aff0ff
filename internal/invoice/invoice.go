// Package invoice computes single-item GST invoices and lays them out as PDF.
package invoice

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/nashikconnect/vyapaar/pkg/common"
)

const DateLayout = "02 January 2006"

var (
	gstRate = decimal.RequireFromString("0.18")

	inrPrinter = message.NewPrinter(language.MustParse("en-IN"))
	spaceRun   = regexp.MustCompile(`\s+`)
)

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Item struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// Document is a rendered-on-demand invoice, never stored.
type Document struct {
	Number     string          `json:"invoice_number"`
	Date       string          `json:"date"`
	UniqueCode string          `json:"unique_code"`
	Customer   Customer        `json:"customer"`
	Item       Item            `json:"product"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	Total      decimal.Decimal `json:"total"`
}

// New computes the invoice of quantity units of item issued at now.
func New(customer Customer, item Item, quantity int, now time.Time) Document {
	subtotal := item.Price.Mul(decimal.NewFromInt(int64(quantity)))
	tax := subtotal.Mul(gstRate).Round(2)
	return Document{
		Number:     Number(now),
		Date:       now.Format(DateLayout),
		UniqueCode: UniqueCode(item.ID, quantity),
		Customer:   customer,
		Item:       item,
		Quantity:   quantity,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      subtotal.Add(tax),
	}
}

// Number is INV- followed by the last 8 digits of the millisecond timestamp.
func Number(now time.Time) string {
	ms := strconv.FormatInt(now.UnixMilli(), 10)
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "INV-" + ms
}

// UniqueCode is the first 8 characters of the product id, uppercased, and the quantity.
func UniqueCode(productID string, quantity int) string {
	return strings.ToUpper(common.Truncate(productID, 8)) + "-" + strconv.Itoa(quantity)
}

// Filename suggested name of the downloaded PDF
func (d Document) Filename() string {
	return "Invoice_" + d.Number + "_" + spaceRun.ReplaceAllString(d.Customer.Name, "_") + ".pdf"
}

// FormatAmount groups digits the Indian way with up to two decimals.
func FormatAmount(v decimal.Decimal) string {
	return inrPrinter.Sprint(number.Decimal(v.InexactFloat64(), number.MaxFractionDigits(2)))
}

// FormatMoney groups digits the Indian way with exactly two decimals.
func FormatMoney(v decimal.Decimal) string {
	return inrPrinter.Sprint(number.Decimal(v.InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// Preview amounts as displayed on the document
type Preview struct {
	Document
	UnitPriceText string `json:"unit_price_text"`
	SubtotalText  string `json:"subtotal_text"`
	TaxText       string `json:"tax_text"`
	TotalText     string `json:"total_text"`
	Filename      string `json:"filename"`
}

func (d Document) Preview() Preview {
	return Preview{
		Document:      d,
		UnitPriceText: "₹" + FormatAmount(d.Item.Price),
		SubtotalText:  "₹" + FormatAmount(d.Subtotal),
		TaxText:       "₹" + FormatMoney(d.Tax),
		TotalText:     "₹" + FormatMoney(d.Total),
		Filename:      d.Filename(),
	}
}
