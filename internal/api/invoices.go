package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/nashikconnect/vyapaar/internal/invoice"
	"github.com/nashikconnect/vyapaar/internal/webserver"
	"github.com/nashikconnect/vyapaar/pkg/common"
	"github.com/nashikconnect/vyapaar/pkg/metrics"
)

type invoiceItem struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type invoicePayload struct {
	Customer  invoice.Customer `json:"customer"`
	ProductID string           `json:"product_id"`
	Product   *invoiceItem     `json:"product"`
	Quantity  int              `json:"quantity"`
}

func registerInvoiceRoutes() {
	webserver.ApiPOST("/invoices", downloadInvoice)
	webserver.ApiPOST("/invoices/preview", previewInvoice)
}

// buildInvoice resolves the product and computes the document. It writes the
// error response itself and returns nil when the request is invalid.
func buildInvoice(c echo.Context) (*invoice.Document, error) {
	var payload invoicePayload
	if err := c.Bind(&payload); err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	errs := common.FieldErrors{}
	errs.Required("customer.name", payload.Customer.Name, "Customer name is required")
	if errs.Required("customer.email", payload.Customer.Email, "Customer email is required") &&
		!common.IsEmail(payload.Customer.Email) {
		errs["customer.email"] = "Invalid email format"
	}
	errs.Required("customer.phone", payload.Customer.Phone, "Customer phone is required")
	errs.Required("customer.address", payload.Customer.Address, "Customer address is required")
	if payload.Quantity < 1 {
		errs["quantity"] = "Quantity must be at least 1"
	}

	var item invoice.Item
	switch {
	case payload.ProductID != "":
		p, err := GetAppContext(c).Repos().Products.GetByID(c.Request().Context(), payload.ProductID)
		if err != nil {
			return nil, serviceError(c, err, "Failed to load product")
		}
		item = invoice.Item{ID: p.ID, Name: p.Name, Price: p.Price}
	case payload.Product != nil && payload.Product.Name != "":
		item = invoice.Item{ID: payload.Product.ID, Name: payload.Product.Name, Price: payload.Product.Price}
		if item.ID == "" {
			item.ID = common.UUID()
		}
		if item.Price.IsNegative() {
			errs["product.price"] = "Price cannot be negative"
		}
	default:
		errs["product_id"] = "Please select a product"
	}
	if err := errs.Err(); err != nil {
		return nil, serviceError(c, err, "")
	}

	doc := invoice.New(payload.Customer, item, payload.Quantity, time.Now())
	return &doc, nil
}

// @Summary download a GST invoice as PDF
// @Tags Invoices
// @Param body body invoicePayload true "invoice"
// @Produce application/pdf
// @Router /invoices [post]
func downloadInvoice(c echo.Context) error {
	doc, err := buildInvoice(c)
	if doc == nil {
		return err
	}
	pdf, err := invoice.Render(*doc)
	if err != nil {
		return serviceError(c, err, "Failed to generate invoice")
	}
	metrics.Incr(metrics.MetricsInvoiceRendered)
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+doc.Filename()+`"`)
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(pdf)))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

func previewInvoice(c echo.Context) error {
	doc, err := buildInvoice(c)
	if doc == nil {
		return err
	}
	return ok(c, doc.Preview())
}
