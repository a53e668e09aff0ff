package api

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nashikconnect/vyapaar/internal/catalog"
	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/webserver"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func registerMerchantRoutes() {
	merchant := webserver.RequireRole(domain.RoleMerchant)
	webserver.ApiGET("/merchant/store", getMyStore, merchant)
	webserver.ApiPUT("/merchant/store", saveMyStore, merchant)
	webserver.ApiGET("/merchant/products", listMyProducts, merchant)
	webserver.ApiPOST("/merchant/products", createMyProduct, merchant)
	webserver.ApiGET("/merchant/products/export.csv", exportCSV, merchant)
	webserver.ApiGET("/merchant/products/export.xlsx", exportXLSX, merchant)
	webserver.ApiPOST("/merchant/products/import", importCSV, merchant)
	webserver.ApiGET("/merchant/products/:id", getMyProduct, merchant)
	webserver.ApiPUT("/merchant/products/:id", updateMyProduct, merchant)
	webserver.ApiGET("/merchant/dashboard", getDashboard, merchant)
}

func getMyStore(c echo.Context) error {
	store, err := GetAppContext(c).Catalog().Store(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return serviceError(c, err, "Failed to load store")
	}
	return ok(c, store)
}

// @Summary create or update the merchant's store profile
// @Tags Merchant
// @Param body body catalog.StoreForm true "store"
// @Success 200 {object} Response
// @Success 201 {object} Response
// @Router /merchant/store [put]
func saveMyStore(c echo.Context) error {
	var form catalog.StoreForm
	if err := bindJSON(c, &form); err != nil {
		return err
	}
	store, isNew, err := GetAppContext(c).Catalog().SaveStore(c.Request().Context(), webserver.CurrentUserID(c), form)
	if err != nil {
		return serviceError(c, err, "Failed to save store")
	}
	if isNew {
		return created(c, store)
	}
	return ok(c, store)
}

func listMyProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	items, total, err := GetAppContext(c).Catalog().Products(c.Request().Context(), webserver.CurrentUserID(c), page, pageSize)
	if err != nil {
		return serviceError(c, err, "Failed to load products")
	}
	return paged(c, items, total, page, pageSize)
}

// @Summary add a product from the form
// @Tags Merchant
// @Param body body catalog.ProductForm true "product"
// @Success 201 {object} Response
// @Router /merchant/products [post]
func createMyProduct(c echo.Context) error {
	var form catalog.ProductForm
	if err := bindJSON(c, &form); err != nil {
		return err
	}
	p, err := GetAppContext(c).Catalog().CreateProduct(c.Request().Context(), webserver.CurrentUserID(c), form)
	if err != nil {
		return serviceError(c, err, "Failed to add product")
	}
	return created(c, p)
}

func getMyProduct(c echo.Context) error {
	p, err := GetAppContext(c).Catalog().Product(c.Request().Context(), webserver.CurrentUserID(c), c.Param("id"))
	if err != nil {
		return serviceError(c, err, "Failed to load product")
	}
	return ok(c, p)
}

func updateMyProduct(c echo.Context) error {
	var form catalog.ProductForm
	if err := bindJSON(c, &form); err != nil {
		return err
	}
	p, err := GetAppContext(c).Catalog().UpdateProduct(c.Request().Context(), webserver.CurrentUserID(c), c.Param("id"), form)
	if err != nil {
		return serviceError(c, err, "Failed to update product")
	}
	return ok(c, p)
}

func exportCSV(c echo.Context) error {
	var buf bytes.Buffer
	if err := GetAppContext(c).Catalog().ExportCSV(c.Request().Context(), webserver.CurrentUserID(c), &buf); err != nil {
		return serviceError(c, err, "Export failed")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func exportXLSX(c echo.Context) error {
	var buf bytes.Buffer
	if err := GetAppContext(c).Catalog().ExportXLSX(c.Request().Context(), webserver.CurrentUserID(c), &buf); err != nil {
		return serviceError(c, err, "Export failed")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
	return c.Blob(http.StatusOK, xlsxMime, buf.Bytes())
}

// importCSV accepts a multipart "file" field or a raw text/csv body.
func importCSV(c echo.Context) error {
	var src io.Reader = c.Request().Body
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return fail(c, http.StatusBadRequest, "NO_FILE", "Please select a CSV file", err.Error())
		}
		f, err := fh.Open()
		if err != nil {
			return serviceError(c, err, "Failed to read upload")
		}
		defer f.Close()
		src = f
	}
	items, err := GetAppContext(c).Catalog().ImportCSV(c.Request().Context(), webserver.CurrentUserID(c), src)
	if err != nil {
		return serviceError(c, err, "Import failed")
	}
	return created(c, map[string]interface{}{"imported": len(items), "items": items})
}

func getDashboard(c echo.Context) error {
	d, err := GetAppContext(c).Catalog().Dashboard(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return serviceError(c, err, "Failed to load dashboard")
	}
	return ok(c, d)
}
