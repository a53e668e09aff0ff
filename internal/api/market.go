package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/webserver"
)

type storeDetail struct {
	*domain.Store
	Products []*domain.Product `json:"products"`
}

func registerMarketRoutes() {
	webserver.ApiGET("/market/stores", listStores)
	webserver.ApiGET("/market/stores/:id", getStore)
	webserver.ApiGET("/market/products", listMarketProducts)
}

// @Summary active stores, newest first
// @Tags Market
// @Param page query int false "page"
// @Param pageSize query int false "page size"
// @Success 200 {object} ListResponse
// @Router /market/stores [get]
func listStores(c echo.Context) error {
	page, pageSize := parsePagination(c)
	stores, total, err := GetAppContext(c).Repos().Stores.ListActive(c.Request().Context(), page, pageSize)
	if err != nil {
		return serviceError(c, err, "Failed to load stores")
	}
	return paged(c, stores, total, page, pageSize)
}

func getStore(c echo.Context) error {
	ctx := c.Request().Context()
	repos := GetAppContext(c).Repos()
	store, err := repos.Stores.GetByID(ctx, c.Param("id"))
	if err != nil {
		return serviceError(c, err, "Failed to load store")
	}
	if !store.IsActive {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Store not found", nil)
	}
	products, err := repos.Products.ListByStore(ctx, store.ID, true)
	if err != nil {
		return serviceError(c, err, "Failed to load products")
	}
	return ok(c, storeDetail{Store: store, Products: products})
}

func listMarketProducts(c echo.Context) error {
	products, err := GetAppContext(c).Repos().Products.ListActive(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "Failed to load products")
	}
	return ok(c, products)
}
