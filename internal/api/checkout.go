package api

import (
	"github.com/labstack/echo/v4"

	"github.com/nashikconnect/vyapaar/internal/checkout"
	"github.com/nashikconnect/vyapaar/internal/webserver"
)

type quotePayload struct {
	StoreID string              `json:"store_id"`
	Items   []checkout.CartItem `json:"items"`
}

func registerCheckoutRoutes() {
	webserver.ApiPOST("/checkout/quote", quoteCart)
	webserver.ApiPOST("/checkout", placeOrder)
}

func quoteCart(c echo.Context) error {
	var payload quotePayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	order, err := GetAppContext(c).Checkout().Quote(c.Request().Context(), payload.StoreID, payload.Items)
	if err != nil {
		return serviceError(c, err, "Failed to price cart")
	}
	return ok(c, order)
}

// @Summary place a simulated order
// @Tags Checkout
// @Param body body checkout.Form true "order"
// @Success 201 {object} Response
// @Router /checkout [post]
func placeOrder(c echo.Context) error {
	var form checkout.Form
	if err := bindJSON(c, &form); err != nil {
		return err
	}
	order, err := GetAppContext(c).Checkout().Place(c.Request().Context(), form)
	if err != nil {
		return serviceError(c, err, "Order failed, please try again")
	}
	return created(c, order)
}
