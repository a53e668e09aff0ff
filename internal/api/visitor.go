package api

import (
	"github.com/labstack/echo/v4"

	"github.com/nashikconnect/vyapaar/internal/webserver"
)

func registerVisitorRoutes() {
	webserver.ApiGET("/visitor/heritage", listHeritage)
	webserver.ApiGET("/visitor/food", listFood)
	webserver.ApiGET("/visitor/parking", listParking)
}

// @Summary heritage sites in the display language
// @Tags Visitor
// @Param lang query string false "language code"
// @Success 200 {object} Response
// @Router /visitor/heritage [get]
func listHeritage(c echo.Context) error {
	return ok(c, GetAppContext(c).Visitor().Heritage(c.Request().Context(), requestLang(c)))
}

func listFood(c echo.Context) error {
	return ok(c, GetAppContext(c).Visitor().Food(c.Request().Context(), requestLang(c)))
}

func listParking(c echo.Context) error {
	return ok(c, GetAppContext(c).Visitor().Parking(c.Request().Context(), requestLang(c)))
}
