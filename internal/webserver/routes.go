package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const apiPrefix = "/api/v1"

type route struct {
	method     string
	path       string
	handler    echo.HandlerFunc
	middleware []echo.MiddlewareFunc
}

var apiRoutes []route

func register(method, path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	apiRoutes = append(apiRoutes, route{method: method, path: path, handler: h, middleware: m})
}

// ApiGET registers a GET handler under /api/v1
func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	register(http.MethodGet, path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	register(http.MethodPost, path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	register(http.MethodPut, path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	register(http.MethodDelete, path, h, m...)
}

// ResetRoutes forgets every registered route
func ResetRoutes() {
	apiRoutes = nil
}
