// Package api implements the /api/v1 handlers of the marketplace.
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nashikconnect/vyapaar/internal/app"
	"github.com/nashikconnect/vyapaar/internal/auth"
	"github.com/nashikconnect/vyapaar/internal/catalog"
	"github.com/nashikconnect/vyapaar/internal/checkout"
	"github.com/nashikconnect/vyapaar/internal/guides"
	"github.com/nashikconnect/vyapaar/internal/repository"
	"github.com/nashikconnect/vyapaar/internal/storage"
	"github.com/nashikconnect/vyapaar/internal/voice"
	"github.com/nashikconnect/vyapaar/internal/webserver"
	"github.com/nashikconnect/vyapaar/pkg/common"
)

// Init registers every route group with the webserver.
func Init() {
	registerAuthRoutes()
	registerVisitorRoutes()
	registerMarketRoutes()
	registerGuideRoutes()
	registerCheckoutRoutes()
	registerI18nRoutes()
	registerInvoiceRoutes()
	registerUploadRoutes()
	registerMerchantRoutes()
	registerVoiceRoutes()
	registerSystemRoutes()
}

// Response wraps a single object
type Response struct {
	Data interface{} `json:"data"`
}

// ListResponse wraps one page of a list
type ListResponse struct {
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Data: data})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Data: data})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Code: code, Message: message, Details: details})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, ListResponse{Data: data, Total: total, Page: page, PageSize: pageSize})
}

// parsePagination reads page and pageSize (or perPage), defaulting to 1 and 20.
func parsePagination(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	size := c.QueryParam("pageSize")
	if size == "" {
		size = c.QueryParam("perPage")
	}
	pageSize, _ := strconv.Atoi(size)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

func bindJSON(c echo.Context, payload interface{}) error {
	if err := c.Bind(payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	return nil
}

// serviceError maps service errors to responses. Unknown errors are backend
// failures: the message is shown once and never retried.
func serviceError(c echo.Context, err error, message string) error {
	var fields common.FieldErrors
	if errors.As(err, &fields) {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Please correct the highlighted fields", fields)
	}

	status, code, msg := http.StatusInternalServerError, "BACKEND_ERROR", message
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, voice.ErrSessionNotFound):
		status, code, msg = http.StatusNotFound, "NOT_FOUND", "Not found"
	case errors.Is(err, catalog.ErrNotOwner):
		status, code, msg = http.StatusNotFound, "NOT_FOUND", "Product not found"
	case errors.Is(err, catalog.ErrNoStore):
		status, code, msg = http.StatusBadRequest, "NO_STORE", "Please create your store profile first in Settings"
	case errors.Is(err, auth.ErrInvalidCredentials):
		status, code, msg = http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"
	case errors.Is(err, auth.ErrEmailTaken):
		status, code, msg = http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists"
	case errors.Is(err, auth.ErrInvalidEmail):
		status, code, msg = http.StatusBadRequest, "INVALID_EMAIL", "Invalid email format"
	case errors.Is(err, auth.ErrWeakPassword):
		status, code, msg = http.StatusBadRequest, "WEAK_PASSWORD", "Password must be at least 6 characters"
	case errors.Is(err, auth.ErrInvalidRole):
		status, code, msg = http.StatusBadRequest, "INVALID_ROLE", "Role must be visitor or merchant"
	case errors.Is(err, auth.ErrInvalidResetToken):
		status, code, msg = http.StatusBadRequest, "INVALID_TOKEN", "Reset link is invalid or has expired"
	case errors.Is(err, storage.ErrNotImage):
		status, code, msg = http.StatusBadRequest, "NOT_IMAGE", "Please select an image file"
	case errors.Is(err, storage.ErrTooLarge):
		status, code, msg = http.StatusBadRequest, "TOO_LARGE", "Image size should be less than 5MB"
	case errors.Is(err, voice.ErrWrongStage), errors.Is(err, voice.ErrBusy):
		status, code, msg = http.StatusConflict, "WRONG_STAGE", err.Error()
	case errors.Is(err, voice.ErrNotListening), errors.Is(err, voice.ErrEventBacklog):
		status, code, msg = http.StatusConflict, "NOT_LISTENING", err.Error()
	case errors.Is(err, checkout.ErrEmptyCart):
		status, code, msg = http.StatusBadRequest, "EMPTY_CART", "Your cart is empty"
	case errors.Is(err, checkout.ErrUnavailable):
		status, code, msg = http.StatusBadRequest, "UNAVAILABLE", "Some items are no longer available"
	case errors.Is(err, guides.ErrUnavailable):
		status, code, msg = http.StatusConflict, "UNAVAILABLE", "This guide is not available"
	case errors.Is(err, guides.ErrBadDate), errors.Is(err, guides.ErrPastDate), errors.Is(err, guides.ErrBadDays):
		status, code, msg = http.StatusBadRequest, "INVALID_BOOKING", common.Capitalize(errors.Cause(err).Error())
	case errors.Is(err, app.ErrUnknownSetting), errors.Is(err, app.ErrInvalidSetting):
		status, code, msg = http.StatusBadRequest, "UNKNOWN_SETTING", err.Error()
	}
	if status == http.StatusInternalServerError {
		zap.L().Error(message, zap.Error(err), zap.String("uri", c.Request().RequestURI), zap.String("namespace", "api"))
		return fail(c, status, code, msg, errors.Cause(err).Error())
	}
	return fail(c, status, code, msg, nil)
}
