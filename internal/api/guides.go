package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/guides"
	"github.com/nashikconnect/vyapaar/internal/webserver"
)

type bookPayload struct {
	Date string `json:"date" validate:"required"`
	Days int    `json:"days"`
}

type guideCard struct {
	*domain.StudentGuide
	WhatsAppURL string `json:"whatsapp_url"`
}

func registerGuideRoutes() {
	webserver.ApiGET("/guides", listGuides)
	webserver.ApiPOST("/guides", enrollGuide)
	webserver.ApiPOST("/guides/:id/book", bookGuide)
}

func listGuides(c echo.Context) error {
	items, err := GetAppContext(c).Guides().ListAvailable(c.Request().Context())
	if err != nil {
		return serviceError(c, err, "Failed to load guides")
	}
	cards := make([]guideCard, 0, len(items))
	for _, g := range items {
		cards = append(cards, guideCard{StudentGuide: g, WhatsAppURL: guides.WhatsAppURL(g)})
	}
	return ok(c, cards)
}

// @Summary enroll as a student guide
// @Tags Guides
// @Param body body guides.EnrollForm true "guide"
// @Success 201 {object} Response
// @Router /guides [post]
func enrollGuide(c echo.Context) error {
	var form guides.EnrollForm
	if err := bindJSON(c, &form); err != nil {
		return err
	}
	g, err := GetAppContext(c).Guides().Enroll(c.Request().Context(), form)
	if err != nil {
		return serviceError(c, err, "Failed to submit application")
	}
	return created(c, g)
}

func bookGuide(c echo.Context) error {
	var payload bookPayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Please select a date", err.Error())
	}
	if payload.Days == 0 {
		payload.Days = 1
	}
	booking, err := GetAppContext(c).Guides().Book(c.Request().Context(), c.Param("id"), payload.Date, payload.Days)
	if err != nil {
		return serviceError(c, err, "Booking failed")
	}
	return ok(c, booking)
}
