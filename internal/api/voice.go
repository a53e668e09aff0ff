package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/voice"
	"github.com/nashikconnect/vyapaar/internal/webserver"
)

type openPayload struct {
	Lang string `json:"lang"`
}

type resultsPayload struct {
	Results []voice.Result `json:"results" validate:"required,min=1"`
}

type errorPayload struct {
	Error string `json:"error" validate:"required"`
}

func registerVoiceRoutes() {
	merchant := webserver.RequireRole(domain.RoleMerchant)
	webserver.ApiPOST("/voice/sessions", openVoiceSession, merchant)
	webserver.ApiGET("/voice/sessions/:id", getVoiceSession, merchant)
	webserver.ApiDELETE("/voice/sessions/:id", closeVoiceSession, merchant)
	webserver.ApiPOST("/voice/sessions/:id/results", pushVoiceResults, merchant)
	webserver.ApiPOST("/voice/sessions/:id/end", endVoiceRecognition, merchant)
	webserver.ApiPOST("/voice/sessions/:id/error", failVoiceRecognition, merchant)
	webserver.ApiPOST("/voice/sessions/:id/stop", stopVoiceSession, merchant)
	webserver.ApiPOST("/voice/sessions/:id/confirm", confirmVoiceSession, merchant)
	webserver.ApiPOST("/voice/sessions/:id/reject", rejectVoiceSession, merchant)
}

// @Summary start a voice product dialog
// @Tags Voice
// @Param body body openPayload false "language, defaults to the saved preference"
// @Success 201 {object} Response
// @Router /voice/sessions [post]
func openVoiceSession(c echo.Context) error {
	var payload openPayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if payload.Lang == "" {
		payload.Lang = requestLang(c)
	}
	s, err := GetAppContext(c).Voice().Open(webserver.CurrentUserID(c), payload.Lang)
	if err != nil {
		return serviceError(c, err, "Voice recognition is not available")
	}
	return created(c, s.View())
}

// voiceSession loads the caller's session or writes a 404.
func voiceSession(c echo.Context) (*voice.Session, error) {
	s, err := GetAppContext(c).Voice().Get(c.Param("id"), webserver.CurrentUserID(c))
	if err != nil {
		return nil, serviceError(c, err, "")
	}
	return s, nil
}

// @Summary poll the dialog state and queued utterances
// @Tags Voice
// @Param id path string true "session id"
// @Success 200 {object} Response
// @Router /voice/sessions/{id} [get]
func getVoiceSession(c echo.Context) error {
	s, err := voiceSession(c)
	if s == nil {
		return err
	}
	return ok(c, s.View())
}

func closeVoiceSession(c echo.Context) error {
	if err := GetAppContext(c).Voice().Close(c.Param("id"), webserver.CurrentUserID(c)); err != nil {
		return serviceError(c, err, "")
	}
	return c.NoContent(http.StatusNoContent)
}

// pushVoiceResults forwards browser recognition results to the capture loop.
func pushVoiceResults(c echo.Context) error {
	s, err := voiceSession(c)
	if s == nil {
		return err
	}
	var payload resultsPayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Results are required", err.Error())
	}
	if err := s.Recognizer().Push(payload.Results); err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(http.StatusAccepted, Response{Data: s.View()})
}

func endVoiceRecognition(c echo.Context) error {
	s, err := voiceSession(c)
	if s == nil {
		return err
	}
	if err := s.Recognizer().End(); err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(http.StatusAccepted, Response{Data: s.View()})
}

func failVoiceRecognition(c echo.Context) error {
	s, err := voiceSession(c)
	if s == nil {
		return err
	}
	var payload errorPayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Error is required", err.Error())
	}
	if err := s.Recognizer().Fail(payload.Error); err != nil {
		return serviceError(c, err, "")
	}
	return c.JSON(http.StatusAccepted, Response{Data: s.View()})
}

// @Summary stop listening and play the extracted fields back
// @Tags Voice
// @Param id path string true "session id"
// @Success 200 {object} Response
// @Router /voice/sessions/{id}/stop [post]
func stopVoiceSession(c echo.Context) error {
	s, err := GetAppContext(c).Voice().Stop(c.Param("id"), webserver.CurrentUserID(c))
	if err != nil {
		return serviceError(c, err, "")
	}
	return ok(c, s.View())
}

// @Summary save the confirmed product
// @Tags Voice
// @Param id path string true "session id"
// @Success 201 {object} Response
// @Router /voice/sessions/{id}/confirm [post]
func confirmVoiceSession(c echo.Context) error {
	p, err := GetAppContext(c).Voice().Confirm(c.Request().Context(), c.Param("id"), webserver.CurrentUserID(c))
	if err != nil {
		return serviceError(c, err, "Sorry, there was an error adding the product.")
	}
	return created(c, p)
}

func rejectVoiceSession(c echo.Context) error {
	s, err := GetAppContext(c).Voice().Reject(c.Param("id"), webserver.CurrentUserID(c))
	if err != nil {
		return serviceError(c, err, "")
	}
	return ok(c, s.View())
}
