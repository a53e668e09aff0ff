package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nashikconnect/vyapaar/internal/domain"
	"github.com/nashikconnect/vyapaar/internal/webserver"
)

type signupPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type resetPayload struct {
	Email string `json:"email" validate:"required"`
}

type confirmPayload struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type session struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/auth/signup", signup)
	webserver.ApiPOST("/auth/login", login)
	webserver.ApiPOST("/auth/password/reset", requestReset)
	webserver.ApiPOST("/auth/password/confirm", confirmReset)
	webserver.ApiGET("/auth/me", currentUser, webserver.RequireAuth)
}

// @Summary create an account
// @Tags Auth
// @Param body body signupPayload true "account"
// @Success 201 {object} Response
// @Router /auth/signup [post]
func signup(c echo.Context) error {
	var payload signupPayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Email and password are required", err.Error())
	}
	svc := GetAppContext(c).Auth()
	user, err := svc.SignUp(c.Request().Context(), payload.Email, payload.Password, payload.FullName, payload.Role)
	if err != nil {
		return serviceError(c, err, "Sign up failed")
	}
	token, err := svc.IssueToken(user)
	if err != nil {
		return serviceError(c, err, "Sign up failed")
	}
	return created(c, session{Token: token, User: user})
}

// @Summary sign in
// @Tags Auth
// @Param body body loginPayload true "credentials"
// @Success 200 {object} Response
// @Router /auth/login [post]
func login(c echo.Context) error {
	var payload loginPayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Email and password are required", err.Error())
	}
	token, user, err := GetAppContext(c).Auth().Login(c.Request().Context(), payload.Email, payload.Password)
	if err != nil {
		return serviceError(c, err, "Sign in failed")
	}
	return ok(c, session{Token: token, User: user})
}

// requestReset always answers the same way so accounts cannot be probed.
func requestReset(c echo.Context) error {
	var payload resetPayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Email is required", err.Error())
	}
	if err := GetAppContext(c).Auth().RequestReset(c.Request().Context(), payload.Email); err != nil {
		return serviceError(c, err, "Unable to send reset email")
	}
	return ok(c, map[string]string{"message": "If the account exists, a reset link has been sent"})
}

func confirmReset(c echo.Context) error {
	var payload confirmPayload
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Token and password are required", err.Error())
	}
	if err := GetAppContext(c).Auth().ConfirmReset(c.Request().Context(), payload.Token, payload.Password); err != nil {
		return serviceError(c, err, "Password reset failed")
	}
	return ok(c, map[string]string{"message": "Password updated"})
}

func currentUser(c echo.Context) error {
	user, err := GetAppContext(c).Repos().Users.GetByID(c.Request().Context(), webserver.CurrentUserID(c))
	if err != nil {
		return serviceError(c, err, "Failed to load account")
	}
	return ok(c, user)
}
