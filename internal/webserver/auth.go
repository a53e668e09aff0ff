package webserver

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/nashikconnect/vyapaar/internal/auth"
	"github.com/nashikconnect/vyapaar/internal/domain"
)

const (
	UserContextKey = "user"
	AppContextKey  = "appctx"
)

// optionalJWT parses a bearer token when present; requests without one pass through.
func optionalJWT(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    secret,
		SigningMethod: jwt.SigningMethodHS256.Name,
		ContextKey:    UserContextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return nil
		},
		ContinueOnIgnoredError: true,
	})
}

// CurrentClaims returns the verified token claims or nil.
func CurrentClaims(c echo.Context) *auth.Claims {
	token, ok := c.Get(UserContextKey).(*jwt.Token)
	if !ok || !token.Valid {
		return nil
	}
	claims, _ := token.Claims.(*auth.Claims)
	return claims
}

// CurrentUserID subject of the verified token, empty for anonymous requests
func CurrentUserID(c echo.Context) string {
	if claims := CurrentClaims(c); claims != nil {
		return claims.Subject
	}
	return ""
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CurrentClaims(c) == nil {
			return c.JSON(http.StatusUnauthorized, errorBody{"UNAUTHORIZED", "Please sign in to continue"})
		}
		return next(c)
	}
}

// RequireRole allows only the listed roles; admins are always allowed.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return RequireAuth(func(c echo.Context) error {
			role := CurrentClaims(c).Role
			if role == domain.RoleAdmin {
				return next(c)
			}
			for _, r := range roles {
				if r == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorBody{"FORBIDDEN", "You do not have access to this resource"})
		})
	}
}
