package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Context keys for storing session data in Echo context. Other plugins
// use these keys (via the exported getters below) to read the signed-in
// user's information.
const (
	contextKeySession  = "auth_session"
	contextKeyUsername = "auth_username"
)

// RequireAuth returns middleware that validates the session cookie and
// injects session data into the request context. Requests without an
// authenticated session are redirected to /login, or get a 401 JSON body
// on API paths.
func RequireAuth(gate GateService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := getSessionID(c)
			if id == "" {
				return handleUnauthenticated(c)
			}

			session, err := gate.ValidateSession(c.Request().Context(), id)
			if err != nil {
				// Stale or anonymous session. Keep the cookie: an
				// anonymous session still carries failure history.
				return handleUnauthenticated(c)
			}

			c.Set(contextKeySession, session)
			c.Set(contextKeyUsername, session.Username)

			return next(c)
		}
	}
}

// handleUnauthenticated returns the appropriate response for unauthenticated
// requests: redirect for browsers, 401 JSON for API clients.
func handleUnauthenticated(c echo.Context) error {
	if isAPIRequest(c) {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error":   "unauthorized",
			"message": "authentication required",
		})
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// GetSession retrieves the authenticated session from the Echo context.
// Returns nil if the request is not authenticated (middleware not applied).
func GetSession(c echo.Context) *Session {
	session, ok := c.Get(contextKeySession).(*Session)
	if !ok {
		return nil
	}
	return session
}

// GetUsername retrieves the signed-in username from the Echo context.
// Returns empty string if the request is not authenticated.
func GetUsername(c echo.Context) string {
	name, ok := c.Get(contextKeyUsername).(string)
	if !ok {
		return ""
	}
	return name
}

// isAPIRequest returns true if the request targets the /api/ path.
func isAPIRequest(c echo.Context) bool {
	path := c.Request().URL.Path
	return len(path) >= 4 && path[:4] == "/api"
}
