package auth

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pellmont/wardbook/internal/middleware"
)

// RegisterRoutes sets up the gate's routes on the given Echo instance.
// These routes are public (no session required) -- the RequireAuth
// middleware is exported separately for other plugins to use on their
// route groups.
//
// POST /login is rate-limited per IP to slow brute-force and credential
// stuffing; the challenge endpoint gets a looser limit since each page
// render fetches one image.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/login", h.LoginForm)
	e.POST("/login", h.Login, middleware.RateLimit(10, time.Minute))

	e.GET("/captcha", h.Challenge, middleware.RateLimit(30, time.Minute))
	e.GET("/api/captcha/required", h.ChallengeStatus)

	e.POST("/logout", h.Logout)
}
