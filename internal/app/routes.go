package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pellmont/wardbook/internal/plugins/auth"
	"github.com/pellmont/wardbook/internal/plugins/captcha"
	"github.com/pellmont/wardbook/internal/plugins/records"
)

// RegisterRoutes wires every plugin: repositories over the shared DB pool,
// the session store over Redis, the gate over both, and finally the HTTP
// routes. This is the single place where all routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo

	// Records plugin.
	patientRepo := records.NewPatientRepository(a.DB)
	recordService := records.NewRecordService(patientRepo)
	recordHandler := records.NewRecordHandler(recordService)

	// Auth plugin: the gate fetches patient records on a successful login,
	// so it takes the record service as a collaborator.
	userRepo := auth.NewUserRepository(a.DB)
	verifier := auth.NewCredentialVerifier(userRepo)
	sessionStore := auth.NewRedisSessionStore(a.Redis, a.Config.Session.TTL)
	generator := a.newChallengeGenerator()
	gate := auth.NewGateService(sessionStore, verifier, generator, recordService)
	authHandler := auth.NewHandler(gate)

	// --- Public routes ---

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/login")
	})

	// Health check endpoint for container health monitoring.
	e.GET("/healthz", func(c echo.Context) error {
		if err := a.DB.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	auth.RegisterRoutes(e, authHandler)

	// --- Authenticated routes ---

	authed := e.Group("", auth.RequireAuth(gate))
	records.RegisterRoutes(authed, recordHandler)
}

// newChallengeGenerator builds the challenge image generator from config.
func (a *App) newChallengeGenerator() captcha.Generator {
	cfg := a.Config.Captcha
	return captcha.NewGenerator(cfg.Length, cfg.Width, cfg.Height)
}
