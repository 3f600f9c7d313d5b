package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pellmont/wardbook/internal/apperror"
	"github.com/pellmont/wardbook/internal/middleware"
	"github.com/pellmont/wardbook/internal/plugins/records"
)

// sessionCookieName is the HTTP cookie used to store the session ID.
const sessionCookieName = "wardbook_session"

// Handler handles HTTP requests for the login gate. Handlers are thin: they
// bind the request, call the gate, and render the response. No business
// logic lives here.
type Handler struct {
	gate GateService
}

// NewHandler creates a new auth handler with the given gate.
func NewHandler(gate GateService) *Handler {
	return &Handler{gate: gate}
}

// LoginForm renders the login page (GET /login).
func (h *Handler) LoginForm(c echo.Context) error {
	// Already signed in: straight to the records page.
	if id := getSessionID(c); id != "" {
		if _, err := h.gate.ValidateSession(c.Request().Context(), id); err == nil {
			return c.Redirect(http.StatusSeeOther, "/records")
		}
	}

	sess, err := h.ensureSession(c)
	if err != nil {
		return err
	}

	csrfToken := middleware.GetCSRFToken(c)
	return middleware.Render(c, http.StatusOK,
		LoginPage(csrfToken, "", "", "", sess.ChallengeRequired()))
}

// Login processes the login form submission (POST /login). Every outcome
// renders as a normal 200 page; the status code never hints at which check
// failed.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	sess, err := h.ensureSession(c)
	if err != nil {
		return err
	}

	result, err := h.gate.Login(c.Request().Context(), sess.ID, LoginInput{
		Username:          req.Username,
		Password:          req.Password,
		Surname:           req.Surname,
		ChallengeResponse: req.ChallengeResponse,
	})
	if err != nil {
		return err
	}

	csrfToken := middleware.GetCSRFToken(c)

	switch result.Outcome {
	case OutcomeAuthenticated:
		return middleware.Render(c, http.StatusOK,
			records.ResultsPage(csrfToken, req.Surname, result.Records, true))
	case OutcomeInvalidInput:
		required, rerr := h.gate.ChallengeRequired(c.Request().Context(), sess.ID)
		if rerr != nil {
			return rerr
		}
		return middleware.Render(c, http.StatusOK,
			LoginPage(csrfToken, req.Username, req.Surname,
				"All fields are required.", required))
	case OutcomeChallengeFailed:
		return middleware.Render(c, http.StatusOK,
			LoginPage(csrfToken, req.Username, req.Surname,
				"The characters you entered did not match the image.", true))
	default:
		return middleware.Render(c, http.StatusOK,
			LoginPage(csrfToken, req.Username, req.Surname,
				"Invalid username or password.", true))
	}
}

// Challenge streams a freshly issued challenge image (GET /captcha). Each
// call replaces the session's pending answer, so the image on screen always
// matches what the gate will check.
func (h *Handler) Challenge(c echo.Context) error {
	sess, err := h.ensureSession(c)
	if err != nil {
		return err
	}

	img, err := h.gate.IssueChallenge(c.Request().Context(), sess.ID)
	if err != nil {
		return err
	}

	c.Response().Header().Set("Cache-Control", "no-store")
	return c.Blob(http.StatusOK, "image/png", img)
}

// ChallengeStatus reports whether the next login attempt needs a challenge
// response (GET /api/captcha/required).
func (h *Handler) ChallengeStatus(c echo.Context) error {
	required, err := h.gate.ChallengeRequired(c.Request().Context(), getSessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]bool{"required": required})
}

// Logout destroys the session and clears the cookie (POST /logout).
func (h *Handler) Logout(c echo.Context) error {
	if id := getSessionID(c); id != "" {
		// Cookie is cleared regardless, so a store hiccup here is not
		// worth failing the request over.
		_ = h.gate.Logout(c.Request().Context(), id)
	}

	clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/login")
}

// ensureSession resumes or creates the caller's session and keeps the
// cookie in sync with the ID the store knows.
func (h *Handler) ensureSession(c echo.Context) (*Session, error) {
	id := getSessionID(c)
	sess, err := h.gate.EnsureSession(c.Request().Context(), id)
	if err != nil {
		return nil, err
	}
	if sess.ID != id {
		setSessionCookie(c, sess.ID)
	}
	return sess, nil
}

// getSessionID reads the session ID from the request cookie.
func getSessionID(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie on the response. The cookie is
// HttpOnly (JS can't read it), Secure if behind TLS, and SameSite=Lax.
func setSessionCookie(c echo.Context, id string) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
