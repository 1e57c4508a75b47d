package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/citygram/citygram-api/internal/api/middleware"
	"github.com/citygram/citygram-api/internal/core/ports"
)

// AuthHandler serves registration, login, session introspection and logout.
// The session transport is the HTTP-only cookie flow: Secure/SameSite=Strict,
// never readable by page scripts.
type AuthHandler struct {
	authService  ports.AuthService
	cookieSecure bool
	rememberTTL  time.Duration
}

func NewAuthHandler(authService ports.AuthService, cookieSecure bool, rememberTTL time.Duration) *AuthHandler {
	if rememberTTL <= 0 {
		rememberTTL = 7 * 24 * time.Hour
	}
	return &AuthHandler{authService: authService, cookieSecure: cookieSecure, rememberTTL: rememberTTL}
}

// Register creates a new account and opens a session.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		City:     req.City,
	})
	if err != nil {
		return err
	}

	h.setSessionCookie(c, token, 0)
	return c.JSON(http.StatusCreated, authResponse{Message: "User registered successfully", User: user})
}

// Login verifies credentials and opens a session.
//
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	// remember_me extends the cookie beyond the browser session.
	var maxAge time.Duration
	if req.RememberMe {
		maxAge = h.rememberTTL
	}
	h.setSessionCookie(c, token, maxAge)

	return c.JSON(http.StatusOK, authResponse{Message: "Login successful", User: user})
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := sessionUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authService.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Logout clears the session cookie. The token itself stays valid until its
// natural expiry; there is no server-side revocation.
//
// @Summary      Log out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// setSessionCookie writes the session token. maxAge zero means a cookie
// scoped to the browser session.
func (h *AuthHandler) setSessionCookie(c echo.Context, token string, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
	if maxAge > 0 {
		cookie.MaxAge = int(maxAge.Seconds())
	}
	c.SetCookie(cookie)
}
