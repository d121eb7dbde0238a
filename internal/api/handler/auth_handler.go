package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/resumeforge/resume-api/internal/api/middleware"
	"github.com/resumeforge/resume-api/internal/core/ports"
)

// CookieOptions controls the session cookie written on sign-in.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieOptions
}

func NewAuthHandler(authService ports.AuthService, cookie CookieOptions) *AuthHandler {
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = 24 * time.Hour
	}
	return &AuthHandler{authService: authService, cookie: cookie}
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteNoneMode,
	}
}

// SignIn authenticates a user and returns a session token.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authService.SignIn(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(session.Token, int(h.cookie.MaxAge.Seconds())))
	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// SignUp registers a new account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Account details"
// @Success      201   {object}  signUpResponse
// @Failure      400   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.SignUp(c.Request().Context(), toSignUpInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, signUpResponse{
		Message: "User registered successfully!",
		User:    toUserResponse(user),
	})
}

// Refresh issues a fresh token for the current principal.
//
// @Summary      Refresh session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	session, err := h.authService.Refresh(c.Request().Context(), principal(c))
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(session.Token, int(h.cookie.MaxAge.Seconds())))
	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// SignOut clears the session cookie. Issued tokens stay valid until they
// expire.
//
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200   {object}  messageResponse
// @Router       /api/auth/signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	c.SetCookie(h.sessionCookie("", -1))
	return c.JSON(http.StatusOK, messageResponse{Message: "Signed out"})
}
