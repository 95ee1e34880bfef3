package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

type AuthHandler struct {
	session ports.SessionService
}

func NewAuthHandler(session ports.SessionService) *AuthHandler {
	return &AuthHandler{session: session}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signupRequest struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// sessionResponse never carries the bearer token: it stays in this process.
type sessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	Admin         *domain.Admin `json:"admin,omitempty"`
	ExpiresAt     *time.Time    `json:"expiresAt,omitempty"`
	Loading       bool          `json:"loading"`
	Error         string        `json:"error,omitempty"`
	Message       string        `json:"message,omitempty"`
}

func toSessionResponse(s domain.SessionState) sessionResponse {
	return sessionResponse{
		Authenticated: s.IsAuthenticated(),
		Admin:         s.Admin,
		ExpiresAt:     s.ExpiresAt,
		Loading:       s.Loading,
		Error:         s.Error,
	}
}

// Login authenticates the console against the backend.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Failure      504   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.session.Login(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}

	resp := toSessionResponse(h.session.State())
	resp.Message = "Login successful"
	return c.JSON(http.StatusOK, resp)
}

// Logout ends the session locally whatever the backend answers.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.session.Logout(c.Request().Context()); err != nil {
		return err
	}
	resp := toSessionResponse(h.session.State())
	resp.Message = "Logged out successfully"
	return c.JSON(http.StatusOK, resp)
}

// Signup creates a new admin account without signing it in.
//
// @Summary      Create admin account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "Admin details"
// @Success      201   {object}  map[string]any
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	admin, err := h.session.Signup(c.Request().Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Account created successfully. Please log in.",
		"admin":   admin,
	})
}

// Session reports the current session state.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionResponse(h.session.State()))
}

// Me returns the admin the console is signed in as.
//
// @Summary      Signed-in admin
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Admin
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	admin, err := ctxAdmin(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, admin)
}
