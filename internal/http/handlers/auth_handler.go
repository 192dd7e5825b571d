// Authentication HTTP handlers.
//
// This file exposes the admin session endpoints:
//   - POST /auth/login   (exchange credentials for a bearer token)
//   - POST /auth/logout  (client-side token discard; always succeeds)
//   - GET  /auth/me      (echo the authenticated admin identity)
//
// Sessions are stateless bearer tokens: logout exists so clients have a
// uniform call to make, but the server keeps no session state to destroy.
// The admin check itself lives in middleware and is re-run on every gated
// request.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/victorypower/church-backend/internal/services"
)

// AuthService defines the session operations consumed by HTTP handlers.
type AuthService interface {
	// SignIn verifies credentials and returns a bearer token plus identity.
	SignIn(ctx context.Context, email, password string) (string, *services.Identity, error)
}

//
// DTOs
//

// LoginRequest is the JSON payload for signing in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@example.org"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued bearer token and the signed-in identity.
type LoginResponse struct {
	Token string             `json:"token"`
	User  *services.Identity `json:"user"`
}

//
// Handlers
//

// Login godoc
// @ID          login
// @Summary     Sign in as the administrator
// @Description Verifies credentials and returns a bearer token. Only the configured administrator account may sign in.
// @Tags        Auth
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.LoginRequest  true  "Credentials"
//
// @Success     200  {object} handlers.LoginResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Invalid credentials"
// @Failure     403  {object} handlers.ErrorResponse "Not the administrator"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email and password required")
		return
	}

	token, id, err := h.authSvc.SignIn(c.Request.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		switch err {
		case services.ErrInvalidCredentials:
			fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "invalid email or password")
		case services.ErrNotAuthorized:
			fail(c, http.StatusForbidden, ErrCodeForbidden, "admin access required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, LoginResponse{Token: token, User: id})
}

// Logout godoc
// @ID          logout
// @Summary     Sign out
// @Description Sessions are stateless bearer tokens; the client discards the token. Always returns 204.
// @Tags        Auth
// @Success     204  {string} string "No Content"
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	noContent(c)
}

// Me godoc
// @ID          me
// @Summary     Current admin identity
// @Description Returns the identity of the authenticated administrator. Gated by the admin middleware.
// @Tags        Auth
// @Produce     json
// @Success     200  {object} services.Identity
// @Failure     401  {object} handlers.ErrorResponse "Missing token"
// @Failure     403  {object} handlers.ErrorResponse "Not the administrator"
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) {
	id := services.Identity{
		UserID: c.GetString("userID"),
		Email:  c.GetString("email"),
	}
	ok(c, http.StatusOK, id)
}
