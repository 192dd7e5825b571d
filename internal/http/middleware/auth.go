// Package middleware – bearer-token authentication.
//
// This file implements the session gate for the admin surface. A request
// carries its session as "Authorization: Bearer <token>"; Authenticate
// resolves the token into an identity and stashes it in the Gin context,
// and RequireAdmin enforces that the identity is the configured
// administrator. The admin check is re-evaluated on every gated request.
// Any failure while resolving or checking the identity denies access: the
// gate fails closed.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys for the authenticated identity. Downstream code reads them
// via c.GetString("userID") / c.GetString("email"); the idempotency and
// rate-limit middleware key on "userID" as well.
const (
	ctxKeyUserID = "userID"
	ctxKeyEmail  = "email"
)

// AdminVerifier resolves a bearer token into the administrator identity.
// Implementations must return an error for anything that is not a valid
// admin session (expired token, bad signature, non-admin account).
type AdminVerifier interface {
	CurrentAdminIdentity(token string) (userID, email string, err error)
}

// BearerToken extracts the token from the Authorization header. The second
// return value is false when the header is absent or not a Bearer scheme.
func BearerToken(c *gin.Context) (string, bool) {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if h == "" {
		return "", false
	}
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(h[len(prefix):])
	return tok, tok != ""
}

// Authenticate resolves a Bearer token (when present) into an identity and
// stashes it in the context. It never rejects: anonymous requests pass
// through untouched so that public endpoints stay public. Enforcement is
// RequireAdmin's job.
func Authenticate(v AdminVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, ok := BearerToken(c); ok {
			if uid, email, err := v.CurrentAdminIdentity(tok); err == nil {
				c.Set(ctxKeyUserID, uid)
				c.Set(ctxKeyEmail, email)
			}
		}
		c.Next()
	}
}

// RequireAdmin gates a route group on a valid administrator session. The
// token is verified on every request; no earlier per-session decision is
// trusted. Missing or invalid tokens yield 401, a valid token for anyone
// other than the administrator yields 403.
func RequireAdmin(v AdminVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := BearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "unauthorized",
				"message": "missing bearer token",
			})
			return
		}
		uid, email, err := v.CurrentAdminIdentity(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "forbidden",
				"message": "admin access required",
			})
			return
		}
		c.Set(ctxKeyUserID, uid)
		c.Set(ctxKeyEmail, email)
		c.Next()
	}
}
