package middlewares

import (
	"net/http"
	"strings"

	"github.com/geocoder89/showfinder/internal/actorctx"
	"github.com/geocoder89/showfinder/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// tokenFromHeader accepts "Bearer <jwt>" as well as the bare token.
func tokenFromHeader(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))

	scheme, rest, found := strings.Cut(h, " ")
	if strings.EqualFold(scheme, "bearer") {
		if !found {
			return ""
		}
		return strings.TrimSpace(rest)
	}

	return h
}

func abortUnauthorized(c *gin.Context, code, message string) {
	abortJSON(c, http.StatusUnauthorized, code, message)
}

func (m *AuthMiddleware) attach(c *gin.Context, raw string) bool {
	claims, err := m.jwt.VerifyAccessToken(raw)
	if err != nil {
		return false
	}

	userID, err := claims.UserID()
	if err != nil {
		return false
	}

	// Stash useful bits of identity on the context
	c.Set(CtxUserID, userID)
	c.Set(CtxEmail, claims.Email)
	c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), userID))

	return true
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromHeader(c)
		if raw == "" {
			abortUnauthorized(c, "missing_token", "Missing access token")
			return
		}

		if !m.attach(c, raw) {
			abortUnauthorized(c, "invalid_token", "Invalid or expired access token")
			return
		}

		c.Next()
	}
}

// OptionalAuth attaches identity when a valid token is present and never rejects.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := tokenFromHeader(c); raw != "" {
			m.attach(c, raw)
		}

		c.Next()
	}
}

// Optional helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok && id > 0
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxEmail)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
