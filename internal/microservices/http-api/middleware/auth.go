package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/microservices/http-api/apperr"
	"reviewhub/internal/microservices/http-api/authz"
	"reviewhub/internal/microservices/http-api/metrics"
)

const principalKey = "principal"

// Authenticator resolves a bearer token to the calling user.
type Authenticator interface {
	Resolve(ctx context.Context, token string) (*authz.Principal, error)
}

// RequireAuth is a Gin middleware that requires a valid "Authorization: Bearer <token>"
// header and stores the resolved principal on the context.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, reason := bearerToken(c.GetHeader("Authorization"))
		if reason != "" {
			metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
			Abort(c, apperr.Unauthorized("not authenticated"))
			return
		}

		p, err := a.Resolve(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthorized) {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
			}
			Abort(c, err)
			return
		}

		c.Set(principalKey, p)
		c.Next()
	}
}

// RequirePolicy rejects requests whose principal does not satisfy policy.
// name labels the denial metric. Must run after RequireAuth.
func RequirePolicy(name string, policy authz.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := authz.Check(PrincipalFrom(c), policy); err != nil {
			if errors.Is(err, apperr.ErrForbidden) {
				metrics.AuthzDenialsTotal.WithLabelValues(name).Inc()
			}
			Abort(c, err)
			return
		}
		c.Next()
	}
}

// RequireAdmin admits admins only.
func RequireAdmin() gin.HandlerFunc {
	return RequirePolicy("admin", authz.Admin)
}

// PrincipalFrom returns the principal set by RequireAuth, or nil.
func PrincipalFrom(c *gin.Context) *authz.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*authz.Principal)
	return p
}

// bearerToken extracts the token, or returns a failure reason.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "missing_header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", "malformed_header"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "malformed_header"
	}
	return token, ""
}
