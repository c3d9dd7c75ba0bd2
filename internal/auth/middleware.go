package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/huslen0212/part-time-web-thesis/internal/apperr"
	"github.com/huslen0212/part-time-web-thesis/internal/httpx"
)

const identityKey = "identity"

// Verifier resolves a raw bearer credential.
type Verifier interface {
	Verify(raw string) (Identity, error)
}

// Authenticate rejects calls without a valid "Authorization: Bearer <token>"
// header with 401 and stores the resolved Identity on the context.
func Authenticate(v Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			httpx.Error(c, apperr.Unauthenticated("missing bearer token"))
			return
		}
		id, err := v.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			httpx.Error(c, apperr.Unauthenticated("invalid or expired token"))
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the caller holds one of roles.
// Must run after Authenticate.
func RequireRole(roles ...Role) gin.HandlerFunc {
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		id, ok := FromContext(c)
		if !ok {
			httpx.Error(c, apperr.Unauthenticated("missing bearer token"))
			return
		}
		if _, ok := allowed[id.Role()]; !ok {
			httpx.Error(c, apperr.Forbidden("role "+string(id.Role())+" is not allowed"))
			return
		}
		c.Next()
	}
}

// FromContext returns the Identity stored by Authenticate.
func FromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(Identity)
	return id, ok
}

// JobSeekerFrom returns the caller when it is a job seeker.
func JobSeekerFrom(c *gin.Context) (JobSeekerIdentity, bool) {
	id, _ := FromContext(c)
	js, ok := id.(JobSeekerIdentity)
	return js, ok
}

// EmployerFrom returns the caller when it is an employer.
func EmployerFrom(c *gin.Context) (EmployerIdentity, bool) {
	id, _ := FromContext(c)
	e, ok := id.(EmployerIdentity)
	return e, ok
}
