package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/farmaindex/backend-go/internal/domain"
	"github.com/farmaindex/backend-go/internal/repository"
	"github.com/farmaindex/backend-go/pkg/token"
)

// Context keys set by Auth for downstream handlers.
const (
	CtxUserID     = "user_id"
	CtxOrgID      = "org_id"
	CtxMembership = "membership"
)

// Auth validates the bearer token and resolves the caller's
// organization. Users without a membership are rejected; there is no
// fallback organization.
func Auth(secret string, memberships repository.MembershipRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token de autenticação ausente"})
			return
		}

		userID, err := token.Parse(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token inválido ou expirado"})
			return
		}

		membership, err := memberships.GetMembership(c.Request.Context(), userID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("auth: membership lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "erro ao resolver organização"})
			return
		}
		if membership == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "usuário sem organização"})
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxOrgID, membership.OrgID)
		c.Set(CtxMembership, *membership)
		c.Next()
	}
}

// RequireAdmin gates mutating routes to admin members.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		membership := GetMembership(c)
		if membership == nil || !membership.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "acesso restrito a administradores"})
			return
		}
		c.Next()
	}
}

// GetMembership returns the resolved membership, or nil outside Auth.
func GetMembership(c *gin.Context) *domain.Membership {
	v, ok := c.Get(CtxMembership)
	if !ok {
		return nil
	}
	m, ok := v.(domain.Membership)
	if !ok {
		return nil
	}
	return &m
}

// OrgID returns the caller's organization ID set by Auth.
func OrgID(c *gin.Context) string {
	return c.GetString(CtxOrgID)
}

// UserID returns the caller's user ID set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserID)
}
