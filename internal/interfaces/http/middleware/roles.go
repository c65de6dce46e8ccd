package middleware

import (
	"net/http"

	"github.com/fertigov/backend/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredRoles []identity.Role)
}

// RequireRoles creates middleware that requires the caller to hold one of the
// listed roles. Authentication must have run before this guard.
func RequireRoles(roles ...identity.Role) gin.HandlerFunc {
	return RequireRolesWithConfig(RoleConfig{}, roles...)
}

// RequireRolesWithConfig creates role middleware with custom config
func RequireRolesWithConfig(cfg RoleConfig, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, roles, "No authentication claims found")
			return
		}

		for _, role := range roles {
			if claims.Role == string(role) {
				if cfg.Logger != nil {
					cfg.Logger.Debug("Role check passed",
						zap.String("user_id", claims.UserID),
						zap.String("role", claims.Role),
					)
				}
				c.Next()
				return
			}
		}

		handleRoleDenied(c, cfg, roles, "User lacks required role")
	}
}

// RequireAdmin restricts a route to government administrators
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(identity.RoleGovAdmin)
}

// RequireStaff restricts a route to administrators, district officers, and inspectors
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(identity.RoleGovAdmin, identity.RoleDistrictOfficer, identity.RoleInspector)
}

// HasRole reports whether the authenticated caller holds one of the roles
func HasRole(c *gin.Context, roles ...identity.Role) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	for _, role := range roles {
		if claims.Role == string(role) {
			return true
		}
	}
	return false
}

// handleRoleDenied handles role denied scenarios
func handleRoleDenied(c *gin.Context, cfg RoleConfig, requiredRoles []identity.Role, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, requiredRoles)
		return
	}

	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		userRole := ""
		if claims != nil {
			userID = claims.UserID
			userRole = claims.Role
		}

		required := make([]string, 0, len(requiredRoles))
		for _, r := range requiredRoles {
			required = append(required, string(r))
		}

		cfg.Logger.Warn("Role denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.String("user_role", userRole),
			zap.Strings("required_roles", required),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "Access denied: insufficient role",
		},
	})
}
