package middleware

import (
	"strings"

	"cargolink/internal/authz"
	"cargolink/internal/models"
	"cargolink/internal/utils"

	"github.com/gin-gonic/gin"
)

const viewerKey = "viewer"

// AuthRequired validates the bearer token and stores the resulting viewer in
// the request context. Refresh tokens are rejected here; only access tokens
// open API routes.
func AuthRequired(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString, jwtSecret)
		if err != nil || claims.TokenUse != "access" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		viewer := authz.Viewer{
			ID:            claims.UserID,
			Capabilities:  claims.Capabilities,
			IsAdmin:       claims.IsAdmin,
			Authenticated: true,
		}

		c.Set(viewerKey, viewer)
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Next()
	}
}

// GetViewer returns the authenticated viewer, or an anonymous one when the
// route skipped AuthRequired.
func GetViewer(c *gin.Context) authz.Viewer {
	if value, exists := c.Get(viewerKey); exists {
		if viewer, ok := value.(authz.Viewer); ok {
			return viewer
		}
	}
	return authz.Anonymous()
}

// AdminRequired gates administrator-only routes. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetViewer(c).IsAdmin {
			utils.ForbiddenResponse(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// OwnerRequired gates routes that only package owners may call.
func OwnerRequired() gin.HandlerFunc {
	return capabilityRequired(models.CapabilityOwner)
}

// TransporterRequired gates routes that only transporters may call.
func TransporterRequired() gin.HandlerFunc {
	return capabilityRequired(models.CapabilityTransporter)
}

func capabilityRequired(capability models.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := GetViewer(c)
		if !viewer.Authenticated || !viewer.Capabilities.Has(capability) {
			utils.ForbiddenResponse(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
