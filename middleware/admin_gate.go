package middleware

import (
	"net/http"
	"strings"

	"storefront/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// IdentityKey is the gin context key holding the verified identity id.
const IdentityKey = "identity_id"

// RequireAdmin verifies the bearer token and checks the subject against the
// admins table. Deny by default: a valid token whose subject is not an admin
// is rejected, and nothing downstream runs.
func RequireAdmin(admins repository.AdminRepo, jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		identityID, ok := subjectFromRequest(c, jwtSecret)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
			c.Abort()
			return
		}

		isAdmin, err := admins.IsAdmin(c.Request.Context(), identityID)
		if err != nil {
			zap.L().Error("Admin membership check failed",
				zap.String("identity_id", identityID),
				zap.Error(err),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Could not verify admin access"})
			c.Abort()
			return
		}
		if !isAdmin {
			zap.L().Warn("Non-admin identity attempted admin operation",
				zap.String("identity_id", identityID),
			)
			c.JSON(http.StatusForbidden, gin.H{"error": "Your account is not an admin"})
			c.Abort()
			return
		}

		c.Set(IdentityKey, identityID)
		c.Next()
	}
}

func subjectFromRequest(c *gin.Context, secret []byte) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", false
	}
	return sub, true
}
