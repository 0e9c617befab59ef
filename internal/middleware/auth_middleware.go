package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/picquest/rewards-backend/internal/config"
)

// Identity is the verified caller identity the identity provider vouched
// for. Handlers resolve it to a User record on first use.
type Identity struct {
	Email string
	Name  string
	Image string
}

// identityKey is the gin context key the identity is stored under.
const identityKey = "identity"

// GetIdentity returns the verified identity set by IdentityMiddleware.
func GetIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func parseBearer(c *gin.Context, secret string) (jwt.MapClaims, error) {
	const bearerSchema = "Bearer "
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header is required")
	}
	if !strings.HasPrefix(authHeader, bearerSchema) {
		return nil, fmt.Errorf("authorization header must start with Bearer")
	}
	tokenString := authHeader[len(bearerSchema):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// IdentityMiddleware verifies the caller's identity token and stores the
// identity claims in the context. The identity provider integration itself
// is outside this service; we only require that the caller arrives with a
// token signed by the shared secret.
func IdentityMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c, cfg.JWT.Secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		email, _ := claims["email"].(string)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		name, _ := claims["name"].(string)
		image, _ := claims["image"].(string)

		c.Set(identityKey, Identity{Email: email, Name: name, Image: image})
		c.Next()
	}
}

// AdminAuthMiddleware verifies a back-office operator token. Only tokens
// carrying an admin role pass.
func AdminAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseBearer(c, cfg.JWT.Secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		role, _ := claims["role"].(string)
		if role != "admin" {
			slog.Warn("admin route rejected", "role", role)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		c.Set("adminEmail", claims["email"])
		c.Next()
	}
}
