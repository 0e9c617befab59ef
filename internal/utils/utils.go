package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/picquest/rewards-backend/internal/config"
)

// GenerateAdminToken mints a signed token for a back-office operator.
func GenerateAdminToken(cfg *config.Config, adminID, email, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   adminID,
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(cfg.JWT.ExpiresIn) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}

// GenerateIdentityToken mints a caller identity token carrying the claims
// the identity provider would supply. Used by local tooling and tests.
func GenerateIdentityToken(cfg *config.Config, email, name, image string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email": email,
		"name":  name,
		"image": image,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(cfg.JWT.ExpiresIn) * time.Second).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWT.Secret))
}
