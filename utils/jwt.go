package utils

import (
	"fmt"

	"github.com/draftdeck/design-service/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ParseToken verifies the bearer token signature against the shared
// secret.
func ParseToken(tokenStr string, cfg *config.EnvConfig) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWT.SecretKey), nil
	})
}

// InjectClaimsToContext copies the identity claims into the gin
// context for downstream handlers.
func InjectClaimsToContext(c *gin.Context, claims jwt.MapClaims) error {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		if sub, subOK := claims["sub"].(string); subOK && sub != "" {
			userID = sub
		} else {
			return fmt.Errorf("user_id claim is missing")
		}
	}
	c.Set("user_id", userID)

	if role, ok := claims["role"].(string); ok {
		c.Set("role", role)
	}

	return nil
}
