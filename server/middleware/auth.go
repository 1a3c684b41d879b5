package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/kbukum/audiovault/errors"
)

// AuthConfig configures the bearer-token authentication middleware.
type AuthConfig struct {
	// TokenValidator validates a token string and returns the claims.
	TokenValidator func(token string) (map[string]interface{}, error)
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
}

// Auth returns a Gin middleware that validates Bearer tokens using the
// configured TokenValidator. Validated claims are stored in the Gin context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := cfg.TokenValidator(parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		for key, value := range claims {
			c.Set(key, value)
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	appErr := apperrors.Unauthorized(msg)
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// HS256Validator returns a TokenValidator that accepts only HMAC-SHA256
// tokens signed with secret and checks the standard time claims.
func HS256Validator(secret []byte) func(string) (map[string]interface{}, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	return func(tokenString string) (map[string]interface{}, error) {
		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil {
			return nil, err
		}
		if !token.Valid {
			return nil, fmt.Errorf("token is not valid")
		}
		return claims, nil
	}
}
