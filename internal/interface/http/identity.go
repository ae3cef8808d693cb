package http

import (
	"fmt"
	"strings"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yanqian/poppy/internal/infra/config"
)

const viewerIDKey = "viewer_id"

// identityMiddleware extracts an optional viewer identity from a bearer
// token. Requests without a token, or with one that fails validation, are
// served anonymously; there is no login flow to enforce.
func identityMiddleware(cfg config.IdentityConfig, logger *slog.Logger) gin.HandlerFunc {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		subject, err := parseViewerToken(token, secret)
		if err != nil {
			logger.Warn("viewer token rejected", "path", c.Request.URL.Path, "error", err)
			c.Next()
			return
		}
		if subject != "" {
			c.Set(viewerIDKey, subject)
		}
		c.Next()
	}
}

func parseViewerToken(token, secret string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid {
		return "", fmt.Errorf("token invalid")
	}
	subject, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	return subject, nil
}

// viewerID returns the identity stamped by identityMiddleware, if any.
func viewerID(c *gin.Context) string {
	value, ok := c.Get(viewerIDKey)
	if !ok {
		return ""
	}
	id, _ := value.(string)
	return id
}
