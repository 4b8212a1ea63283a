package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// WebhookSecret rejects webhook calls whose X-Telegram-Bot-Api-Secret-Token
// does not match secret. Updates name their sender, so an empty secret
// disables the webhook entirely (404).
func WebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			abort(c, http.StatusNotFound, "not_found", "route not found")
			return
		}
		if equal(c.GetHeader(HeaderTelegramSecret), secret) {
			c.Next()
			return
		}
		LoggerFrom(c).Warn().
			Str("event", "webhook_secret_mismatch").
			Str("remote_ip", c.ClientIP()).
			Msg("webhook rejected")
		abort(c, http.StatusUnauthorized, "unauthorized", "invalid webhook secret")
	}
}

// BearerToken requires "Authorization: Bearer <token>". An empty token
// disables the guarded routes entirely (404).
func BearerToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			abort(c, http.StatusNotFound, "not_found", "route not found")
			return
		}
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if ok && equal(strings.TrimSpace(got), token) {
			c.Next()
			return
		}
		LoggerFrom(c).Warn().
			Str("event", "bearer_token_mismatch").
			Str("remote_ip", c.ClientIP()).
			Msg("request rejected")
		c.Header("WWW-Authenticate", `Bearer realm="accessbot"`)
		abort(c, http.StatusUnauthorized, "unauthorized", "missing or invalid bearer token")
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": RequestIDFrom(c),
		"code":       code,
		"message":    msg,
	})
}
