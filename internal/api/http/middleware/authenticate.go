package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mayank-anckr/express-kit/internal/logger"
	"github.com/mayank-anckr/express-kit/internal/model"
)

// Authenticate validates access tokens and injects the principal into the
// request context.
type Authenticate struct {
	tokens         model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, contextManager: contextManager, logger: logger}
}

// Require rejects requests without a valid access token.
func (m *Authenticate) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := m.authenticate(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "Fail",
				"message": "authorization required",
			})
			return
		}

		c.Request = c.Request.WithContext(m.contextManager.SetPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

// Optional attaches the principal when a valid token is present. A request
// that presents a token which fails validation is still rejected.
func (m *Authenticate) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			c.Next()
			return
		}

		principal, ok := m.authenticate(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "Fail",
				"message": "authorization required",
			})
			return
		}

		c.Request = c.Request.WithContext(m.contextManager.SetPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

func (m *Authenticate) authenticate(c *gin.Context) (model.Principal, bool) {
	tokenString := m.extractToken(c)
	if tokenString == "" {
		return model.Principal{}, false
	}

	claims, err := m.tokens.Parse(tokenString, model.TokenKindAccess)
	if err != nil {
		m.logger.Info("Authenticate middleware: invalid access token", "error", err)
		return model.Principal{}, false
	}

	return model.Principal{Identity: claims.Identity, AccountKey: claims.AccountKey}, true
}

// extractToken prefers the accessToken cookie and falls back to the
// Authorization header.
func (m *Authenticate) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	return strings.TrimPrefix(header, "Bearer ")
}
