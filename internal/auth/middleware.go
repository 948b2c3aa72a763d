package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/pollution-service/pkg/util/errorutil"
)

const identityKey = "auth_identity"

// Middleware resolves the bearer token on inbound requests into an
// Identity. Resolution is stateless and performed fresh per request;
// nothing is cached between requests.
type Middleware struct {
	tokens *TokenManager
	logger *zap.Logger
}

// NewMiddleware constructs the resolver middleware.
func NewMiddleware(tokens *TokenManager, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, logger: logger}
}

// Handle enforces authentication for protected routes. Every failure maps
// to the same generic 401; the specific rejection kind is only logged so
// clients cannot probe which check failed.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("authentication required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return apperrors.NewUnauthorized("authentication required")
	}

	identity, err := m.tokens.Verify(parts[1])
	if err != nil {
		m.logger.Debug("token rejected",
			zap.String("path", c.Path()),
			zap.Error(err))
		return apperrors.NewUnauthorized("invalid or expired credentials")
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// HandleOptional resolves the bearer token when one is present but lets
// anonymous requests through as guests. A token that is present yet
// invalid is still rejected so clients learn to drop expired credentials
// instead of silently degrading to guest.
func (m *Middleware) HandleOptional(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}
	return m.Handle(c)
}

// IdentityFromContext retrieves the resolved identity for the request.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}
