package middleware

import (
	"context"
	"errors"
	"strings"

	"volunteer-hub/internal/domain/user"
	"volunteer-hub/internal/pkg/jwt"
	"volunteer-hub/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"
	CtxRoleKey   = "role"
)

// SessionValidator checks that a token's session has not been ended.
type SessionValidator interface {
	Validate(ctx context.Context, userID uuid.UUID, token string) (bool, error)
}

type AuthMiddleware struct {
	jwt      jwt.Service
	sessions SessionValidator
	logger   *zap.Logger
}

func NewAuthMiddleware(jwtSvc jwt.Service, sessions SessionValidator, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{jwt: jwtSvc, sessions: sessions, logger: logger}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, response.MessageUnauthorized, nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, response.MessageTokenExpired, nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, response.MessageInvalidToken, nil, err)
		}

		if claims.TokenType != jwt.TokenTypeAccess || m.jwt.IsRefreshToken(claims) {
			return NewAppError(fiber.StatusUnauthorized, response.MessageInvalidToken, nil, nil)
		}

		if m.sessions != nil {
			live, err := m.sessions.Validate(c.Context(), claims.UserID, claims.SessionID)
			if err != nil {
				m.logger.Error("session lookup failed", zap.String("user_id", claims.UserID.String()), zap.Error(err))
				return NewAppError(fiber.StatusInternalServerError, "", nil, err)
			}
			if !live {
				return NewAppError(fiber.StatusUnauthorized, response.MessageSessionEnded, nil, nil)
			}
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)
		c.Locals(CtxRoleKey, user.Role(claims.Role))

		return c.Next()
	}
}

// RequireRoles rejects callers whose role is not listed. It must run after
// the auth middleware.
func RequireRoles(roles ...user.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		role, _ := c.Locals(CtxRoleKey).(user.Role)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return NewAppError(fiber.StatusForbidden, response.MessageForbidden, nil, nil)
	}
}

func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func Role(c fiber.Ctx) user.Role {
	r, _ := c.Locals(CtxRoleKey).(user.Role)
	return r
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
