package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/domain/workflow"
	"github.com/jhoicas/veroscale-api/pkg/jwt"
)

// Locals keys de la sesión en Fiber.
const (
	LocalUserID = "user_id"
	LocalRole   = "role"
	LocalName   = "user_name"
)

// HeaderRefreshedToken lleva un token nuevo cuando el actual está por expirar.
const HeaderRefreshedToken = "X-Refreshed-Token"

// TokenRefresher emite un token nuevo para una sesión válida (auth.AuthUseCase).
type TokenRefresher interface {
	Refresh(session *jwt.Session) (string, error)
}

// RefreshPolicy renovación deslizante: si el token expira dentro de Window se emite otro.
type RefreshPolicy struct {
	Refresher TokenRefresher
	Window    time.Duration
}

// AuthMiddleware valida el Bearer Token JWT y carga UserID, Role y nombre en c.Locals.
// refresh puede ser nil.
func AuthMiddleware(jwtSecret string, refresh *RefreshPolicy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		session, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalUserID, session.UserID)
		c.Locals(LocalRole, session.Role)
		c.Locals(LocalName, session.Name)

		if refresh != nil && refresh.Refresher != nil && !session.ExpiresAt.IsZero() &&
			time.Until(session.ExpiresAt) <= refresh.Window {
			if tok, err := refresh.Refresher.Refresh(session); err == nil {
				c.Set(HeaderRefreshedToken, tok)
			} else {
				requestLog(c).Warn().Err(err).Msg("no se pudo renovar el token")
			}
		}
		return c.Next()
	}
}

// RequireRole permite el paso solo a los roles indicados. Va después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "rol no encontrado en el token"})
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin permiso para esta operación"})
		}
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetUserName nombre del usuario autenticado (puede venir vacío en tokens antiguos).
func GetUserName(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalName).(string)
	return s
}

func actorFrom(c *fiber.Ctx) workflow.Actor {
	return workflow.Actor{ID: GetUserID(c), Role: GetRole(c)}
}
