package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/veroscale-api/internal/application/analytics"
	"github.com/jhoicas/veroscale-api/internal/application/auth"
	"github.com/jhoicas/veroscale-api/internal/application/dto"
	"github.com/jhoicas/veroscale-api/internal/application/iot"
	"github.com/jhoicas/veroscale-api/internal/application/usecase"
	"github.com/jhoicas/veroscale-api/internal/application/weighing"
	"github.com/jhoicas/veroscale-api/internal/domain/entity"
	"github.com/jhoicas/veroscale-api/internal/interfaces/ws"
	"github.com/jhoicas/veroscale-api/pkg/jwt"
	"github.com/jhoicas/veroscale-api/pkg/logger"
)

// ServerConfig opciones del servidor Fiber.
type ServerConfig struct {
	AppName        string
	CORSOrigins    string
	RateLimitMax   int
	RateLimitEvery time.Duration
}

// NewServer crea la app Fiber con el stack de middlewares perimetrales:
// recover, requestid, log de peticiones, cors y limitador.
func NewServer(cfg ServerConfig, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + HeaderIoTSecret,
		ExposeHeaders: HeaderRefreshedToken,
	}))
	if cfg.RateLimitMax > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitMax,
			Expiration: cfg.RateLimitEvery,
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas peticiones"})
			},
		}))
	}
	return app
}

// errorHandler respuesta uniforme para errores de Fiber (404 de ruta, 405, body demasiado grande).
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	MaterialUC    *usecase.MaterialUseCase
	IssueUC       *usecase.IssueUseCase
	WeightUC      *weighing.WeightUseCase
	ReportUC      *weighing.ReportUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	IoTUC         *iot.IoTUseCase
	Hub           *ws.Hub // nil = sin feed en vivo
	JWTSecret     string
	RefreshWindow time.Duration
	ServiceName   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	requireAuth := AuthMiddleware(deps.JWTSecret, &RefreshPolicy{Refresher: deps.AuthUC, Window: deps.RefreshWindow})
	reviewers := RequireRole(entity.RoleAdmin, entity.RoleManager)
	adminOnly := RequireRole(entity.RoleAdmin)

	api := app.Group("/api")

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/register", requireAuth, adminOnly, authHandler.Register)
	api.Get("/auth/me", requireAuth, authHandler.Me)

	// IoT: el webhook se autentica con secreto compartido, no con JWT.
	iotHandler := NewIoTHandler(deps.IoTUC)
	api.Post("/iot/webhook", iotHandler.Webhook)
	api.Get("/iot/current-weight", requireAuth, iotHandler.CurrentWeight)
	api.Get("/iot/status", requireAuth, iotHandler.Status)

	// Pesajes
	weightHandler := NewWeightHandler(deps.WeightUC, deps.ReportUC)
	weights := api.Group("/weights", requireAuth)
	weights.Get("/", weightHandler.List)
	weights.Post("/", weightHandler.Create)
	weights.Post("/multi-material", weightHandler.CreateMultiMaterial)
	weights.Get("/report.pdf", reviewers, weightHandler.Report)
	weights.Get("/:id", weightHandler.GetByID)
	weights.Get("/:id/history", weightHandler.History)
	weights.Put("/:id/status", reviewers, weightHandler.UpdateStatus)
	weights.Delete("/:id", adminOnly, weightHandler.Delete)

	// Incidencias
	issueHandler := NewIssueHandler(deps.IssueUC)
	issues := api.Group("/issues", requireAuth)
	issues.Get("/", issueHandler.List)
	issues.Post("/", issueHandler.Create)
	issues.Get("/:id", issueHandler.GetByID)
	issues.Put("/:id", issueHandler.Update)
	issues.Delete("/:id", issueHandler.Delete)

	// Materiales
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials := api.Group("/materials", requireAuth)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Post("/", reviewers, materialHandler.Create)
	materials.Put("/:id", reviewers, materialHandler.Update)
	materials.Delete("/:id", adminOnly, materialHandler.Delete)

	// Usuarios
	userHandler := NewUserHandler(deps.UserUC)
	users := api.Group("/users", requireAuth, adminOnly)
	users.Get("/", userHandler.List)
	users.Get("/:id", userHandler.GetByID)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	api.Get("/dashboard/summary", requireAuth, dashboardHandler.GetSummary)

	// Feed en vivo: los navegadores no envían headers en el upgrade, el token va en ?token=.
	if deps.Hub != nil {
		app.Get("/ws/iot", ws.RequireUpgrade, queryTokenAuth(deps.JWTSecret), deps.Hub.Handler())
	}
}

func queryTokenAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := jwt.Parse(secret, c.Query("token")); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		return c.Next()
	}
}
