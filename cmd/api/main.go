package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/veroscale-api/docs"
	appanalytics "github.com/jhoicas/veroscale-api/internal/application/analytics"
	"github.com/jhoicas/veroscale-api/internal/application/auth"
	"github.com/jhoicas/veroscale-api/internal/application/iot"
	"github.com/jhoicas/veroscale-api/internal/application/usecase"
	"github.com/jhoicas/veroscale-api/internal/application/weighing"
	infrapdf "github.com/jhoicas/veroscale-api/internal/infrastructure/pdf"
	"github.com/jhoicas/veroscale-api/internal/infrastructure/telemetry"
	httpRouter "github.com/jhoicas/veroscale-api/internal/interfaces/http"
	"github.com/jhoicas/veroscale-api/internal/interfaces/ws"
	"github.com/jhoicas/veroscale-api/pkg/config"
	"github.com/jhoicas/veroscale-api/pkg/logger"
)

// @title           VeroScale API
// @version         1.0
// @description     Registro de pesajes de material, aprobación, incidencias y puente IoT.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.DB.Backend).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer be.close()

	hub := ws.NewHub(log)

	authUC := auth.NewAuthUseCase(be.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	weightUC := weighing.NewWeightUseCase(be.records, be.material, be.history, be.tx, log)
	reportUC := weighing.NewReportUseCase(weightUC, infrapdf.NewMarotoReportGenerator())
	issueUC := usecase.NewIssueUseCase(be.issues, be.records, be.users, be.history, log)
	materialUC := usecase.NewMaterialUseCase(be.material)
	userUC := usecase.NewUserUseCase(be.users)
	dashboardUC := appanalytics.NewDashboardUseCase(be.records, be.issues)

	iotUC := iot.NewIoTUseCase(
		be.records, be.material, be.readings, be.rfid,
		iot.NewTracker(cfg.IoT.LivenessTimeout), hub,
		iot.Settings{
			WebhookSecret:     cfg.IoT.WebhookSecret,
			DefaultMaterialID: cfg.IoT.DefaultMaterialID,
			MinValidWeight:    decimal.NewFromFloat(cfg.IoT.MinValidWeight),
			MaxValidWeight:    decimal.NewFromFloat(cfg.IoT.MaxValidWeight),
			CheckInterval:     cfg.IoT.CheckInterval,
		},
		log,
	)
	subscriber := telemetry.NewSubscriber(cfg.IoT.TelemetryURL, iotUC, log)
	iotUC.SetTelemetryMonitor(subscriber)

	app := httpRouter.NewServer(httpRouter.ServerConfig{
		AppName:        cfg.App.Name,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RateLimitMax:   cfg.RateLimit.Max,
		RateLimitEvery: cfg.RateLimit.Window,
	}, log)

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath:    "/",
		FileContent: []byte(docs.SwaggerInfo.ReadDoc()),
		Path:        "docs",
		Title:       docs.SwaggerInfo.Title,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		UserUC:        userUC,
		MaterialUC:    materialUC,
		IssueUC:       issueUC,
		WeightUC:      weightUC,
		ReportUC:      reportUC,
		DashboardUC:   dashboardUC,
		IoTUC:         iotUC,
		Hub:           hub,
		JWTSecret:     cfg.JWT.Secret,
		RefreshWindow: time.Duration(cfg.JWT.RefreshWindow) * time.Minute,
		ServiceName:   cfg.App.Name,
	})

	var wg sync.WaitGroup
	for _, run := range []func(context.Context){hub.Run, iotUC.RunLiveness, subscriber.Run} {
		wg.Add(1)
		go func(run func(context.Context)) {
			defer wg.Done()
			run(ctx)
		}(run)
	}

	go func() {
		addr := cfg.HTTP.Addr()
		log.Info().Str("addr", addr).Msg("servidor HTTP escuchando")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("servidor HTTP detenido")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown HTTP")
	}
	wg.Wait()
	log.Info().Msg("servidor detenido")
}
