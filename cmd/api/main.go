package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/jhoicas/Ventas-api/docs"
	"github.com/jhoicas/Ventas-api/internal/application/auth"
	"github.com/jhoicas/Ventas-api/internal/application/report"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/bootstrap"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/Ventas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/receiptxml"
	httpRouter "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/jwt"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

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
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	backend, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer backend.Close()

	receipts, err := bootstrap.ReceiptStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento de comprobantes")
	}
	importSvc, err := bootstrap.Importer(backend, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("alias de importación")
	}

	// PDF y XML del comprobante de venta
	reportUC := report.NewReportUseCase(
		backend.Sales, backend.Clients, backend.Products,
		infrapdf.NewMarotoRenderer(cfg.App.Name), receiptxml.NewBuilder(), receipts, log,
	)
	registerSaleUC := sales.NewRegisterSaleUseCase(
		backend.Tx, backend.Clients, backend.Sales, reportUC, cfg.Sales.DefaultTaxRate, log,
	)
	authUC := auth.NewAuthUseCase(
		backend.Users,
		jwt.NewIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration),
		mail.New(cfg.SMTP),
		log,
	)

	var authLimiter *httpRouter.RateLimiter
	if cfg.HTTP.AuthRatePerMinute > 0 {
		authLimiter = httpRouter.NewRateLimiter(cfg.HTTP.AuthRatePerMinute, cfg.HTTP.AuthRatePerMinute/2+1)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    (cfg.Import.MaxUploadMB + 1) << 20,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ventas API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.Storage})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ClientUC:     usecase.NewClientUseCase(backend.Clients),
		ProductUC:    usecase.NewProductUseCase(backend.Products, backend.Categories),
		CategoryUC:   usecase.NewCategoryUseCase(backend.Categories),
		RegisterSale: registerSaleUC,
		SaleQuery:    sales.NewQueryUseCase(backend.Sales),
		ReportUC:     reportUC,
		Importer:     importSvc,
		MaxUploadMB:  cfg.Import.MaxUploadMB,
		JWTSecret:    cfg.JWT.Secret,
		AuthLimiter:  authLimiter,
		Logger:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
