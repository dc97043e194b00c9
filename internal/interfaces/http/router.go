package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Ventas-api/internal/application/auth"
	"github.com/jhoicas/Ventas-api/internal/application/importer"
	"github.com/jhoicas/Ventas-api/internal/application/report"
	"github.com/jhoicas/Ventas-api/internal/application/sales"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ClientUC     *usecase.ClientUseCase
	ProductUC    *usecase.ProductUseCase
	CategoryUC   *usecase.CategoryUseCase
	RegisterSale *sales.RegisterSaleUseCase
	SaleQuery    *sales.QueryUseCase
	ReportUC     *report.ReportUseCase
	Importer     *importer.Service
	MaxUploadMB  int
	JWTSecret    string
	AuthLimiter  *RateLimiter // nil = sin límite
	Logger       *logger.Logger
}

// Router registra las rutas de la API bajo /v1.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/v1")
	adminOnly := RequireRole(entity.RoleAdmin)
	staff := RequireRole(entity.RoleAdmin, entity.RoleVendedor)

	// Auth (público; register lee el rol del llamante si trae token)
	authGroup := api.Group("/auth")
	if deps.AuthLimiter != nil {
		authGroup.Use(deps.AuthLimiter.Handler())
	}
	authHandler := NewAuthHandler(deps.AuthUC, deps.Logger)
	authGroup.Post("/register", OptionalAuth(deps.JWTSecret), authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token). Cada grupo lleva su propio middleware
	// para que /v1/auth y las rutas inexistentes no pasen por la validación del token.
	requireAuth := AuthMiddleware(deps.JWTSecret)
	protected := func(prefix string, extra ...fiber.Handler) fiber.Router {
		return api.Group(prefix, append([]fiber.Handler{requireAuth, staff}, extra...)...)
	}

	clients := protected("/clients")
	clientHandler := NewClientHandler(deps.ClientUC, deps.Logger)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Products: lectura para todo el personal, escritura solo admin
	products := protected("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Logger)
	products.Get("/", productHandler.List)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	categories := protected("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, deps.Logger)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", adminOnly, categoryHandler.Create)

	// Sales: las rutas fijas antes que /:id
	salesGroup := protected("/sales")
	saleHandler := NewSaleHandler(deps.RegisterSale, deps.SaleQuery, deps.ReportUC, deps.Logger)
	salesGroup.Post("/register-sale", saleHandler.RegisterSale)
	salesGroup.Get("/download", saleHandler.Download)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id/receipt.xml", saleHandler.ReceiptXML)
	salesGroup.Get("/:id", saleHandler.GetByID)

	imports := protected("/imports", adminOnly)
	importHandler := NewImportHandler(deps.Importer, deps.MaxUploadMB, deps.Logger)
	imports.Post("/", importHandler.Import)
	imports.Get("/template", importHandler.Template)

	reports := protected("/reports")
	reportHandler := NewReportHandler(deps.ReportUC, deps.Logger)
	reports.Get("/products", reportHandler.Products)
	reports.Get("/clients", reportHandler.Clients)
}
