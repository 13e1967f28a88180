package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ferrecentro/inventario-api/internal/application/auth"
	appinv "github.com/ferrecentro/inventario-api/internal/application/inventory"
	"github.com/ferrecentro/inventario-api/internal/application/usecase"
	"github.com/ferrecentro/inventario-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Coordinator *appinv.Coordinator
	KardexPDF   KardexPDFGenerator
	ProductUC   *usecase.ProductUseCase
	ReportUC    *usecase.ReportUseCase
	UserUC      *usecase.UserUseCase
	WarehouseUC *usecase.WarehouseUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Productos (protegido)
	productHandler := NewProductHandler(deps.ProductUC)
	products := protected.Group("/productos")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Operaciones de inventario (protegido)
	inventoryHandler := NewInventoryHandler(deps.Coordinator, deps.KardexPDF)
	protected.Post("/ventas", inventoryHandler.RecordSale)
	protected.Post("/compras", inventoryHandler.RecordPurchase)
	protected.Post("/ajustes", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), inventoryHandler.RecordAdjustment)
	products.Get("/:id/kardex", inventoryHandler.Kardex)
	products.Get("/:id/kardex/pdf", inventoryHandler.KardexPDF)

	// Depósitos (protegido, solo lectura)
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	protected.Get("/depositos", warehouseHandler.List)

	// Reportes (protegido)
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := protected.Group("/reportes")
	reports.Get("/stock-critico", reportHandler.CriticalStock)
	reports.Get("/ganancias-dia", reportHandler.DailyProfit)
	reports.Get("/ventas-vendedor", reportHandler.SalesBySeller)
	reports.Get("/mas-vendidos", reportHandler.TopProducts)

	// Usuarios (protegido, solo admin)
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/usuarios", RequireRole(entity.RoleAdmin))
	users.Get("/", userHandler.List)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", userHandler.Delete)
}
