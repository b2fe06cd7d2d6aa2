package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/tienda-social-api/internal/application/delivery"
	"github.com/tu-usuario/tienda-social-api/internal/application/inventory"
	"github.com/tu-usuario/tienda-social-api/internal/application/kit"
	"github.com/tu-usuario/tienda-social-api/internal/application/usecase"
	"github.com/tu-usuario/tienda-social-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC      *usecase.ProductUseCase
	KitUC          *kit.KitUseCase
	RecordMovement *inventory.RecordMovementUseCase
	DeliveryUC     *delivery.DeliveryUseCase
	JWTSecret      string
}

// Router registra las rutas de la API. Todo es protegido: la identidad del
// token es quien queda asentado como performer/approver en los registros.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.ListByCategory)
	products.Get("/low-stock", productHandler.ListLowStock)
	products.Get("/near-expiry", productHandler.ListNearExpiry)
	products.Get("/search", productHandler.Search)
	products.Get("/barcode/:code", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Kits (protegido)
	kits := protected.Group("/kits")
	kitHandler := NewKitHandler(deps.KitUC)
	kits.Post("/", kitHandler.Create)
	kits.Get("/", kitHandler.List)
	kits.Get("/search", kitHandler.Search)
	kits.Get("/:id", kitHandler.GetByID)
	kits.Get("/:id/availability", kitHandler.Availability)
	kits.Put("/:id", kitHandler.Update)
	kits.Delete("/:id", adminOnly, kitHandler.Delete)

	// Libro de movimientos (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RecordMovement)
	invGroup.Post("/movements", inventoryHandler.RecordMovement)
	invGroup.Get("/movements", inventoryHandler.ListByProduct)
	invGroup.Get("/movements/reference/:doc", inventoryHandler.ListByReference)

	// Entregas (protegido; aprobar y rechazar solo admin)
	deliveries := protected.Group("/deliveries")
	deliveryHandler := NewDeliveryHandler(deps.DeliveryUC)
	deliveries.Post("/", deliveryHandler.Create)
	deliveries.Get("/", deliveryHandler.ListByStatus)
	deliveries.Get("/beneficiary/:id", deliveryHandler.ListByBeneficiary)
	deliveries.Get("/:id", deliveryHandler.GetByID)
	deliveries.Post("/:id/approve", adminOnly, deliveryHandler.Approve)
	deliveries.Post("/:id/reject", adminOnly, deliveryHandler.Reject)
	deliveries.Post("/:id/schedule", deliveryHandler.Schedule)
	deliveries.Post("/:id/confirm", deliveryHandler.Confirm)
	deliveries.Post("/:id/cancel", deliveryHandler.Cancel)
}
