package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/ferrecentro/inventario-api/internal/application/dto"
	appinv "github.com/ferrecentro/inventario-api/internal/application/inventory"
	"github.com/ferrecentro/inventario-api/internal/domain"
)

// KardexPDFGenerator puerto del render imprimible del Kardex.
type KardexPDFGenerator interface {
	Generate(result *appinv.KardexResult) ([]byte, error)
}

// InventoryHandler maneja las operaciones transaccionales de inventario
// (ventas, compras, ajustes) y la reconstrucción del Kardex.
type InventoryHandler struct {
	coordinator *appinv.Coordinator
	pdfGen      KardexPDFGenerator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(coordinator *appinv.Coordinator, pdfGen KardexPDFGenerator) *InventoryHandler {
	return &InventoryHandler{coordinator: coordinator, pdfGen: pdfGen}
}

// RecordSale godoc
// @Summary      Registrar venta (descuenta stock atómicamente)
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaleRequest  true  "Venta con detalles"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *InventoryHandler) RecordSale(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	saleID, err := h.coordinator.RecordSaleFromRequest(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleResponse{SaleID: saleID})
}

// RecordPurchase godoc
// @Summary      Registrar compra (ingresa stock y actualiza costo)
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PurchaseRequest  true  "Compra con detalles"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/compras [post]
func (h *InventoryHandler) RecordPurchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	purchaseID, err := h.coordinator.RecordPurchaseFromRequest(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PurchaseResponse{PurchaseID: purchaseID})
}

// RecordAdjustment godoc
// @Summary      Aplicar ajuste manual de inventario
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "Ajuste con detalles"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ajustes [post]
func (h *InventoryHandler) RecordAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// Si el token identifica al usuario y el body no lo trae, se usa el del token.
	if in.UserID == nil {
		if uid := GetUserID(c); uid != 0 {
			in.UserID = &uid
		}
	}
	lines, err := h.coordinator.RecordAdjustmentFromRequest(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.AdjustmentResponse{LinesProcessed: lines})
}

// Kardex godoc
// @Summary      Reconstruir el Kardex de un producto
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del producto"
// @Success      200  {object}  dto.KardexResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/kardex [get]
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	result, err := h.kardexResult(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toKardexResponse(result))
}

// KardexPDF godoc
// @Summary      Kardex de un producto en PDF
// @Tags         inventario
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  int  true  "ID del producto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/productos/{id}/kardex/pdf [get]
func (h *InventoryHandler) KardexPDF(c *fiber.Ctx) error {
	result, err := h.kardexResult(c)
	if err != nil {
		return respondError(c, err)
	}
	pdfBytes, err := h.pdfGen.Generate(result)
	if err != nil {
		return respondError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="kardex_%s.pdf"`, result.Product.Codigo))
	return c.Send(pdfBytes)
}

func (h *InventoryHandler) kardexResult(c *fiber.Ctx) (*appinv.KardexResult, error) {
	productID, err := c.ParamsInt("id")
	if err != nil || productID <= 0 {
		return nil, fmt.Errorf("%w: id de producto inválido", domain.ErrInvalidInput)
	}
	return h.coordinator.Kardex(c.UserContext(), int64(productID))
}

func toKardexResponse(result *appinv.KardexResult) dto.KardexResponse {
	entries := make([]dto.KardexEntryDTO, 0, len(result.Entries))
	for _, e := range result.Entries {
		entries = append(entries, dto.KardexEntryDTO{
			MovementID:   e.Movement.ID,
			Tipo:         e.Movement.Type,
			Operacion:    e.Direction,
			Cantidad:     e.Movement.Quantity,
			StockAntes:   e.Before,
			StockDespues: e.After,
			Descripcion:  e.Description,
			Fecha:        e.Movement.CreatedAt,
		})
	}
	p := result.Product
	return dto.KardexResponse{
		Producto: dto.ProductResponse{
			ID:          p.ID,
			Codigo:      p.Codigo,
			Nombre:      p.Nombre,
			PrecioVenta: p.PrecioVenta,
			PrecioCosto: p.PrecioCosto,
			CreatedAt:   p.CreatedAt,
		},
		StockActual:      result.CurrentStock,
		TotalMovimientos: len(entries),
		Movimientos:      entries,
	}
}
