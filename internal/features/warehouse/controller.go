package warehouse

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type WarehouseController struct {
	WarehouseService WarehouseService
}

func NewWarehouseController(warehouseService WarehouseService) *WarehouseController {
	return &WarehouseController{
		WarehouseService: warehouseService,
	}
}

type percentageRequest struct {
	Percentage *float64 `json:"percentage"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

// ListWarehouses godoc
// @Summary List warehouses
// @Description List warehouses with their distribution percentage and stock lines
// @Tags warehouses
// @Produce json
// @Success 200 {array} models.Warehouse
// @Failure 500 {object} map[string]interface{}
// @Router /api/warehouses [get]
func (c *WarehouseController) ListWarehouses(ctx *fiber.Ctx) error {
	warehouses, err := c.WarehouseService.ListWarehouses(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(warehouses)
}

// UpdatePercentage godoc
// @Summary Update warehouse percentage
// @Description Set the share of product stock a warehouse receives on distribution (0-100)
// @Tags warehouses
// @Accept json
// @Produce json
// @Param id path string true "Warehouse ID"
// @Param body body percentageRequest true "Percentage"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/warehouses/{id}/percentage [patch]
func (c *WarehouseController) UpdatePercentage(ctx *fiber.Ctx) error {
	var req percentageRequest
	if err := ctx.BodyParser(&req); err != nil || req.Percentage == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "percentage is required"})
	}

	id := ctx.Params("id")
	if err := c.WarehouseService.SetPercentage(ctx.UserContext(), id, *req.Percentage); err != nil {
		return ctx.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"id": id, "percentage": *req.Percentage})
}

// SetStockQuantity godoc
// @Summary Set stock quantity
// @Description Replace the quantity of a product held by a warehouse, creating the stock line if needed
// @Tags warehouses
// @Accept json
// @Produce json
// @Param id path string true "Warehouse ID"
// @Param productId path string true "Product ID"
// @Param body body quantityRequest true "Quantity"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/warehouses/{id}/stock/{productId} [put]
func (c *WarehouseController) SetStockQuantity(ctx *fiber.Ctx) error {
	var req quantityRequest
	if err := ctx.BodyParser(&req); err != nil || req.Quantity == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quantity is required"})
	}

	id, productID := ctx.Params("id"), ctx.Params("productId")
	if err := c.WarehouseService.SetStockQuantity(ctx.UserContext(), id, productID, *req.Quantity); err != nil {
		return ctx.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(fiber.Map{"warehouse_id": id, "product_id": productID, "quantity": *req.Quantity})
}

// PlanDistribution godoc
// @Summary Preview stock distribution
// @Description Compute per-warehouse quantities for every product with stock, without writing
// @Tags warehouses
// @Produce json
// @Success 200 {object} DistributionPlan
// @Failure 500 {object} map[string]interface{}
// @Router /api/warehouses/distribution/plan [get]
func (c *WarehouseController) PlanDistribution(ctx *fiber.Ctx) error {
	plan, err := c.WarehouseService.Plan(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(plan)
}

// Distribute godoc
// @Summary Distribute stock
// @Description Add each product's stock share to every warehouse. Repeated runs add again unless reset is set.
// @Tags warehouses
// @Accept json
// @Produce json
// @Param body body DistributeOptions false "Options"
// @Success 200 {object} DistributionRun
// @Success 207 {object} DistributionRun
// @Failure 409 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/warehouses/distribution [post]
func (c *WarehouseController) Distribute(ctx *fiber.Ctx) error {
	var opts DistributeOptions
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&opts); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid options"})
		}
	}

	run, err := c.WarehouseService.Distribute(ctx.UserContext(), opts)
	if run == nil {
		return ctx.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return ctx.Status(fiber.StatusMultiStatus).JSON(run)
	}
	return ctx.JSON(run)
}

// ExportWarehouse godoc
// @Summary Export warehouse stock
// @Description Download the warehouse stock as an XLSX file in the import format
// @Tags warehouses
// @Produce octet-stream
// @Param id path string true "Warehouse ID"
// @Success 200 {file} file
// @Failure 404 {object} map[string]interface{}
// @Router /api/warehouses/{id}/export [get]
func (c *WarehouseController) ExportWarehouse(ctx *fiber.Ctx) error {
	f, fileName, err := c.WarehouseService.ExportWarehouse(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return ctx.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	ctx.Attachment(fileName)
	return ctx.Send(buf.Bytes())
}

func errorStatus(err error) int {
	var badPercentage *InvalidPercentageError
	var badQuantity *InvalidQuantityError
	switch {
	case errors.As(err, &badPercentage), errors.As(err, &badQuantity):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrWarehouseNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrDistributionInProgress):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
