package catalog

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type ProductController struct {
	ProductService ProductService
}

func NewProductController(productService ProductService) *ProductController {
	return &ProductController{
		ProductService: productService,
	}
}

// ListProducts godoc
// @Summary List catalog products
// @Description List products with prices, variants and product-level stock
// @Tags catalog
// @Produce json
// @Param category query string false "Category name"
// @Param q query string false "Search in name and reference"
// @Param in_stock query bool false "Only products with stock"
// @Success 200 {array} models.Product
// @Failure 500 {object} map[string]interface{}
// @Router /api/catalog/products [get]
func (c *ProductController) ListProducts(ctx *fiber.Ctx) error {
	filter := ProductFilter{
		Category: ctx.Query("category"),
		Search:   ctx.Query("q"),
		InStock:  ctx.QueryBool("in_stock", false),
	}

	products, err := c.ProductService.ListProducts(ctx.UserContext(), filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(products)
}

// GetProduct godoc
// @Summary Get product
// @Tags catalog
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} map[string]interface{}
// @Router /api/catalog/products/{id} [get]
func (c *ProductController) GetProduct(ctx *fiber.Ctx) error {
	product, err := c.ProductService.GetProduct(ctx.UserContext(), ctx.Params("id"))
	if errors.Is(err, ErrProductNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(product)
}

// ListCategories godoc
// @Summary List product categories
// @Tags catalog
// @Produce json
// @Success 200 {array} string
// @Router /api/catalog/categories [get]
func (c *ProductController) ListCategories(ctx *fiber.Ctx) error {
	categories, err := c.ProductService.ListCategories(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(categories)
}
