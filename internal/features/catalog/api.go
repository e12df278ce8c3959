package catalog

import (
	"github.com/gofiber/fiber/v2"
)

type CatalogApi struct {
	ProductController *ProductController
}

func NewCatalogApi(productController *ProductController) *CatalogApi {
	return &CatalogApi{
		ProductController: productController,
	}
}

func (api *CatalogApi) Setup(app *fiber.App) {
	group := app.Group("/api/catalog")

	group.Get("/products", api.ProductController.ListProducts)
	group.Get("/products/:id", api.ProductController.GetProduct)
	group.Get("/categories", api.ProductController.ListCategories)
}
