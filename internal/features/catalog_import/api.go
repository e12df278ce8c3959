package catalog_import

import (
	"github.com/gofiber/fiber/v2"
)

type ImportApi struct {
	ImportController *ImportController
}

func NewImportApi(importController *ImportController) *ImportApi {
	return &ImportApi{
		ImportController: importController,
	}
}

func (api *ImportApi) Setup(app *fiber.App) {
	group := app.Group("/api/catalog/import")

	group.Get("/template", api.ImportController.DownloadTemplate)
	group.Post("/preview", api.ImportController.UploadAndPreview)
	group.Post("/jobs", api.ImportController.ImportProducts)
	group.Get("/jobs", api.ImportController.ListImportJobs)
	group.Get("/jobs/:id", api.ImportController.GetImportJob)
}
