package catalog_import

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-catalog/internal/config"

	"github.com/gofiber/fiber/v2"
)

type ImportController struct {
	ImportService ImportService
	UploadDir     string
}

func NewImportController(importService ImportService, cfg *config.Config) *ImportController {
	if _, err := os.Stat(cfg.FSPath); os.IsNotExist(err) {
		os.MkdirAll(cfg.FSPath, 0755)
	}
	return &ImportController{
		ImportService: importService,
		UploadDir:     cfg.FSPath,
	}
}

// UploadAndPreview godoc
// @Summary Preview a catalog import
// @Description Parse and validate a product file without committing anything
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Import File (.xlsx, .xls, .csv, .tsv, .txt)"
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/catalog/import/preview [post]
func (c *ImportController) UploadAndPreview(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to open file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	result, err := c.ImportService.Preview(ctx.UserContext(), fileHeader.Filename, data)
	if err != nil {
		return ctx.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(result.Preview())
}

// ImportProducts godoc
// @Summary Import a product file
// @Description Upload a product file, validate it and submit the products to the catalog backend
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Import File (.xlsx, .xls, .csv, .tsv, .txt)"
// @Success 201 {object} ImportJob
// @Failure 400 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/catalog/import/jobs [post]
func (c *ImportController) ImportProducts(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	originalName := filepath.Base(fileHeader.Filename)
	uniqueName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), originalName)
	uniqueName = strings.ReplaceAll(uniqueName, " ", "_")
	dstPath := filepath.Join(c.UploadDir, uniqueName)

	if err := ctx.SaveFile(fileHeader, dstPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error saving file"})
	}

	job, err := c.ImportService.Import(ctx.UserContext(), ImportRequest{FileName: originalName, FilePath: dstPath})
	if err != nil {
		if job == nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return ctx.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error(), "job": job})
	}

	return ctx.Status(fiber.StatusCreated).JSON(job)
}

// GetImportJob godoc
// @Summary Get import job
// @Description Get details of an import job including per-row errors
// @Tags import
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} ImportJob
// @Failure 404 {object} map[string]interface{}
// @Router /api/catalog/import/jobs/{id} [get]
func (c *ImportController) GetImportJob(ctx *fiber.Ctx) error {
	job, err := c.ImportService.GetJob(ctx.UserContext(), ctx.Params("id"))
	if errors.Is(err, ErrJobNotFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Job not found"})
	}
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(job)
}

// ListImportJobs godoc
// @Summary List import jobs
// @Description List the most recent import jobs
// @Tags import
// @Produce json
// @Param limit query int false "Maximum number of jobs" default(50)
// @Success 200 {array} ImportJob
// @Failure 500 {object} map[string]interface{}
// @Router /api/catalog/import/jobs [get]
func (c *ImportController) ListImportJobs(ctx *fiber.Ctx) error {
	jobs, err := c.ImportService.ListJobs(ctx.UserContext(), ctx.QueryInt("limit", defaultJobListLimit))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(jobs)
}

// DownloadTemplate godoc
// @Summary Download import template
// @Description Download the product import template with example rows
// @Tags import
// @Produce octet-stream
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} map[string]interface{}
// @Router /api/catalog/import/template [get]
func (c *ImportController) DownloadTemplate(ctx *fiber.Ctx) error {
	switch strings.ToLower(ctx.Query("format", "csv")) {
	case "csv":
		data, err := TemplateCSV()
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		ctx.Attachment("modele_produits.csv")
		return ctx.Send(data)
	case "xlsx":
		f, err := TemplateXLSX()
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		defer f.Close()

		buf, err := f.WriteToBuffer()
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		ctx.Attachment("modele_produits.xlsx")
		return ctx.Send(buf.Bytes())
	default:
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "format must be csv or xlsx"})
	}
}

func errorStatus(err error) int {
	if IsBatchFatal(err) {
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}
