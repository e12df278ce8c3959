package catalog_import

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ColumnSpec documents one import column for the downloadable template.
type ColumnSpec struct {
	Name        string
	Description string
	Required    bool
	Type        string
	Example     string
}

var columnSpecs = []ColumnSpec{
	{ColAction, "Row action, informational", false, "string", "CREATE"},
	{ColImage, "Product image file name", false, "string", "product_image.jpg"},
	{ColProductName, "Product designation; groups rows when REFERENCE is empty", true, "string", "Produit Simple Exemple"},
	{ColReference, "Product code; rows sharing it form one product", false, "string", "PROD001"},
	{ColCategory, "Category name, defaults to Default", false, "string", "Catégorie Exemple"},
	{ColBrand, "Brand name", false, "string", "Marque Exemple"},
	{ColDescription, "Free text description", false, "string", "Description du produit"},
	{ColCostPrice, "Purchase price, '.' or ',' decimals", false, "number", "10.0"},
	{ColSellPriceTaxExcl, "Selling price excluding tax", true, "number", "15.0"},
	{ColVAT, "Tax rate in percent", true, "number", "20.0"},
	{ColSellPriceTaxIncl, "Ignored, recomputed from price and VAT", false, "number", "18.0"},
	{ColQuantity, "Stock of a simple product", false, "integer", "100"},
	{ColSellable, "TRUE or FALSE", false, "boolean", "TRUE"},
	{ColSimpleProduct, "FALSE marks a product with variants", false, "boolean", "TRUE"},
	{ColVariantName, "Combination such as Couleur:Rouge-Taille:M", false, "string", "Couleur:Rouge-Taille:M"},
	{ColDefaultVariant, "TRUE for the default variant", false, "boolean", "TRUE"},
	{ColVariantImage, "Variant image file name", false, "string", "variant_image1.jpg"},
	{ColImpactPrice, "Price delta of the variant, required on variant rows", false, "number", "0"},
	{ColQuantityVariant, "Stock of the variant", false, "integer", "50"},
}

// templateRows are one simple product followed by two variants of PROD002.
var templateRows = [][]string{
	{"CREATE", "product_image.jpg", "Produit Simple Exemple", "PROD001",
		"Catégorie Exemple", "Marque Exemple", "Description du produit", "10.0", "15.0",
		"20.0", "18.0", "100", "TRUE", "TRUE", "", "", "", "", ""},
	{"CREATE", "product_with_variants.jpg", "Produit avec Variantes", "PROD002",
		"Catégorie Exemple", "Marque Exemple", "Description du produit avec variantes", "10.0",
		"15.0", "20.0", "18.0", "0", "TRUE", "FALSE", "Couleur:Rouge-Taille:M", "TRUE",
		"variant_image1.jpg", "0", "50"},
	{"CREATE", "product_with_variants.jpg", "Produit avec Variantes", "PROD002",
		"Catégorie Exemple", "Marque Exemple", "Description du produit avec variantes", "10.0",
		"15.0", "20.0", "18.0", "0", "TRUE", "FALSE", "Couleur:Bleu-Taille:L", "FALSE",
		"variant_image2.jpg", "1", "30"},
}

// TemplateCSV renders the import template as comma-delimited text.
func TemplateCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(templateRows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TemplateXLSX renders the import template as a workbook with a styled
// header and an Instructions sheet. Callers close the returned file.
func TemplateXLSX() (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Products"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
	})

	for i, col := range columnSpecs {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col.Name)
		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	for rowIdx, row := range templateRows {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx+2)
		values := make([]interface{}, len(row))
		for i, v := range row {
			values[i] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.NewSheet("Instructions")
	f.SetCellValue("Instructions", "A1", "Product Import Instructions")
	f.SetCellValue("Instructions", "A2", "Rows sharing a REFERENCE (or PRODUCTNAME) become one product; each row is then a variant.")
	f.SetCellValue("Instructions", "A3", "Column Definitions:")

	for i, col := range columnSpecs {
		row := i + 4
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), col.Description)
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		f.SetCellValue("Instructions", fmt.Sprintf("C%d", row), required)
		f.SetCellValue("Instructions", fmt.Sprintf("D%d", row), col.Type)
		f.SetCellValue("Instructions", fmt.Sprintf("E%d", row), col.Example)
	}

	f.SetColWidth("Instructions", "A", "A", 22)
	f.SetColWidth("Instructions", "B", "B", 60)
	f.SetColWidth("Instructions", "C", "D", 12)
	f.SetColWidth("Instructions", "E", "E", 30)

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	return f, nil
}
