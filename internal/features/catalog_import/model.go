package catalog_import

import (
	"time"

	common_models "go-catalog/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Import file columns, in header order.
const (
	ColAction           = "ACTION"
	ColImage            = "IMAGE"
	ColProductName      = "PRODUCTNAME"
	ColReference        = "REFERENCE"
	ColCategory         = "CATEGORY"
	ColBrand            = "BRAND"
	ColDescription      = "DESCRIPTION"
	ColCostPrice        = "COSTPRICE"
	ColSellPriceTaxExcl = "SELLPRICETAXEXCLUDE"
	ColVAT              = "VAT"
	ColSellPriceTaxIncl = "SELLPRICETAXINCLUDE"
	ColQuantity         = "QUANTITY"
	ColSellable         = "SELLABLE"
	ColSimpleProduct    = "SIMPLEPRODUCT"
	ColVariantName      = "VARIANTNAME"
	ColDefaultVariant   = "DEFAULTVARIANT"
	ColVariantImage     = "VARIANTIMAGE"
	ColImpactPrice      = "IMPACTPRICE"
	ColQuantityVariant  = "QUANTITYVARIANT"
)

const (
	ExpectedColumnCount = 19
	DefaultCategory     = "Default"
	DefaultAttributeSep = "-"

	defaultJobListLimit   = 50
	maxPreviewProductRows = 20
)

var Columns = []string{
	ColAction, ColImage, ColProductName, ColReference, ColCategory, ColBrand,
	ColDescription, ColCostPrice, ColSellPriceTaxExcl, ColVAT, ColSellPriceTaxIncl,
	ColQuantity, ColSellable, ColSimpleProduct, ColVariantName, ColDefaultVariant,
	ColVariantImage, ColImpactPrice, ColQuantityVariant,
}

// ImportError is a per-group failure. Row is the group's first row number
// (header = 1).
type ImportError struct {
	Row       int    `json:"row" bson:"row"`
	Reference string `json:"reference,omitempty" bson:"reference,omitempty"`
	Field     string `json:"field,omitempty" bson:"field,omitempty"`
	Message   string `json:"message" bson:"message"`
}

// ImportResult is produced fresh by every pipeline run.
type ImportResult struct {
	Format       Format                  `json:"format"`
	Delimiter    string                  `json:"delimiter"`
	Products     []common_models.Product `json:"products"`
	Errors       []ImportError           `json:"errors"`
	ProductCount int                     `json:"product_count"`
	VariantCount int                     `json:"variant_count"`
	SkippedRows  []int                   `json:"skipped_rows,omitempty"`
}

// Preview trims the product list for display while keeping every counter.
func (r *ImportResult) Preview() *ImportResult {
	out := *r
	if len(out.Products) > maxPreviewProductRows {
		out.Products = out.Products[:maxPreviewProductRows]
	}
	return &out
}

type ImportStatus string

const (
	ImportStatusPending    ImportStatus = "pending"
	ImportStatusProcessing ImportStatus = "processing"
	ImportStatusCompleted  ImportStatus = "completed"
	ImportStatusFailed     ImportStatus = "failed"
)

// ImportJob records one committed import attempt.
type ImportJob struct {
	ID                    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FileName              string             `json:"file_name" bson:"file_name"`
	FilePath              string             `json:"file_path" bson:"file_path"`
	Format                Format             `json:"format,omitempty" bson:"format,omitempty"`
	Status                ImportStatus       `json:"status" bson:"status"`
	CommitPolicy          string             `json:"commit_policy" bson:"commit_policy"`
	Committed             bool               `json:"committed" bson:"committed"`
	ProductCount          int                `json:"product_count" bson:"product_count"`
	VariantCount          int                `json:"variant_count" bson:"variant_count"`
	ImportedCount         int                `json:"imported_count" bson:"imported_count"`
	ImportedVariantsCount int                `json:"imported_variants_count" bson:"imported_variants_count"`
	ErrorCount            int                `json:"error_count" bson:"error_count"`
	SkippedRows           []int              `json:"skipped_rows,omitempty" bson:"skipped_rows,omitempty"`
	Errors                []ImportError      `json:"errors,omitempty" bson:"errors,omitempty"`
	Message               string             `json:"message,omitempty" bson:"message,omitempty"`
	CreatedAt             time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at" bson:"updated_at"`
	CompletedAt           *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}
