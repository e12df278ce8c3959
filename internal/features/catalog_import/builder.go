package catalog_import

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	common_models "go-catalog/internal/common/models"

	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	maxQuantity = decimal.NewFromInt(math.MaxInt32)
)

// Bounds on numeric cells. Derived prices stay within Decimal128 precision.
const (
	maxNumberDigits        = 34
	maxNumberIntegerDigits = 15
	maxNumberScale         = 20
)

// RecordBuilder turns one product group into a Product.
type RecordBuilder struct {
	Separator string
}

func NewRecordBuilder(separator string) *RecordBuilder {
	if separator == "" {
		separator = DefaultAttributeSep
	}
	return &RecordBuilder{Separator: separator}
}

// Build returns either a product or the error that stopped the group. A
// panic while building is recovered into an ImportError.
func (b *RecordBuilder) Build(group ProductGroup) (product *common_models.Product, importErr *ImportError) {
	defer func() {
		if r := recover(); r != nil {
			product = nil
			importErr = &ImportError{
				Message: fmt.Sprintf("unexpected error building product %q: %v", group.Key, r),
			}
			if len(group.Rows) > 0 {
				importErr.Row = group.Rows[0].Number
				importErr.Reference = group.Rows[0].Text(ColReference)
			}
		}
	}()

	p, err := b.build(group)
	if err != nil {
		return nil, toImportError(group.First(), err)
	}
	return p, nil
}

func (b *RecordBuilder) build(group ProductGroup) (*common_models.Product, error) {
	first := group.First()

	designation := first.Text(ColProductName)
	if designation == "" {
		return nil, &MissingFieldError{Field: ColProductName, Row: first.Number}
	}

	priceExcl, err := parseNumber(first, ColSellPriceTaxExcl, decimal.Zero, true)
	if err != nil {
		return nil, err
	}
	taxRate, err := parseNumber(first, ColVAT, decimal.Zero, true)
	if err != nil {
		return nil, err
	}
	costPrice, err := parseNumber(first, ColCostPrice, decimal.Zero, false)
	if err != nil {
		return nil, err
	}

	category := first.Text(ColCategory)
	if category == "" {
		category = DefaultCategory
	}

	// SELLPRICETAXINCLUDE from the file is ignored.
	priceIncl := priceExcl.Add(priceExcl.Mul(taxRate).Div(hundred)).Round(2)

	product := &common_models.Product{
		Code:         first.Text(ColReference),
		Designation:  designation,
		CategoryName: category,
		Brand:        first.Text(ColBrand),
		Description:  first.Text(ColDescription),
		Image:        first.Text(ColImage),
		CostPrice:    costPrice,
		PriceExclTax: priceExcl,
		TaxRate:      taxRate,
		PriceInclTax: priceIncl,
		Sellable:     first.Get(ColSellable).IsTrue(),
		HasVariants:  !isSimpleProduct(first) || len(group.Rows) > 1,
	}

	if !product.HasVariants {
		product.Stock = parseQuantity(first, ColQuantity)
		return product, nil
	}

	product.Variants = make([]common_models.Variant, 0, len(group.Rows))
	for _, row := range group.Rows {
		v, err := b.buildVariant(row, priceIncl)
		if err != nil {
			return nil, err
		}
		product.Variants = append(product.Variants, v)
	}
	return product, nil
}

func (b *RecordBuilder) buildVariant(row RawRow, basePrice decimal.Decimal) (common_models.Variant, error) {
	impact, err := parseNumber(row, ColImpactPrice, decimal.Zero, true)
	if err != nil {
		return common_models.Variant{}, err
	}

	name := row.Text(ColVariantName)
	return common_models.Variant{
		CombinationName: name,
		Attributes:      ParseAttributes(name, b.Separator),
		PriceImpact:     impact,
		Price:           basePrice.Add(impact).Round(2),
		Stock:           parseQuantity(row, ColQuantityVariant),
		DefaultVariant:  row.Get(ColDefaultVariant).IsTrue(),
		Image:           row.Text(ColVariantImage),
		RowNumber:       row.Number,
	}, nil
}

// A product is simple unless SIMPLEPRODUCT explicitly says FALSE.
func isSimpleProduct(row RawRow) bool {
	return !strings.EqualFold(row.Text(ColSimpleProduct), "false")
}

// parseNumber reads a decimal that may use a comma as decimal separator.
func parseNumber(row RawRow, field string, def decimal.Decimal, required bool) (decimal.Decimal, error) {
	cell := row.Get(field)
	if cell.IsEmpty() {
		if required {
			return decimal.Zero, &MissingFieldError{Field: field, Row: row.Number}
		}
		return def, nil
	}

	d, ok := parseDecimal(cell.Text)
	if !ok {
		return decimal.Zero, &InvalidNumberError{Field: field, Row: row.Number, Raw: cell.Text}
	}
	return d, nil
}

// parseQuantity is lenient: missing, unparseable, negative or out of range
// quantities become 0 and fractional ones are truncated.
func parseQuantity(row RawRow, field string) int {
	cell := row.Get(field)
	if cell.IsEmpty() {
		return 0
	}
	d, ok := parseDecimal(cell.Text)
	if !ok || d.IsNegative() {
		return 0
	}
	d = d.Truncate(0)
	if d.GreaterThan(maxQuantity) {
		return 0
	}
	return int(d.IntPart())
}

// parseDecimal rejects values with more than maxNumberDigits significant
// digits, more than maxNumberIntegerDigits before the point or more than
// maxNumberScale after it. The checks run on coefficient and exponent so a
// huge exponent is never expanded.
func parseDecimal(text string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.Replace(text, ",", ".", 1))
	if err != nil {
		return decimal.Zero, false
	}

	coefficient := new(big.Int).Abs(d.Coefficient()).String()
	exp := int64(d.Exponent())
	// Trailing fractional zeros ("1.500") do not count.
	for exp < 0 && len(coefficient) > 1 && coefficient[len(coefficient)-1] == '0' {
		coefficient = coefficient[:len(coefficient)-1]
		exp++
	}
	digits := len(coefficient)
	if digits > maxNumberDigits || exp < -maxNumberScale {
		return decimal.Zero, false
	}
	if d.IsZero() {
		return decimal.Zero, true
	}
	if int64(digits)+exp > maxNumberIntegerDigits {
		return decimal.Zero, false
	}
	if d.Exponent() < 0 {
		d = d.Round(int32(max(-exp, 0)))
	}
	return d, true
}

func toImportError(first RawRow, err error) *ImportError {
	ie := &ImportError{
		Row:       first.Number,
		Reference: first.Text(ColReference),
		Message:   err.Error(),
	}

	var missing *MissingFieldError
	var invalid *InvalidNumberError
	switch {
	case errors.As(err, &missing):
		ie.Field = missing.Field
	case errors.As(err, &invalid):
		ie.Field = invalid.Field
	}
	return ie
}
