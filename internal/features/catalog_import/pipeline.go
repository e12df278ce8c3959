package catalog_import

import (
	"go-catalog/internal/config"

	"go.uber.org/zap"
)

// Pipeline runs detection, header validation, parsing, grouping and
// building over one in-memory file.
type Pipeline struct {
	builder         *RecordBuilder
	expectedColumns int
	logger          *zap.Logger
}

func NewPipeline(cfg *config.Config, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		builder:         NewRecordBuilder(cfg.VariantSeparator),
		expectedColumns: ExpectedColumnCount,
		logger:          logger.Named("catalog_import"),
	}
}

// Run returns a batch-fatal error (see IsBatchFatal) or a result holding
// every built product and every per-group error.
func (p *Pipeline) Run(fileName string, data []byte) (*ImportResult, error) {
	payload, err := DetectFormat(fileName, data)
	if err != nil {
		return nil, err
	}

	if err := ValidateHeader(payload.Text, payload.Delimiter, p.expectedColumns); err != nil {
		return nil, err
	}

	table, err := ParseRows(payload.Text, payload.Delimiter, true)
	if err != nil {
		return nil, err
	}

	groups, skipped := GroupRows(table.Rows)
	for _, row := range skipped {
		p.logger.Warn("Row skipped: no REFERENCE or PRODUCTNAME",
			zap.String("file", fileName), zap.Int("row", row))
	}

	outcomes := make([]GroupOutcome, 0, len(groups))
	for _, group := range groups {
		product, importErr := p.builder.Build(group)
		if importErr != nil {
			p.logger.Warn("Product group rejected",
				zap.String("file", fileName),
				zap.String("key", group.Key),
				zap.Int("row", importErr.Row),
				zap.String("field", importErr.Field),
				zap.String("error", importErr.Message))
		}
		outcomes = append(outcomes, GroupOutcome{Product: product, Err: importErr})
	}

	result := Aggregate(outcomes, skipped)
	result.Format = payload.Format
	result.Delimiter = delimiterName(payload.Delimiter)

	p.logger.Info("Import file parsed",
		zap.String("file", fileName),
		zap.String("format", string(payload.Format)),
		zap.Int("rows", len(table.Rows)),
		zap.Int("products", result.ProductCount),
		zap.Int("variants", result.VariantCount),
		zap.Int("errors", len(result.Errors)),
		zap.Int("skipped", len(skipped)))

	return result, nil
}
