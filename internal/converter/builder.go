package converter

import (
	"fmt"

	"github.com/ginjaninja78/in1888-converter/internal/config"
	"github.com/ginjaninja78/in1888-converter/internal/logging"
	"github.com/ginjaninja78/in1888-converter/internal/types"
	"github.com/ginjaninja78/in1888-converter/internal/validation"
	"github.com/ginjaninja78/in1888-converter/internal/workbook"
	"github.com/sirupsen/logrus"
)

// Builder turns a sheet table into the two report partitions.
type Builder struct {
	columns     config.Columns
	flag        string
	classifier  *Classifier
	transformer *Transformer
	logger      logrus.FieldLogger
}

// NewBuilder creates a Builder from the input and report settings of cfg.
func NewBuilder(cfg *config.Config, logger logrus.FieldLogger) *Builder {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Builder{
		columns:     cfg.Input.Columns,
		flag:        cfg.Report.Flag,
		classifier:  NewClassifier(cfg.Report.Classification, cfg.Report.Exchanges),
		transformer: NewTransformer(cfg.Report, logger),
		logger:      logger,
	}
}

// Build validates the header row of t and converts its rows in order.
//
// PARAMETERS:
//   - t: The sheet to convert. Its first row must hold the column headers.
//
// RETURNS:
//   - The report with both partitions and the ignored count.
//   - A *validation.MissingColumnError if a required column is absent. No
//     row is processed in that case.
func (b *Builder) Build(t *workbook.Table) (*types.Report, error) {
	if err := validation.RequireColumns(t.Headers, b.columns.Required()); err != nil {
		return nil, fmt.Errorf("sheet %q: %w", t.Sheet, err)
	}

	ix := indexColumns(t, b.columns)
	report := &types.Report{
		SheetName: t.Sheet,
		RowsRead:  len(t.Rows),
	}

	for i := range t.Rows {
		raw := ix.row(t, i)

		code, ok := b.classifier.Classify(NormalizeType(raw.Type))
		if !ok {
			report.Ignored++
			b.logger.WithFields(logrus.Fields{
				logging.FieldRow:   raw.Line,
				logging.FieldValue: raw.Type.Text,
			}).Debug("Row ignored, type does not map to a report")
			continue
		}

		line := b.Line(code, b.transformer.Transform(raw))
		switch code {
		case types.CodePurchase:
			report.Purchases = append(report.Purchases, line)
		case types.CodeSale:
			report.Sales = append(report.Sales, line)
		}
	}

	return report, nil
}

// Line assembles the output record for a classified row.
func (b *Builder) Line(code types.Code, row NormalizedRow) types.ReportLine {
	info := b.classifier.Exchange(row.Exchange)
	return types.ReportLine{
		Code:     code,
		Date:     row.Date,
		Flag:     b.flag,
		Value:    formatMoney(row.Value),
		Fee:      formatMoney(row.Fee),
		Asset:    row.Asset,
		Quantity: formatQuantity(row.Quantity),
		Exchange: row.Exchange,
		URL:      info.URL,
		Country:  info.Country,
	}
}
