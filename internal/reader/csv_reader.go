// Package reader provides the minimal statement intake: a CSV of parsed
// transactions, the form every statement parser reduces to before ingestion.
package reader

import (
	"fmt"
	"os"

	"fjacquet/expense-analyzer/internal/logging"
	"fjacquet/expense-analyzer/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// csvRow maps one line of a parsed-statement CSV.
type csvRow struct {
	Date        string `csv:"Date"`
	Vendor      string `csv:"Vendor"`
	Amount      string `csv:"Amount"`
	Description string `csv:"Description"`
}

// CSVReader reads raw transaction records from a parsed-statement CSV file,
// in file order, with no dedup guarantees.
type CSVReader struct {
	source models.Source
	logger logging.Logger
}

// NewCSVReader creates a reader tagging transactions with the given source.
func NewCSVReader(source models.Source, logger logging.Logger) *CSVReader {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if source == "" {
		source = models.SourceCSV
	}
	return &CSVReader{source: source, logger: logger}
}

// Read parses the CSV at path into raw transaction records.
func (r *CSVReader) Read(path string) ([]models.RawTransaction, error) {
	r.logger.WithField("file", path).Info("Reading statement CSV")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			r.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	var rows []csvRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("error parsing CSV file: %w", err)
	}

	raws := make([]models.RawTransaction, 0, len(rows))
	for i, row := range rows {
		raw, err := r.convertRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		raws = append(raws, raw)
	}

	r.logger.WithFields(
		logging.Field{Key: "file", Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(raws)},
	).Info("Statement CSV read")
	return raws, nil
}

func (r *CSVReader) convertRow(row csvRow) (models.RawTransaction, error) {
	if row.Vendor == "" {
		return models.RawTransaction{}, fmt.Errorf("missing vendor")
	}

	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return models.RawTransaction{}, fmt.Errorf("invalid amount %q: %w", row.Amount, err)
	}

	date, err := parseDate(row.Date)
	if err != nil {
		return models.RawTransaction{}, err
	}

	return models.RawTransaction{
		Vendor:      row.Vendor,
		Amount:      amount,
		Date:        date,
		Description: row.Description,
		Source:      r.source,
	}, nil
}
