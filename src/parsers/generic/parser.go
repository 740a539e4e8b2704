// backend/src/parsers/generic/parser.go
package generic

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/username/moneymap/backend/src/logger"
	"github.com/username/moneymap/backend/src/models"
	"github.com/username/moneymap/backend/src/security/validation"
)

// Column layout: date, amount, type, category, description. The header
// row is matched by name so column order in the file does not matter.
var requiredColumns = []string{"date", "amount", "type"}

// CSVParser reads the generic transaction CSV layout.
type CSVParser struct{}

func NewParser() *CSVParser {
	return &CSVParser{}
}

// Parse reads the CSV and returns the usable transactions plus the
// number of skipped rows. A missing required column is a hard error;
// a malformed row is not.
func (p *CSVParser) Parse(file io.Reader) ([]models.Transaction, int, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("csv parser: failed to read header: %w", err)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, 0, err
	}

	var txs []models.Transaction
	skipped := 0
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			logger.L.Warn("Skipping unreadable CSV row", "line", line, "error", err)
			skipped++
			continue
		}

		tx, err := rowToTransaction(record, columns)
		if err != nil {
			logger.L.Warn("Skipping invalid CSV row", "line", line, "error", err)
			skipped++
			continue
		}
		txs = append(txs, tx)
	}

	return txs, skipped, nil
}

// mapColumns resolves header names to indexes, case-insensitively.
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv parser: missing required column %q", required)
		}
	}
	return columns, nil
}

func rowToTransaction(record []string, columns map[string]int) (models.Transaction, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	txType, err := validation.ValidateTransactionType(field("type"))
	if err != nil {
		return models.Transaction{}, err
	}
	amount, err := validation.ValidateAmountString(field("amount"), "amount")
	if err != nil {
		return models.Transaction{}, err
	}
	category, err := validation.ValidateCategory(field("category"))
	if err != nil {
		return models.Transaction{}, err
	}
	description, err := validation.ValidateDescription(field("description"))
	if err != nil {
		return models.Transaction{}, err
	}

	tx := models.Transaction{
		Amount:      amount,
		Type:        txType,
		Category:    category,
		Description: description,
		Timestamp:   strings.TrimSpace(field("date")),
	}
	if !tx.Valid() {
		return models.Transaction{}, fmt.Errorf("unparsable date %q", field("date"))
	}
	return tx, nil
}
