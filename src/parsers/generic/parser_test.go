// backend/src/parsers/generic/parser_test.go
package generic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/moneymap/backend/src/logger"
	"github.com/username/moneymap/backend/src/models"
)

func init() {
	logger.InitLogger("error")
}

func TestCSVParserParse(t *testing.T) {
	parser := NewParser()

	t.Run("parses well-formed rows", func(t *testing.T) {
		input := strings.Join([]string{
			"date,amount,type,category,description",
			"2024-01-05,12.50,expense,Food,Lunch",
			"2024-01-25,3000,income,Salary,January salary",
		}, "\n")

		txs, skipped, err := parser.Parse(strings.NewReader(input))
		require.NoError(t, err)
		assert.Zero(t, skipped)
		require.Len(t, txs, 2)

		assert.Equal(t, 12.5, txs[0].Amount)
		assert.Equal(t, models.TypeExpense, txs[0].Type)
		assert.Equal(t, "Food", txs[0].Category)
		assert.Equal(t, "Lunch", txs[0].Description)
		assert.Equal(t, "2024-01-05", txs[0].Timestamp)
		assert.Equal(t, models.TypeIncome, txs[1].Type)
	})

	t.Run("column order does not matter", func(t *testing.T) {
		input := strings.Join([]string{
			"type,description,date,amount",
			"expense,Coffee,2024-02-01,3.20",
		}, "\n")

		txs, _, err := parser.Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, 3.2, txs[0].Amount)
		assert.Empty(t, txs[0].Category)
	})

	t.Run("missing required column is a hard error", func(t *testing.T) {
		input := "date,category\n2024-01-05,Food"

		_, _, err := parser.Parse(strings.NewReader(input))
		assert.ErrorContains(t, err, "missing required column")
	})

	t.Run("bad rows are skipped, not fatal", func(t *testing.T) {
		input := strings.Join([]string{
			"date,amount,type",
			"2024-01-05,10,expense",
			"not-a-date,10,expense",
			"2024-01-06,abc,expense",
			"2024-01-07,10,transfer",
			"2024-01-08,20,income",
		}, "\n")

		txs, skipped, err := parser.Parse(strings.NewReader(input))
		require.NoError(t, err)
		assert.Len(t, txs, 2)
		assert.Equal(t, 3, skipped)
	})

	t.Run("free-text fields are sanitized", func(t *testing.T) {
		input := strings.Join([]string{
			"date,amount,type,category,description",
			`2024-01-05,10,expense,<script>alert(1)</script>Food,=SUM(A1:A9)`,
		}, "\n")

		txs, _, err := parser.Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "Food", txs[0].Category)
		assert.Equal(t, "'=SUM(A1:A9)", txs[0].Description)
	})

	t.Run("empty file fails on header read", func(t *testing.T) {
		_, _, err := parser.Parse(strings.NewReader(""))
		assert.Error(t, err)
	})
}
