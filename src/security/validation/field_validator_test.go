// backend/src/security/validation/field_validator_test.go
package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/moneymap/backend/src/logger"
)

func init() {
	logger.InitLogger("error")
}

func TestValidateTransactionType(t *testing.T) {
	for _, input := range []string{"income", "Expense", " INCOME "} {
		got, err := ValidateTransactionType(input)
		require.NoError(t, err, input)
		assert.Contains(t, []string{"income", "expense"}, got)
	}

	_, err := ValidateTransactionType("transfer")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidateAmountString(t *testing.T) {
	got, err := ValidateAmountString(" 12.50 ", "amount")
	require.NoError(t, err)
	assert.Equal(t, 12.5, got)

	_, err = ValidateAmountString("abc", "amount")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = ValidateAmountString("", "amount")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = ValidateAmountString("9999999999999", "amount")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidateCategory(t *testing.T) {
	got, err := ValidateCategory("<b>Food</b>")
	require.NoError(t, err)
	assert.Equal(t, "Food", got)

	_, err = ValidateCategory(strings.Repeat("x", MaxCategoryLength+1))
	assert.ErrorIs(t, err, ErrValidationFailed)

	// Empty category is allowed; the aggregator buckets it.
	got, err = ValidateCategory("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValidateDescription(t *testing.T) {
	got, err := ValidateDescription("=SUM(A1:A9)")
	require.NoError(t, err)
	assert.Equal(t, "'=SUM(A1:A9)", got)

	got, err = ValidateDescription("Lunch\x00with\x07friends")
	require.NoError(t, err)
	assert.Equal(t, "Lunchwithfriends", got)
}
