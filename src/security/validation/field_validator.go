// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/username/moneymap/backend/src/logger"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

// Field length limits for imported transaction data.
const (
	MaxCategoryLength    = 100
	MaxDescriptionLength = 255

	// MaxImportAmount bounds a single imported transaction; anything
	// beyond it is almost certainly a unit error in the source file.
	MaxImportAmount = 1_000_000_000
)

// ValidateStringNotEmpty checks that a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks a string's UTF-8 character count.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateTransactionType checks the type column against the two known
// kinds.
func ValidateTransactionType(s string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized != "income" && normalized != "expense" {
		return "", fmt.Errorf("%w: type ('%s') must be 'income' or 'expense'", ErrValidationFailed, s)
	}
	return normalized, nil
}

// ValidateAmountString parses an amount column and bounds it.
func ValidateAmountString(s, fieldName string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s ('%s') is not a valid number: %v", ErrValidationFailed, fieldName, s, err)
	}
	if val < -MaxImportAmount || val > MaxImportAmount {
		logger.L.Warn("Amount out of range during import", "field", fieldName, "value", val)
		return 0, fmt.Errorf("%w: %s is outside the accepted range", ErrValidationFailed, fieldName)
	}
	return val, nil
}

// ValidateCategory sanitizes and bounds a category value. An empty
// category is allowed; the aggregator buckets it as uncategorized.
func ValidateCategory(s string) (string, error) {
	cleaned := CleanField(s)
	if err := ValidateStringMaxLength(cleaned, MaxCategoryLength, "category"); err != nil {
		return "", err
	}
	return SanitizeForFormulaInjection(cleaned), nil
}

// ValidateDescription sanitizes and bounds a description value.
func ValidateDescription(s string) (string, error) {
	cleaned := CleanField(s)
	if err := ValidateStringMaxLength(cleaned, MaxDescriptionLength, "description"); err != nil {
		return "", err
	}
	return SanitizeForFormulaInjection(cleaned), nil
}
