// backend/src/parsers/parser.go
package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/moneymap/backend/src/models"
	"github.com/username/moneymap/backend/src/parsers/generic"
)

// Parser converts an import file into transactions. Rows that cannot be
// interpreted are skipped, not fatal; the parser reports how many.
type Parser interface {
	Parse(file io.Reader) ([]models.Transaction, int, error)
}

// GetParser resolves a source name to its parser. Only the generic CSV
// layout is supported today; bank-specific layouts register here.
func GetParser(source string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case "", "generic", "csv":
		return generic.NewParser(), nil
	default:
		return nil, fmt.Errorf("unsupported import source: %q", source)
	}
}
