package models

import (
	"math"
	"time"
)

// Transaction types. Amounts are stored as positive values; the type
// field says which direction the money moved.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is a single financial record as supplied by the store.
// The analytics engine treats it as read-only input.
type Transaction struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"` // "income" or "expense"
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
	Timestamp   string  `json:"timestamp"` // ISO-8601
}

// timestampLayouts are the accepted timestamp formats, tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// ParseTimestamp parses the transaction timestamp. The second return
// value is false when the timestamp cannot be interpreted as a date.
func (t Transaction) ParseTimestamp() (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, t.Timestamp); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Valid reports whether the record is usable for analysis: a finite
// amount and a parsable timestamp. Invalid records are skipped by the
// engine, never treated as fatal.
func (t Transaction) Valid() bool {
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return false
	}
	_, ok := t.ParseTimestamp()
	return ok
}
