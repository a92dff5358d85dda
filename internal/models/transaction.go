// Package models defines the Transaction record, its JSON shape and its validation rules.
package models

import (
	"encoding/json"
	"time"
)

// Transaction types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Transaction is one income or expense entry.
type Transaction struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title" validate:"required,max=100"`
	Amount   float64   `json:"amount" validate:"gt=0"`
	Category string    `json:"category" validate:"required,max=50"`
	Type     string    `json:"type" validate:"required,oneof=income expense"`
	Date     time.Time `json:"date"`
}

type transactionJSON struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Date     string  `json:"date"`
}

// MarshalJSON encodes the record with its date as UTC ISO-8601 ending in "Z".
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		ID:       t.ID,
		Title:    t.Title,
		Amount:   t.Amount,
		Category: t.Category,
		Type:     t.Type,
		Date:     FormatDate(t.Date),
	})
}

// UnmarshalJSON is the inverse of MarshalJSON. It is used by the Redis view cache.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		return err
	}
	*t = Transaction{
		ID:       raw.ID,
		Title:    raw.Title,
		Amount:   raw.Amount,
		Category: raw.Category,
		Type:     raw.Type,
		Date:     date,
	}
	return nil
}

// Validate checks the record invariants: non-empty title and category within
// their length limits, a positive amount, a known type and a set date.
func (t *Transaction) Validate() error {
	if err := ValidateStruct(t); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return missingDataError("date")
	}
	return nil
}
