package cqrs

// CreateTransactionCommand carries the fields of a new transaction. Date is
// the raw ISO-8601 text from the request.
type CreateTransactionCommand struct {
	Title    string
	Amount   float64
	Category string
	Type     string
	Date     string
}

// UpdateTransactionCommand is a partial update. A nil field keeps the stored value.
type UpdateTransactionCommand struct {
	TransactionID int64
	Title         *string
	Amount        *float64
	Category      *string
	Type          *string
	Date          *string
}

// IsEmpty reports whether the command would change nothing.
func (c UpdateTransactionCommand) IsEmpty() bool {
	return c.Title == nil && c.Amount == nil && c.Category == nil && c.Type == nil && c.Date == nil
}

type DeleteTransactionCommand struct {
	TransactionID int64
}
