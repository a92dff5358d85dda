package cqrs

type GetTransactionQuery struct {
	TransactionID int64
}

type ListTransactionsQuery struct{}
