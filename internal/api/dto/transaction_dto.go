package dto

// TransactionRequest payload for create/update.
type TransactionRequest struct {
	Amount          float64 `json:"amount"`
	Note            string  `json:"note"`
	TransactionDate int64   `json:"transactionDate"`
}

// TransactionResponse mirrors a stored transaction.
type TransactionResponse struct {
	TransactionID   int64   `json:"transactionId"`
	CategoryID      int64   `json:"categoryId"`
	UserID          int64   `json:"userId"`
	Amount          float64 `json:"amount"`
	Note            string  `json:"note"`
	TransactionDate int64   `json:"transactionDate"`
}
