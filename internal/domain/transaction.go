package domain

// Transaction is a single expense entry inside a category.
type Transaction struct {
	ID         int64
	CategoryID int64
	UserID     int64
	Amount     float64
	Note       string
	// TransactionDate is epoch milliseconds, supplied by the client.
	TransactionDate int64
}
