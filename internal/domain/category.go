package domain

// Category groups transactions under a single owner. UserID is set at
// creation from the acting principal and never reassigned.
type Category struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	// TotalExpense is the SUM of the category's transaction amounts,
	// computed by the repository query. Not a stored column.
	TotalExpense float64
}
