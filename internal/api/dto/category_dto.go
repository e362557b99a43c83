package dto

// CategoryRequest payload for create/update.
type CategoryRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CategoryResponse mirrors the stored category plus its computed total.
type CategoryResponse struct {
	CategoryID   int64   `json:"categoryId"`
	UserID       int64   `json:"userId"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	TotalExpense float64 `json:"totalExpense"`
}
