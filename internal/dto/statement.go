package dto

// StatementParams defines query parameters for statement generation.
type StatementParams struct {
	From      string `form:"from" binding:"required"` // yyyy-MM-dd
	To        string `form:"to" binding:"required"`
	Analytics bool   `form:"analytics"`
}
