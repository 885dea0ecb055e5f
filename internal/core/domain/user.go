package domain

// User is an operator of the backoffice. Authentication only; the ledger
// itself has no per-user data.
type User struct {
	UserID       string
	Username     string
	PasswordHash string
	IsAdmin      bool
	AuditFields
}
