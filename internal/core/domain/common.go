package domain

import "time"

// AuditFields holds standard audit information for ledger entities.
type AuditFields struct {
	CreatedAt     time.Time
	CreatedBy     string // UserID reference
	LastUpdatedAt time.Time
	LastUpdatedBy string // UserID reference
}
