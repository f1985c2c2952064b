package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Timestamps are stamped from the injected clock, never from the ambient one.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}
