package model

import (
	"time"
)

// Clinic is the tenant: every other entity resolves to exactly one clinic,
// directly or through its patient.
type Clinic struct {
	Base
	Name            string     `db:"name" json:"name"`
	AccessExpiresOn *time.Time `db:"access_expires_on" json:"access_expires_on,omitempty"`
}

// HasActiveAccess reports whether the clinic's access pass covers now.
func (c *Clinic) HasActiveAccess(now time.Time) bool {
	return c.AccessExpiresOn != nil && c.AccessExpiresOn.After(now)
}
