// Package identity derives the customer display name stored on a booking.
package identity

import (
	"strings"

	"spabook/models"
)

// GuestName is used when no profile carries a usable name.
const GuestName = "Guest Customer"

// Identity is the resolved customer name pair.
type Identity struct {
	CustomerName string `json:"customerName"`
	UserName     string `json:"userName"`
}

// IdentityError signals that a resolved identity is unusable.
type IdentityError struct {
	Message string
}

func (e *IdentityError) Error() string {
	return "identity: " + e.Message
}

// Resolve picks the first non-blank name from the primary profile's full name
// and name, then the secondary profile's display name, name and email.
func Resolve(primary, secondary *models.Profile) Identity {
	var candidates []string
	if primary != nil {
		candidates = append(candidates, primary.FullName, primary.Name)
	}
	if secondary != nil {
		candidates = append(candidates, secondary.DisplayName, secondary.Name, secondary.Email)
	}

	name := GuestName
	for _, c := range candidates {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			name = trimmed
			break
		}
	}
	return Identity{CustomerName: name, UserName: name}
}

// Validate is the last check before an identity is written.
func Validate(id Identity) error {
	if strings.TrimSpace(id.CustomerName) == "" {
		return &IdentityError{Message: "customerName missing"}
	}
	return nil
}
