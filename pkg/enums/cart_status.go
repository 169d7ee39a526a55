package enums

import "fmt"

// CartSessionStatus tracks the settlement lifecycle of a cart session.
// Sessions are created pending and transition to paid exactly once.
type CartSessionStatus string

const (
	CartSessionPending CartSessionStatus = "pending"
	CartSessionPaid    CartSessionStatus = "paid"
)

var validCartSessionStatuses = []CartSessionStatus{
	CartSessionPending,
	CartSessionPaid,
}

// IsValid reports whether the value matches the canonical cart session status enum.
func (c CartSessionStatus) IsValid() bool {
	for _, candidate := range validCartSessionStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartSessionStatus converts the raw string to CartSessionStatus.
func ParseCartSessionStatus(value string) (CartSessionStatus, error) {
	for _, candidate := range validCartSessionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart session status %q", value)
}
