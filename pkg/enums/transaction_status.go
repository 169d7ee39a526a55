package enums

import "fmt"

// TransactionStatus tracks settlement records written at payment confirmation.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionConfirmed TransactionStatus = "confirmed"
)

var validTransactionStatuses = []TransactionStatus{
	TransactionPending,
	TransactionConfirmed,
}

// IsValid reports whether the value matches the canonical transaction status enum.
func (t TransactionStatus) IsValid() bool {
	for _, candidate := range validTransactionStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransactionStatus converts the raw string to TransactionStatus.
func ParseTransactionStatus(value string) (TransactionStatus, error) {
	for _, candidate := range validTransactionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction status %q", value)
}
