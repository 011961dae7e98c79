package enums

import "fmt"

// PDVStatus describes the lifecycle state of a point of sale.
type PDVStatus string

const (
	PDVStatusActif     PDVStatus = "ACTIF"
	PDVStatusInactif   PDVStatus = "INACTIF"
	PDVStatusEnAttente PDVStatus = "EN_ATTENTE"
)

var validPDVStatuses = []PDVStatus{
	PDVStatusActif,
	PDVStatusInactif,
	PDVStatusEnAttente,
}

// IsValid reports whether the value matches the canonical PDV status enum.
func (s PDVStatus) IsValid() bool {
	for _, candidate := range validPDVStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePDVStatus converts the raw string to PDVStatus.
func ParsePDVStatus(value string) (PDVStatus, error) {
	for _, candidate := range validPDVStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pdv status %q", value)
}
