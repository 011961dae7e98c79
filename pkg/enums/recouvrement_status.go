package enums

import "fmt"

// RecouvrementStatus is the validation state of a collection record.
// EN_ATTENTE is the only initial state; VALIDE and REJETE are terminal.
type RecouvrementStatus string

const (
	RecouvrementStatusEnAttente RecouvrementStatus = "EN_ATTENTE"
	RecouvrementStatusValide    RecouvrementStatus = "VALIDE"
	RecouvrementStatusRejete    RecouvrementStatus = "REJETE"
)

var validRecouvrementStatuses = []RecouvrementStatus{
	RecouvrementStatusEnAttente,
	RecouvrementStatusValide,
	RecouvrementStatusRejete,
}

// IsValid reports whether the value matches the canonical status enum.
func (s RecouvrementStatus) IsValid() bool {
	for _, candidate := range validRecouvrementStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave this state.
func (s RecouvrementStatus) IsTerminal() bool {
	return s == RecouvrementStatusValide || s == RecouvrementStatusRejete
}

// ParseRecouvrementStatus converts the raw string to RecouvrementStatus.
func ParseRecouvrementStatus(value string) (RecouvrementStatus, error) {
	for _, candidate := range validRecouvrementStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid recouvrement status %q", value)
}
