package enums

import "fmt"

// MethodePaiement describes how the cash was collected.
type MethodePaiement string

const (
	MethodePaiementMTNMomo     MethodePaiement = "MTN_MOMO"
	MethodePaiementOrangeMoney MethodePaiement = "ORANGE_MONEY"
	MethodePaiementEspeces     MethodePaiement = "ESPECES"
)

var validMethodesPaiement = []MethodePaiement{
	MethodePaiementMTNMomo,
	MethodePaiementOrangeMoney,
	MethodePaiementEspeces,
}

var methodePaiementLabels = map[MethodePaiement]string{
	MethodePaiementMTNMomo:     "MTN MoMo",
	MethodePaiementOrangeMoney: "Orange Money",
	MethodePaiementEspeces:     "Especes",
}

// IsValid reports whether the value matches the canonical payment method enum.
func (m MethodePaiement) IsValid() bool {
	for _, candidate := range validMethodesPaiement {
		if candidate == m {
			return true
		}
	}
	return false
}

// Label returns the display label used by the reporting endpoints.
func (m MethodePaiement) Label() string {
	if label, ok := methodePaiementLabels[m]; ok {
		return label
	}
	return string(m)
}

// ParseMethodePaiement converts the raw string to MethodePaiement.
func ParseMethodePaiement(value string) (MethodePaiement, error) {
	for _, candidate := range validMethodesPaiement {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
