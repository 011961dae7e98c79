package enums

import "fmt"

// CategorieProduit classifies a collection line item.
type CategorieProduit string

const (
	CategorieProduitBoissons     CategorieProduit = "BOISSONS"
	CategorieProduitAlimentation CategorieProduit = "ALIMENTATION"
	CategorieProduitHabillement  CategorieProduit = "HABILLEMENT"
	CategorieProduitElectronique CategorieProduit = "ELECTRONIQUE"
	CategorieProduitAutre        CategorieProduit = "AUTRE"
)

var validCategoriesProduit = []CategorieProduit{
	CategorieProduitBoissons,
	CategorieProduitAlimentation,
	CategorieProduitHabillement,
	CategorieProduitElectronique,
	CategorieProduitAutre,
}

var categorieProduitLabels = map[CategorieProduit]string{
	CategorieProduitBoissons:     "Boissons",
	CategorieProduitAlimentation: "Alimentation",
	CategorieProduitHabillement:  "Habillement",
	CategorieProduitElectronique: "Electronique",
	CategorieProduitAutre:        "Autre",
}

// IsValid reports whether the value matches the canonical category enum.
func (c CategorieProduit) IsValid() bool {
	for _, candidate := range validCategoriesProduit {
		if candidate == c {
			return true
		}
	}
	return false
}

// Label returns the display label used by the reporting endpoints.
func (c CategorieProduit) Label() string {
	if label, ok := categorieProduitLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseCategorieProduit converts the raw string to CategorieProduit.
func ParseCategorieProduit(value string) (CategorieProduit, error) {
	for _, candidate := range validCategoriesProduit {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
