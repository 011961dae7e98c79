package enums

import "testing"

func TestRecouvrementStatusTerminality(t *testing.T) {
	if RecouvrementStatusEnAttente.IsTerminal() {
		t.Fatal("EN_ATTENTE must not be terminal")
	}
	if !RecouvrementStatusValide.IsTerminal() || !RecouvrementStatusRejete.IsTerminal() {
		t.Fatal("VALIDE and REJETE must be terminal")
	}
}

func TestParseRejectsUnknownValues(t *testing.T) {
	if _, err := ParseUserRole("superuser"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if _, err := ParsePDVStatus("OUVERT"); err == nil {
		t.Fatal("expected error for unknown pdv status")
	}
	if _, err := ParseRecouvrementStatus("ANNULE"); err == nil {
		t.Fatal("expected error for unknown recouvrement status")
	}
	if _, err := ParseMethodePaiement("WAVE"); err == nil {
		t.Fatal("expected error for unknown payment method")
	}
	if _, err := ParseCategorieProduit("DIVERS"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestLabels(t *testing.T) {
	if MethodePaiementMTNMomo.Label() != "MTN MoMo" {
		t.Fatalf("unexpected label %q", MethodePaiementMTNMomo.Label())
	}
	if CategorieProduitBoissons.Label() != "Boissons" {
		t.Fatalf("unexpected label %q", CategorieProduitBoissons.Label())
	}
	// unknown values fall back to the raw string
	if MethodePaiement("X").Label() != "X" {
		t.Fatal("expected raw fallback label")
	}
}
