package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cafcollect/caf-backend/pkg/migrate"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func TestRecouvrementsMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_recouvrements.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no recouvrements migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE recouvrements",
		"CONSTRAINT uq_recouvrements_code UNIQUE (code)",
		"status IN ('EN_ATTENTE', 'VALIDE', 'REJETE')",
		"REFERENCES recouvrements (id) ON DELETE CASCADE",
		"CHECK (prix_unitaire >= 1)",
		"CHECK (quantite >= 1)",
		"DROP TABLE lignes_recouvrement",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestSettingsMigrationSeedsSingletonRow(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_settings.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no settings migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "INSERT INTO settings (id, taux_commission) VALUES (1, 2.00)") {
		t.Errorf("settings migration must seed the singleton row")
	}
	if !strings.Contains(content, "CHECK (id = 1)") {
		t.Errorf("settings migration must pin the singleton id")
	}
}
