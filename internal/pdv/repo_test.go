package pdv

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
	"github.com/cafcollect/caf-backend/pkg/pagination"
)

func setupPDVTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  nom TEXT NOT NULL,
  telephone TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  zone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	pdv := `
CREATE TABLE IF NOT EXISTS points_de_vente (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  nom TEXT NOT NULL,
  adresse TEXT,
  ville TEXT NOT NULL DEFAULT 'Abidjan',
  commune TEXT NOT NULL,
  proprietaire_nom TEXT NOT NULL,
  proprietaire_telephone TEXT,
  status TEXT NOT NULL,
  agent_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	recouvrements := `
CREATE TABLE IF NOT EXISTS recouvrements (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  point_de_vente_id TEXT NOT NULL,
  agent_id TEXT NOT NULL,
  montant INTEGER NOT NULL,
  taux_commission NUMERIC NOT NULL,
  commission INTEGER NOT NULL,
  methode_paiement TEXT NOT NULL,
  status TEXT NOT NULL,
  reference TEXT,
  notes TEXT,
  created_at DATETIME,
  validated_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(pdv).Error)
	require.NoError(t, db.Exec(recouvrements).Error)
	return db
}

func newAgent(t *testing.T, db *gorm.DB, nom, telephone string) *models.User {
	t.Helper()

	now := time.Now().UTC()
	agent := &models.User{
		ID:           uuid.New(),
		Nom:          nom,
		Telephone:    telephone,
		PasswordHash: "x",
		Role:         enums.UserRoleAgent,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(agent).Error)
	return agent
}

func newPDV(t *testing.T, db *gorm.DB, code, nom, commune string, agent *models.User, status enums.PDVStatus, created time.Time) *models.PointDeVente {
	t.Helper()

	pdv := &models.PointDeVente{
		ID:              uuid.New(),
		Code:            code,
		Nom:             nom,
		Ville:           "Abidjan",
		Commune:         commune,
		ProprietaireNom: "Konan Affoue",
		Status:          status,
		AgentID:         agent.ID,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	require.NoError(t, db.Create(pdv).Error)
	return pdv
}

func TestListScopesToAgent(t *testing.T) {
	db := setupPDVTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	agentA := newAgent(t, db, "Adjoua Brou", "0202020202")
	agentB := newAgent(t, db, "Seydou Traore", "0303030303")
	newPDV(t, db, "CAF-AAAAAA", "Boutique Cocody", "Cocody", agentA, enums.PDVStatusActif, base)
	newPDV(t, db, "CAF-BBBBBB", "Kiosque Yopougon", "Yopougon", agentB, enums.PDVStatusActif, base.Add(time.Hour))

	items, total, err := repo.List(ctx, pagination.Params{}, &agentA.ID, Filters{})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "CAF-AAAAAA", items[0].Code)
	require.NotNil(t, items[0].Agent)
	require.Equal(t, "Adjoua Brou", items[0].Agent.Nom)

	items, total, err = repo.List(ctx, pagination.Params{}, nil, Filters{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Equal(t, "CAF-BBBBBB", items[0].Code) // newest first
}

func TestListFilters(t *testing.T) {
	db := setupPDVTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	agent := newAgent(t, db, "Adjoua Brou", "0202020202")
	newPDV(t, db, "CAF-AAAAAA", "Boutique Cocody", "Cocody", agent, enums.PDVStatusActif, base)
	newPDV(t, db, "CAF-BBBBBB", "Kiosque Yopougon", "Yopougon", agent, enums.PDVStatusEnAttente, base.Add(time.Hour))

	status := enums.PDVStatusActif
	_, total, err := repo.List(ctx, pagination.Params{}, nil, Filters{Status: &status})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	_, total, err = repo.List(ctx, pagination.Params{}, nil, Filters{Commune: "Yopougon"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	_, total, err = repo.List(ctx, pagination.Params{}, nil, Filters{Search: "kiosque"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	_, total, err = repo.List(ctx, pagination.Params{}, nil, Filters{Search: "caf-aaa"})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestFindByIDScoped(t *testing.T) {
	db := setupPDVTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agentA := newAgent(t, db, "Adjoua Brou", "0202020202")
	agentB := newAgent(t, db, "Seydou Traore", "0303030303")
	pdv := newPDV(t, db, "CAF-AAAAAA", "Boutique Cocody", "Cocody", agentA, enums.PDVStatusActif, time.Now().UTC())

	found, err := repo.FindByID(ctx, pdv.ID, &agentA.ID)
	require.NoError(t, err)
	require.Equal(t, pdv.ID, found.ID)

	_, err = repo.FindByID(ctx, pdv.ID, &agentB.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestHasRecouvrementsAndDelete(t *testing.T) {
	db := setupPDVTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := newAgent(t, db, "Adjoua Brou", "0202020202")
	withRec := newPDV(t, db, "CAF-AAAAAA", "Boutique Cocody", "Cocody", agent, enums.PDVStatusActif, time.Now().UTC())
	without := newPDV(t, db, "CAF-BBBBBB", "Kiosque Yopougon", "Yopougon", agent, enums.PDVStatusActif, time.Now().UTC())

	rec := &models.Recouvrement{
		ID:              uuid.New(),
		Code:            "REC-AAAAAA",
		PointDeVenteID:  withRec.ID,
		AgentID:         agent.ID,
		Montant:         10000,
		Commission:      200,
		MethodePaiement: enums.MethodePaiementEspeces,
		Status:          enums.RecouvrementStatusEnAttente,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	require.NoError(t, db.Create(rec).Error)

	has, err := repo.HasRecouvrements(ctx, withRec.ID)
	require.NoError(t, err)
	require.True(t, has)

	has, err = repo.HasRecouvrements(ctx, without.ID)
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, repo.Delete(ctx, without.ID))
	_, err = repo.FindByID(ctx, without.ID, nil)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCodeExists(t *testing.T) {
	db := setupPDVTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	agent := newAgent(t, db, "Adjoua Brou", "0202020202")
	newPDV(t, db, "CAF-AAAAAA", "Boutique Cocody", "Cocody", agent, enums.PDVStatusActif, time.Now().UTC())

	exists, err := repo.CodeExists(ctx, "CAF-AAAAAA")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.CodeExists(ctx, "CAF-ZZZZZZ")
	require.NoError(t, err)
	require.False(t, exists)
}
