package recouvrements

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
	"github.com/cafcollect/caf-backend/pkg/pagination"
)

func setupRecTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  nom TEXT NOT NULL,
  telephone TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  zone TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS points_de_vente (
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
);`,
		`CREATE TABLE IF NOT EXISTS recouvrements (
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
);`,
		`CREATE TABLE IF NOT EXISTS lignes_recouvrement (
  id TEXT PRIMARY KEY,
  recouvrement_id TEXT NOT NULL,
  nom_produit TEXT NOT NULL,
  categorie TEXT NOT NULL,
  prix_unitaire INTEGER NOT NULL,
  quantite INTEGER NOT NULL,
  sous_total INTEGER NOT NULL
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type recFixture struct {
	db    *gorm.DB
	agent *models.User
	pdv   *models.PointDeVente
}

func newRecFixture(t *testing.T) *recFixture {
	t.Helper()

	db := setupRecTestDB(t)
	now := time.Now().UTC()
	agent := &models.User{
		ID:           uuid.New(),
		Nom:          "Adjoua Brou",
		Telephone:    "0202020202",
		PasswordHash: "x",
		Role:         enums.UserRoleAgent,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(agent).Error)

	pdv := &models.PointDeVente{
		ID:              uuid.New(),
		Code:            "CAF-AAAAAA",
		Nom:             "Boutique Cocody",
		Ville:           "Abidjan",
		Commune:         "Cocody",
		ProprietaireNom: "Konan Affoue",
		Status:          enums.PDVStatusActif,
		AgentID:         agent.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, db.Create(pdv).Error)

	return &recFixture{db: db, agent: agent, pdv: pdv}
}

func (f *recFixture) seedRec(t *testing.T, code string, montant int64, status enums.RecouvrementStatus, methode enums.MethodePaiement, created time.Time, lignes ...models.LigneRecouvrement) *models.Recouvrement {
	t.Helper()

	rec := &models.Recouvrement{
		ID:              uuid.New(),
		Code:            code,
		PointDeVenteID:  f.pdv.ID,
		AgentID:         f.agent.ID,
		Montant:         montant,
		TauxCommission:  decimal.New(200, -4),
		Commission:      montant / 50,
		MethodePaiement: methode,
		Status:          status,
		CreatedAt:       created,
		UpdatedAt:       created,
	}
	require.NoError(t, f.db.Create(rec).Error)
	for i := range lignes {
		lignes[i].ID = uuid.New()
		lignes[i].RecouvrementID = rec.ID
		require.NoError(t, f.db.Create(&lignes[i]).Error)
	}
	return rec
}

func TestListScopesAndSorts(t *testing.T) {
	f := newRecFixture(t)
	repo := NewRepository(f.db)
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	f.seedRec(t, "REC-AAAAAA", 5000, enums.RecouvrementStatusEnAttente, enums.MethodePaiementEspeces, base)
	f.seedRec(t, "REC-BBBBBB", 9000, enums.RecouvrementStatusValide, enums.MethodePaiementMTNMomo, base.Add(time.Hour))

	items, total, err := repo.List(ctx, pagination.Params{}, nil, Filters{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Equal(t, "REC-BBBBBB", items[0].Code) // newest first by default

	items, _, err = repo.List(ctx, pagination.Params{}, nil, Filters{Sort: "montant", Order: "asc"})
	require.NoError(t, err)
	require.Equal(t, "REC-AAAAAA", items[0].Code)

	other := uuid.New()
	_, total, err = repo.List(ctx, pagination.Params{}, &other, Filters{})
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
}

func TestListStatusAndMethodeFilters(t *testing.T) {
	f := newRecFixture(t)
	repo := NewRepository(f.db)
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	f.seedRec(t, "REC-AAAAAA", 5000, enums.RecouvrementStatusEnAttente, enums.MethodePaiementEspeces, base)
	f.seedRec(t, "REC-BBBBBB", 9000, enums.RecouvrementStatusValide, enums.MethodePaiementMTNMomo, base)

	status := enums.RecouvrementStatusValide
	_, total, err := repo.List(ctx, pagination.Params{}, nil, Filters{Status: &status})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	methode := enums.MethodePaiementEspeces
	_, total, err = repo.List(ctx, pagination.Params{}, nil, Filters{Methode: &methode})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestListCategorieFilterDeduplicates(t *testing.T) {
	f := newRecFixture(t)
	repo := NewRepository(f.db)
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	f.seedRec(t, "REC-AAAAAA", 5000, enums.RecouvrementStatusEnAttente, enums.MethodePaiementEspeces, base,
		models.LigneRecouvrement{NomProduit: "Coca 33cl", Categorie: enums.CategorieProduitBoissons, PrixUnitaire: 500, Quantite: 5, SousTotal: 2500},
		models.LigneRecouvrement{NomProduit: "Fanta 1L", Categorie: enums.CategorieProduitBoissons, PrixUnitaire: 500, Quantite: 5, SousTotal: 2500},
	)
	f.seedRec(t, "REC-BBBBBB", 9000, enums.RecouvrementStatusEnAttente, enums.MethodePaiementEspeces, base,
		models.LigneRecouvrement{NomProduit: "Tee-shirt", Categorie: enums.CategorieProduitHabillement, PrixUnitaire: 3000, Quantite: 3, SousTotal: 9000},
	)

	cat := enums.CategorieProduitBoissons
	items, total, err := repo.List(ctx, pagination.Params{}, nil, Filters{Categorie: &cat})
	require.NoError(t, err)
	require.EqualValues(t, 1, total) // two matching lines, one recouvrement
	require.Equal(t, "REC-AAAAAA", items[0].Code)
	require.Len(t, items[0].Lignes, 2)
}

func TestListDateRangeInclusive(t *testing.T) {
	f := newRecFixture(t)
	repo := NewRepository(f.db)
	ctx := context.Background()

	f.seedRec(t, "REC-AAAAAA", 5000, enums.RecouvrementStatusEnAttente, enums.MethodePaiementEspeces,
		time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC))
	f.seedRec(t, "REC-BBBBBB", 9000, enums.RecouvrementStatusEnAttente, enums.MethodePaiementEspeces,
		time.Date(2025, 8, 3, 23, 30, 0, 0, time.UTC))

	start := time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)
	_, total, err := repo.List(ctx, pagination.Params{}, nil, Filters{StartDate: &start})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	end := time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC)
	_, total, err = repo.List(ctx, pagination.Params{}, nil, Filters{EndDate: &end})
	require.NoError(t, err)
	require.EqualValues(t, 2, total) // late evening on the end day still counts
}

func TestListSearchMatchesCodePDVAndAgent(t *testing.T) {
	f := newRecFixture(t)
	repo := NewRepository(f.db)
	ctx := context.Background()

	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	f.seedRec(t, "REC-AAAAAA", 5000, enums.RecouvrementStatusEnAttente, enums.MethodePaiementEspeces, base)

	for _, term := range []string{"rec-aaa", "cocody", "adjoua"} {
		_, total, err := repo.List(ctx, pagination.Params{}, nil, Filters{Search: term})
		require.NoError(t, err)
		require.EqualValues(t, 1, total, "search %q", term)
	}

	_, total, err := repo.List(ctx, pagination.Params{}, nil, Filters{Search: "yopougon"})
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
}

func TestCreatePersistsLignes(t *testing.T) {
	f := newRecFixture(t)
	repo := NewRepository(f.db)
	ctx := context.Background()

	now := time.Now().UTC()
	recID := uuid.New()
	rec := &models.Recouvrement{
		ID:              recID,
		Code:            "REC-CCCCCC",
		PointDeVenteID:  f.pdv.ID,
		AgentID:         f.agent.ID,
		Montant:         19000,
		TauxCommission:  decimal.New(200, -4),
		Commission:      380,
		MethodePaiement: enums.MethodePaiementOrangeMoney,
		Status:          enums.RecouvrementStatusEnAttente,
		Lignes: []models.LigneRecouvrement{
			{ID: uuid.New(), RecouvrementID: recID, NomProduit: "Coca 33cl", Categorie: enums.CategorieProduitBoissons, PrixUnitaire: 500, Quantite: 20, SousTotal: 10000},
			{ID: uuid.New(), RecouvrementID: recID, NomProduit: "Biscuits", Categorie: enums.CategorieProduitAlimentation, PrixUnitaire: 300, Quantite: 30, SousTotal: 9000},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, rec))

	loaded, err := repo.FindByID(ctx, recID, nil)
	require.NoError(t, err)
	require.Len(t, loaded.Lignes, 2)
	require.Equal(t, "Boutique Cocody", loaded.PointDeVente.Nom)
	require.Equal(t, "Adjoua Brou", loaded.Agent.Nom)
}

func TestTransitionStatusIsOneShot(t *testing.T) {
	f := newRecFixture(t)
	repo := NewRepository(f.db)
	ctx := context.Background()

	rec := f.seedRec(t, "REC-AAAAAA", 5000, enums.RecouvrementStatusEnAttente, enums.MethodePaiementEspeces, time.Now().UTC())

	now := time.Now().UTC()
	affected, err := repo.TransitionStatus(ctx, rec.ID, enums.RecouvrementStatusValide, &now)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	loaded, err := repo.FindByID(ctx, rec.ID, nil)
	require.NoError(t, err)
	require.Equal(t, enums.RecouvrementStatusValide, loaded.Status)
	require.NotNil(t, loaded.ValidatedAt)

	affected, err = repo.TransitionStatus(ctx, rec.ID, enums.RecouvrementStatusRejete, nil)
	require.NoError(t, err)
	require.EqualValues(t, 0, affected)
}

func TestTransitionStatusRejeteSkipsValidatedAt(t *testing.T) {
	f := newRecFixture(t)
	repo := NewRepository(f.db)
	ctx := context.Background()

	rec := f.seedRec(t, "REC-AAAAAA", 5000, enums.RecouvrementStatusEnAttente, enums.MethodePaiementEspeces, time.Now().UTC())

	affected, err := repo.TransitionStatus(ctx, rec.ID, enums.RecouvrementStatusRejete, nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	loaded, err := repo.FindByID(ctx, rec.ID, nil)
	require.NoError(t, err)
	require.Equal(t, enums.RecouvrementStatusRejete, loaded.Status)
	require.Nil(t, loaded.ValidatedAt)
}
