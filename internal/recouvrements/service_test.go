package recouvrements

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/pagination"
)

type stubRecRepo struct {
	items           map[uuid.UUID]*models.Recouvrement
	transitionHits  int
	forcedAffected  *int64
	lastScope       *uuid.UUID
	lastFilters     Filters
	lastValidatedAt *time.Time
}

func newStubRecRepo() *stubRecRepo {
	return &stubRecRepo{items: map[uuid.UUID]*models.Recouvrement{}}
}

func (s *stubRecRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubRecRepo) List(_ context.Context, _ pagination.Params, scopeAgentID *uuid.UUID, filters Filters) ([]models.Recouvrement, int64, error) {
	s.lastScope = scopeAgentID
	s.lastFilters = filters
	out := make([]models.Recouvrement, 0, len(s.items))
	for _, item := range s.items {
		if scopeAgentID != nil && item.AgentID != *scopeAgentID {
			continue
		}
		out = append(out, *item)
	}
	return out, int64(len(out)), nil
}

func (s *stubRecRepo) FindByID(_ context.Context, id uuid.UUID, scopeAgentID *uuid.UUID) (*models.Recouvrement, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if scopeAgentID != nil && item.AgentID != *scopeAgentID {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *item
	return &clone, nil
}

func (s *stubRecRepo) CodeExists(_ context.Context, code string) (bool, error) {
	for _, item := range s.items {
		if item.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRecRepo) Create(_ context.Context, rec *models.Recouvrement) error {
	clone := *rec
	s.items[rec.ID] = &clone
	return nil
}

func (s *stubRecRepo) TransitionStatus(_ context.Context, id uuid.UUID, status enums.RecouvrementStatus, validatedAt *time.Time) (int64, error) {
	s.transitionHits++
	s.lastValidatedAt = validatedAt
	if s.forcedAffected != nil {
		return *s.forcedAffected, nil
	}
	item, ok := s.items[id]
	if !ok || item.Status != enums.RecouvrementStatusEnAttente {
		return 0, nil
	}
	item.Status = status
	item.ValidatedAt = validatedAt
	return 1, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubPDVFinder struct {
	pdvs map[uuid.UUID]*models.PointDeVente
}

func (s *stubPDVFinder) FindByID(_ context.Context, id uuid.UUID, _ *uuid.UUID) (*models.PointDeVente, error) {
	pdv, ok := s.pdvs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return pdv, nil
}

type stubRateProvider struct {
	rate decimal.Decimal
}

func (s *stubRateProvider) Get(_ context.Context) (*models.Settings, error) {
	return &models.Settings{ID: models.SettingsID, TauxCommission: s.rate}, nil
}

type recServiceFixture struct {
	repo  *stubRecRepo
	pdvs  *stubPDVFinder
	svc   Service
	agent uuid.UUID
	pdv   *models.PointDeVente
}

func newRecServiceFixture(t *testing.T, ratePercent string) *recServiceFixture {
	t.Helper()

	rate, err := decimal.NewFromString(ratePercent)
	require.NoError(t, err)

	agentID := uuid.New()
	pdv := &models.PointDeVente{
		ID:      uuid.New(),
		Code:    "CAF-AAAAAA",
		Nom:     "Boutique Cocody",
		Status:  enums.PDVStatusActif,
		AgentID: agentID,
	}
	repo := newStubRecRepo()
	pdvs := &stubPDVFinder{pdvs: map[uuid.UUID]*models.PointDeVente{pdv.ID: pdv}}

	svc, err := NewService(repo, stubTxRunner{}, pdvs, &stubRateProvider{rate: rate})
	require.NoError(t, err)

	return &recServiceFixture{repo: repo, pdvs: pdvs, svc: svc, agent: agentID, pdv: pdv}
}

func twoLineInput(pdvID uuid.UUID) CreateInput {
	return CreateInput{
		PointDeVenteID: pdvID,
		Lignes: []LigneInput{
			{NomProduit: "Coca 33cl", Categorie: enums.CategorieProduitBoissons, PrixUnitaire: 500, Quantite: 20},
			{NomProduit: "Biscuits", Categorie: enums.CategorieProduitAlimentation, PrixUnitaire: 300, Quantite: 30},
		},
		MethodePaiement: enums.MethodePaiementEspeces,
	}
}

func TestCreateComputesMontantAndCommission(t *testing.T) {
	f := newRecServiceFixture(t, "2.00")

	view, err := f.svc.Create(context.Background(), f.agent, twoLineInput(f.pdv.ID))
	require.NoError(t, err)
	require.EqualValues(t, 19000, view.Montant)
	require.EqualValues(t, 380, view.Commission)
	require.Equal(t, "0.0200", view.TauxCommission.StringFixed(4))
	require.Equal(t, enums.RecouvrementStatusEnAttente, view.Status)
	require.Contains(t, view.Code, "REC-")
	require.Len(t, view.Lignes, 2)
	require.EqualValues(t, 10000, view.Lignes[0].SousTotal)
	require.Equal(t, "2 articles - Coca 33cl, Biscuits", view.ArticlesSummary)
	require.Nil(t, view.ValidatedAt)
}

func TestCreateRoundsCommission(t *testing.T) {
	f := newRecServiceFixture(t, "2.00")

	// 1539 * 0.02 = 30.78 rounds up to 31
	view, err := f.svc.Create(context.Background(), f.agent, CreateInput{
		PointDeVenteID: f.pdv.ID,
		Lignes: []LigneInput{
			{NomProduit: "Savon", Categorie: enums.CategorieProduitAutre, PrixUnitaire: 1539, Quantite: 1},
		},
		MethodePaiement: enums.MethodePaiementMTNMomo,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1539, view.Montant)
	require.EqualValues(t, 31, view.Commission)
}

func TestCreateUnknownPDV(t *testing.T) {
	f := newRecServiceFixture(t, "2.00")

	_, err := f.svc.Create(context.Background(), f.agent, twoLineInput(uuid.New()))
	require.Error(t, err)

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	require.Equal(t, "Point de vente introuvable", typed.Message())
}

func TestCreateRejectsForeignPDV(t *testing.T) {
	f := newRecServiceFixture(t, "2.00")

	_, err := f.svc.Create(context.Background(), uuid.New(), twoLineInput(f.pdv.ID))
	require.Error(t, err)

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, pkgerrors.CodeForbidden, typed.Code())
	require.Equal(t, "Le point de vente ne vous est pas attribue", typed.Message())
}

func TestCreateRejectsInactivePDV(t *testing.T) {
	f := newRecServiceFixture(t, "2.00")
	f.pdv.Status = enums.PDVStatusEnAttente

	_, err := f.svc.Create(context.Background(), f.agent, twoLineInput(f.pdv.ID))
	require.Error(t, err)

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, pkgerrors.CodeUnprocessable, typed.Code())
	require.Equal(t, "Le point de vente n'est pas actif", typed.Message())
}

func TestUpdateStatusValideStampsValidatedAt(t *testing.T) {
	f := newRecServiceFixture(t, "2.00")

	created, err := f.svc.Create(context.Background(), f.agent, twoLineInput(f.pdv.ID))
	require.NoError(t, err)

	view, err := f.svc.UpdateStatus(context.Background(), created.ID, StatusInput{Status: enums.RecouvrementStatusValide})
	require.NoError(t, err)
	require.Equal(t, enums.RecouvrementStatusValide, view.Status)
	require.NotNil(t, view.ValidatedAt)
}

func TestUpdateStatusRejeteLeavesValidatedAtNil(t *testing.T) {
	f := newRecServiceFixture(t, "2.00")

	created, err := f.svc.Create(context.Background(), f.agent, twoLineInput(f.pdv.ID))
	require.NoError(t, err)

	view, err := f.svc.UpdateStatus(context.Background(), created.ID, StatusInput{Status: enums.RecouvrementStatusRejete})
	require.NoError(t, err)
	require.Equal(t, enums.RecouvrementStatusRejete, view.Status)
	require.Nil(t, view.ValidatedAt)
	require.Nil(t, f.repo.lastValidatedAt)
}

func TestUpdateStatusIsOneShot(t *testing.T) {
	f := newRecServiceFixture(t, "2.00")

	created, err := f.svc.Create(context.Background(), f.agent, twoLineInput(f.pdv.ID))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), created.ID, StatusInput{Status: enums.RecouvrementStatusValide})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), created.ID, StatusInput{Status: enums.RecouvrementStatusRejete})
	require.Error(t, err)

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, pkgerrors.CodeStatusConflict, typed.Code())
	require.Equal(t, "Ce recouvrement a deja ete traite", typed.Message())
}

func TestUpdateStatusLosesRace(t *testing.T) {
	f := newRecServiceFixture(t, "2.00")

	created, err := f.svc.Create(context.Background(), f.agent, twoLineInput(f.pdv.ID))
	require.NoError(t, err)

	// the read sees EN_ATTENTE but the conditional write finds it gone
	var zero int64
	f.repo.forcedAffected = &zero

	_, err = f.svc.UpdateStatus(context.Background(), created.ID, StatusInput{Status: enums.RecouvrementStatusValide})
	require.Error(t, err)

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, pkgerrors.CodeStatusConflict, typed.Code())
}

func TestUpdateStatusUnknownID(t *testing.T) {
	f := newRecServiceFixture(t, "2.00")

	_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), StatusInput{Status: enums.RecouvrementStatusValide})
	require.Error(t, err)

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	require.Equal(t, "Recouvrement introuvable", typed.Message())
}

func TestListAgentScopeOverridesFilter(t *testing.T) {
	f := newRecServiceFixture(t, "2.00")

	_, err := f.svc.Create(context.Background(), f.agent, twoLineInput(f.pdv.ID))
	require.NoError(t, err)

	other := uuid.New()
	_, total, err := f.svc.List(context.Background(), Actor{UserID: f.agent, Role: enums.UserRoleAgent}, pagination.Params{}, Filters{AgentID: &other})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.NotNil(t, f.repo.lastScope)
	require.Equal(t, f.agent, *f.repo.lastScope)
	require.Nil(t, f.repo.lastFilters.AgentID)
}

func TestGetScopedToAgent(t *testing.T) {
	f := newRecServiceFixture(t, "2.00")

	created, err := f.svc.Create(context.Background(), f.agent, twoLineInput(f.pdv.ID))
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleAgent}, created.ID)
	require.Error(t, err)

	var typed *pkgerrors.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	view, err := f.svc.Get(context.Background(), Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.ID, view.ID)
}
