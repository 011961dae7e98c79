package recouvrements

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/codes"
	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/pagination"
)

// Service defines the recouvrement operations.
type Service interface {
	List(ctx context.Context, actor Actor, params pagination.Params, filters Filters) ([]View, int64, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*View, error)
	Create(ctx context.Context, agentID uuid.UUID, input CreateInput) (*View, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, input StatusInput) (*View, error)
}

type service struct {
	repo  Repository
	tx    TxRunner
	pdvs  PDVFinder
	rates RateProvider
}

// NewService builds the recouvrement service.
func NewService(repo Repository, tx TxRunner, pdvs PDVFinder, rates RateProvider) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("recouvrement repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if pdvs == nil {
		return nil, fmt.Errorf("pdv finder required")
	}
	if rates == nil {
		return nil, fmt.Errorf("rate provider required")
	}
	return &service{repo: repo, tx: tx, pdvs: pdvs, rates: rates}, nil
}

func (s *service) scope(actor Actor) *uuid.UUID {
	if actor.IsAgent() {
		id := actor.UserID
		return &id
	}
	return nil
}

func (s *service) List(ctx context.Context, actor Actor, params pagination.Params, filters Filters) ([]View, int64, error) {
	if actor.IsAgent() {
		// agents cannot widen the scope to other agents
		filters.AgentID = nil
	}
	items, total, err := s.repo.List(ctx, params, s.scope(actor), filters)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recouvrements")
	}
	return NewViews(items), total, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*View, error) {
	rec, err := s.repo.FindByID(ctx, id, s.scope(actor))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Recouvrement introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recouvrement")
	}
	view := NewView(*rec)
	return &view, nil
}

func (s *service) Create(ctx context.Context, agentID uuid.UUID, input CreateInput) (*View, error) {
	pdv, err := s.pdvs.FindByID(ctx, input.PointDeVenteID, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Point de vente introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pdv")
	}
	if pdv.AgentID != agentID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "Le point de vente ne vous est pas attribue")
	}
	if pdv.Status != enums.PDVStatusActif {
		return nil, pkgerrors.New(pkgerrors.CodeUnprocessable, "Le point de vente n'est pas actif")
	}

	settings, err := s.rates.Get(ctx)
	if err != nil {
		return nil, err
	}
	// taux 2.00 (percent) becomes the stored fraction 0.0200
	taux := settings.TauxCommission.Shift(-2)

	recID := uuid.New()
	var montant int64
	lignes := make([]models.LigneRecouvrement, 0, len(input.Lignes))
	for _, l := range input.Lignes {
		sousTotal := l.PrixUnitaire * l.Quantite
		montant += sousTotal
		lignes = append(lignes, models.LigneRecouvrement{
			ID:             uuid.New(),
			RecouvrementID: recID,
			NomProduit:     l.NomProduit,
			Categorie:      l.Categorie,
			PrixUnitaire:   l.PrixUnitaire,
			Quantite:       l.Quantite,
			SousTotal:      sousTotal,
		})
	}

	// round half away from zero on the exact decimal product
	commission := decimal.NewFromInt(montant).Mul(taux).Round(0).IntPart()

	code, err := codes.Generate(ctx, codes.PrefixRecouvrement, s.repo.CodeExists)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate code")
	}

	now := time.Now().UTC()
	rec := &models.Recouvrement{
		ID:              recID,
		Code:            code,
		PointDeVenteID:  pdv.ID,
		AgentID:         agentID,
		Montant:         montant,
		TauxCommission:  taux,
		Commission:      commission,
		MethodePaiement: input.MethodePaiement,
		Status:          enums.RecouvrementStatusEnAttente,
		Reference:       emptyToNil(input.Reference),
		Notes:           emptyToNil(input.Notes),
		Lignes:          lignes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// header and lines land atomically or not at all
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, rec)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create recouvrement")
	}

	created, err := s.repo.FindByID(ctx, rec.ID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload recouvrement")
	}
	view := NewView(*created)
	return &view, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, input StatusInput) (*View, error) {
	rec, err := s.repo.FindByID(ctx, id, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Recouvrement introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recouvrement")
	}
	if rec.Status != enums.RecouvrementStatusEnAttente {
		return nil, pkgerrors.New(pkgerrors.CodeStatusConflict, "Ce recouvrement a deja ete traite")
	}

	var validatedAt *time.Time
	if input.Status == enums.RecouvrementStatusValide {
		now := time.Now().UTC()
		validatedAt = &now
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.repo.WithTx(tx).TransitionStatus(ctx, id, input.Status, validatedAt)
		if err != nil {
			return err
		}
		if affected == 0 {
			// another admin won the race between our read and this write
			return pkgerrors.New(pkgerrors.CodeStatusConflict, "Ce recouvrement a deja ete traite")
		}
		return nil
	})
	if err != nil {
		var typed *pkgerrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition status")
	}

	updated, err := s.repo.FindByID(ctx, id, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload recouvrement")
	}
	view := NewView(*updated)
	return &view, nil
}

func emptyToNil(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}
