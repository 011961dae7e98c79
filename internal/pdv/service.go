package pdv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/codes"
	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/pagination"
)

// Service defines the PDV operations.
type Service interface {
	List(ctx context.Context, actor Actor, params pagination.Params, filters Filters) ([]View, int64, error)
	Get(ctx context.Context, actor Actor, id uuid.UUID) (*View, error)
	Create(ctx context.Context, actor Actor, input CreateInput) (*View, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	agents AgentChecker
}

// NewService builds the PDV service.
func NewService(repo Repository, agents AgentChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pdv repository required")
	}
	if agents == nil {
		return nil, fmt.Errorf("agent checker required")
	}
	return &service{repo: repo, agents: agents}, nil
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
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pdv")
	}
	return NewViews(items), total, nil
}

func (s *service) Get(ctx context.Context, actor Actor, id uuid.UUID) (*View, error) {
	pdv, err := s.repo.FindByID(ctx, id, s.scope(actor))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Point de vente introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pdv")
	}
	view := NewView(*pdv)
	return &view, nil
}

func (s *service) Create(ctx context.Context, actor Actor, input CreateInput) (*View, error) {
	var agentID uuid.UUID
	status := enums.PDVStatusEnAttente

	if actor.IsAgent() {
		agentID = actor.UserID
	} else {
		if input.AgentID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "L'agentId est requis")
		}
		agent, err := s.agents.FindByID(ctx, *input.AgentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "Agent introuvable")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
		}
		if agent.Role != enums.UserRoleAgent || !agent.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "L'utilisateur designe doit etre un agent actif")
		}
		agentID = agent.ID
		if input.Status != nil {
			status = *input.Status
		}
	}

	code, err := codes.Generate(ctx, codes.PrefixPDV, s.repo.CodeExists)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate code")
	}

	ville := "Abidjan"
	if input.Ville != nil && *input.Ville != "" {
		ville = *input.Ville
	}

	now := time.Now().UTC()
	pdv := &models.PointDeVente{
		ID:                    uuid.New(),
		Code:                  code,
		Nom:                   input.Nom,
		Adresse:               emptyToNil(input.Adresse),
		Ville:                 ville,
		Commune:               input.Commune,
		ProprietaireNom:       input.ProprietaireNom,
		ProprietaireTelephone: emptyToNil(input.ProprietaireTelephone),
		Status:                status,
		AgentID:               agentID,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if _, err := s.repo.Create(ctx, pdv); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pdv")
	}

	created, err := s.repo.FindByID(ctx, pdv.ID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload pdv")
	}
	view := NewView(*created)
	return &view, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*View, error) {
	pdv, err := s.repo.FindByID(ctx, id, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Point de vente introuvable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pdv")
	}

	updates := map[string]any{}
	if input.Nom != nil {
		updates["nom"] = *input.Nom
	}
	if input.Adresse != nil {
		updates["adresse"] = emptyToNil(input.Adresse)
	}
	if input.Ville != nil {
		updates["ville"] = *input.Ville
	}
	if input.Commune != nil {
		updates["commune"] = *input.Commune
	}
	if input.ProprietaireNom != nil {
		updates["proprietaire_nom"] = *input.ProprietaireNom
	}
	if input.ProprietaireTelephone != nil {
		updates["proprietaire_telephone"] = emptyToNil(input.ProprietaireTelephone)
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.AgentID != nil {
		agent, err := s.agents.FindByID(ctx, *input.AgentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "Agent introuvable")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
		}
		if agent.Role != enums.UserRoleAgent || !agent.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "L'utilisateur designe doit etre un agent actif")
		}
		updates["agent_id"] = agent.ID
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if err := s.repo.Update(ctx, pdv.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pdv")
		}
	}

	updated, err := s.repo.FindByID(ctx, pdv.ID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload pdv")
	}
	view := NewView(*updated)
	return &view, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	pdv, err := s.repo.FindByID(ctx, id, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "Point de vente introuvable")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pdv")
	}

	has, err := s.repo.HasRecouvrements(ctx, pdv.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check recouvrements")
	}
	if has {
		return pkgerrors.New(pkgerrors.CodeConflict, "Ce point de vente a des recouvrements associes et ne peut pas etre supprime")
	}

	if err := s.repo.Delete(ctx, pdv.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete pdv")
	}
	return nil
}

func emptyToNil(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}
