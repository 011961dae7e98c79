package rapports

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/cafcollect/caf-backend/pkg/db/models"
	"github.com/cafcollect/caf-backend/pkg/enums"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
)

// DefaultTopLimit bounds the top-agents/top-pdvs rankings when no limit
// is supplied.
const DefaultTopLimit = 10

const dashboardRecentLimit = 5

const dashboardRevenueDays = 14

// Service defines the reporting operations.
type Service interface {
	Summary(ctx context.Context, window DateRange) (*Summary, error)
	ParJour(ctx context.Context, window DateRange) ([]JourPoint, error)
	ParCategorie(ctx context.Context, window DateRange) ([]CategorieItem, error)
	ParMethode(ctx context.Context, window DateRange) ([]MethodeItem, error)
	TopAgents(ctx context.Context, window DateRange, limit int) ([]TopAgent, error)
	TopPDVs(ctx context.Context, window DateRange, limit int) ([]TopPDV, error)
	AdminDashboard(ctx context.Context) (*AdminDashboard, error)
	AgentDashboard(ctx context.Context, agentID uuid.UUID) (*AgentDashboard, error)
}

type service struct {
	repo Repository
}

// NewService builds the reporting service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rapports repository required")
	}
	return &service{repo: repo}, nil
}

// tauxValidation is the share of resolved collections that were
// validated, in percent with two decimals. Zero when nothing is resolved.
func tauxValidation(valides, rejetes int64) float64 {
	resolus := valides + rejetes
	if resolus == 0 {
		return 0
	}
	return math.Round(float64(valides)/float64(resolus)*100*100) / 100
}

func (s *service) Summary(ctx context.Context, window DateRange) (*Summary, error) {
	totals, err := s.repo.Totals(ctx, window, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate totals")
	}
	pdvActifs, err := s.repo.CountActivePDV(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active pdv")
	}
	agentsActifs, err := s.repo.CountActiveAgents(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active agents")
	}

	return &Summary{
		TotalRecouvrements:     totals.Total,
		MontantTotal:           totals.Montant,
		CommissionTotale:       totals.Commission,
		RecouvrementsEnAttente: totals.EnAttente,
		RecouvrementsValides:   totals.Valides,
		RecouvrementsRejetes:   totals.Rejetes,
		TauxValidation:         tauxValidation(totals.Valides, totals.Rejetes),
		PDVActifs:              pdvActifs,
		AgentsActifs:           agentsActifs,
	}, nil
}

func (s *service) ParJour(ctx context.Context, window DateRange) ([]JourPoint, error) {
	points, err := s.repo.ParJour(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate per day")
	}
	if points == nil {
		points = []JourPoint{}
	}
	return points, nil
}

func (s *service) ParCategorie(ctx context.Context, window DateRange) ([]CategorieItem, error) {
	items, err := s.repo.ParCategorie(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate per category")
	}
	if items == nil {
		items = []CategorieItem{}
	}
	return items, nil
}

func (s *service) ParMethode(ctx context.Context, window DateRange) ([]MethodeItem, error) {
	items, err := s.repo.ParMethode(ctx, window)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate per method")
	}
	if items == nil {
		items = []MethodeItem{}
	}
	return items, nil
}

func (s *service) TopAgents(ctx context.Context, window DateRange, limit int) ([]TopAgent, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	items, err := s.repo.TopAgents(ctx, window, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank agents")
	}
	if items == nil {
		items = []TopAgent{}
	}
	return items, nil
}

func (s *service) TopPDVs(ctx context.Context, window DateRange, limit int) ([]TopPDV, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	items, err := s.repo.TopPDVs(ctx, window, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank pdv")
	}
	if items == nil {
		items = []TopPDV{}
	}
	return items, nil
}

func recentEntries(items []models.Recouvrement, forAgent bool) []RecentEntry {
	entries := make([]RecentEntry, 0, len(items))
	for _, rec := range items {
		entry := RecentEntry{
			ID:              rec.ID,
			Code:            rec.Code,
			Montant:         rec.Montant,
			MethodePaiement: rec.MethodePaiement,
			Status:          rec.Status,
			CreatedAt:       rec.CreatedAt,
		}
		if rec.PointDeVente != nil {
			entry.PointDeVenteNom = rec.PointDeVente.Nom
		}
		if forAgent {
			entry.ArticlesSummary = rec.ArticlesSummary()
		} else if rec.Agent != nil {
			entry.AgentNom = rec.Agent.Nom
		}
		entries = append(entries, entry)
	}
	return entries
}

func (s *service) AdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	totals, err := s.repo.Totals(ctx, DateRange{}, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate totals")
	}
	pdvActifs, err := s.repo.CountActivePDV(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active pdv")
	}
	agentsActifs, err := s.repo.CountActiveAgents(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active agents")
	}

	since := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -dashboardRevenueDays)
	daily, err := s.repo.ParJour(ctx, DateRange{Start: &since})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate revenue per day")
	}
	revenue := make([]RevenuePoint, 0, len(daily))
	for _, point := range daily {
		revenue = append(revenue, RevenuePoint{Date: point.Date, Montant: point.Montant})
	}

	recent, err := s.repo.Recent(ctx, nil, dashboardRecentLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent recouvrements")
	}

	methodes, err := s.repo.ParMethode(ctx, DateRange{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate per method")
	}
	parMethode := make(map[enums.MethodePaiement]MethodeSplit, len(methodes))
	for _, item := range methodes {
		parMethode[item.Methode] = MethodeSplit{Count: item.Count, Total: item.Total}
	}

	top, err := s.repo.TopAgents(ctx, DateRange{}, dashboardRecentLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rank agents")
	}
	topAgents := make([]DashboardTopAgent, 0, len(top))
	for _, agent := range top {
		topAgents = append(topAgents, DashboardTopAgent{Nom: agent.Nom, Total: agent.MontantTotal})
	}

	return &AdminDashboard{
		TotalRecouvrements: totals.Total,
		MontantTotal:       totals.Montant,
		CommissionTotale:   totals.Commission,
		PDVActifs:          pdvActifs,
		AgentsActifs:       agentsActifs,
		TauxValidation:     tauxValidation(totals.Valides, totals.Rejetes),
		RevenueParJour:     revenue,
		Recent:             recentEntries(recent, false),
		ParMethode:         parMethode,
		TopAgents:          topAgents,
	}, nil
}

func (s *service) AgentDashboard(ctx context.Context, agentID uuid.UUID) (*AgentDashboard, error) {
	totals, err := s.repo.Totals(ctx, DateRange{}, &agentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate totals")
	}
	totalPDV, err := s.repo.CountPDVForAgent(ctx, agentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pdv")
	}
	recent, err := s.repo.Recent(ctx, &agentID, dashboardRecentLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent recouvrements")
	}

	return &AgentDashboard{
		TotalRecouvrements:     totals.Total,
		MontantTotal:           totals.Montant,
		RecouvrementsEnAttente: totals.EnAttente,
		TotalPDV:               totalPDV,
		Recent:                 recentEntries(recent, true),
	}, nil
}
