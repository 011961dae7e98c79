package rapports

import (
	"time"

	"github.com/google/uuid"

	"github.com/cafcollect/caf-backend/pkg/enums"
)

// DateRange bounds the aggregation window; nil means unbounded.
// Both ends are whole days, endDate inclusive.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Summary is the global admin report over the selected window.
type Summary struct {
	TotalRecouvrements     int64   `json:"totalRecouvrements"`
	MontantTotal           int64   `json:"montantTotal"`
	CommissionTotale       int64   `json:"commissionTotale"`
	RecouvrementsEnAttente int64   `json:"recouvrementsEnAttente"`
	RecouvrementsValides   int64   `json:"recouvrementsValides"`
	RecouvrementsRejetes   int64   `json:"recouvrementsRejetes"`
	TauxValidation         float64 `json:"tauxValidation"`
	PDVActifs              int64   `json:"pdvActifs"`
	AgentsActifs           int64   `json:"agentsActifs"`
}

// JourPoint is one day of collected revenue.
type JourPoint struct {
	Date    string `json:"date"`
	Montant int64  `json:"montant"`
	Count   int64  `json:"count"`
}

// CategorieItem aggregates line items by product category.
type CategorieItem struct {
	Categorie enums.CategorieProduit `json:"categorie"`
	Label     string                 `json:"label"`
	Quantite  int64                  `json:"quantiteTotale"`
	Montant   int64                  `json:"montantTotal"`
}

// MethodeItem aggregates collections by payment method.
type MethodeItem struct {
	Methode enums.MethodePaiement `json:"methode"`
	Label   string                `json:"label"`
	Count   int64                 `json:"count"`
	Total   int64                 `json:"total"`
}

// TopAgent ranks agents by collected amount.
type TopAgent struct {
	AgentID            uuid.UUID `json:"agentId"`
	Nom                string    `json:"nom"`
	TotalRecouvrements int64     `json:"totalRecouvrements"`
	MontantTotal       int64     `json:"montantTotal"`
	CommissionTotale   int64     `json:"commissionTotale"`
}

// TopPDV ranks points of sale by collected amount.
type TopPDV struct {
	PDVID              uuid.UUID `gorm:"column:pdv_id" json:"pdvId"`
	Nom                string    `json:"nom"`
	TotalRecouvrements int64     `json:"totalRecouvrements"`
	MontantTotal       int64     `json:"montantTotal"`
}

// RevenuePoint is one day of the admin dashboard revenue series.
type RevenuePoint struct {
	Date    string `json:"date"`
	Montant int64  `json:"montant"`
}

// RecentEntry is one of the latest collections shown on the dashboards.
// ArticlesSummary is only filled on the agent side.
type RecentEntry struct {
	ID              uuid.UUID                `json:"id"`
	Code            string                   `json:"code"`
	PointDeVenteNom string                   `json:"pointDeVenteNom"`
	AgentNom        string                   `json:"agentNom,omitempty"`
	ArticlesSummary string                   `json:"articlesSummary,omitempty"`
	Montant         int64                    `json:"montant"`
	MethodePaiement enums.MethodePaiement    `json:"methodePaiement"`
	Status          enums.RecouvrementStatus `json:"status"`
	CreatedAt       time.Time                `json:"createdAt"`
}

// MethodeSplit is the count/total pair keyed by payment method on the
// admin dashboard.
type MethodeSplit struct {
	Count int64 `json:"count"`
	Total int64 `json:"total"`
}

// DashboardTopAgent is the compact top-agents entry on the admin dashboard.
type DashboardTopAgent struct {
	Nom   string `json:"nom"`
	Total int64  `json:"total"`
}

// AdminDashboard is the all-time admin landing page payload.
type AdminDashboard struct {
	TotalRecouvrements int64                                  `json:"totalRecouvrements"`
	MontantTotal       int64                                  `json:"montantTotal"`
	CommissionTotale   int64                                  `json:"commissionTotale"`
	PDVActifs          int64                                  `json:"pdvActifs"`
	AgentsActifs       int64                                  `json:"agentsActifs"`
	TauxValidation     float64                                `json:"tauxValidation"`
	RevenueParJour     []RevenuePoint                         `json:"revenueParJour"`
	Recent             []RecentEntry                          `json:"recentRecouvrements"`
	ParMethode         map[enums.MethodePaiement]MethodeSplit `json:"parMethode"`
	TopAgents          []DashboardTopAgent                    `json:"topAgents"`
}

// AgentDashboard is the agent landing page payload.
type AgentDashboard struct {
	TotalRecouvrements     int64         `json:"totalRecouvrements"`
	MontantTotal           int64         `json:"montantTotal"`
	RecouvrementsEnAttente int64         `json:"recouvrementsEnAttente"`
	TotalPDV               int64         `json:"totalPDV"`
	Recent                 []RecentEntry `json:"recentRecouvrements"`
}
