package rapports

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cafcollect/caf-backend/pkg/db/models"
)

// totalsRow carries the shared count/sum aggregate over recouvrements.
type totalsRow struct {
	Total      int64
	Montant    int64
	Commission int64
	EnAttente  int64
	Valides    int64
	Rejetes    int64
}

// Repository defines the reporting aggregations. Everything reads the
// recouvrements tables; nothing here writes.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Totals(ctx context.Context, window DateRange, agentID *uuid.UUID) (*totalsRow, error)
	ParJour(ctx context.Context, window DateRange) ([]JourPoint, error)
	ParCategorie(ctx context.Context, window DateRange) ([]CategorieItem, error)
	ParMethode(ctx context.Context, window DateRange) ([]MethodeItem, error)
	TopAgents(ctx context.Context, window DateRange, limit int) ([]TopAgent, error)
	TopPDVs(ctx context.Context, window DateRange, limit int) ([]TopPDV, error)
	Recent(ctx context.Context, agentID *uuid.UUID, limit int) ([]models.Recouvrement, error)
	CountActivePDV(ctx context.Context) (int64, error)
	CountActiveAgents(ctx context.Context) (int64, error)
	CountPDVForAgent(ctx context.Context, agentID uuid.UUID) (int64, error)
}
