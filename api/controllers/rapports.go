package controllers

import (
	"net/http"

	"github.com/cafcollect/caf-backend/api/middleware"
	"github.com/cafcollect/caf-backend/api/responses"
	"github.com/cafcollect/caf-backend/api/validators"
	"github.com/cafcollect/caf-backend/internal/rapports"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/logger"
)

func parseDateRange(r *http.Request) (rapports.DateRange, error) {
	var window rapports.DateRange

	start, err := validators.ParseQueryDate(r, "startDate")
	if err != nil {
		return window, err
	}
	window.Start = start

	end, err := validators.ParseQueryDate(r, "endDate")
	if err != nil {
		return window, err
	}
	window.End = end
	return window, nil
}

// listPayload is the {data: [...]} wrapper used by the report endpoints.
type listPayload struct {
	Data any `json:"data"`
}

// RapportsSummary wires GET /rapports/summary.
func RapportsSummary(svc rapports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rapports service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		window, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Summary(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

// RapportsParJour wires GET /rapports/par-jour.
func RapportsParJour(svc rapports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rapports service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		window, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		points, err := svc.ParJour(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listPayload{Data: points})
	}
}

// RapportsParCategorie wires GET /rapports/par-categorie.
func RapportsParCategorie(svc rapports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rapports service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		window, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ParCategorie(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listPayload{Data: items})
	}
}

// RapportsParMethode wires GET /rapports/par-methode.
func RapportsParMethode(svc rapports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rapports service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		window, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ParMethode(r.Context(), window)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listPayload{Data: items})
	}
}

// RapportsTopAgents wires GET /rapports/top-agents.
func RapportsTopAgents(svc rapports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rapports service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		window, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", rapports.DefaultTopLimit, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.TopAgents(r.Context(), window, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listPayload{Data: items})
	}
}

// RapportsTopPDVs wires GET /rapports/top-pdvs.
func RapportsTopPDVs(svc rapports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rapports service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		window, err := parseDateRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", rapports.DefaultTopLimit, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.TopPDVs(r.Context(), window, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listPayload{Data: items})
	}
}

// AdminStats wires GET /admin/stats, the admin landing dashboard.
func AdminStats(svc rapports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rapports service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dash, err := svc.AdminDashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dash)
	}
}

// AgentStats wires GET /agent/stats, the agent landing dashboard.
func AgentStats(svc rapports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "rapports service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dash, err := svc.AgentDashboard(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, dash)
	}
}
