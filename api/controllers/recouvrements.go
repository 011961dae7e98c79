package controllers

import (
	"net/http"

	"github.com/cafcollect/caf-backend/api/middleware"
	"github.com/cafcollect/caf-backend/api/responses"
	"github.com/cafcollect/caf-backend/api/validators"
	"github.com/cafcollect/caf-backend/internal/recouvrements"
	"github.com/cafcollect/caf-backend/pkg/enums"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/logger"
)

func recActor(r *http.Request) recouvrements.Actor {
	return recouvrements.Actor{
		UserID: middleware.UserIDFromContext(r.Context()),
		Role:   middleware.RoleFromContext(r.Context()),
	}
}

func parseRecFilters(r *http.Request) (recouvrements.Filters, error) {
	var filters recouvrements.Filters

	rawStatus, err := validators.ParseQueryEnum(r, "status",
		string(enums.RecouvrementStatusEnAttente), string(enums.RecouvrementStatusValide), string(enums.RecouvrementStatusRejete))
	if err != nil {
		return filters, err
	}
	if rawStatus != "" {
		status := enums.RecouvrementStatus(rawStatus)
		filters.Status = &status
	}

	rawMethode, err := validators.ParseQueryEnum(r, "methode",
		string(enums.MethodePaiementMTNMomo), string(enums.MethodePaiementOrangeMoney), string(enums.MethodePaiementEspeces))
	if err != nil {
		return filters, err
	}
	if rawMethode != "" {
		methode := enums.MethodePaiement(rawMethode)
		filters.Methode = &methode
	}

	rawCategorie, err := validators.ParseQueryEnum(r, "categorie",
		string(enums.CategorieProduitBoissons), string(enums.CategorieProduitAlimentation),
		string(enums.CategorieProduitHabillement), string(enums.CategorieProduitElectronique),
		string(enums.CategorieProduitAutre))
	if err != nil {
		return filters, err
	}
	if rawCategorie != "" {
		categorie := enums.CategorieProduit(rawCategorie)
		filters.Categorie = &categorie
	}

	pdvID, err := validators.ParseQueryUUID(r, "pdvId")
	if err != nil {
		return filters, err
	}
	filters.PDVID = pdvID

	agentID, err := validators.ParseQueryUUID(r, "agentId")
	if err != nil {
		return filters, err
	}
	filters.AgentID = agentID

	startDate, err := validators.ParseQueryDate(r, "startDate")
	if err != nil {
		return filters, err
	}
	filters.StartDate = startDate

	endDate, err := validators.ParseQueryDate(r, "endDate")
	if err != nil {
		return filters, err
	}
	filters.EndDate = endDate

	filters.Search = r.URL.Query().Get("search")

	sort, err := validators.ParseQueryEnum(r, "sort", "createdAt", "montant", "status", "code")
	if err != nil {
		return filters, err
	}
	filters.Sort = sort

	order, err := validators.ParseQueryEnum(r, "order", "asc", "desc")
	if err != nil {
		return filters, err
	}
	filters.Order = order

	return filters, nil
}

// RecouvrementsList wires GET /recouvrements.
func RecouvrementsList(svc recouvrements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "recouvrements service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := parseRecFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, total, err := svc.List(r.Context(), recActor(r), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		normalized := params.Normalize()
		responses.WritePage(w, items, total, normalized.Page, normalized.PageSize)
	}
}

// RecouvrementsGet wires GET /recouvrements/{id}.
func RecouvrementsGet(svc recouvrements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "recouvrements service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parsePathID(r, "Recouvrement introuvable")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), recActor(r), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// RecouvrementsCreate wires POST /recouvrements; agents only.
func RecouvrementsCreate(svc recouvrements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "recouvrements service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body recouvrements.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), middleware.UserIDFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// RecouvrementsUpdateStatus wires PATCH /recouvrements/{id}/status;
// admins only, one shot.
func RecouvrementsUpdateStatus(svc recouvrements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "recouvrements service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parsePathID(r, "Recouvrement introuvable")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body recouvrements.StatusInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateStatus(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}
