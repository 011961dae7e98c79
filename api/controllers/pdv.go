package controllers

import (
	"net/http"

	"github.com/cafcollect/caf-backend/api/middleware"
	"github.com/cafcollect/caf-backend/api/responses"
	"github.com/cafcollect/caf-backend/api/validators"
	"github.com/cafcollect/caf-backend/internal/pdv"
	"github.com/cafcollect/caf-backend/pkg/enums"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/logger"
)

func pdvActor(r *http.Request) pdv.Actor {
	return pdv.Actor{
		UserID: middleware.UserIDFromContext(r.Context()),
		Role:   middleware.RoleFromContext(r.Context()),
	}
}

func parsePDVFilters(r *http.Request) (pdv.Filters, error) {
	var filters pdv.Filters

	rawStatus, err := validators.ParseQueryEnum(r, "status",
		string(enums.PDVStatusActif), string(enums.PDVStatusInactif), string(enums.PDVStatusEnAttente))
	if err != nil {
		return filters, err
	}
	if rawStatus != "" {
		status := enums.PDVStatus(rawStatus)
		filters.Status = &status
	}

	agentID, err := validators.ParseQueryUUID(r, "agentId")
	if err != nil {
		return filters, err
	}
	filters.AgentID = agentID
	filters.Commune = r.URL.Query().Get("commune")
	filters.Search = r.URL.Query().Get("search")
	return filters, nil
}

// PDVList wires GET /pdv.
func PDVList(svc pdv.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "pdv service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := parsePDVFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, total, err := svc.List(r.Context(), pdvActor(r), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		normalized := params.Normalize()
		responses.WritePage(w, items, total, normalized.Page, normalized.PageSize)
	}
}

// PDVGet wires GET /pdv/{id}.
func PDVGet(svc pdv.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "pdv service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parsePathID(r, "Point de vente introuvable")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), pdvActor(r), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// PDVCreate wires POST /pdv.
func PDVCreate(svc pdv.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "pdv service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body pdv.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), pdvActor(r), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// PDVUpdate wires PATCH /pdv/{id}.
func PDVUpdate(svc pdv.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "pdv service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parsePathID(r, "Point de vente introuvable")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body pdv.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// PDVDelete wires DELETE /pdv/{id}.
func PDVDelete(svc pdv.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "pdv service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parsePathID(r, "Point de vente introuvable")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "Point de vente supprime"})
	}
}
