package controllers

import (
	"net/http"

	"github.com/cafcollect/caf-backend/api/responses"
	"github.com/cafcollect/caf-backend/api/validators"
	"github.com/cafcollect/caf-backend/internal/users"
	"github.com/cafcollect/caf-backend/pkg/enums"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/logger"
)

func parseUserFilters(r *http.Request) (users.Filters, error) {
	var filters users.Filters

	rawRole, err := validators.ParseQueryEnum(r, "role", string(enums.UserRoleAdmin), string(enums.UserRoleAgent))
	if err != nil {
		return filters, err
	}
	if rawRole != "" {
		role := enums.UserRole(rawRole)
		filters.Role = &role
	}

	isActive, err := validators.ParseQueryBool(r, "isActive")
	if err != nil {
		return filters, err
	}
	filters.IsActive = isActive
	filters.Search = r.URL.Query().Get("search")
	return filters, nil
}

// UsersList wires GET /users.
func UsersList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params, err := parsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filters, err := parseUserFilters(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, total, err := svc.List(r.Context(), params, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		normalized := params.Normalize()
		responses.WritePage(w, items, total, normalized.Page, normalized.PageSize)
	}
}

// UsersGet wires GET /users/{id}.
func UsersGet(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parsePathID(r, "Utilisateur introuvable")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// UsersCreate wires POST /users.
func UsersCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body users.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// UsersUpdate wires PATCH /users/{id}.
func UsersUpdate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parsePathID(r, "Utilisateur introuvable")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body users.UpdateInput
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

// UsersDeactivate wires DELETE /users/{id}; it soft-deletes by
// flipping is_active.
func UsersDeactivate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "users service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := parsePathID(r, "Utilisateur introuvable")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"message": "Utilisateur desactive"})
	}
}
