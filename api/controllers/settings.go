package controllers

import (
	"net/http"

	"github.com/cafcollect/caf-backend/api/middleware"
	"github.com/cafcollect/caf-backend/api/responses"
	"github.com/cafcollect/caf-backend/api/validators"
	"github.com/cafcollect/caf-backend/internal/settings"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/logger"
)

// SettingsGet wires GET /settings.
func SettingsGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		current, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, current)
	}
}

// SettingsUpdateCommission wires PATCH /settings/commission; admins only.
func SettingsUpdateCommission(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body settings.CommissionInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateCommission(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// SettingsUpdateProfile wires PATCH /settings/profile; the caller
// edits their own account.
func SettingsUpdateProfile(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "settings service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body settings.ProfileInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateProfile(r.Context(), middleware.UserIDFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}
