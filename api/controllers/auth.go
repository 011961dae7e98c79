package controllers

import (
	"net/http"

	"github.com/cafcollect/caf-backend/api/responses"
	"github.com/cafcollect/caf-backend/api/validators"
	"github.com/cafcollect/caf-backend/internal/auth"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/logger"
)

// AuthLogin wires the login endpoint into the HTTP layer.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body auth.LoginInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AuthLogout acknowledges the logout. Tokens are stateless, so there is
// nothing to revoke server side; the client drops its copy.
func AuthLogout() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		responses.WriteSuccess(w, map[string]string{"message": "Deconnexion reussie"})
	}
}
