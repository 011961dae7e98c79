package middleware

import (
	"net/http"

	"github.com/cafcollect/caf-backend/api/responses"
	"github.com/cafcollect/caf-backend/pkg/enums"
	pkgerrors "github.com/cafcollect/caf-backend/pkg/errors"
	"github.com/cafcollect/caf-backend/pkg/logger"
)

func RequireRole(role enums.UserRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "acces reserve"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is shorthand for the admin-only route groups.
func RequireAdmin(logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireRole(enums.UserRoleAdmin, logg)
}
