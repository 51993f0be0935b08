package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/peoplehq/workday-backend-go/internal/domain/employee"
	"github.com/peoplehq/workday-backend-go/internal/handler/http/response"
)

// RequireRole gates a route group to the named roles.
func RequireRole(roles ...employee.Role) func(http.Handler) http.Handler {
	allowed := make(map[employee.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, "Invalid token")
				return
			}

			role, ok := claims["role"].(string)
			if !ok || !allowed[employee.Role(role)] {
				response.Forbidden(w, "Insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(employee.RoleAdmin)(next)
}

func ManagerOrAdmin(next http.Handler) http.Handler {
	return RequireRole(employee.RoleManager, employee.RoleAdmin)(next)
}
