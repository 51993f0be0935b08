package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/peoplehq/workday-backend-go/internal/domain/employee"
)

var errNoEmployeeContext = errors.New("token carries no employee context")

// identity is the authenticated caller decoded from the access token.
type identity struct {
	UserID     string
	EmployeeID string
	Role       employee.Role
}

func identityFromRequest(r *http.Request) (identity, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return identity{}, err
	}

	id := identity{}
	if v, ok := claims["user_id"].(string); ok {
		id.UserID = v
	}
	if v, ok := claims["employee_id"].(string); ok {
		id.EmployeeID = v
	}
	if v, ok := claims["role"].(string); ok {
		id.Role = employee.Role(v)
	}
	if id.EmployeeID == "" {
		return id, errNoEmployeeContext
	}
	return id, nil
}
