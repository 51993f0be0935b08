package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/peoplehq/workday-backend-go/internal/handler/http/response"
	"github.com/peoplehq/workday-backend-go/internal/pkg/jwt"
)

type AuthHandler interface {
	Logout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	jwtService jwt.Service
}

func NewAuthHandler(jwtService jwt.Service) AuthHandler {
	return &authHandlerImpl{
		jwtService: jwtService,
	}
}

// Logout revokes the presented access token so it stops passing auth
// checks before its natural expiry.
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	token := jwtauth.TokenFromHeader(r)
	if token == "" {
		response.Unauthorized(w, "Invalid token")
		return
	}

	h.jwtService.RevokeToken(token)
	response.SuccessWithMessage(w, "Logged out", nil)
}
