package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/peoplehq/workday-backend-go/internal/domain/employee"
	"github.com/peoplehq/workday-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestChain(svc jwt.Service) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return jwtauth.Verifier(svc.JWTAuth())(AuthRequired(svc)(ok))
}

func authTestRequest(t *testing.T, handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/today", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequiredAcceptsAccessToken(t *testing.T) {
	svc := jwt.NewJWTService("test-secret-key-for-jwt", "1h")
	employeeID := "emp-1"
	token, _, err := svc.GenerateAccessToken("user-1", &employeeID, employee.RoleEmployee)
	require.NoError(t, err)

	rec := authTestRequest(t, authTestChain(svc), token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRequiredRejectsMissingToken(t *testing.T) {
	svc := jwt.NewJWTService("test-secret-key-for-jwt", "1h")

	rec := authTestRequest(t, authTestChain(svc), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequiredRejectsRevokedToken(t *testing.T) {
	svc := jwt.NewJWTService("test-secret-key-for-jwt", "1h")
	employeeID := "emp-1"
	token, _, err := svc.GenerateAccessToken("user-1", &employeeID, employee.RoleEmployee)
	require.NoError(t, err)

	chain := authTestChain(svc)
	rec := authTestRequest(t, chain, token)
	require.Equal(t, http.StatusOK, rec.Code)

	svc.RevokeToken(token)

	rec = authTestRequest(t, chain, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "revoked")
}
