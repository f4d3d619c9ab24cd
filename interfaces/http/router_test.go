package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"phonebook-backend/application/services"
	"phonebook-backend/infrastructure/config"
	gql "phonebook-backend/interfaces/graphql"
	"phonebook-backend/interfaces/http/middleware"
	"phonebook-backend/pkg/auth"
	"phonebook-backend/tests/mocks"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, personRepo *mocks.MockPersonRepository, userRepo *mocks.MockUserRepository) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	tokens, err := auth.NewJWTManager(auth.JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "phonebook-backend",
	})
	require.NoError(t, err)

	directory := services.NewDirectoryService(personRepo, logger)
	accounts := services.NewAccountService(userRepo, personRepo, tokens, logger)

	schema, err := graphql.ParseSchema(gql.Schema, gql.NewResolver(directory, accounts))
	require.NoError(t, err)

	cfg := &config.Config{Environment: "development", EnableCORS: true}
	router := NewRouter(schema, middleware.Session(tokens, userRepo, logger), cfg, logger)
	return router.Setup()
}

func TestRouter_HealthEndpoints(t *testing.T) {
	handler := newTestRouter(t, new(mocks.MockPersonRepository), new(mocks.MockUserRepository))

	for _, path := range []string{"/health", "/ready"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	}
}

func TestRouter_GraphQLEndpoint(t *testing.T) {
	personRepo := new(mocks.MockPersonRepository)
	personRepo.On("Count", mock.Anything).Return(3, nil)
	handler := newTestRouter(t, personRepo, new(mocks.MockUserRepository))

	body := strings.NewReader(`{"query": "{ personCount }"}`)
	req := httptest.NewRequest(http.MethodPost, "/graphql", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"personCount":3}}`, rec.Body.String())
}

func TestRouter_GraphQLRejectsInvalidToken(t *testing.T) {
	handler := newTestRouter(t, new(mocks.MockPersonRepository), new(mocks.MockUserRepository))

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query": "{ personCount }"}`))
	req.Header.Set("Authorization", "Bearer not-a-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}
