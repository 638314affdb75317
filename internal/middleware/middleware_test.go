package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-activities-api/internal/models"
	"github.com/noah-isme/campus-activities-api/internal/service"
	appErrors "github.com/noah-isme/campus-activities-api/pkg/errors"
	"github.com/noah-isme/campus-activities-api/pkg/response"
)

type stubAuthenticator struct {
	tokens map[string]*models.Principal
}

func (s stubAuthenticator) Authenticate(ctx context.Context, token string) (*models.Principal, error) {
	if p, ok := s.tokens[token]; ok {
		return p, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
}

func newProtectedRouter(roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := stubAuthenticator{tokens: map[string]*models.Principal{
		"student-token":  {UserID: 1, Role: models.RoleStudent},
		"employee-token": {UserID: 2, Role: models.RoleEmployee},
	}}
	r := gin.New()
	r.Use(Recovery(nil))
	r.GET("/protected", JWT(auth), RequireRoles(roles...), func(c *gin.Context) {
		response.OK(c, gin.H{"userId": PrincipalFrom(c).UserID})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func call(r *gin.Engine, path, header string) (*httptest.ResponseRecorder, response.Envelope) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env response.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	r := newProtectedRouter()
	for _, header := range []string{"", "student-token", "Basic abc", "Bearer ", "Bearer nope"} {
		w, env := call(r, "/protected", header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.False(t, env.Success)
		require.NotNil(t, env.Error)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	}
}

func TestJWTAcceptsBearerToken(t *testing.T) {
	r := newProtectedRouter()
	w, env := call(r, "/protected", "bearer student-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestRequireRoles(t *testing.T) {
	r := newProtectedRouter(models.RoleEmployee)

	w, env := call(r, "/protected", "Bearer student-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	w, _ = call(r, "/protected", "Bearer employee-token")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesWithoutPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", RequireRoles(models.RoleStudent), func(c *gin.Context) { c.Status(http.StatusOK) })
	w, _ := call(r, "/", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecoveryReturnsInternalEnvelope(t *testing.T) {
	r := newProtectedRouter()
	w, env := call(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	assert.Equal(t, "internal server error", env.Message)
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w, _ := call(r, "/items/42", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, scrape.Body.String(), `path="/items/:id"`)
}
