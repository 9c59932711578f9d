package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/logging"
	"github.com/BruksfildServices01/clinic-scheduler/internal/metrics"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func authRouter(seen *gin.H) *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(&config.Config{JWTSecret: secret}), func(c *gin.Context) {
		userID, _ := UserID(c)
		tenantID, _ := TenantID(c)
		*seen = gin.H{
			"user":         userID,
			"tenant":       tenantID,
			"role":         Role(c),
			"professional": ProfessionalID(c),
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareSetsContext(t *testing.T) {
	var seen gin.H
	r := authRouter(&seen)

	tok := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		ClaimSubject:        4,
		ClaimTenantID:       2,
		ClaimRole:           "professional",
		ClaimProfessionalID: 9,
		"exp":               time.Now().Add(time.Hour).Unix(),
	})

	w := get(r, tok)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, uint(4), seen["user"])
	assert.Equal(t, uint(2), seen["tenant"])
	assert.Equal(t, "professional", seen["role"])
	require.NotNil(t, seen["professional"])
	assert.Equal(t, uint(9), *seen["professional"].(*uint))
}

func TestAuthMiddlewareWithoutProfessionalClaim(t *testing.T) {
	var seen gin.H
	r := authRouter(&seen)

	tok := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		ClaimSubject:  1,
		ClaimTenantID: 1,
		ClaimRole:     "owner",
	})

	require.Equal(t, http.StatusNoContent, get(r, tok).Code)
	assert.Nil(t, seen["professional"])
}

func TestAuthMiddlewareRejects(t *testing.T) {
	var seen gin.H
	r := authRouter(&seen)

	expired := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		ClaimSubject: 1, ClaimTenantID: 1, "exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{
		ClaimSubject: 1, ClaimTenantID: 1,
	})
	noTenant := sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		ClaimSubject: 1,
	})

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, expired).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, wrongKey).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, noTenant).Code)
	assert.Nil(t, seen)
}

func TestRequestLoggerPropagatesID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(logging.Discard()))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestPrometheusMetricsUsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(PrometheusMetrics(m))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/items/1", "/items/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	// one series for the template, one for unmatched paths
	n, err := testutil.GatherAndCount(reg, "scheduler_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestSentryMiddlewarePassesThroughWithoutClient(t *testing.T) {
	r := gin.New()
	r.Use(SentryMiddleware())
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func preflight(r http.Handler, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", origin)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(nil))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := preflight(r, "http://localhost:3000")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), RequestIDHeader)
}

func TestCORSAllowList(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"https://app.clinica.com/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "https://app.clinica.com", preflight(r, "https://app.clinica.com").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, preflight(r, "https://evil.example").Header().Get("Access-Control-Allow-Origin"))
}
