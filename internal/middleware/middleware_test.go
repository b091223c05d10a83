package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscosanchezn/taist-api/internal/auth"
	"github.com/franciscosanchezn/taist-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

var secret = []byte("middleware-test-secret")

func protectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuth(secret)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": UserID(c), "role": c.GetString(ContextUserRole), "admin": IsAdmin(c)})
	})
	r.GET("/me", handlers...)
	return r
}

func get(r *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": {"Bearer " + token}}
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return s
}

func TestJWTAuthAcceptsLoginTokens(t *testing.T) {
	token, err := auth.NewTokenIssuer(string(secret), time.Hour).Issue(&models.User{ID: 9, Role: models.RoleChef})
	require.NoError(t, err)

	w := get(protectedRouter(), bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":9,"role":"chef","admin":false}`, w.Body.String())
}

func TestJWTAuthAcceptsStringUID(t *testing.T) {
	token := signed(t, jwt.MapClaims{"uid": "3", "role": "admin", "aud": "partner", "exp": time.Now().Add(time.Hour).Unix()})
	w := get(protectedRouter(models.RoleAdmin), bearer(token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":3,"role":"admin","admin":true}`, w.Body.String())
}

func TestJWTAuthRejections(t *testing.T) {
	expired := signed(t, jwt.MapClaims{"uid": 1, "role": "chef", "exp": time.Now().Add(-time.Minute).Unix()})
	noRole := signed(t, jwt.MapClaims{"uid": 1, "exp": time.Now().Add(time.Hour).Unix()})
	badRole := signed(t, jwt.MapClaims{"uid": 1, "role": "user", "exp": time.Now().Add(time.Hour).Unix()})
	otherKey, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"uid": 1, "role": "chef"}).SignedString([]byte("other"))

	tests := []struct {
		name   string
		header http.Header
	}{
		{"missing header", nil},
		{"basic scheme", http.Header{"Authorization": {"Basic abc"}}},
		{"expired", bearer(expired)},
		{"no role", bearer(noRole)},
		{"unknown role", bearer(badRole)},
		{"wrong key", bearer(otherKey)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(protectedRouter(), tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var env models.Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, 0, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestRequireRole(t *testing.T) {
	customer := signed(t, jwt.MapClaims{"uid": 1, "role": "customer", "exp": time.Now().Add(time.Hour).Unix()})
	chef := signed(t, jwt.MapClaims{"uid": 2, "role": "chef", "exp": time.Now().Add(time.Hour).Unix()})
	r := protectedRouter(models.RoleChef, models.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, get(r, bearer(customer)).Code)
	assert.Equal(t, http.StatusOK, get(r, bearer(chef)).Code)
}

func TestAPIKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", APIKey("k1"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusUnauthorized, get(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, http.Header{"Apikey": {"nope"}}).Code)
	assert.Equal(t, http.StatusNoContent, get(r, http.Header{"Apikey": {"k1"}}).Code)

	open := gin.New()
	open.GET("/me", APIKey(""), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, http.StatusNoContent, get(open, nil).Code)
}

func TestRateLimiterPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", NewRateLimiter(rate.Every(time.Hour), 2).Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	from := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusNoContent, from("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, from("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, from("10.0.0.2"))
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/me", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := get(r, nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	w = get(r, http.Header{RequestIDHeader: {"abc"}})
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestOptionalJWTAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", OptionalJWTAuth(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": UserID(c)})
	})

	w := get(r, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":0}`, w.Body.String())

	token, err := auth.NewTokenIssuer(string(secret), time.Hour).Issue(&models.User{ID: 4, Role: models.RoleChef})
	require.NoError(t, err)
	w = get(r, bearer(token))
	assert.JSONEq(t, `{"uid":4}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, get(r, bearer("garbage")).Code)
}
