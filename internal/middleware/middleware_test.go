package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"forum_api/internal/logging"
	"forum_api/internal/model"
	"forum_api/internal/ratelimit"
	"forum_api/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type downStore struct{}

func (downStore) Increment(context.Context, string, time.Duration) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("redis: connection refused")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func protectedRouter(jwtUtil *utils.JWTUtil, reached *bool) *gin.Engine {
	r := gin.New()
	r.GET("/protected", JWTAuthMiddleware(jwtUtil), func(c *gin.Context) {
		*reached = true
		username, _ := AuthUsername(c)
		id, _ := AuthUserID(c)
		c.JSON(http.StatusOK, gin.H{"username": username, "user_id": id})
	})
	return r
}

func TestJWTAuthMiddleware_Valid(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 24)
	token, err := jwtUtil.GenerateToken(5, "alice")
	require.NoError(t, err)

	var reached bool
	r := protectedRouter(jwtUtil, &reached)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
	assert.JSONEq(t, `{"username":"alice","user_id":5}`, w.Body.String())
}

func TestJWTAuthMiddleware_Halts(t *testing.T) {
	jwtUtil := utils.NewJWTUtil("secret", 24)
	other, err := utils.NewJWTUtil("other-secret", 24).GenerateToken(5, "alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"no token", "Bearer"},
		{"garbage token", "Bearer not.a.jwt"},
		{"foreign signature", "Bearer " + other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reached bool
			r := protectedRouter(jwtUtil, &reached)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, reached, "handler must not run")
			assert.Equal(t, model.ErrorResponse{Error: "Unauthorized", Message: "Authentication invalid"}, decodeError(t, w))
		})
	}
}

func TestSelfMiddleware(t *testing.T) {
	r := gin.New()
	r.POST("/users/:username", func(c *gin.Context) {
		c.Set(AuthUsernameKey, "alice")
		c.Next()
	}, SelfMiddleware("username"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/alice", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/bob", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Forbidden", decodeError(t, w).Error)
}

func TestSelfMiddleware_RequiresAuth(t *testing.T) {
	r := gin.New()
	r.POST("/users/:username", SelfMiddleware("username"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/alice", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func rateLimitedRouter(limiter *ratelimit.Limiter) *gin.Engine {
	r := gin.New()
	r.POST("/login", RateLimit(limiter, logging.Discard()), func(c *gin.Context) {
		remaining, ok := RateLimitRemaining(c)
		c.JSON(http.StatusOK, gin.H{"remaining": remaining, "known": ok})
	})
	return r
}

func TestRateLimit_CountsDownThenRejects(t *testing.T) {
	limiter := ratelimit.New(ratelimit.NewMemoryStore(0), 3, time.Minute)
	r := rateLimitedRouter(limiter)

	for i := 1; i <= 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, "hit %d", i)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(3-i), w.Header().Get("X-RateLimit-Remaining"))
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	body := decodeError(t, w)
	assert.Equal(t, "Too Many Requests", body.Error)
	assert.Equal(t, "Too many requests, please try again after 1 minutes", body.Message)

	// another client is unaffected
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_KeysByUserWhenAuthenticated(t *testing.T) {
	store := ratelimit.NewMemoryStore(0)
	limiter := ratelimit.New(store, 1, time.Minute)

	r := gin.New()
	r.POST("/login", func(c *gin.Context) {
		c.Set(AuthUserIDKey, 9)
		c.Next()
	}, RateLimit(limiter, logging.Discard()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	require.Equal(t, http.StatusOK, w.Code)

	res, err := limiter.Hit(context.Background(), "user:9")
	require.NoError(t, err)
	assert.False(t, res.Allowed, "the request above must have been counted under user:9")
}

func TestRateLimit_FailsOpen(t *testing.T) {
	var logs bytes.Buffer
	limiter := ratelimit.New(downStore{}, 3, time.Minute)

	r := gin.New()
	r.POST("/login", RateLimit(limiter, logging.NewWithWriter(&logs, "info")), func(c *gin.Context) {
		_, known := RateLimitRemaining(c)
		c.JSON(http.StatusOK, gin.H{"known": known})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"known":false}`, w.Body.String())
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	assert.Contains(t, logs.String(), "rate limiter unavailable")
}

func TestRequestLogger(t *testing.T) {
	var logs bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(logging.NewWithWriter(&logs, "info")))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "/missing", entry["path"])
	assert.EqualValues(t, 404, entry["status"])
}

func TestCORS_Preflight(t *testing.T) {
	var reached bool
	r := gin.New()
	r.Use(CORS())
	r.OPTIONS("/api/question", func(c *gin.Context) { reached = true })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/question", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, reached)
}
