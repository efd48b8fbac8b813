package routes_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"eventmanagement/middlewares"
	"eventmanagement/mocks"
	"eventmanagement/routes"
	"eventmanagement/services"
	"eventmanagement/utils"
)

/* ---------- helpers ---------- */

type serverDeps struct {
	s      *gin.Engine
	ur     *mocks.MockUserRepo
	er     *mocks.MockEventRepo
	tokens *utils.TokenManager
	rdb    *redis.Client
}

var relaxed = middlewares.LimiterConfig{RPS: 1000, Burst: 1000, IdleTTL: time.Minute}

// setupServer wires the real handlers over in-memory repositories. withRedis
// adds a miniredis-backed cache and quota.
func setupServer(t *testing.T, withRedis bool) serverDeps {
	t.Helper()
	return setupServerWith(t, withRedis, nil)
}

// setupServerWith lets a test adjust the options before the routes mount.
func setupServerWith(t *testing.T, withRedis bool, tweak func(*routes.Options)) serverDeps {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	d := serverDeps{
		ur:     mocks.NewUserRepo(),
		er:     mocks.NewEventRepo(),
		tokens: utils.NewTokenManager("test-secret", 7*24*time.Hour),
	}
	if withRedis {
		mr := miniredis.RunT(t)
		d.rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}

	opts := routes.Options{
		Auth:         services.NewAuthService(d.ur, d.tokens),
		Events:       services.NewEventService(d.er, d.ur, &mocks.MockTransactor{}),
		Tokens:       d.tokens,
		Redis:        d.rdb,
		CacheTTL:     30 * time.Second,
		QuotaLimit:   100,
		CookieMaxAge: 24 * time.Hour,
		GlobalLimit:  relaxed,
		AuthLimit:    relaxed,
		UserLimit:    relaxed,
		Logger:       zerolog.Nop(),
	}
	if tweak != nil {
		tweak(&opts)
	}

	d.s = gin.New()
	routes.RegisterRoutes(ctx, d.s, opts)
	return d
}

type reqOpt func(*http.Request)

func withCookie(c *http.Cookie) reqOpt { return func(r *http.Request) { r.AddCookie(c) } }

func withBearer(token string) reqOpt {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func doReq(s *gin.Engine, method, path, body string, opts ...reqOpt) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, o := range opts {
		o(req)
	}
	s.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.SessionCookie {
			return c
		}
	}
	return nil
}

const (
	annJSON   = `{"name":"Ann","email":"ann@example.com","password":"secret1","phoneNumber":5551234567,"role":"Client"}`
	eventJSON = `{"title":"GoConf","description":"talks","date":"2026-05-01","startTime":"09:00","endTime":"17:00","location":"Taipei","cloudinaryID":"img/abc","category":"tech"}`
)
