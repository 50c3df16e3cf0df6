package integration__test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/showfinder/internal/auth"
	"github.com/geocoder89/showfinder/internal/config"
	"github.com/geocoder89/showfinder/internal/geosession"
	apphttp "github.com/geocoder89/showfinder/internal/http"
	"github.com/geocoder89/showfinder/internal/repo/postgres"
	"github.com/geocoder89/showfinder/internal/security"
	"github.com/geocoder89/showfinder/internal/upstream"
	"github.com/geocoder89/showfinder/migrations"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.Config {
	return config.Config{
		Env:                "test",
		JWTSecret:          "test-secret-key",
		TokenTTL:           time.Hour,
		CORSAllowedOrigins: []string{"*"},
		MaxBodyBytes:       1 << 20,
	}
}

func setupTestRouter(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("Failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	sqlDB := stdlib.OpenDBFromPool(pool)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migrations.Up(ctx, sqlDB); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	cfg := testConfig()
	users := postgres.NewUsersRepo(pool, nil)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)

	router := apphttp.NewRouter(apphttp.Deps{
		Config:   cfg,
		Auth:     auth.NewService(users, security.NewHasher(bcrypt.MinCost), tokens),
		Tokens:   tokens,
		Saved:    postgres.NewSavedRepo(pool, nil),
		Finder:   upstream.NewDiscovery(upstream.Config{BaseURL: "http://127.0.0.1:1"}, nil),
		Geocoder: upstream.NewGeocoder(upstream.Config{BaseURL: "http://127.0.0.1:1"}, nil),
		Sessions: geosession.NewMemoryStore(time.Minute),
	})

	return router, pool
}

func resetDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE saved, users
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// helpers

type tokenResponse struct {
	Token string `json:"token"`
}

type apiErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))

	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func TestIntegration_Signup_Login_Save(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)

	defer resetDB(t, pool)

	// sign up

	signupBody := `{"email":"a@x.com","password":"p","displayname":"A","city":"Austin","lat":30.2,"long":-97.7}`

	w := doRequest(router, http.MethodPost, "/api/auth/signup", signupBody, "")
	if w.Code != http.StatusOK {
		t.Fatalf("signup got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var signup tokenResponse
	mustReadJSON(t, w, &signup)

	if strings.TrimSpace(signup.Token) == "" {
		t.Fatalf("signup expected token, got empty")
	}

	// duplicate signup

	w = doRequest(router, http.MethodPost, "/api/auth/signup", signupBody, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup got status %d, want %d", w.Code, http.StatusBadRequest)
	}

	var dup apiErrorResponse
	mustReadJSON(t, w, &dup)
	if dup.Error.Code != "duplicate_user" {
		t.Fatalf("expected duplicate_user, got %s", dup.Error.Code)
	}

	// login

	w = doRequest(router, http.MethodPost, "/api/auth/login", `{"email":"a@x.com","password":"p"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("login got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var login tokenResponse
	mustReadJSON(t, w, &login)

	// saved list starts empty

	w = doRequest(router, http.MethodGet, "/api/me/saved", "", login.Token)
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Fatalf("saved list got %d %s, want 200 []", w.Code, w.Body.String())
	}

	// save twice

	saveBody := `{"name":"Show","tm_id":"E1","latitude":30.2,"longitude":-97.7}`

	w = doRequest(router, http.MethodPost, "/api/me/saved", saveBody, login.Token)
	if w.Code != http.StatusOK {
		t.Fatalf("save got status %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, "/api/me/saved", saveBody, login.Token)
	if w.Code != http.StatusConflict {
		t.Fatalf("second save got status %d, want %d", w.Code, http.StatusConflict)
	}

	var conflict apiErrorResponse
	mustReadJSON(t, w, &conflict)
	if conflict.Error.Message != "Already in saved!" {
		t.Fatalf("unexpected conflict message %q", conflict.Error.Message)
	}

	var rows []map[string]interface{}
	w = doRequest(router, http.MethodGet, "/api/me/saved", "", login.Token)
	mustReadJSON(t, w, &rows)
	if len(rows) != 1 {
		t.Fatalf("expected one saved row, got %d", len(rows))
	}
	if rows[0]["lat"] != 30.2 || rows[0]["long"] != -97.7 {
		t.Fatalf("latitude/longitude stored in the wrong columns: %v", rows[0])
	}

	// delete

	w = doRequest(router, http.MethodDelete, "/api/me/saved/1", "", login.Token)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"tm_id":"E1"`) {
		t.Fatalf("delete got %d %s", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodDelete, "/api/me/saved/1", "", login.Token)
	if w.Code != http.StatusOK || w.Body.String() != "{}" {
		t.Fatalf("second delete got %d %s, want 200 {}", w.Code, w.Body.String())
	}
}

func TestIntegration_Login_InvalidCredentials(t *testing.T) {
	router, pool := setupTestRouter(t)
	resetDB(t, pool)
	defer resetDB(t, pool)

	// no user created
	body := `{"email":"nope@example.com","password":"wrong"}`
	w := doRequest(router, http.MethodPost, "/api/auth/login", body, "")

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("login(invalid creds) got status %d, want %d, body=%s", w.Code, http.StatusUnauthorized, w.Body.String())
	}
}

func TestIntegration_UnreachableUpstreamIsBadGateway(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/concerts?keyword=rock", "", "")
	if w.Code != http.StatusBadGateway && w.Code != http.StatusGatewayTimeout {
		t.Fatalf("unreachable upstream got status %d, want 502/504", w.Code)
	}
}
