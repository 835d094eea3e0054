package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sorting-waste-app/services/internal/app"
	"github.com/sorting-waste-app/services/internal/config"
	"github.com/sorting-waste-app/services/internal/http/middleware"
	"github.com/sorting-waste-app/services/internal/password"
	"github.com/sorting-waste-app/services/internal/service"
	"github.com/sorting-waste-app/services/internal/storage"
	"github.com/sorting-waste-app/services/internal/types"
)

// newServer starts every service on one sqlite-backed handler, the way
// cmd/sorting-waste-api runs them.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	store, err := app.OpenStore(ctx, config.Storage{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "api.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	hasher, err := password.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := app.NewHandler(store, service.New(store, hasher, log), log,
		app.MountChallenges,
		app.MountUsers,
		app.MountWasteCategories,
		app.MountWasteItems,
	)

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, out any) *http.Response {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestFoodWasteScenario(t *testing.T) {
	srv := newServer(t)

	var c types.Challenge
	resp := do(t, srv, http.MethodPost, "/challenges/", map[string]any{
		"category":            "Food Waste",
		"description":         "x",
		"difficulty_level":    5,
		"scoring_criteria":    "y",
		"created_by_username": "a",
		"created_by_email":    "a@x.com",
	}, &c)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "food waste", c.Category)
	assert.Equal(t, "/challenges/"+c.ID.Hex(), resp.Header.Get("Location"))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

	var u types.User
	resp = do(t, srv, http.MethodPost, "/users/register/", map[string]any{
		"name":      "Ana",
		"age":       30,
		"email":     "Ana@X.com",
		"password":  "s3cret",
		"course":    "env",
		"challenge": "food waste",
	}, &u)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var users []types.User
	resp = do(t, srv, http.MethodGet, "/challenges/"+c.ID.Hex()+"/users", nil, &users)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, users, 1)
	assert.Equal(t, u.ID, users[0].ID)
	assert.Equal(t, "ana@x.com", users[0].Email)
}

func TestUserLifecycle(t *testing.T) {
	srv := newServer(t)

	user := map[string]any{
		"name":     "Ana",
		"age":      30,
		"email":    "ana@x.com",
		"password": "s3cret",
		"course":   "env",
	}

	var raw map[string]any
	resp := do(t, srv, http.MethodPost, "/users", user, &raw)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotContains(t, raw, "password")
	id, _ := raw["id"].(string)
	require.NotEmpty(t, id)

	resp = do(t, srv, http.MethodPost, "/users/", user, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var res types.LoginResult
	resp = do(t, srv, http.MethodPost, "/users/login/", map[string]string{"email": "ana@x.com", "password": "s3cret"}, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "successfully logged in", res.Status)

	var body map[string]any
	resp = do(t, srv, http.MethodPost, "/users/login", map[string]string{"email": "missing@x.com", "password": "x"}, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Email not found", body["error"])

	resp = do(t, srv, http.MethodPost, "/users/login", map[string]string{"email": "ana@x.com", "password": "wrong"}, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Incorrect password", body["error"])

	var item types.WasteItem
	resp = do(t, srv, http.MethodPost, "/waste_items/", map[string]any{
		"name":                 "Bottle",
		"category":             "glass",
		"sorting_instructions": "rinse",
		"created_by_username":  "ana",
		"created_by_email":     "ANA@x.com",
	}, &item)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var items []types.WasteItem
	resp = do(t, srv, http.MethodGet, "/users/"+id+"/items/", nil, &items)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []types.WasteItem{item}, items)

	var updated types.User
	resp = do(t, srv, http.MethodPut, "/users/"+id, map[string]any{"age": 31, "course": nil}, &updated)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 31, updated.Age)
	assert.Equal(t, "env", updated.Course)

	resp = do(t, srv, http.MethodPut, "/users/"+id, map[string]any{"email": ""}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, srv, http.MethodDelete, "/users/"+id, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/users/"+id, nil, &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidationStatuses(t *testing.T) {
	srv := newServer(t)

	var body struct {
		Status string `json:"status"`
		Error  string `json:"error"`
		Fields []struct {
			Field string `json:"field"`
		} `json:"fields"`
	}
	resp := do(t, srv, http.MethodPost, "/waste_categories/", map[string]any{"category": "paper"}, &body)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "error", body.Status)
	assert.Len(t, body.Fields, 2)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/waste_categories/", bytes.NewBufferString("{"))
	require.NoError(t, err)
	raw, err := srv.Client().Do(req)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)

	resp = do(t, srv, http.MethodPost, "/challenges/", map[string]any{
		"category":            "paper",
		"description":         "x",
		"difficulty_level":    11,
		"scoring_criteria":    "y",
		"created_by_username": "a",
		"created_by_email":    "a@x.com",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/users/register", map[string]any{
		"name":     "Ana",
		"age":      30,
		"email":    "ana@x.com",
		"password": strings.Repeat("é", 72),
		"course":   "env",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	req, err = http.NewRequest(http.MethodPost, srv.URL+"/waste_categories/", bytes.NewBufferString(`{}xyz`))
	require.NoError(t, err)
	raw, err = srv.Client().Do(req)
	require.NoError(t, err)
	raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestWasteCategoryLifecycle(t *testing.T) {
	srv := newServer(t)

	var c types.WasteCategory
	resp := do(t, srv, http.MethodPost, "/waste_categories", map[string]any{
		"category":            "Paper",
		"description":         "cardboard and paper",
		"disposal_guidelines": "blue bin",
	}, &c)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "paper", c.Category)

	var same types.WasteCategory
	resp = do(t, srv, http.MethodPut, "/waste_categories/"+c.ID.Hex()+"/", map[string]any{}, &same)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, c, same)

	var list []types.WasteCategory
	resp = do(t, srv, http.MethodGet, "/waste_categories/", nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []types.WasteCategory{c}, list)

	resp = do(t, srv, http.MethodDelete, "/waste_categories/"+c.ID.Hex(), nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodDelete, "/waste_categories/"+c.ID.Hex(), nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEmptyListIsArray(t *testing.T) {
	srv := newServer(t)

	for _, path := range []string{"/challenges/", "/users/", "/waste_categories/", "/waste_items/"} {
		req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		require.NoError(t, err)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		b, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.JSONEq(t, `[]`, string(b), path)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	srv := newServer(t)

	for _, path := range []string{"/challenges/xyz", "/challenges/xyz/users", "/users/xyz", "/waste_items/xyz"} {
		resp := do(t, srv, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestHealth(t *testing.T) {
	srv := newServer(t)

	var body map[string]any
	resp := do(t, srv, http.MethodGet, "/health", nil, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

type downStore struct{ storage.Store }

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealth_StoreDown(t *testing.T) {
	rec := httptest.NewRecorder()
	app.Health(downStore{})(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := app.OpenStore(context.Background(), config.Storage{Driver: "postgres"})
	assert.Error(t, err)
}

func TestSetupLogger(t *testing.T) {
	for _, env := range []string{"dev", "staging", "prod"} {
		assert.NotNil(t, app.SetupLogger(env), env)
	}
	assert.False(t, app.SetupLogger("prod").Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, app.SetupLogger("dev").Enabled(context.Background(), slog.LevelDebug))
}
