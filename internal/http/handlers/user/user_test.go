package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sorting-waste-app/services/internal/apperr"
	"github.com/sorting-waste-app/services/internal/http/handlers/user"
	"github.com/sorting-waste-app/services/internal/types"
)

// fakeService implements user.Service with overridable funcs. Unset
// funcs fail the request with a 500.
type fakeService struct {
	CreateFn func(context.Context, types.UserInput) (types.User, error)
	GetFn    func(context.Context, string) (types.User, error)
	UpdateFn func(context.Context, string, types.UserPatch) (types.User, error)
	DeleteFn func(context.Context, string) error
	ItemsFn  func(context.Context, string) ([]types.WasteItem, error)
	LoginFn  func(context.Context, types.LoginRequest) (types.LoginResult, error)
}

var errUnexpected = errors.New("unexpected call")

func (f *fakeService) Create(ctx context.Context, in types.UserInput) (types.User, error) {
	if f.CreateFn == nil {
		return types.User{}, errUnexpected
	}
	return f.CreateFn(ctx, in)
}

func (f *fakeService) Get(ctx context.Context, id string) (types.User, error) {
	if f.GetFn == nil {
		return types.User{}, errUnexpected
	}
	return f.GetFn(ctx, id)
}

func (f *fakeService) List(context.Context) ([]types.User, error) {
	return []types.User{}, nil
}

func (f *fakeService) Update(ctx context.Context, id string, p types.UserPatch) (types.User, error) {
	if f.UpdateFn == nil {
		return types.User{}, errUnexpected
	}
	return f.UpdateFn(ctx, id, p)
}

func (f *fakeService) Delete(ctx context.Context, id string) error {
	if f.DeleteFn == nil {
		return errUnexpected
	}
	return f.DeleteFn(ctx, id)
}

func (f *fakeService) Items(ctx context.Context, id string) ([]types.WasteItem, error) {
	if f.ItemsFn == nil {
		return nil, errUnexpected
	}
	return f.ItemsFn(ctx, id)
}

func (f *fakeService) Login(ctx context.Context, req types.LoginRequest) (types.LoginResult, error) {
	if f.LoginFn == nil {
		return types.LoginResult{}, errUnexpected
	}
	return f.LoginFn(ctx, req)
}

func serve(t *testing.T, svc user.Service, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	user.Register(mux, svc, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(method, path, rdr))
	return rec
}

func TestCreate(t *testing.T) {
	id := primitive.NewObjectID()
	svc := &fakeService{
		CreateFn: func(_ context.Context, in types.UserInput) (types.User, error) {
			return types.User{ID: id, Name: in.Name, Email: in.Email, Password: "hash"}, nil
		},
	}

	for _, path := range []string{"/users", "/users/", "/users/register", "/users/register/"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(t, svc, http.MethodPost, path, `{"name":"Ana","email":"ana@x.com"}`)

			require.Equal(t, http.StatusCreated, rec.Code)
			assert.Equal(t, "/users/"+id.Hex(), rec.Header().Get("Location"))
			assert.NotContains(t, rec.Body.String(), "password")
			assert.NotContains(t, rec.Body.String(), "hash")

			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, id.Hex(), got["id"])
		})
	}
}

func TestCreate_Conflict(t *testing.T) {
	svc := &fakeService{
		CreateFn: func(context.Context, types.UserInput) (types.User, error) {
			return types.User{}, &apperr.ConflictError{Field: "email", Value: "ana@x.com"}
		},
	}
	rec := serve(t, svc, http.MethodPost, "/users/", `{}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreate_EmptyBody(t *testing.T) {
	rec := serve(t, &fakeService{}, http.MethodPost, "/users/", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"request body is empty"}`, rec.Body.String())
}

func TestLogin(t *testing.T) {
	svc := &fakeService{
		LoginFn: func(_ context.Context, req types.LoginRequest) (types.LoginResult, error) {
			switch {
			case req.Email != "ana@x.com":
				return types.LoginResult{}, &apperr.AuthError{Reason: apperr.ReasonEmailNotFound}
			case req.Password != "pw":
				return types.LoginResult{}, &apperr.AuthError{Reason: apperr.ReasonIncorrectPassword}
			}
			return types.LoginResult{Email: req.Email, Status: "successfully logged in"}, nil
		},
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			body:       `{"email":"ana@x.com","password":"pw"}`,
			wantStatus: http.StatusOK,
			wantBody:   `{"email":"ana@x.com","status":"successfully logged in"}`,
		},
		{
			name:       "email not found",
			body:       `{"email":"missing@x.com","password":"x"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","error":"Email not found"}`,
		},
		{
			name:       "incorrect password",
			body:       `{"email":"ana@x.com","password":"wrong"}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"status":"error","error":"Incorrect password"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, svc, http.MethodPost, "/users/login/", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestUpdate_PassesPatch(t *testing.T) {
	var got types.UserPatch
	svc := &fakeService{
		UpdateFn: func(_ context.Context, id string, p types.UserPatch) (types.User, error) {
			got = p
			return types.User{Name: "Ana"}, nil
		},
	}

	rec := serve(t, svc, http.MethodPut, "/users/abc", `{"age": 31, "name": null}`)
	require.Equal(t, http.StatusOK, rec.Code)

	age, ok := got.Age.Get()
	assert.True(t, ok)
	assert.Equal(t, 31, age)
	assert.True(t, got.Name.IsNull())
	assert.True(t, got.Email.IsUnset())
}

func TestDelete(t *testing.T) {
	svc := &fakeService{
		DeleteFn: func(_ context.Context, id string) error {
			if id == "known" {
				return nil
			}
			return &apperr.NotFoundError{Resource: "User", ID: id}
		},
	}

	rec := serve(t, svc, http.MethodDelete, "/users/known", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(t, svc, http.MethodDelete, "/users/other/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","error":"User other not found"}`, rec.Body.String())
}

func TestItems(t *testing.T) {
	svc := &fakeService{
		ItemsFn: func(_ context.Context, id string) ([]types.WasteItem, error) {
			return []types.WasteItem{{Name: "bottle"}}, nil
		},
	}

	rec := serve(t, svc, http.MethodGet, "/users/abc/items", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var items []types.WasteItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "bottle", items[0].Name)
}

func TestMethodNotAllowed(t *testing.T) {
	rec := serve(t, &fakeService{}, http.MethodPatch, "/users/abc", `{}`)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
