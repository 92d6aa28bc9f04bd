package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/devconnector/devconnector-go/internal/crypto"
	"github.com/devconnector/devconnector-go/internal/middleware"
	"github.com/devconnector/devconnector-go/internal/model"
	"github.com/devconnector/devconnector-go/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	registerErr error
	loginErr    error
	lastUserID  string
}

func (f *fakeAuth) Register(_ context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	if f.registerErr != nil {
		return model.UserResponse{}, f.registerErr
	}
	return model.UserResponse{ID: "u-1", Name: req.Name, Email: req.Email}, nil
}

func (f *fakeAuth) Authenticate(context.Context, model.LoginRequest) (model.TokenResponse, error) {
	if f.loginErr != nil {
		return model.TokenResponse{}, f.loginErr
	}
	return model.TokenResponse{Token: "signed"}, nil
}

func (f *fakeAuth) CurrentUser(_ context.Context, userID string) (model.UserResponse, error) {
	f.lastUserID = userID
	return model.UserResponse{ID: userID, Name: "Alice"}, nil
}

type fakeProfiles struct {
	err      error
	calls    []string
	lastUser string
	lastArg  string
	upserted model.ProfileRequest
}

func (f *fakeProfiles) record(name, userID, arg string) (*model.Profile, error) {
	f.calls = append(f.calls, name)
	f.lastUser = userID
	f.lastArg = arg
	if f.err != nil {
		return nil, f.err
	}
	return &model.Profile{ID: "p-1", UserID: userID, Status: "Developer"}, nil
}

func (f *fakeProfiles) Me(_ context.Context, userID string) (*model.Profile, error) {
	return f.record("Me", userID, "")
}

func (f *fakeProfiles) ByUser(_ context.Context, userID string) (*model.Profile, error) {
	return f.record("ByUser", "", userID)
}

func (f *fakeProfiles) List(context.Context) ([]model.Profile, error) {
	f.calls = append(f.calls, "List")
	return []model.Profile{}, f.err
}

func (f *fakeProfiles) Upsert(_ context.Context, userID string, req model.ProfileRequest) (*model.Profile, error) {
	f.upserted = req
	return f.record("Upsert", userID, "")
}

func (f *fakeProfiles) DeleteAccount(_ context.Context, userID string) error {
	_, err := f.record("DeleteAccount", userID, "")
	return err
}

func (f *fakeProfiles) AddExperience(_ context.Context, userID string, req model.ExperienceRequest) (*model.Profile, error) {
	return f.record("AddExperience", userID, req.Title)
}

func (f *fakeProfiles) DeleteExperience(_ context.Context, userID, expID string) (*model.Profile, error) {
	return f.record("DeleteExperience", userID, expID)
}

func (f *fakeProfiles) AddEducation(_ context.Context, userID string, req model.EducationRequest) (*model.Profile, error) {
	return f.record("AddEducation", userID, req.School)
}

func (f *fakeProfiles) DeleteEducation(_ context.Context, userID, eduID string) (*model.Profile, error) {
	return f.record("DeleteEducation", userID, eduID)
}

type testServer struct {
	handler  http.Handler
	auth     *fakeAuth
	profiles *fakeProfiles
	token    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	signer, err := crypto.NewJWTSigner("test-secret", time.Hour)
	require.NoError(t, err)
	token, err := signer.Sign("u-1")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ts := &testServer{auth: &fakeAuth{}, profiles: &fakeProfiles{}, token: token}
	ts.handler = NewRouter(ctx, RouterConfig{
		Auth:           ts.auth,
		Profile:        ts.profiles,
		Tokens:         signer,
		TokenHeader:    middleware.DefaultTokenHeader,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set(middleware.DefaultTokenHeader, ts.token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", false)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/users", `{"name":"Alice","email":"alice@example.com","password":"secret1"}`, false)

	require.Equal(t, http.StatusCreated, rec.Code)
	user := decode[model.UserResponse](t, rec)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestRegisterErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name: "validation",
			err: &service.ValidationError{Fields: []service.FieldError{
				{Param: "email", Msg: "Please include a valid email"},
				{Param: "name", Msg: "name is required"},
			}},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"errors":[{"param":"email","msg":"Please include a valid email"},{"param":"name","msg":"name is required"}]}`,
		},
		{
			name:       "duplicate",
			err:        service.ErrDuplicateIdentity,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"errors":[{"msg":"User already exists."}]}`,
		},
		{
			name:       "unexpected",
			err:        errors.New("dial tcp: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Server Error."}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t)
			ts.auth.registerErr = tt.err

			rec := ts.do(t, http.MethodPost, "/api/users", `{"name":"A","email":"a@example.com","password":"secret1"}`, false)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestMalformedBodies(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/users", `{"name":`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"invalid request body"}`, rec.Body.String())

	big := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewBufferString(big))
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth", `{"email":"alice@example.com","password":"secret1"}`, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"signed"}`, rec.Body.String())

	ts.auth.loginErr = service.ErrInvalidCredentials
	rec = ts.do(t, http.MethodPost, "/api/auth", `{"email":"alice@example.com","password":"wrong"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"errors":[{"msg":"Invalid username or password."}]}`, rec.Body.String())
}

func TestCurrentUserRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/auth", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"No token, authorization denied."}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/api/auth", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", ts.auth.lastUserID)
}

func TestGuardedRoutesRejectAnonymous(t *testing.T) {
	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/profile/me"},
		{http.MethodPost, "/api/profile"},
		{http.MethodDelete, "/api/profile"},
		{http.MethodPut, "/api/profile/experience"},
		{http.MethodDelete, "/api/profile/experience/e-1"},
		{http.MethodPut, "/api/profile/education"},
		{http.MethodDelete, "/api/profile/education/e-1"},
		{http.MethodGet, "/api/posts"},
	}

	ts := newTestServer(t)
	for _, rt := range routes {
		rec := ts.do(t, rt.method, rt.path, "{}", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", rt.method, rt.path)
	}
	assert.Empty(t, ts.profiles.calls)
}

func TestProfileRoutes(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/profile", `{"status":"Developer","skills":"go, sql"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", ts.profiles.lastUser)
	assert.Equal(t, "go, sql", ts.profiles.upserted.Skills)

	rec = ts.do(t, http.MethodGet, "/api/profile/user/u-9", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-9", ts.profiles.lastArg)

	rec = ts.do(t, http.MethodPut, "/api/profile/experience", `{"title":"Dev","company":"Acme","from":"2020-01-01"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dev", ts.profiles.lastArg)

	rec = ts.do(t, http.MethodDelete, "/api/profile/experience/e-7", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "e-7", ts.profiles.lastArg)

	rec = ts.do(t, http.MethodPut, "/api/profile/education", `{"school":"MIT"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MIT", ts.profiles.lastArg)

	rec = ts.do(t, http.MethodDelete, "/api/profile/education/d-3", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "d-3", ts.profiles.lastArg)

	rec = ts.do(t, http.MethodGet, "/api/profile", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = ts.do(t, http.MethodDelete, "/api/profile", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"User deleted."}`, rec.Body.String())
}

func TestProfileNotFound(t *testing.T) {
	tests := []struct {
		err     error
		wantMsg string
	}{
		{service.ErrProfileNotFound, "There is no profile for this user."},
		{service.ErrSubRecordNotFound, "Profile entry not found."},
		{service.ErrUserNotFound, "User not found."},
	}

	for _, tt := range tests {
		ts := newTestServer(t)
		ts.profiles.err = tt.err

		rec := ts.do(t, http.MethodGet, "/api/profile/me", "", true)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, tt.wantMsg, decode[map[string]string](t, rec)["message"])
	}
}

func TestPosts(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/api/posts", "", true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Posts route"}`, rec.Body.String())
}
