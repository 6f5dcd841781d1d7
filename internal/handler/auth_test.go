package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

type fakeUsers struct {
	mu   sync.Mutex
	byID map[uint64]model.User
	next uint64
}

func newFakeUsers() *fakeUsers { return &fakeUsers{byID: map[uint64]model.User{}} }

func (f *fakeUsers) Create(_ context.Context, email, password, role string, cost int) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	f.next++
	f.byID[f.next] = model.User{ID: f.next, Email: email, PasswordHash: hash, Role: role, IsActive: true}
	return f.next, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrUserNotFound
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUsers) deactivate(id uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.byID[id]
	u.IsActive = false
	f.byID[id] = u
}

type fakeToken struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

type fakeTokens struct {
	mu        sync.Mutex
	byHash    map[string]*fakeToken
	revokeErr error
}

func newFakeTokens() *fakeTokens { return &fakeTokens{byHash: map[string]*fakeToken{}} }

func (f *fakeTokens) StoreRefresh(_ context.Context, userID uint64, hash string, exp time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byHash[hash] = &fakeToken{userID: userID, exp: exp}
	return nil
}

func (f *fakeTokens) ValidateRefresh(_ context.Context, hash string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.byHash[hash]
	if !ok || t.revoked || time.Now().After(t.exp) {
		return 0, repository.ErrInvalidRefresh
	}
	return t.userID, nil
}

func (f *fakeTokens) RevokeByHash(_ context.Context, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.revokeErr != nil {
		return f.revokeErr
	}
	if t, ok := f.byHash[hash]; ok {
		t.revoked = true
	}
	return nil
}

const testSecret = "handler-secret"

func newAuthEnv(t *testing.T) (*echo.Echo, *fakeUsers) {
	e, users, _ := newAuthEnvWithTokens(t)
	return e, users
}

func newAuthEnvWithTokens(t *testing.T) (*echo.Echo, *fakeUsers, *fakeTokens) {
	t.Helper()
	users := newFakeUsers()
	tokens := newFakeTokens()
	_, err := users.Create(context.Background(), "editor@example.com", "correct-horse", model.RoleEditor, 4)
	require.NoError(t, err)

	cfg := config.Config{JWTSecret: testSecret, AccessTTLMin: 15, RefreshTTLDays: 7, BcryptCost: 4}
	h := NewAuthHandler(cfg, users, tokens, zap.NewNop())

	e := echo.New()
	e.Validator = NewValidator()
	e.POST("/v1/auth/login", h.Login)
	e.POST("/v1/auth/refresh", h.Refresh)
	e.POST("/v1/auth/logout", h.Logout)
	protected := e.Group("/v1", middleware.JWTAuth(testSecret))
	protected.GET("/me", h.Me)
	protected.POST("/auth/register", h.Register, middleware.RequireRole(model.RoleEditor))
	return e, users, tokens
}

func post(e *echo.Echo, target, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, e *echo.Echo, email, password string) authResp {
	t.Helper()
	rec := post(e, "/v1/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestLogin(t *testing.T) {
	e, users := newAuthEnv(t)

	resp := login(t, e, "Editor@Example.com ", "correct-horse")
	assert.Equal(t, model.RoleEditor, resp.User.Role)
	assert.NotEmpty(t, resp.Access.Token)
	assert.Len(t, resp.Refresh.Token, 96)

	claims, err := utils.ParseAccessToken(testSecret, resp.Access.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	rec := post(e, "/v1/auth/login", `{"email":"editor@example.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = post(e, "/v1/auth/login", `{"email":"nobody@example.com","password":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = post(e, "/v1/auth/login", `{"email":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	users.deactivate(resp.User.ID)
	rec = post(e, "/v1/auth/login", `{"email":"editor@example.com","password":"correct-horse"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	e, _ := newAuthEnv(t)
	first := login(t, e, "editor@example.com", "correct-horse")

	rec := post(e, "/v1/auth/refresh", `{"refresh_token":"`+first.Refresh.Token+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var second authResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.NotEqual(t, first.Refresh.Token, second.Refresh.Token)

	rec = post(e, "/v1/auth/refresh", `{"refresh_token":"`+first.Refresh.Token+`"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(e, "/v1/auth/refresh", `{}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshFailsWhenRevokeFails(t *testing.T) {
	e, _, tokens := newAuthEnvWithTokens(t)
	first := login(t, e, "editor@example.com", "correct-horse")

	tokens.revokeErr = errors.New("db down")
	rec := post(e, "/v1/auth/refresh", `{"refresh_token":"`+first.Refresh.Token+`"}`, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "access")
	tokens.mu.Lock()
	assert.Len(t, tokens.byHash, 1)
	tokens.mu.Unlock()
}

func TestLogoutRevokes(t *testing.T) {
	e, _ := newAuthEnv(t)
	resp := login(t, e, "editor@example.com", "correct-horse")
	body := `{"refresh_token":"` + resp.Refresh.Token + `"}`

	assert.Equal(t, http.StatusNoContent, post(e, "/v1/auth/logout", body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, post(e, "/v1/auth/logout", body, "").Code)
	assert.Equal(t, http.StatusUnauthorized, post(e, "/v1/auth/refresh", body, "").Code)
}

func TestRegisterIsEditorOnly(t *testing.T) {
	e, _ := newAuthEnv(t)
	editor := login(t, e, "editor@example.com", "correct-horse")

	rec := post(e, "/v1/auth/register", `{"email":"friend@example.com","password":"popcorn-123"}`, editor.Access.Token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"role":"VIEWER"`)

	rec = post(e, "/v1/auth/register", `{"email":"friend@example.com","password":"popcorn-123"}`, editor.Access.Token)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = post(e, "/v1/auth/register", `{"email":"x@example.com","password":"popcorn-123","role":"OWNER"}`, editor.Access.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(e, "/v1/auth/register", `{"email":"x@example.com","password":"short"}`, editor.Access.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	viewer := login(t, e, "friend@example.com", "popcorn-123")
	rec = post(e, "/v1/auth/register", `{"email":"y@example.com","password":"popcorn-123"}`, viewer.Access.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMe(t *testing.T) {
	e, _ := newAuthEnv(t)
	resp := login(t, e, "editor@example.com", "correct-horse")

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Access.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":1,"role":"EDITOR"}`, rec.Body.String())
}
