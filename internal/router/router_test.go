package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/sheet"
	"github.com/iliyamo/movie-catalog/internal/utils"
)

const secret = "router-secret"

func newServer() *echo.Echo {
	store := sheet.NewMemoryStore([][]string{
		model.Columns,
		{"Alien", "Terror", "1979", "", "", "117", "HBO", "8.5", "", ""},
	})
	e := echo.New()
	e.Validator = handler.NewValidator()
	RegisterRoutes(e)
	cfg := config.Config{JWTSecret: secret, AccessTTLMin: 5, RefreshTTLDays: 1}
	passthrough := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	RegisterAuth(e, handler.NewAuthHandler(cfg, nil, nil, zap.NewNop()), secret, passthrough)
	cache := middleware.NewResponseCache(config.CacheConfig{
		Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute, Prefix: "t",
	}, nil)
	h := handler.NewCatalogHandler(repository.NewMovieRepo(store), nil, nil, zap.NewNop())
	RegisterCatalog(e, h, secret, cache, passthrough)
	return e
}

func get(t *testing.T, e *echo.Echo, target, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if role != "" {
		tok, err := utils.NewAccessToken(secret, 3, role, 5)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutes(t *testing.T) {
	e := newServer()
	rec := get(t, e, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = get(t, e, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/html")
}

func TestCatalogRequiresToken(t *testing.T) {
	e := newServer()
	assert.Equal(t, http.StatusUnauthorized, get(t, e, "/v1/movies", "").Code)
	assert.Equal(t, http.StatusForbidden, get(t, e, "/v1/movies", "OWNER").Code)
	assert.Equal(t, http.StatusOK, get(t, e, "/v1/movies", model.RoleViewer).Code)
}

func TestEditorOnlyRoutes(t *testing.T) {
	e := newServer()
	assert.Equal(t, http.StatusForbidden, get(t, e, "/v1/edits", model.RoleViewer).Code)
	assert.Equal(t, http.StatusOK, get(t, e, "/v1/edits", model.RoleEditor).Code)
}

func TestFacetsAreCached(t *testing.T) {
	e := newServer()
	first := get(t, e, "/v1/movies/facets", model.RoleViewer)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get(t, e, "/v1/movies/facets", model.RoleViewer)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))

	list := get(t, e, "/v1/movies", model.RoleViewer)
	assert.Empty(t, list.Header().Get("X-Cache"))
}
