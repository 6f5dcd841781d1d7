package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/movie-catalog/internal/catalog"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/sheet"
)

// EditLog persists the audit trail of flushed seen flags.
type EditLog interface {
	Record(ctx context.Context, userID uint64, changes []model.SeenChange, at time.Time) error
	ListRecent(ctx context.Context, limit int) ([]model.SeenEdit, error)
}

// EventPublisher announces flushed seen flags.
type EventPublisher interface {
	PublishSeenUpdated(ctx context.Context, event queue.SeenUpdatedEvent) error
}

// CatalogHandler serves the movie grid.  Every request reads the sheet
// again; Edits and Events are optional.
type CatalogHandler struct {
	Movies *repository.MovieRepo
	Edits  EditLog
	Events EventPublisher
	Picker *catalog.Picker
	Log    *zap.Logger
	Now    func() time.Time
}

func NewCatalogHandler(movies *repository.MovieRepo, edits EditLog, events EventPublisher, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		Movies: movies,
		Edits:  edits,
		Events: events,
		Picker: catalog.NewPicker(),
		Log:    log,
		Now:    time.Now,
	}
}

var errSheetUnavailable = echo.Map{"error": "sheet unavailable"}

// ----- DTOs -----

type seenRow struct {
	RowID   int   `json:"row_id" validate:"required"`
	SeenByA *bool `json:"seen_by_a" validate:"required"`
	SeenByB *bool `json:"seen_by_b" validate:"required"`
}

type seenReq struct {
	Rows []seenRow `json:"rows" validate:"required,min=1,dive"`
}

type cellWrite struct {
	Cell  string `json:"cell"`
	Value string `json:"value"`
}

type facetsResp struct {
	catalog.Facets
	Columns  []string `json:"columns"`
	Editable []string `json:"editable"`
}

// List returns the filtered and sorted movies.
func (h *CatalogHandler) List(c echo.Context) error {
	f, o, err := parseQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	cat, err := h.Movies.Load(c.Request().Context())
	if err != nil {
		h.Log.Error("load catalog failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, errSheetUnavailable)
	}
	items := catalog.Sort(catalog.Apply(cat.Movies, f), o)
	return c.JSON(http.StatusOK, echo.Map{"count": len(items), "items": items})
}

// Facets returns the option lists of the filter panel and the grid columns.
func (h *CatalogHandler) Facets(c echo.Context) error {
	cat, err := h.Movies.Load(c.Request().Context())
	if err != nil {
		h.Log.Error("load catalog failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, errSheetUnavailable)
	}
	return c.JSON(http.StatusOK, facetsResp{
		Facets:   catalog.BuildFacets(cat.Movies),
		Columns:  model.Columns,
		Editable: model.SeenColumns,
	})
}

// Random picks one movie among those matching the filters.  An empty
// result is not an error.
func (h *CatalogHandler) Random(c echo.Context) error {
	f, _, err := parseQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	cat, err := h.Movies.Load(c.Request().Context())
	if err != nil {
		h.Log.Error("load catalog failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, errSheetUnavailable)
	}
	m, err := h.Picker.Pick(catalog.Apply(cat.Movies, f))
	if errors.Is(err, catalog.ErrNoResults) {
		return c.JSON(http.StatusOK, echo.Map{"movie": nil, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"movie": m})
}

// UpdateSeen diffs the submitted flags against a fresh read of the sheet
// and writes only the cells that changed, in one batch.
func (h *CatalogHandler) UpdateSeen(c echo.Context) error {
	var req seenReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	cat, err := h.Movies.Load(ctx)
	if err != nil {
		h.Log.Error("load catalog failed", zap.Error(err))
		return c.JSON(http.StatusBadGateway, errSheetUnavailable)
	}

	edited := make(map[int]model.SeenFlags, len(cat.Seen))
	for id, flags := range cat.Seen {
		edited[id] = flags
	}
	for _, r := range req.Rows {
		// rows gone from the sheet since the page loaded are dropped
		if _, ok := cat.Seen[r.RowID]; !ok {
			h.Log.Debug("skip unknown row", zap.Int("row_id", r.RowID))
			continue
		}
		edited[r.RowID] = model.SeenFlags{A: *r.SeenByA, B: *r.SeenByB}
	}

	changes := catalog.Diff(cat.Seen, edited)
	updates, err := h.Movies.ApplyChanges(ctx, cat, changes)
	if err != nil {
		h.Log.Error("flush seen flags failed", zap.Error(err), zap.Int("changes", len(changes)))
		return c.JSON(http.StatusBadGateway, errSheetUnavailable)
	}

	writes := make([]cellWrite, 0, len(updates))
	for _, u := range updates {
		writes = append(writes, cellWrite{Cell: u.A1(), Value: u.Value})
	}
	if len(changes) > 0 {
		userID, _ := middleware.UserID(c)
		h.afterFlush(ctx, userID, cat, changes, updates)
	}
	if changes == nil {
		changes = []model.SeenChange{}
	}
	return c.JSON(http.StatusOK, echo.Map{"changes": changes, "updates": writes})
}

// afterFlush records the audit trail and publishes the event.  The sheet
// has already been written, so failures here are only logged.
func (h *CatalogHandler) afterFlush(ctx context.Context, userID uint64, cat *repository.Catalog, changes []model.SeenChange, updates []sheet.CellUpdate) {
	now := h.Now().UTC()
	h.Log.Info("seen flags flushed", zap.Uint64("user_id", userID), zap.Int("changes", len(changes)))

	if h.Edits != nil {
		dbCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := h.Edits.Record(dbCtx, userID, changes, now); err != nil {
			h.Log.Warn("record seen edits failed", zap.Error(err))
		}
		cancel()
	}
	if h.Events == nil {
		return
	}

	names := make(map[int]string, len(cat.Movies))
	for _, m := range cat.Movies {
		names[m.RowID] = m.Name
	}
	ev := queue.SeenUpdatedEvent{
		EventID:   uuid.NewString(),
		UserID:    userID,
		FlushedAt: now.Format(time.RFC3339),
		Changes:   make([]queue.SeenChange, 0, len(changes)),
	}
	for i, ch := range changes {
		cell := ""
		if i < len(updates) {
			cell = updates[i].A1()
		}
		ev.Changes = append(ev.Changes, queue.SeenChange{
			RowID: ch.RowID, Movie: names[ch.RowID], Column: ch.Column, Cell: cell, Value: ch.New,
		})
	}
	if err := h.Events.PublishSeenUpdated(ctx, ev); err != nil {
		h.Log.Warn("publish seen update failed", zap.Error(err), zap.String("event_id", ev.EventID))
	}
}

// ListEdits returns the newest audit records.
func (h *CatalogHandler) ListEdits(c echo.Context) error {
	limit := 50
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 200 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be between 1 and 200"})
		}
		limit = n
	}
	if h.Edits == nil {
		return c.JSON(http.StatusOK, echo.Map{"items": []model.SeenEdit{}})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	items, err := h.Edits.ListRecent(ctx, limit)
	if err != nil {
		h.Log.Error("list seen edits failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// parseQuery reads the filter and sort parameters shared by List and Random.
func parseQuery(c echo.Context) (catalog.Filter, catalog.Order, error) {
	q := c.QueryParams()
	f := catalog.Filter{
		Genres:    splitList(q["genre"]),
		Platforms: splitList(q["platform"]),
	}
	var err error
	if f.YearMin, err = optInt(q.Get("year_min"), "year_min"); err != nil {
		return f, catalog.Order{}, err
	}
	if f.YearMax, err = optInt(q.Get("year_max"), "year_max"); err != nil {
		return f, catalog.Order{}, err
	}
	if f.ExcludeSeenA, err = optBool(q.Get("exclude_seen_a"), "exclude_seen_a"); err != nil {
		return f, catalog.Order{}, err
	}
	if f.ExcludeSeenB, err = optBool(q.Get("exclude_seen_b"), "exclude_seen_b"); err != nil {
		return f, catalog.Order{}, err
	}

	key, err := catalog.ParseSortKey(q.Get("sort"))
	if err != nil {
		return f, catalog.Order{}, err
	}
	o := catalog.Order{Key: key}
	switch strings.ToLower(strings.TrimSpace(q.Get("order"))) {
	case "", "asc":
	case "desc":
		o.Desc = true
	default:
		return f, o, fmt.Errorf("order must be asc or desc")
	}
	return f, o, nil
}

// splitList accepts repeated parameters and comma separated values.
func splitList(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func optInt(s, name string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &n, nil
}

func optBool(s, name string) (bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean", name)
	}
	return b, nil
}
