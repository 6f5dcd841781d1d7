package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/sheet"
)

func useStore(t *testing.T, s sheet.Store, err error) {
	t.Helper()
	prev := openStore
	openStore = func(context.Context) (sheet.Store, error) { return s, err }
	t.Cleanup(func() { openStore = prev })
}

func fixture() *sheet.MemoryStore {
	return sheet.NewMemoryStore([][]string{
		model.Columns,
		{"Alien", "Terror", "1979", "", "", "117", "Netflix;HBO", "8.5", "TRUE", ""},
		{"Heat", "Crimen", "1995", "", "", "170", "HBO", "", "", ""},
		{"Sin año", "Drama", "", "", "", "", "", "", "", ""},
	})
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestListFiltersAndSorts(t *testing.T) {
	useStore(t, fixture(), nil)

	out, err := run("list", "--platform", "HBO", "--sort", "year", "--desc")
	require.NoError(t, err)
	assert.Contains(t, out, "2 movies")
	assert.Less(t, bytes.Index([]byte(out), []byte("Heat")), bytes.Index([]byte(out), []byte("Alien")))
	assert.NotContains(t, out, "Sin año")

	out, err = run("list", "--year-min", "1990")
	require.NoError(t, err)
	assert.Contains(t, out, "2 movies")
	assert.Contains(t, out, "Sin año")
}

func TestListRejectsUnknownSort(t *testing.T) {
	useStore(t, fixture(), nil)
	_, err := run("list", "--sort", "budget")
	assert.Error(t, err)
}

func TestRandom(t *testing.T) {
	useStore(t, fixture(), nil)

	out, err := run("random", "--genre", "Crimen")
	require.NoError(t, err)
	assert.Contains(t, out, "Heat (row 3)")

	out, err = run("random", "--genre", "Western")
	require.NoError(t, err)
	assert.Contains(t, out, "no movies match these filters")
}

func TestSeenWritesOnlyChanges(t *testing.T) {
	store := fixture()
	useStore(t, store, nil)

	out, err := run("seen", "--row", "2", "--a")
	require.NoError(t, err)
	assert.Contains(t, out, "no changes")
	assert.Equal(t, 0, store.Batches())

	out, err = run("seen", "--row", "3", "--b")
	require.NoError(t, err)
	assert.Contains(t, out, "J3 = TRUE")
	assert.Equal(t, 1, store.Batches())
	assert.Equal(t, "TRUE", store.Cell(3, 10))
	assert.Equal(t, "", store.Cell(3, 9))
}

func TestSeenErrors(t *testing.T) {
	useStore(t, fixture(), nil)

	_, err := run("seen", "--row", "2")
	assert.Error(t, err)
	_, err = run("seen", "--row", "40", "--a")
	assert.ErrorContains(t, err, "row 40")
	_, err = run("seen", "--a")
	assert.Error(t, err)
}

func TestStoreFailureExitsWithError(t *testing.T) {
	useStore(t, nil, errors.New("no credentials"))
	_, err := run("list")
	assert.ErrorContains(t, err, "no credentials")
}
