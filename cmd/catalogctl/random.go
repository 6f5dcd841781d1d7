package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/movie-catalog/internal/catalog"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

func newRandomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Pick one movie at random among those matching the filters",
		RunE:  runRandom,
	}
	addFilterFlags(cmd)
	return cmd
}

func runRandom(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open sheet: %w", err)
	}
	cat, err := repository.NewMovieRepo(store).Load(cmd.Context())
	if err != nil {
		return err
	}
	m, err := catalog.NewPicker().Pick(catalog.Apply(cat.Movies, filterFromFlags(cmd)))
	if errors.Is(err, catalog.ErrNoResults) {
		// Not a failure: nothing to watch tonight.
		fmt.Fprintln(cmd.OutOrStdout(), err.Error())
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (row %d)\n", m.Name, m.RowID)
	if m.Year != nil || m.Genre != "" || m.Platform != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s  %s\n", optInt(m.Year), m.Genre, m.Platform)
	}
	return nil
}
