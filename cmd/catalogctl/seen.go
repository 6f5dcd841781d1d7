package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/movie-catalog/internal/catalog"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

func newSeenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seen",
		Short: "Set the seen flags of one row",
		Long: `Set one or both seen flags of a movie, identified by its sheet row.

Flags that are not given keep their current value. Nothing is written
when the values already match the sheet.`,
		Example: "  catalogctl seen --row 12 --a\n  catalogctl seen --row 12 --b=false",
		RunE:    runSeen,
	}
	cmd.Flags().Int("row", 0, "sheet row of the movie (first data row is 2)")
	cmd.Flags().Bool("a", false, "seen by the first viewer")
	cmd.Flags().Bool("b", false, "seen by the second viewer")
	_ = cmd.MarkFlagRequired("row")
	return cmd
}

func runSeen(cmd *cobra.Command, args []string) error {
	row, _ := cmd.Flags().GetInt("row")
	if !cmd.Flags().Changed("a") && !cmd.Flags().Changed("b") {
		return fmt.Errorf("set --a and/or --b")
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open sheet: %w", err)
	}
	repo := repository.NewMovieRepo(store)
	cat, err := repo.Load(cmd.Context())
	if err != nil {
		return err
	}
	flags, ok := cat.Seen[row]
	if !ok {
		return fmt.Errorf("row %d is not a movie", row)
	}
	if cmd.Flags().Changed("a") {
		flags.A, _ = cmd.Flags().GetBool("a")
	}
	if cmd.Flags().Changed("b") {
		flags.B, _ = cmd.Flags().GetBool("b")
	}

	changes := catalog.Diff(cat.Seen, map[int]model.SeenFlags{row: flags})
	updates, err := repo.ApplyChanges(cmd.Context(), cat, changes)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no changes")
		return nil
	}
	for _, u := range updates {
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", u.A1(), u.Value)
	}
	return nil
}
