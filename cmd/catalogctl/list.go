package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iliyamo/movie-catalog/internal/catalog"
	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/repository"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movies matching the filters",
		RunE:  runList,
	}
	addFilterFlags(cmd)
	cmd.Flags().String("sort", "name", "sort column: name, year, duration, rating, genre, platform, saga, saga_number")
	cmd.Flags().Bool("desc", false, "sort descending")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	sortFlag, _ := cmd.Flags().GetString("sort")
	key, err := catalog.ParseSortKey(sortFlag)
	if err != nil {
		return err
	}
	desc, _ := cmd.Flags().GetBool("desc")

	store, err := openStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open sheet: %w", err)
	}
	cat, err := repository.NewMovieRepo(store).Load(cmd.Context())
	if err != nil {
		return err
	}
	movies := catalog.Sort(catalog.Apply(cat.Movies, filterFromFlags(cmd)), catalog.Order{Key: key, Desc: desc})
	printMovies(cmd.OutOrStdout(), movies)
	return nil
}

func printMovies(out io.Writer, movies []model.Movie) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROW\tNAME\tGENRE\tYEAR\tDURATION\tPLATFORM\tRATING\tA\tB")
	for _, m := range movies {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			m.RowID, m.Name, m.Genre, optInt(m.Year), optInt(m.Duration), m.Platform,
			optFloat(m.Rating), mark(m.SeenByA), mark(m.SeenByB))
	}
	_ = w.Flush()
	fmt.Fprintf(out, "%d movies\n", len(movies))
}

func optInt(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func optFloat(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func mark(b bool) string {
	if b {
		return "x"
	}
	return ""
}
