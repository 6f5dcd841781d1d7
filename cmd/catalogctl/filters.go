package main

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/movie-catalog/internal/catalog"
)

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringSlice("genre", nil, "only these genres (repeatable or comma separated)")
	cmd.Flags().StringSlice("platform", nil, "only movies on any of these platforms")
	cmd.Flags().Int("year-min", 0, "earliest year; movies without a year always pass")
	cmd.Flags().Int("year-max", 0, "latest year; movies without a year always pass")
	cmd.Flags().Bool("exclude-seen-a", false, "hide movies the first viewer has seen")
	cmd.Flags().Bool("exclude-seen-b", false, "hide movies the second viewer has seen")
}

func filterFromFlags(cmd *cobra.Command) catalog.Filter {
	var f catalog.Filter
	f.Genres, _ = cmd.Flags().GetStringSlice("genre")
	f.Platforms, _ = cmd.Flags().GetStringSlice("platform")
	if cmd.Flags().Changed("year-min") {
		n, _ := cmd.Flags().GetInt("year-min")
		f.YearMin = &n
	}
	if cmd.Flags().Changed("year-max") {
		n, _ := cmd.Flags().GetInt("year-max")
		f.YearMax = &n
	}
	f.ExcludeSeenA, _ = cmd.Flags().GetBool("exclude-seen-a")
	f.ExcludeSeenB, _ = cmd.Flags().GetBool("exclude-seen-b")
	return f
}
