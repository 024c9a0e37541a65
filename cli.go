package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"mealseek/models"
	"mealseek/search"

	"github.com/spf13/cobra"
)

var (
	cuisine string
	maxTime int
	diets   []string
	showAll bool
)

var searchCmd = &cobra.Command{
	Use:   "search [ingredients...]",
	Short: "Search recipes by ingredient",
	Long: `Search TheMealDB for recipes using the first ingredient given.

Further ingredients are kept for display only; the remote API filters by a
single ingredient.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		f := models.NewFilters()
		f.Cuisine = cuisine
		f.MaxMinutes = maxTime
		for _, d := range diets {
			f.Dietary[d] = true
		}
		if err := f.Validate(); err != nil {
			return err
		}

		return runSearch(ctx, cmd.OutOrStdout(), a.newOrchestrator(), strings.Join(args, "\n"), f, showAll)
	},
}

func runSearch(ctx context.Context, out io.Writer, orch *search.Orchestrator, input string, f models.Filters, all bool) error {
	orch.Input(ctx, input, len(input))
	orch.SetFilters(f)

	view, err := orch.Search(ctx)
	if err != nil && !errors.Is(err, search.ErrFetchFailed) {
		return err
	}
	if view.Message != "" {
		fmt.Fprintln(out, view.Message)
		return err
	}
	for all && view.Results.HasMore {
		view = orch.ShowMore()
	}

	printRecipes(out, view.Results.Recipes, view.FavoriteIDs)
	if view.Results.HasMore {
		fmt.Fprintf(out, "\nshowing %d of %d, use --all for the rest\n", len(view.Results.Recipes), view.Results.Total)
	}
	return nil
}

func printRecipes(out io.Writer, rs []models.Recipe, favs map[string]bool) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCUISINE\tCATEGORY\t")
	for _, r := range rs {
		mark := ""
		if favs[r.ID] {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Area, r.Category, mark)
	}
	tw.Flush()
}

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Inspect saved favorites",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved favorites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		list := a.favorites.List()
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no favorites yet")
			return nil
		}
		printRecipes(cmd.OutOrStdout(), list, nil)
		return nil
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a favorite by recipe id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.close(context.Background())

		if !a.favorites.Contains(args[0]) {
			return fmt.Errorf("recipe %s is not a favorite", args[0])
		}
		return a.favorites.Remove(cmd.Context(), args[0])
	},
}

func init() {
	searchCmd.Flags().StringVar(&cuisine, "cuisine", "", "Keep only this cuisine (e.g. Italian)")
	searchCmd.Flags().IntVar(&maxTime, "max-time", 0, "Maximum preparation time in minutes")
	searchCmd.Flags().StringSliceVar(&diets, "diet", nil, "Dietary restrictions: vegetarian, vegan, glutenFree, dairyFree")
	searchCmd.Flags().BoolVar(&showAll, "all", false, "Show every result instead of the first page")

	favoritesCmd.AddCommand(favoritesListCmd, favoritesRemoveCmd)
}
