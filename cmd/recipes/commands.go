package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/pageza/recipe-hub/backend/internal/client"
	"github.com/pageza/recipe-hub/backend/internal/model"
)

const name = "recipes"

func queryFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "Only show recipes matching this text in any field",
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   name,
		Usage:  "Browse, edit and favorite recipes",
		Writer: out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Value:   client.DefaultBaseURL,
				Usage:   "Base URL of the recipe API",
				Sources: cli.EnvVars("RECIPE_API_URL"),
			},
			&cli.StringFlag{
				Name:    "state-file",
				Value:   client.DefaultStatePath(),
				Usage:   "Path of the local file holding favorites",
				Sources: cli.EnvVars("RECIPE_STATE_FILE"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := logrus.ParseLevel(cmd.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("invalid log level %q: %w", cmd.String("log-level"), err)
			}
			logrus.SetLevel(level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			listCmd(),
			showCmd(),
			addCmd(),
			editCmd(),
			deleteCmd(),
			favCmd(),
			favoritesCmd(),
			discoverCmd(),
			importCmd(),
		},
	}
}

func apiClient(cmd *cli.Command) *client.APIClient {
	return client.NewAPIClient(cmd.Root().String("api-url"))
}

func favorites(cmd *cli.Command) *client.Favorites {
	return client.LoadFavorites(client.NewFileKV(cmd.Root().String("state-file")))
}

func writer(cmd *cli.Command) io.Writer {
	return cmd.Root().Writer
}

func requireID(cmd *cli.Command) (string, error) {
	id := strings.TrimSpace(cmd.Args().First())
	if id == "" {
		return "", errors.New("a recipe id is required")
	}
	return id, nil
}

func listCmd() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "List recipes, optionally filtered locally",
		UsageText: name + " list [--query TEXT]",
		Flags:     []cli.Flag{queryFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cache := client.NewCache(apiClient(cmd))
			if err := cache.Refresh(ctx); err != nil {
				return fmt.Errorf("failed to fetch recipes: %w", err)
			}
			cache.SetQuery(cmd.String("query"))
			return printRecipes(writer(cmd), cache.View(), favorites(cmd))
		},
	}
}

func showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a recipe",
		UsageText: name + " show ID",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := requireID(cmd)
			if err != nil {
				return err
			}
			recipe, err := apiClient(cmd).Get(ctx, id)
			if err != nil {
				return err
			}
			printRecipe(writer(cmd), recipe, favorites(cmd).Contains(recipe.ID))
			return nil
		},
	}
}

func recipeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "Recipe title"},
		&cli.StringSliceFlag{Name: "ingredient", Aliases: []string{"i"}, Usage: "Ingredient line, repeatable"},
		&cli.StringFlag{Name: "instructions", Usage: "Preparation steps"},
		&cli.StringFlag{Name: "duration", Usage: "Cooking time in minutes"},
		&cli.StringFlag{Name: "image", Usage: "Image URL or data URI"},
		&cli.StringSliceFlag{
			Name:  "diet",
			Usage: fmt.Sprintf("Dietary tag to set (supported values: %s)", strings.Join(model.KnownRestrictions, ", ")),
		},
	}
}

func dietFlags(names []string) model.Flags {
	flags := model.Flags{}
	for _, n := range names {
		flags[n] = true
	}
	return flags
}

func addCmd() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a recipe",
		UsageText: name + " add --title TITLE --ingredient ITEM... --instructions TEXT",
		Flags:     recipeFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			recipe, err := apiClient(cmd).Create(ctx, model.RecipeInput{
				Title:               cmd.String("title"),
				Ingredients:         cmd.StringSlice("ingredient"),
				Instructions:        cmd.String("instructions"),
				Duration:            cmd.String("duration"),
				ImageURL:            cmd.String("image"),
				DietaryRestrictions: dietFlags(cmd.StringSlice("diet")),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(writer(cmd), "Created %s (%s)\n", recipe.Title, recipe.ID)
			return nil
		},
	}
}

func editCmd() *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Change the given fields of a recipe",
		UsageText: name + " edit [--title TITLE] [--duration MIN] [--image URL] ... ID",
		Flags:     recipeFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := requireID(cmd)
			if err != nil {
				return err
			}

			var patch model.RecipePatch
			if cmd.IsSet("title") {
				patch.Title = model.StringPtr(cmd.String("title"))
			}
			if cmd.IsSet("ingredient") {
				patch.Ingredients = cmd.StringSlice("ingredient")
			}
			if cmd.IsSet("instructions") {
				patch.Instructions = model.StringPtr(cmd.String("instructions"))
			}
			if cmd.IsSet("duration") {
				patch.Duration = model.StringPtr(cmd.String("duration"))
			}
			if cmd.IsSet("image") {
				patch.ImageURL = model.StringPtr(cmd.String("image"))
			}
			if cmd.IsSet("diet") {
				patch.DietaryRestrictions = dietFlags(cmd.StringSlice("diet"))
			}

			modified, err := apiClient(cmd).Update(ctx, id, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(writer(cmd), "Updated %s (%d modified)\n", id, modified)
			return nil
		},
	}
}

func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a recipe, or every recipe with --all",
		UsageText: name + " delete ID | " + name + " delete --all",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "Delete every recipe"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			api := apiClient(cmd)
			if cmd.Bool("all") {
				deleted, err := api.DeleteAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(writer(cmd), "Deleted %d recipes\n", deleted)
				return nil
			}

			id, err := requireID(cmd)
			if err != nil {
				return err
			}
			if _, err := api.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(writer(cmd), "Deleted %s\n", id)
			return nil
		},
	}
}

func favCmd() *cli.Command {
	return &cli.Command{
		Name:      "fav",
		Usage:     "Add a recipe to favorites, or remove it when already there",
		UsageText: name + " fav ID",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := requireID(cmd)
			if err != nil {
				return err
			}
			added, err := favorites(cmd).Toggle(id)
			if err != nil {
				return err
			}
			if added {
				fmt.Fprintf(writer(cmd), "Added %s to favorites\n", id)
			} else {
				fmt.Fprintf(writer(cmd), "Removed %s from favorites\n", id)
			}
			return nil
		},
	}
}

func favoritesCmd() *cli.Command {
	return &cli.Command{
		Name:      "favorites",
		Usage:     "List favorite recipes",
		UsageText: name + " favorites [--query TEXT]",
		Flags:     []cli.Flag{queryFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			favs := favorites(cmd)
			all, err := apiClient(cmd).List(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch recipes: %w", err)
			}
			view := client.FilterLocal(client.Materialize(all, favs.IDs()), cmd.String("query"))
			return printRecipes(writer(cmd), view, favs)
		},
	}
}

func discoverFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Search the catalog instead of fetching random recipes"},
		&cli.IntFlag{Name: "number", Aliases: []string{"n"}, Usage: "How many catalog recipes to fetch"},
		&cli.StringSliceFlag{Name: "diet", Usage: "Keep recipes with this dietary flag, repeatable"},
		&cli.IntFlag{Name: "max-ready-time", Usage: "Keep recipes ready within this many minutes"},
		&cli.StringFlag{Name: "include-ingredients", Usage: "Comma separated ingredients, any of which must appear"},
	}
}

func fetchDiscovered(ctx context.Context, cmd *cli.Command) ([]model.DiscoveredRecipe, error) {
	api := apiClient(cmd)
	if q := strings.TrimSpace(cmd.String("query")); q != "" {
		return api.DiscoverSearch(ctx, q, cmd.Int("number"))
	}
	return api.DiscoverRandom(ctx, cmd.Int("number"))
}

func discoverCmd() *cli.Command {
	return &cli.Command{
		Name:      "discover",
		Usage:     "Browse the external recipe catalog",
		UsageText: name + " discover [--query TEXT] [--diet TAG]... [--max-ready-time MIN]",
		Flags:     discoverFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			recipes, err := fetchDiscovered(ctx, cmd)
			if err != nil {
				return err
			}
			filter := client.DiscoverFilter{
				Diet:               cmd.StringSlice("diet"),
				MaxReadyTime:       cmd.Int("max-ready-time"),
				IncludeIngredients: cmd.String("include-ingredients"),
			}
			return printDiscovered(writer(cmd), filter.Apply(recipes))
		},
	}
}

func importCmd() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Copy catalog recipes into the collection",
		UsageText: name + " import [--query TEXT] CATALOG_ID...",
		Flags:     discoverFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			wanted := cmd.Args().Slice()
			if len(wanted) == 0 {
				return errors.New("at least one catalog id is required")
			}
			recipes, err := fetchDiscovered(ctx, cmd)
			if err != nil {
				return err
			}

			byID := make(map[string]model.DiscoveredRecipe, len(recipes))
			for _, r := range recipes {
				byID[fmt.Sprint(r.ID)] = r
			}

			api := apiClient(cmd)
			out := writer(cmd)
			for _, id := range wanted {
				discovered, ok := byID[id]
				if !ok {
					fmt.Fprintf(out, "Catalog recipe %s not found in results\n", id)
					continue
				}
				recipe, err := api.Import(ctx, discovered)
				var apiErr *client.APIError
				if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
					fmt.Fprintf(out, "Skipped %s: %s\n", discovered.Title, apiErr.Message)
					continue
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Imported %s (%s)\n", recipe.Title, recipe.ID)
			}
			return nil
		},
	}
}

func printRecipes(out io.Writer, recipes []*model.Recipe, favs *client.Favorites) error {
	if len(recipes) == 0 {
		fmt.Fprintln(out, "No recipes found")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tMINUTES\tTAGS\tFAV")
	for _, r := range recipes {
		fav := ""
		if favs.Contains(r.ID) {
			fav = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Title, r.Duration, strings.Join(r.DietaryRestrictions.Active(), ","), fav)
	}
	return tw.Flush()
}

func printRecipe(out io.Writer, r *model.Recipe, favorite bool) {
	fmt.Fprintf(out, "%s\n", r.Title)
	if favorite {
		fmt.Fprintln(out, "(favorite)")
	}
	fmt.Fprintf(out, "ID: %s\nDuration: %s minutes\n", r.ID, r.Duration)
	if tags := r.DietaryRestrictions.Active(); len(tags) > 0 {
		fmt.Fprintf(out, "Dietary: %s\n", strings.Join(tags, ", "))
	}
	if r.ImageURL != "" && !strings.HasPrefix(r.ImageURL, "data:") {
		fmt.Fprintf(out, "Image: %s\n", r.ImageURL)
	}
	fmt.Fprintln(out, "\nIngredients:")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(out, "  - %s\n", ing)
	}
	fmt.Fprintf(out, "\nInstructions:\n%s\n", r.Instructions)
}

func printDiscovered(out io.Writer, recipes []model.DiscoveredRecipe) error {
	if len(recipes) == 0 {
		fmt.Fprintln(out, "No catalog recipes found")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATALOG ID\tTITLE\tMINUTES\tTAGS")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n",
			r.ID, r.Title, r.ReadyInMinutes, strings.Join(r.Flags().Active(), ","))
	}
	return tw.Flush()
}
