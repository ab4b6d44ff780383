package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/artsyapp/artsy/cmd/common"
	"github.com/artsyapp/artsy/pkg/artsycli"
	"github.com/urfave/cli"
)

var errNoArtist = errors.New("artist id is required")

func listFavorites(ctx *cli.Context, a *App) error {
	if !restore(a) {
		return errNotLoggedIn
	}
	res, err := a.Client.Favorites(context.Background())
	if err != nil {
		common.PrintRuntimeErr(ctx, "favorites", "list", err)
		return nil
	}
	printFavorites(res.Favorites)
	return nil
}

func addFavorite(ctx *cli.Context, a *App) error {
	return editFavorite(ctx, a, "add", a.Client.AddFavorite)
}

func removeFavorite(ctx *cli.Context, a *App) error {
	return editFavorite(ctx, a, "remove", a.Client.RemoveFavorite)
}

func editFavorite(ctx *cli.Context, a *App, action string, call func(context.Context, string) (*artsycli.FavoritesResponse, error)) error {
	id := ctx.Args().First()
	if id == "" {
		return common.PrintErrWithCmdHelp(ctx, errNoArtist)
	}
	if !restore(a) {
		return errNotLoggedIn
	}
	res, err := call(context.Background(), id)
	if err != nil {
		common.PrintRuntimeErr(ctx, "favorites", action, err)
		return nil
	}
	printFavorites(res.Favorites)
	return nil
}

func printFavorites(favs []artsycli.Favorite) {
	if len(favs) == 0 {
		fmt.Println("artsy: no favorite artists yet")
		return
	}
	txt := "Your favorite artists:"
	txt += "\n\n---------------------------------------------------------------"
	txt += "\n|Num|          Name          |     Artist ID      |   Born   |"
	txt += "\n|---|------------------------|--------------------|----------|"
	for i, f := range favs {
		txt += fmt.Sprintf("\n| %d | %s | %s | %s |", i+1, fit(f.Name, 22), fit(f.ID, 18), fit(f.Birthday, 8))
	}
	txt += "\n---------------------------------------------------------------"
	fmt.Println(txt)
}

// fit truncates or centers s to exactly n bytes.
func fit(s string, n int) string {
	switch {
	case len(s) > n:
		return s[:n-3] + "..."
	case len(s) < n:
		return common.Beaut(s, n)
	}
	return s
}
