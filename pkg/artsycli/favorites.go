package artsycli

import (
	"context"
	"net/http"
	"net/url"
)

const pathFavorites = "api/users/favorites"

// Favorites lists the signed in user's favorite artists.
func (c *Client) Favorites(ctx context.Context) (*FavoritesResponse, error) {
	res, _, err := invoke[FavoritesResponse](ctx, c.api, http.MethodGet, pathFavorites, nil)
	return res, err
}

// AddFavorite adds an artist and returns the updated list.
func (c *Client) AddFavorite(ctx context.Context, artistID string) (*FavoritesResponse, error) {
	res, _, err := invoke[FavoritesResponse](ctx, c.api, http.MethodPost, pathFavorites, &AddFavoriteRequest{
		ArtistID: artistID,
	})
	return res, err
}

// RemoveFavorite removes an artist and returns the updated list.
func (c *Client) RemoveFavorite(ctx context.Context, artistID string) (*FavoritesResponse, error) {
	res, _, err := invoke[FavoritesResponse](ctx, c.api, http.MethodDelete, pathFavorites+"/"+url.PathEscape(artistID), nil)
	return res, err
}
