package artsycli

import (
	"net/url"

	"github.com/artsyapp/artsy/pkg/credman/types"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the account record returned by the auth endpoints.
type User struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatarUrl"`
}

// Grant is the result of a successful login or registration. Its cookies
// have not been stored anywhere yet; the caller decides whether to commit
// them.
type Grant struct {
	User    User
	Cookies []types.Cookie
	// URL is the request URL the cookies were set by.
	URL *url.URL
}

type Favorite struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	Birthday    string `json:"birthday"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	AddedDate   string `json:"addedDate"`
}

type FavoritesResponse struct {
	Success   bool       `json:"success"`
	Favorites []Favorite `json:"favorites"`
}

type AddFavoriteRequest struct {
	ArtistID string `json:"artistId"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}
