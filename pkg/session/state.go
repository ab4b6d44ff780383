package session

import "github.com/artsyapp/artsy/pkg/artsycli"

// Status is the authentication status of the process.
type Status int

const (
	// StatusRestoring means persisted credentials have not been checked yet.
	StatusRestoring Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusRestoring:
		return "restoring"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Session is the signed in user.
type Session struct {
	UserID    string
	Username  string
	Email     string
	AvatarURL string
}

// State is an immutable snapshot of the session. Session is non-nil only
// when Status is StatusAuthenticated.
type State struct {
	Status  Status
	Session *Session
}

// Authenticated reports whether the state carries a signed in user.
func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated
}

func authenticated(u artsycli.User) State {
	return State{
		Status: StatusAuthenticated,
		Session: &Session{
			UserID:    u.UserID,
			Username:  u.Username,
			Email:     u.Email,
			AvatarURL: u.AvatarURL,
		},
	}
}

var (
	restoring       = State{Status: StatusRestoring}
	unauthenticated = State{Status: StatusUnauthenticated}
)
