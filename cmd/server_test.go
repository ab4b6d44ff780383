package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/artsyapp/artsy/pkg/artsycli"
)

var testUser = artsycli.User{UserID: "u1", Username: "ada", Email: "a@b.com"}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// fakeServer is an in-memory API. Login accepts a@b.com/pw.
type fakeServer struct {
	mu        sync.Mutex
	favorites []artsycli.Favorite
	logouts   int
	deletes   int
}

func (f *fakeServer) calls() (logouts, deletes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logouts, f.deletes
}

func (f *fakeServer) authed(w http.ResponseWriter, r *http.Request) bool {
	if c, err := r.Cookie("sid"); err == nil && c.Value == "token-1" {
		return true
	}
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
	return false
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req artsycli.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email != "a@b.com" || req.Password != "pw" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "token-1", Path: "/", MaxAge: 3600, HttpOnly: true})
		writeJSON(w, http.StatusOK, testUser)
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var req artsycli.RegisterRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Email == "a@b.com" {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "Email already exists"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "sid", Value: "token-1", Path: "/"})
		writeJSON(w, http.StatusCreated, artsycli.User{UserID: "u2", Username: req.Username, Email: req.Email})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if f.authed(w, r) {
			writeJSON(w, http.StatusOK, testUser)
		}
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.logouts++
		f.mu.Unlock()
		http.SetCookie(w, &http.Cookie{Name: "sid", Path: "/", MaxAge: -1})
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("DELETE /auth/delete-account", func(w http.ResponseWriter, r *http.Request) {
		if f.authed(w, r) {
			f.mu.Lock()
			f.deletes++
			f.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		}
	})
	mux.HandleFunc("GET /api/users/favorites", func(w http.ResponseWriter, r *http.Request) {
		if f.authed(w, r) {
			f.mu.Lock()
			defer f.mu.Unlock()
			writeJSON(w, http.StatusOK, artsycli.FavoritesResponse{Success: true, Favorites: f.favorites})
		}
	})
	mux.HandleFunc("POST /api/users/favorites", func(w http.ResponseWriter, r *http.Request) {
		if !f.authed(w, r) {
			return
		}
		var req artsycli.AddFavoriteRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.favorites = append(f.favorites, artsycli.Favorite{ID: req.ArtistID, Name: "Artist " + req.ArtistID, Birthday: "1853"})
		writeJSON(w, http.StatusOK, artsycli.FavoritesResponse{Success: true, Favorites: f.favorites})
	})
	mux.HandleFunc("DELETE /api/users/favorites/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !f.authed(w, r) {
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		kept := f.favorites[:0]
		for _, fav := range f.favorites {
			if fav.ID != r.PathValue("id") {
				kept = append(kept, fav)
			}
		}
		f.favorites = kept
		writeJSON(w, http.StatusOK, artsycli.FavoritesResponse{Success: true, Favorites: f.favorites})
	})
	return mux
}

// testEnv points every command at a fake server and a private config
// directory.
type testEnv struct {
	srv *fakeServer
	url string
	dir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fs := &fakeServer{}
	srv := httptest.NewServer(fs.handler())
	t.Cleanup(srv.Close)
	dir := t.TempDir()
	t.Setenv("ARTSY_BASE_URL", srv.URL)
	t.Setenv("ARTSY_CONFIG_DIR", dir)
	t.Setenv("ARTSY_STORAGE", "file")
	t.Setenv("ARTSY_RETRY_MAX", "0")
	t.Setenv("ARTSY_LOG_LEVEL", "error")
	return &testEnv{srv: fs, url: srv.URL, dir: dir}
}

func (e *testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

// run executes the CLI with args and returns stdout and the command error.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var err error
	stdout, _ := captureOutput(func() {
		err = Execute(append([]string{"artsy"}, args...), BuildArgs{Version: "1.0.0", BuildType: "test", Commit: "abc", Date: "today"})
	})
	return stdout, err
}

// setStdin feeds input to prompts. terminal selects the no-echo path.
func setStdin(t *testing.T, input string, terminal bool) {
	t.Helper()
	oldIn, oldReader, oldTerm := stdin, stdinReader, isTerminal
	stdin = strings.NewReader(input)
	stdinReader = nil
	isTerminal = func(int) bool { return terminal }
	t.Cleanup(func() {
		stdin, stdinReader, isTerminal = oldIn, oldReader, oldTerm
	})
}

func mustLogin(t *testing.T) {
	t.Helper()
	out, err := run(t, "login", "--email", "a@b.com", "--password", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	assertContains(t, out, "Logged in successfully")
}
