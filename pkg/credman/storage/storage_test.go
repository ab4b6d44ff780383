package storage

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/zalando/go-keyring"
)

// runContract exercises the behavior every backend must share.
func runContract(t *testing.T, s Storage) {
	t.Helper()

	if _, err := s.Get("cookies"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty storage: expected ErrNotFound, got %v", err)
	}

	if err := s.Put("cookies", []byte(`[{"name":"sid"}]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get("cookies")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte(`[{"name":"sid"}]`)) {
		t.Fatalf("Get returned %q", got)
	}

	if err := s.Put("cookies", []byte(`[]`)); err != nil {
		t.Fatalf("overwrite Put: %v", err)
	}
	got, err = s.Get("cookies")
	if err != nil {
		t.Fatalf("Get after overwrite: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("expected overwritten value, got %q", got)
	}

	if err := s.Delete("cookies"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get("cookies"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Delete: expected ErrNotFound, got %v", err)
	}
	if err := s.Delete("cookies"); err != nil {
		t.Fatalf("Delete of missing key should succeed, got %v", err)
	}
}

func TestMemoryStorage(t *testing.T) {
	runContract(t, NewMemoryStorage())
}

func TestMemoryStorage_CopiesValues(t *testing.T) {
	s := NewMemoryStorage()
	in := []byte("abc")
	if err := s.Put("k", in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	in[0] = 'x'
	got, _ := s.Get("k")
	if string(got) != "abc" {
		t.Fatalf("stored value aliased caller slice: %q", got)
	}
}

func TestFileStorage(t *testing.T) {
	runContract(t, NewFileStorage(afero.NewMemMapFs(), "/config/artsy"))
}

func TestFileStorage_OsFs(t *testing.T) {
	dir := t.TempDir()
	runContract(t, NewFileStorage(afero.NewOsFs(), filepath.Join(dir, "nested")))
}

func TestFileStorage_Permissions(t *testing.T) {
	fsys := afero.NewMemMapFs()
	s := NewFileStorage(fsys, "/cfg")
	if err := s.Put("cookies", []byte("[]")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	info, err := fsys.Stat("/cfg/cookies.json")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != fileMode {
		t.Fatalf("expected permissions %o, got %o", fileMode, info.Mode().Perm())
	}
	// no temp files left behind
	entries, err := afero.ReadDir(fsys, "/cfg")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the record file, found %d entries", len(entries))
	}
}

func TestFileStorage_ReadOnly(t *testing.T) {
	s := NewFileStorage(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/cfg")
	if err := s.Put("cookies", []byte("[]")); err == nil {
		t.Fatal("expected write error on read-only filesystem")
	}
}

func TestSQLiteStorage(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "artsy.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()
	runContract(t, s)
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artsy.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Put("cookies", []byte("persisted")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	s.Close()

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Get("cookies")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "persisted" {
		t.Fatalf("expected value to survive reopen, got %q", got)
	}
}

func TestKeyringStorage(t *testing.T) {
	keyring.MockInit()
	runContract(t, NewKeyringStorage(""))
}

func TestKeyringStorage_Seams(t *testing.T) {
	origSet := keyringSet
	origGet := keyringGet
	origDelete := keyringDelete
	defer func() {
		keyringSet = origSet
		keyringGet = origGet
		keyringDelete = origDelete
	}()

	var setService, setKey, setValue string
	keyringSet = func(service, key, value string) error {
		setService, setKey, setValue = service, key, value
		return nil
	}
	keyringGet = func(string, string) (string, error) {
		return "", errors.New("get fail")
	}
	keyringDelete = func(string, string) error {
		return errors.New("delete fail")
	}

	k := NewKeyringStorage("custom")
	if err := k.Put("cookies", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if setService != "custom" || setKey != "cookies" || setValue != "v" {
		t.Fatalf("unexpected set call: %q %q %q", setService, setKey, setValue)
	}
	if _, err := k.Get("cookies"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected backend error to propagate, got %v", err)
	}
	if err := k.Delete("cookies"); err == nil {
		t.Fatal("expected delete error to propagate")
	}
}

func TestNewKeyringStorage_DefaultService(t *testing.T) {
	if got := NewKeyringStorage("").Service; got != DefaultKeyringService {
		t.Fatalf("expected default service %q, got %q", DefaultKeyringService, got)
	}
}
