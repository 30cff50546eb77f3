package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestStoreCreateLoadDelete(t *testing.T) {
	store := newTestStore(t)

	created, err := store.Create("My Setup")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "My Setup" {
		t.Errorf("name = %q", created.Name)
	}

	loaded, err := store.Load("My Setup")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Name != "My Setup" {
		t.Errorf("loaded name = %q", loaded.Name)
	}
	if loaded.SelectedCharts == nil || loaded.OverlaySettings == nil {
		t.Error("maps must be initialized after load")
	}

	if err := store.Delete("My Setup"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Load("My Setup"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete = %v, want ErrNotFound", err)
	}
}

func TestStoreCreateRejectsDuplicates(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Create("Main"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create("main"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("case-insensitive duplicate = %v, want ErrAlreadyExists", err)
	}
	if _, err := store.Create("  "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name = %v, want ErrEmptyName", err)
	}
}

func TestStoreSavePersistsChanges(t *testing.T) {
	store := newTestStore(t)

	p, err := store.Create("Main")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	before := p.LastModified

	p.SelectedLibraries = []string{"Movies"}
	p.SelectedCharts["movie_basic"] = true
	if err := store.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !p.LastModified.After(before) && !p.LastModified.Equal(before) {
		t.Error("Save should bump LastModified")
	}

	loaded, err := store.Load("Main")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.SelectedCharts["movie_basic"] {
		t.Error("chart selection lost on round trip")
	}
	if len(loaded.SelectedLibraries) != 1 || loaded.SelectedLibraries[0] != "Movies" {
		t.Errorf("libraries = %v", loaded.SelectedLibraries)
	}
}

func TestStoreListSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	if _, err := store.Create("beta"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Create("Alpha"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	profiles, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("List = %d profiles, want 2", len(profiles))
	}
	// Sorted case-insensitively.
	if profiles[0].Name != "Alpha" || profiles[1].Name != "beta" {
		t.Errorf("order = %q, %q", profiles[0].Name, profiles[1].Name)
	}
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Setup", "My_Setup"},
		{"movies-4k.v2", "movies-4k.v2"},
		{"../../etc/passwd", "....etcpasswd"},
		{"///", "profile"},
		{"  padded  ", "padded"},
	}
	for _, tc := range cases {
		if got := SanitizeName(tc.in); got != tc.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
