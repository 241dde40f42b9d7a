package kvstore

import (
	"os"
	"path/filepath"
	"testing"
)

func openStores(t *testing.T) map[string]Store {
	t.Helper()

	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "skydeck.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })

	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sq,
	}
}

func TestStore_GetSet(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := s.Get("tasks"); err != nil || ok {
				t.Fatalf("Get on empty store = ok %v, err %v", ok, err)
			}

			if err := s.Set("tasks", `[{"text":"A","done":false}]`); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := s.Set("tasks", `[]`); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}

			v, ok, err := s.Get("tasks")
			if err != nil || !ok {
				t.Fatalf("Get = ok %v, err %v", ok, err)
			}
			if v != `[]` {
				t.Errorf("value = %q, want []", v)
			}

			if _, ok, _ := s.Get("other"); ok {
				t.Error("unrelated key present")
			}
		})
	}
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skydeck.db")

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Set("tasks", "persisted"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file missing: %v", err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	v, ok, err := s.Get("tasks")
	if err != nil || !ok || v != "persisted" {
		t.Errorf("Get after reopen = %q, %v, %v", v, ok, err)
	}
}

func TestMemoryStore_Writes(t *testing.T) {
	m := NewMemory()
	m.Set("a", "1")
	m.Set("a", "2")
	if m.Writes() != 2 {
		t.Errorf("Writes = %d, want 2", m.Writes())
	}
}
