package shelf

import (
	"errors"
	"io"
	"testing"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/velvetlabs/velvet/internal/catalog"
	"github.com/velvetlabs/velvet/internal/store"
)

// fakeStore counts config writes and can be made to fail.
type fakeStore struct {
	values map[string]string
	writes int
	fail   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (f *fakeStore) SetConfig(key, value string) error {
	f.writes++
	if f.fail {
		return errors.New("quota exceeded")
	}
	f.values[key] = value
	return nil
}

func (f *fakeStore) GetConfig(key string) (string, error) {
	return f.values[key], nil
}

func (f *fakeStore) SaveTranscript(t *store.Transcript) error           { return nil }
func (f *fakeStore) GetTranscript(id string) (*store.Transcript, error) { return nil, nil }
func (f *fakeStore) LatestTranscript() (*store.Transcript, error)       { return nil, nil }
func (f *fakeStore) Close() error                                       { return nil }

func testLogger() *bolt.Logger {
	l := bolt.New(bolt.NewConsoleHandler(io.Discard))
	l.SetLevel(bolt.WARN)
	return l
}

var serum = catalog.Product{ID: 7, Name: "Hydra Boost Serum", Brand: "Lumen", Category: "skincare", Description: "Hyaluronic acid serum"}
var shampoo = catalog.Product{ID: 3, Name: "Repair Shampoo", Brand: "Lumen", Category: "haircare", Description: "Strengthens damaged hair"}

func TestShelf_ToggleTwice(t *testing.T) {
	fs := newFakeStore()
	s := New(fs, testLogger())

	if !s.Toggle(serum) {
		t.Error("Expected first toggle to select")
	}
	if !s.Has(7) {
		t.Error("Expected membership after toggle on")
	}
	if s.Toggle(serum) {
		t.Error("Expected second toggle to deselect")
	}
	if s.Has(7) {
		t.Error("Expected no membership after toggle off")
	}
	if fs.writes != 2 {
		t.Errorf("Expected exactly 2 store writes, got %d", fs.writes)
	}
	if fs.values[SnapshotKey] != "[]" {
		t.Errorf("Expected empty array persisted, got %q", fs.values[SnapshotKey])
	}
}

func TestShelf_ValuesInsertionOrder(t *testing.T) {
	s := New(newFakeStore(), testLogger())
	s.Toggle(serum)
	s.Toggle(shampoo)

	values := s.Values()
	if len(values) != 2 {
		t.Fatalf("Expected 2 values, got %d", len(values))
	}
	if values[0].ID != 7 || values[1].ID != 3 {
		t.Errorf("Expected insertion order [7 3], got [%d %d]", values[0].ID, values[1].ID)
	}
}

func TestShelf_Remove(t *testing.T) {
	fs := newFakeStore()
	s := New(fs, testLogger())
	s.Toggle(serum)

	if !s.Remove(7) {
		t.Error("Expected Remove to report presence")
	}
	if s.Remove(7) {
		t.Error("Expected Remove of absent id to report false")
	}
	if s.Len() != 0 {
		t.Errorf("Expected empty shelf, got %d", s.Len())
	}
	// Removing an absent id must not write
	if fs.writes != 2 {
		t.Errorf("Expected 2 writes (toggle + remove), got %d", fs.writes)
	}
}

func TestShelf_Clear(t *testing.T) {
	fs := newFakeStore()
	s := New(fs, testLogger())
	s.Toggle(serum)
	s.Toggle(shampoo)
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Expected empty shelf after Clear, got %d", s.Len())
	}
	if fs.values[SnapshotKey] != "[]" {
		t.Errorf("Expected empty array persisted after Clear, got %q", fs.values[SnapshotKey])
	}
}

func TestShelf_RestoreCoercesStringIDs(t *testing.T) {
	fs := newFakeStore()
	fs.values[SnapshotKey] = `[{"id":"7","name":"Hydra Boost Serum","brand":"Lumen","category":"skincare"}]`

	s := New(fs, testLogger())
	s.Restore()

	if !s.Has(7) {
		t.Error("Expected Has(7) after restoring a stringified id")
	}
	values := s.Values()
	if len(values) != 1 || values[0].Name != "Hydra Boost Serum" {
		t.Errorf("Expected restored product content, got %+v", values)
	}
}

func TestShelf_RestoreEmptyAndCorrupt(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		s := New(newFakeStore(), testLogger())
		s.Restore()
		if s.Len() != 0 {
			t.Errorf("Expected empty shelf, got %d", s.Len())
		}
	})

	t.Run("Corrupt", func(t *testing.T) {
		fs := newFakeStore()
		fs.values[SnapshotKey] = `{not json`
		s := New(fs, testLogger())
		// Must not panic; corrupt snapshots are dropped.
		s.Restore()
		if s.Len() != 0 {
			t.Errorf("Expected empty shelf after corrupt snapshot, got %d", s.Len())
		}
	})
}

func TestShelf_PersistenceFailureStaysInMemory(t *testing.T) {
	fs := newFakeStore()
	fs.fail = true
	s := New(fs, testLogger())

	s.Toggle(serum)
	if !s.Has(7) {
		t.Error("Expected in-memory state to survive a failed write")
	}
}
