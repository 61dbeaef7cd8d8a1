package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRecordAndRecent(t *testing.T) {
	h := New(NewMemoryStore())

	for i := 1; i <= 3; i++ {
		h.Record(SetRecord{
			SessionID:   "s1",
			Pattern:     "squat",
			Reps:        i,
			CompletedAt: time.Now(),
		})
	}

	if h.SetCount() != 3 {
		t.Fatalf("SetCount = %d, want 3", h.SetCount())
	}
	if h.TotalReps() != 6 {
		t.Errorf("TotalReps = %d, want 6", h.TotalReps())
	}

	recent := h.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d records", len(recent))
	}
	if recent[0].Reps != 3 || recent[1].Reps != 2 {
		t.Errorf("Recent order wrong: %+v", recent)
	}
}

func TestRecentMoreThanStored(t *testing.T) {
	h := New(NewMemoryStore())
	h.Record(SetRecord{Reps: 5})

	recent := h.Recent(10)
	if len(recent) != 1 {
		t.Errorf("Recent(10) returned %d records, want 1", len(recent))
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	h := New(store)
	h.Record(SetRecord{SessionID: "s1", Pattern: "hinge", Reps: 8})

	reloaded := New(store)
	if reloaded.SetCount() != 1 {
		t.Fatalf("SetCount after reload = %d, want 1", reloaded.SetCount())
	}
	if reloaded.Sets[0].Pattern != "hinge" || reloaded.Sets[0].Reps != 8 {
		t.Errorf("Reloaded record: %+v", reloaded.Sets[0])
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history", "sets.json")
	store := NewJSONStore(path)

	h := New(store)
	h.Record(SetRecord{SessionID: "s1", Pattern: "squat", Reps: 12})

	reloaded := New(NewJSONStore(path))
	if reloaded.SetCount() != 1 {
		t.Fatalf("SetCount after file reload = %d, want 1", reloaded.SetCount())
	}
	if reloaded.TotalReps() != 12 {
		t.Errorf("TotalReps = %d, want 12", reloaded.TotalReps())
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	store := NewMemoryStore()
	store.Save([]byte("not json"))

	h := New(store)
	if h.SetCount() != 0 {
		t.Errorf("SetCount = %d, want 0 for corrupt data", h.SetCount())
	}
}
