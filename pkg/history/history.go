// Package history keeps a persistent record of completed sets so a
// user's rep counts and cue frequencies survive engine restarts.
package history

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/ThyDrSlen/form-factor-sub005/internal/log"
)

// SetRecord summarizes one completed set.
type SetRecord struct {
	SessionID   string    `json:"session_id"`
	Pattern     string    `json:"pattern"`
	Reps        int       `json:"reps"`
	Cues        int       `json:"cues"`
	Confidence  float64   `json:"confidence"` // last frame's fused confidence
	CompletedAt time.Time `json:"completed_at"`
}

// History is the set archive backed by a Store.
type History struct {
	Sets []SetRecord `json:"sets"`

	store Store
	mu    sync.RWMutex
}

// New creates a history backed by the given store, loading any
// previously saved records. A corrupt or missing file starts empty.
func New(store Store) *History {
	h := &History{store: store}

	data, err := store.Load()
	if err != nil {
		log.Warn("history load failed, starting empty", "error", err)
		return h
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, h); err != nil {
			log.Warn("history corrupt, starting empty", "error", err)
			h.Sets = nil
		}
	}
	return h
}

// Record appends a completed set and saves.
func (h *History) Record(rec SetRecord) {
	h.mu.Lock()
	h.Sets = append(h.Sets, rec)
	h.mu.Unlock()

	h.save()
}

// Recent returns up to n most recent sets, newest first.
func (h *History) Recent(n int) []SetRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if n > len(h.Sets) {
		n = len(h.Sets)
	}
	out := make([]SetRecord, 0, n)
	for i := len(h.Sets) - 1; i >= len(h.Sets)-n; i-- {
		out = append(out, h.Sets[i])
	}
	return out
}

// TotalReps sums rep counts across all recorded sets.
func (h *History) TotalReps() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, s := range h.Sets {
		total += s.Reps
	}
	return total
}

// SetCount returns the number of recorded sets.
func (h *History) SetCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Sets)
}

func (h *History) save() {
	h.mu.RLock()
	data, err := json.MarshalIndent(h, "", "  ")
	h.mu.RUnlock()

	if err != nil {
		log.Error("history marshal failed", "error", err)
		return
	}
	if err := h.store.Save(data); err != nil {
		log.Error("history save failed", "error", err)
	}
}
