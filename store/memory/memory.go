// Package memory provides an in-memory CompletionStore for tests and dev.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/upkeep-engine/audit"
	"github.com/warp/upkeep-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu          sync.RWMutex
	completions map[key]audit.CompletionRecord
}

type key struct {
	TaskID    string
	MachineID string
	Date      string
}

func New() *Store {
	return &Store{completions: make(map[key]audit.CompletionRecord)}
}

func toKey(k audit.CompletionKey) key {
	return key{TaskID: k.TaskID, MachineID: k.MachineID, Date: k.Date.String()}
}

// PutCompletion stores a record, enforcing the one-writer-wins contract.
func (s *Store) PutCompletion(_ context.Context, rec audit.CompletionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := toKey(rec.Key)
	if existing, ok := s.completions[k]; ok && existing.Completed {
		return audit.ErrDuplicateCompletion
	}
	s.completions[k] = rec
	return nil
}

func (s *Store) GetCompletion(_ context.Context, ck audit.CompletionKey) (*audit.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.completions[toKey(ck)]; ok {
		out := rec
		return &out, nil
	}
	return nil, nil
}

func (s *Store) LatestCompletion(_ context.Context, taskID, machineID string, onOrBefore engine.Date) (*audit.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *audit.CompletionRecord
	for _, rec := range s.completions {
		if !rec.Completed || rec.Key.TaskID != taskID || rec.Key.MachineID != machineID {
			continue
		}
		if rec.Key.Date.After(onOrBefore) {
			continue
		}
		if latest == nil || rec.Key.Date.After(latest.Key.Date) {
			out := rec
			latest = &out
		}
	}
	return latest, nil
}

func (s *Store) ListCompletions(_ context.Context, taskID, machineID string, from, to engine.Date) ([]audit.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.CompletionRecord
	for _, rec := range s.completions {
		if !rec.Completed || rec.Key.TaskID != taskID || rec.Key.MachineID != machineID {
			continue
		}
		if rec.Key.Date.AfterOrEqual(from) && rec.Key.Date.BeforeOrEqual(to) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.Date.Before(out[j].Key.Date)
	})
	return out, nil
}
