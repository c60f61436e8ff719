/*
store.go - Persistence interface for the completion ledger

PURPOSE:
  Defines the boundary between eligibility logic and the database. The
  store owns durability and the at-most-one-writer-wins guarantee; the
  ledger and tracker only reason over the snapshot a store read returns.

ONE-WRITER-WINS CONTRACT:
  Implementations MUST enforce a uniqueness constraint on
  (task_id, machine_id, date) so that two users racing to check off the
  same task produce a single surviving record, never duplicates. The
  in-process check in ledger.go is a fast path, not the guarantee.

IMPLEMENTATIONS:
  - store/sqlite: production store with a UNIQUE index on the key
  - store/memory: in-memory store for tests

SEE ALSO:
  - ledger.go: Higher-level wrapper using this interface
*/
package audit

import (
	"context"
	"errors"

	"github.com/warp/upkeep-engine/engine"
)

// ErrDuplicateCompletion is returned by stores when an insert collides with
// an existing completed record for the same key.
var ErrDuplicateCompletion = errors.New("completion already recorded for key")

// CompletionStore handles persistence of completion records.
type CompletionStore interface {
	// PutCompletion persists a record. Returns ErrDuplicateCompletion if a
	// completed record already exists for the key.
	PutCompletion(ctx context.Context, rec CompletionRecord) error

	// GetCompletion returns the record for a key, or nil if none exists.
	GetCompletion(ctx context.Context, key CompletionKey) (*CompletionRecord, error)

	// LatestCompletion returns the most recent completed record for a
	// task/machine pair on/before the given date, or nil if none exists.
	LatestCompletion(ctx context.Context, taskID, machineID string, onOrBefore engine.Date) (*CompletionRecord, error)

	// ListCompletions returns completed records for a task/machine pair in
	// [from, to], ordered by date ascending.
	ListCompletions(ctx context.Context, taskID, machineID string, from, to engine.Date) ([]CompletionRecord, error)
}
