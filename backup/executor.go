/*
executor.go - Database file copy executor

PURPOSE:
  The default Executor: snapshots the SQLite database file into a backup
  directory. With WAL enabled a plain file copy of a quiesced database is
  a consistent snapshot for this application's write rate; heavier
  deployments would swap in an executor using the SQLite backup API.

SEE ALSO:
  - runner.go: Executor interface and the loop that invokes this
*/
package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// FileCopyExecutor copies a source database file into Dir per run.
type FileCopyExecutor struct {
	SourcePath string
	Dir        string
	Now        func() time.Time
}

// NewFileCopyExecutor creates an executor writing snapshots of source
// into dir.
func NewFileCopyExecutor(source, dir string) *FileCopyExecutor {
	return &FileCopyExecutor{SourcePath: source, Dir: dir, Now: time.Now}
}

// Execute copies the source file to a timestamped name in Dir.
func (e *FileCopyExecutor) Execute(ctx context.Context, schedule Schedule) (File, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return File{}, fmt.Errorf("failed to create backup dir: %w", err)
	}

	createdAt := e.Now().UTC()
	name := fmt.Sprintf("backup-%s-%s.db", schedule.ID, createdAt.Format("20060102-150405"))
	dest := filepath.Join(e.Dir, name)

	size, err := copyFile(e.SourcePath, dest)
	if err != nil {
		os.Remove(dest)
		return File{}, err
	}

	return File{Name: name, CreatedAt: createdAt, SizeBytes: size}, nil
}

// Remove deletes a previously produced artifact. An already-missing
// file counts as removed so a stale history row can still be pruned.
func (e *FileCopyExecutor) Remove(name string) error {
	err := os.Remove(filepath.Join(e.Dir, name))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination: %w", err)
	}
	defer out.Close()

	size, err := io.Copy(out, in)
	if err != nil {
		return 0, fmt.Errorf("failed to copy: %w", err)
	}
	return size, out.Sync()
}
