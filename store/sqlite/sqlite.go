/*
Package sqlite provides the SQLite-backed persistence for the engine.

PURPOSE:
  Implements every storage interface the application needs using SQLite.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  audit.CompletionStore: Check-off ledger persistence
  backup.Store:          Backup schedules and backup history

KEY TABLES:
  sites:            Sites with their notification thresholds
  machines:         Machines per site
  parts:            Maintainable parts with recurrence columns
  audit_tasks:      Recurring audit definitions
  completions:      Check-off ledger, unique per (task, machine, date)
  backup_schedules: Backup specs with last-run tracking
  backup_files:     Backup history per schedule

ONE-WRITER-WINS:
  idx_completions_unique enforces at most one completion per
  (task_id, machine_id, date). When two users race to check off the same
  task the loser's INSERT fails the unique index and is surfaced as
  audit.ErrDuplicateCompletion, never as a second row.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/upkeep.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  tracker := audit.NewTracker(store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - audit/store.go: CompletionStore interface definition
  - backup/runner.go: backup.Store interface definition
  - store/memory: In-memory CompletionStore for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/upkeep-engine/audit"
	"github.com/warp/upkeep-engine/backup"
	"github.com/warp/upkeep-engine/engine"
	"github.com/warp/upkeep-engine/factory"
	"github.com/warp/upkeep-engine/maintenance"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Sites
	CREATE TABLE IF NOT EXISTS sites (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		notification_threshold INTEGER NOT NULL DEFAULT 7,
		created_at TEXT NOT NULL
	);

	-- Machines
	CREATE TABLE IF NOT EXISTS machines (
		id TEXT PRIMARY KEY,
		site_id TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_machines_site
		ON machines(site_id);

	-- Parts (recurrence stored as loose columns, see factory.RuleRecord)
	CREATE TABLE IF NOT EXISTS parts (
		id TEXT PRIMARY KEY,
		machine_id TEXT NOT NULL REFERENCES machines(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		last_maintenance TEXT NOT NULL,
		schedule_type TEXT NOT NULL,
		interval_count INTEGER DEFAULT 0,
		interval_unit TEXT DEFAULT '',
		weekday INTEGER DEFAULT 0,
		day_of_month INTEGER DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_parts_machine
		ON parts(machine_id);

	-- Audit tasks
	CREATE TABLE IF NOT EXISTS audit_tasks (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT DEFAULT '',
		category TEXT DEFAULT '',
		schedule_type TEXT NOT NULL,
		interval_count INTEGER DEFAULT 0,
		interval_unit TEXT DEFAULT '',
		weekday INTEGER DEFAULT 0,
		day_of_month INTEGER DEFAULT 0,
		created_at TEXT NOT NULL
	);

	-- Completion ledger
	CREATE TABLE IF NOT EXISTS completions (
		task_id TEXT NOT NULL REFERENCES audit_tasks(id) ON DELETE CASCADE,
		machine_id TEXT NOT NULL,
		date TEXT NOT NULL,
		completed BOOLEAN NOT NULL,
		completed_by TEXT DEFAULT '',
		created_at TEXT NOT NULL
	);

	-- CRITICAL: at most one completion per (task, machine, day). A race
	-- between two check-offs leaves exactly one surviving row.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_completions_unique
		ON completions(task_id, machine_id, date);

	-- For eligibility lookups (hot path: latest completion on/before a day)
	CREATE INDEX IF NOT EXISTS idx_completions_task_machine_date
		ON completions(task_id, machine_id, date DESC);

	-- Backup schedules
	CREATE TABLE IF NOT EXISTS backup_schedules (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		frequency TEXT NOT NULL,
		hour INTEGER NOT NULL,
		minute INTEGER NOT NULL,
		day_of_week INTEGER DEFAULT 0,
		day_of_month INTEGER DEFAULT 1,
		retention INTEGER NOT NULL,
		enabled BOOLEAN NOT NULL DEFAULT TRUE,
		last_run TEXT,
		created_at TEXT NOT NULL
	);

	-- Backup history
	CREATE TABLE IF NOT EXISTS backup_files (
		schedule_id TEXT NOT NULL REFERENCES backup_schedules(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		created_at TEXT NOT NULL,
		size_bytes INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (schedule_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_backup_files_schedule
		ON backup_files(schedule_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SITES
// =============================================================================

// CreateSite persists a site, minting an ID when none is supplied.
func (s *Store) CreateSite(ctx context.Context, site maintenance.Site) (maintenance.Site, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if site.ID == "" {
		site.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sites (id, name, notification_threshold, created_at) VALUES (?, ?, ?, ?)`,
		site.ID, site.Name, site.NotificationThreshold, nowString(),
	)
	if err != nil {
		return maintenance.Site{}, fmt.Errorf("failed to insert site: %w", err)
	}
	return site, nil
}

// GetSite returns one site by ID.
func (s *Store) GetSite(ctx context.Context, id string) (maintenance.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var site maintenance.Site
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, notification_threshold FROM sites WHERE id = ?`, id,
	).Scan(&site.ID, &site.Name, &site.NotificationThreshold)
	if err == sql.ErrNoRows {
		return maintenance.Site{}, ErrNotFound
	}
	if err != nil {
		return maintenance.Site{}, fmt.Errorf("failed to query site: %w", err)
	}
	return site, nil
}

// ListSites returns all sites ordered by name.
func (s *Store) ListSites(ctx context.Context) ([]maintenance.Site, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, notification_threshold FROM sites ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sites: %w", err)
	}
	defer rows.Close()

	var sites []maintenance.Site
	for rows.Next() {
		var site maintenance.Site
		if err := rows.Scan(&site.ID, &site.Name, &site.NotificationThreshold); err != nil {
			return nil, err
		}
		sites = append(sites, site)
	}
	return sites, rows.Err()
}

// DeleteSite removes a site; machines and parts cascade.
func (s *Store) DeleteSite(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete site: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// MACHINES
// =============================================================================

// CreateMachine persists a machine under an existing site.
func (s *Store) CreateMachine(ctx context.Context, machine maintenance.Machine) (maintenance.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if machine.ID == "" {
		machine.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO machines (id, site_id, name, created_at) VALUES (?, ?, ?, ?)`,
		machine.ID, machine.SiteID, machine.Name, nowString(),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return maintenance.Machine{}, ErrNotFound
		}
		return maintenance.Machine{}, fmt.Errorf("failed to insert machine: %w", err)
	}
	return machine, nil
}

// GetMachine returns one machine by ID.
func (s *Store) GetMachine(ctx context.Context, id string) (maintenance.Machine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var machine maintenance.Machine
	err := s.db.QueryRowContext(ctx,
		`SELECT id, site_id, name FROM machines WHERE id = ?`, id,
	).Scan(&machine.ID, &machine.SiteID, &machine.Name)
	if err == sql.ErrNoRows {
		return maintenance.Machine{}, ErrNotFound
	}
	if err != nil {
		return maintenance.Machine{}, fmt.Errorf("failed to query machine: %w", err)
	}
	return machine, nil
}

// ListMachines returns a site's machines ordered by name.
func (s *Store) ListMachines(ctx context.Context, siteID string) ([]maintenance.Machine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, site_id, name FROM machines WHERE site_id = ? ORDER BY name ASC`, siteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query machines: %w", err)
	}
	defer rows.Close()

	var machines []maintenance.Machine
	for rows.Next() {
		var machine maintenance.Machine
		if err := rows.Scan(&machine.ID, &machine.SiteID, &machine.Name); err != nil {
			return nil, err
		}
		machines = append(machines, machine)
	}
	return machines, rows.Err()
}

// =============================================================================
// PARTS
// =============================================================================

// CreatePart persists a part. The rule is decomposed into the loose
// schedule columns and validated on the way in.
func (s *Store) CreatePart(ctx context.Context, part maintenance.Part) (maintenance.Part, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := part.Rule.Validate(); err != nil {
		return maintenance.Part{}, err
	}
	if part.ID == "" {
		part.ID = uuid.NewString()
	}

	record := factory.RecordFromRule(part.Rule)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO parts
		 (id, machine_id, name, last_maintenance, schedule_type, interval_count, interval_unit, weekday, day_of_month, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		part.ID, part.MachineID, part.Name, part.LastMaintenance.String(),
		record.ScheduleType, record.IntervalCount, record.IntervalUnit,
		record.Weekday, record.DayOfMonth, nowString(),
	)
	if err != nil {
		if isForeignKeyError(err) {
			return maintenance.Part{}, ErrNotFound
		}
		return maintenance.Part{}, fmt.Errorf("failed to insert part: %w", err)
	}
	return part, nil
}

// ListParts returns a machine's parts ordered by name.
func (s *Store) ListParts(ctx context.Context, machineID string) ([]maintenance.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryParts(ctx,
		`SELECT id, machine_id, name, last_maintenance, schedule_type, interval_count, interval_unit, weekday, day_of_month
		 FROM parts WHERE machine_id = ? ORDER BY name ASC`, machineID)
}

// ListPartsBySite returns every part under a site's machines.
func (s *Store) ListPartsBySite(ctx context.Context, siteID string) ([]maintenance.Part, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryParts(ctx,
		`SELECT p.id, p.machine_id, p.name, p.last_maintenance, p.schedule_type, p.interval_count, p.interval_unit, p.weekday, p.day_of_month
		 FROM parts p JOIN machines m ON p.machine_id = m.id
		 WHERE m.site_id = ? ORDER BY p.name ASC`, siteID)
}

// RecordMaintenance moves a part's last-maintenance date forward.
func (s *Store) RecordMaintenance(ctx context.Context, partID string, performed engine.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE parts SET last_maintenance = ? WHERE id = ?`,
		performed.String(), partID)
	if err != nil {
		return fmt.Errorf("failed to update part: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) queryParts(ctx context.Context, query string, args ...any) ([]maintenance.Part, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query parts: %w", err)
	}
	defer rows.Close()

	var parts []maintenance.Part
	for rows.Next() {
		var part maintenance.Part
		var last string
		var record factory.RuleRecord
		if err := rows.Scan(&part.ID, &part.MachineID, &part.Name, &last,
			&record.ScheduleType, &record.IntervalCount, &record.IntervalUnit,
			&record.Weekday, &record.DayOfMonth); err != nil {
			return nil, err
		}
		if part.LastMaintenance, err = engine.ParseDate(last); err != nil {
			return nil, fmt.Errorf("corrupt last_maintenance for part %s: %w", part.ID, err)
		}
		if part.Rule, err = factory.RuleFromRecord(record); err != nil {
			return nil, fmt.Errorf("corrupt rule for part %s: %w", part.ID, err)
		}
		parts = append(parts, part)
	}
	return parts, rows.Err()
}

// =============================================================================
// AUDIT TASKS
// =============================================================================

// CreateTask persists an audit task definition.
func (s *Store) CreateTask(ctx context.Context, task audit.Task) (audit.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := task.Rule.Validate(); err != nil {
		return audit.Task{}, err
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	record := factory.RecordFromRule(task.Rule)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_tasks
		 (id, name, color, category, schedule_type, interval_count, interval_unit, weekday, day_of_month, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Name, task.Color, task.Category,
		record.ScheduleType, record.IntervalCount, record.IntervalUnit,
		record.Weekday, record.DayOfMonth, nowString(),
	)
	if err != nil {
		return audit.Task{}, fmt.Errorf("failed to insert task: %w", err)
	}
	return task, nil
}

// GetTask returns one audit task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (audit.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, color, category, schedule_type, interval_count, interval_unit, weekday, day_of_month
		 FROM audit_tasks WHERE id = ?`, id)

	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return audit.Task{}, ErrNotFound
	}
	return task, err
}

// ListTasks returns all audit tasks ordered by name.
func (s *Store) ListTasks(ctx context.Context) ([]audit.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, color, category, schedule_type, interval_count, interval_unit, weekday, day_of_month
		 FROM audit_tasks ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []audit.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// DeleteTask removes a task; its completions cascade.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM audit_tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (audit.Task, error) {
	var task audit.Task
	var record factory.RuleRecord
	err := row.Scan(&task.ID, &task.Name, &task.Color, &task.Category,
		&record.ScheduleType, &record.IntervalCount, &record.IntervalUnit,
		&record.Weekday, &record.DayOfMonth)
	if err != nil {
		return audit.Task{}, err
	}
	if task.Rule, err = factory.RuleFromRecord(record); err != nil {
		return audit.Task{}, fmt.Errorf("corrupt rule for task %s: %w", task.ID, err)
	}
	return task, nil
}

// =============================================================================
// COMPLETION LEDGER (audit.CompletionStore)
// =============================================================================

// PutCompletion inserts a ledger row. The unique index makes the loser
// of a concurrent check-off fail here instead of writing a duplicate.
func (s *Store) PutCompletion(ctx context.Context, rec audit.CompletionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO completions (task_id, machine_id, date, completed, completed_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Key.TaskID, rec.Key.MachineID, rec.Key.Date.String(),
		rec.Completed, rec.CompletedBy, rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return audit.ErrDuplicateCompletion
		}
		return fmt.Errorf("failed to insert completion: %w", err)
	}
	return nil
}

// GetCompletion returns the record for a key, or nil when none exists.
func (s *Store) GetCompletion(ctx context.Context, key audit.CompletionKey) (*audit.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT task_id, machine_id, date, completed, completed_by, created_at
		 FROM completions WHERE task_id = ? AND machine_id = ? AND date = ?`,
		key.TaskID, key.MachineID, key.Date.String())

	rec, err := scanCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// LatestCompletion returns the most recent completed record on or before
// the given day, or nil when the pair has never been completed.
func (s *Store) LatestCompletion(ctx context.Context, taskID, machineID string, onOrBefore engine.Date) (*audit.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT task_id, machine_id, date, completed, completed_by, created_at
		 FROM completions
		 WHERE task_id = ? AND machine_id = ? AND completed = TRUE AND date <= ?
		 ORDER BY date DESC LIMIT 1`,
		taskID, machineID, onOrBefore.String())

	rec, err := scanCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListCompletions returns completed records in [from, to], oldest first.
func (s *Store) ListCompletions(ctx context.Context, taskID, machineID string, from, to engine.Date) ([]audit.CompletionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT task_id, machine_id, date, completed, completed_by, created_at
		 FROM completions
		 WHERE task_id = ? AND machine_id = ? AND completed = TRUE AND date >= ? AND date <= ?
		 ORDER BY date ASC`,
		taskID, machineID, from.String(), to.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query completions: %w", err)
	}
	defer rows.Close()

	var records []audit.CompletionRecord
	for rows.Next() {
		rec, err := scanCompletion(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanCompletion(row rowScanner) (audit.CompletionRecord, error) {
	var rec audit.CompletionRecord
	var date, createdAt string
	err := row.Scan(&rec.Key.TaskID, &rec.Key.MachineID, &date,
		&rec.Completed, &rec.CompletedBy, &createdAt)
	if err != nil {
		return audit.CompletionRecord{}, err
	}
	if rec.Key.Date, err = engine.ParseDate(date); err != nil {
		return audit.CompletionRecord{}, fmt.Errorf("corrupt completion date: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return rec, nil
}

// =============================================================================
// BACKUP SCHEDULES (backup.Store)
// =============================================================================

// CreateBackupSchedule persists a schedule after validating its spec.
func (s *Store) CreateBackupSchedule(ctx context.Context, schedule backup.Schedule) (backup.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := backup.Validate(schedule.Spec); err != nil {
		return backup.Schedule{}, err
	}
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}

	spec := schedule.Spec
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO backup_schedules
		 (id, name, frequency, hour, minute, day_of_week, day_of_month, retention, enabled, last_run, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		schedule.ID, schedule.Name, string(spec.Frequency), spec.Hour, spec.Minute,
		spec.DayOfWeek, spec.DayOfMonth, spec.Retention, spec.Enabled,
		nullTime(spec.LastRun), nowString(),
	)
	if err != nil {
		return backup.Schedule{}, fmt.Errorf("failed to insert backup schedule: %w", err)
	}
	return schedule, nil
}

// GetBackupSchedule returns one schedule by ID.
func (s *Store) GetBackupSchedule(ctx context.Context, id string) (backup.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, frequency, hour, minute, day_of_week, day_of_month, retention, enabled, last_run
		 FROM backup_schedules WHERE id = ?`, id)

	schedule, err := scanBackupSchedule(row)
	if err == sql.ErrNoRows {
		return backup.Schedule{}, ErrNotFound
	}
	return schedule, err
}

// ListBackupSchedules returns every schedule, for the runner's poll.
func (s *Store) ListBackupSchedules(ctx context.Context) ([]backup.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, frequency, hour, minute, day_of_week, day_of_month, retention, enabled, last_run
		 FROM backup_schedules ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query backup schedules: %w", err)
	}
	defer rows.Close()

	var schedules []backup.Schedule
	for rows.Next() {
		schedule, err := scanBackupSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
	}
	return schedules, rows.Err()
}

// MarkBackupRun records a successful run.
func (s *Store) MarkBackupRun(ctx context.Context, scheduleID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE backup_schedules SET last_run = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339), scheduleID)
	if err != nil {
		return fmt.Errorf("failed to update backup schedule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBackupSchedule(row rowScanner) (backup.Schedule, error) {
	var schedule backup.Schedule
	var frequency string
	var lastRun sql.NullString
	err := row.Scan(&schedule.ID, &schedule.Name, &frequency,
		&schedule.Spec.Hour, &schedule.Spec.Minute,
		&schedule.Spec.DayOfWeek, &schedule.Spec.DayOfMonth,
		&schedule.Spec.Retention, &schedule.Spec.Enabled, &lastRun)
	if err != nil {
		return backup.Schedule{}, err
	}
	schedule.Spec.Frequency = backup.Frequency(frequency)
	if lastRun.Valid {
		t, err := time.Parse(time.RFC3339, lastRun.String)
		if err != nil {
			return backup.Schedule{}, fmt.Errorf("corrupt last_run for schedule %s: %w", schedule.ID, err)
		}
		schedule.Spec.LastRun = &t
	}
	return schedule, nil
}

// =============================================================================
// BACKUP HISTORY (backup.Store)
// =============================================================================

// RecordBackupFile adds one artifact to a schedule's history.
func (s *Store) RecordBackupFile(ctx context.Context, scheduleID string, file backup.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO backup_files (schedule_id, name, created_at, size_bytes) VALUES (?, ?, ?, ?)`,
		scheduleID, file.Name, file.CreatedAt.UTC().Format(time.RFC3339), file.SizeBytes)
	if err != nil {
		return fmt.Errorf("failed to insert backup file: %w", err)
	}
	return nil
}

// ListBackupFiles returns a schedule's history newest first, name as the
// tie-break so pruning selection is stable.
func (s *Store) ListBackupFiles(ctx context.Context, scheduleID string) ([]backup.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, created_at, size_bytes FROM backup_files WHERE schedule_id = ?`,
		scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query backup files: %w", err)
	}
	defer rows.Close()

	var files []backup.File
	for rows.Next() {
		var file backup.File
		var createdAt string
		if err := rows.Scan(&file.Name, &createdAt, &file.SizeBytes); err != nil {
			return nil, err
		}
		if file.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("corrupt created_at for backup %s: %w", file.Name, err)
		}
		files = append(files, file)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].CreatedAt.Equal(files[j].CreatedAt) {
			return files[i].CreatedAt.After(files[j].CreatedAt)
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// DeleteBackupFile removes one artifact from a schedule's history.
func (s *Store) DeleteBackupFile(ctx context.Context, scheduleID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM backup_files WHERE schedule_id = ? AND name = ?`, scheduleID, name)
	if err != nil {
		return fmt.Errorf("failed to delete backup file: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
