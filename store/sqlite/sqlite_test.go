package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/upkeep-engine/audit"
	"github.com/warp/upkeep-engine/backup"
	"github.com/warp/upkeep-engine/engine"
	"github.com/warp/upkeep-engine/maintenance"
	"github.com/warp/upkeep-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// SITES / MACHINES / PARTS
// =============================================================================

func TestSiteMachinePartRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	site, err := store.CreateSite(ctx, maintenance.Site{Name: "North plant", NotificationThreshold: 7})
	require.NoError(t, err)
	require.NotEmpty(t, site.ID)

	machine, err := store.CreateMachine(ctx, maintenance.Machine{SiteID: site.ID, Name: "Press 1"})
	require.NoError(t, err)

	part, err := store.CreatePart(ctx, maintenance.Part{
		MachineID:       machine.ID,
		Name:            "Hydraulic filter",
		LastMaintenance: engine.NewDate(2025, time.January, 1),
		Rule:            engine.FixedInterval(90, engine.UnitDay),
	})
	require.NoError(t, err)

	got, err := store.GetSite(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.NotificationThreshold)

	parts, err := store.ListParts(ctx, machine.ID)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, part.ID, parts[0].ID)
	assert.Equal(t, engine.FixedInterval(90, engine.UnitDay), parts[0].Rule)
	assert.Equal(t, "2025-01-01", parts[0].LastMaintenance.String())

	bySite, err := store.ListPartsBySite(ctx, site.ID)
	require.NoError(t, err)
	assert.Len(t, bySite, 1)
}

func TestRecordMaintenanceMovesLastDate(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	site, _ := store.CreateSite(ctx, maintenance.Site{Name: "Plant"})
	machine, _ := store.CreateMachine(ctx, maintenance.Machine{SiteID: site.ID, Name: "Press"})
	part, err := store.CreatePart(ctx, maintenance.Part{
		MachineID:       machine.ID,
		Name:            "Belt",
		LastMaintenance: engine.NewDate(2025, time.January, 1),
		Rule:            engine.CustomDays(30),
	})
	require.NoError(t, err)

	require.NoError(t, store.RecordMaintenance(ctx, part.ID, engine.NewDate(2025, time.March, 15)))

	parts, err := store.ListParts(ctx, machine.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", parts[0].LastMaintenance.String())

	assert.ErrorIs(t, store.RecordMaintenance(ctx, "missing", engine.NewDate(2025, time.March, 15)), sqlite.ErrNotFound)
}

func TestCreatePartRejectsInvalidRule(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	site, _ := store.CreateSite(ctx, maintenance.Site{Name: "Plant"})
	machine, _ := store.CreateMachine(ctx, maintenance.Machine{SiteID: site.ID, Name: "Press"})

	_, err := store.CreatePart(ctx, maintenance.Part{
		MachineID: machine.ID,
		Name:      "Bad part",
		Rule:      engine.FixedInterval(0, engine.UnitDay),
	})
	assert.ErrorIs(t, err, engine.ErrInvalidRule)
}

func TestDeleteSiteCascades(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	site, _ := store.CreateSite(ctx, maintenance.Site{Name: "Plant"})
	machine, _ := store.CreateMachine(ctx, maintenance.Machine{SiteID: site.ID, Name: "Press"})

	require.NoError(t, store.DeleteSite(ctx, site.ID))

	_, err := store.GetMachine(ctx, machine.ID)
	assert.ErrorIs(t, err, sqlite.ErrNotFound)
}

// =============================================================================
// COMPLETION LEDGER
// =============================================================================

func TestCompletionUniqueIndexRejectsSecondWriter(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	task, err := store.CreateTask(ctx, audit.Task{
		Name: "Fire extinguisher check",
		Rule: engine.WeeklyOnWeekday(time.Monday),
	})
	require.NoError(t, err)

	key := audit.CompletionKey{TaskID: task.ID, MachineID: "machine-1", Date: engine.NewDate(2025, time.June, 9)}
	rec := audit.CompletionRecord{Key: key, Completed: true, CompletedBy: "alex", CreatedAt: time.Now()}

	require.NoError(t, store.PutCompletion(ctx, rec))

	rec.CompletedBy = "sam"
	assert.ErrorIs(t, store.PutCompletion(ctx, rec), audit.ErrDuplicateCompletion)

	// The first writer's row survives untouched.
	got, err := store.GetCompletion(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alex", got.CompletedBy)
}

func TestLatestCompletionHonorsOnOrBefore(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	task, _ := store.CreateTask(ctx, audit.Task{Name: "Oil check", Rule: engine.CustomDays(7)})

	for _, day := range []int{2, 9, 16} {
		key := audit.CompletionKey{TaskID: task.ID, MachineID: "m1", Date: engine.NewDate(2025, time.June, day)}
		require.NoError(t, store.PutCompletion(ctx, audit.CompletionRecord{
			Key: key, Completed: true, CreatedAt: time.Now(),
		}))
	}

	latest, err := store.LatestCompletion(ctx, task.ID, "m1", engine.NewDate(2025, time.June, 10))
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "2025-06-09", latest.Key.Date.String())

	none, err := store.LatestCompletion(ctx, task.ID, "m1", engine.NewDate(2025, time.June, 1))
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestListCompletionsOrderedWindow(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	task, _ := store.CreateTask(ctx, audit.Task{Name: "Oil check", Rule: engine.CustomDays(7)})
	for _, day := range []int{16, 2, 9, 30} {
		key := audit.CompletionKey{TaskID: task.ID, MachineID: "m1", Date: engine.NewDate(2025, time.June, day)}
		require.NoError(t, store.PutCompletion(ctx, audit.CompletionRecord{
			Key: key, Completed: true, CreatedAt: time.Now(),
		}))
	}

	records, err := store.ListCompletions(ctx, task.ID, "m1",
		engine.NewDate(2025, time.June, 1), engine.NewDate(2025, time.June, 20))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2025-06-02", records[0].Key.Date.String())
	assert.Equal(t, "2025-06-16", records[2].Key.Date.String())
}

func TestDeleteTaskCascadesCompletions(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	task, _ := store.CreateTask(ctx, audit.Task{Name: "Oil check", Rule: engine.CustomDays(7)})
	key := audit.CompletionKey{TaskID: task.ID, MachineID: "m1", Date: engine.NewDate(2025, time.June, 2)}
	require.NoError(t, store.PutCompletion(ctx, audit.CompletionRecord{Key: key, Completed: true, CreatedAt: time.Now()}))

	require.NoError(t, store.DeleteTask(ctx, task.ID))

	got, err := store.GetCompletion(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// =============================================================================
// BACKUP SCHEDULES AND HISTORY
// =============================================================================

func TestBackupScheduleRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	schedule, err := store.CreateBackupSchedule(ctx, backup.Schedule{
		Name: "Nightly",
		Spec: backup.Spec{Frequency: backup.Daily, Hour: 2, Retention: 5, Enabled: true},
	})
	require.NoError(t, err)

	got, err := store.GetBackupSchedule(ctx, schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, backup.Daily, got.Spec.Frequency)
	assert.Nil(t, got.Spec.LastRun)

	ranAt := time.Date(2025, time.June, 9, 2, 0, 0, 0, time.UTC)
	require.NoError(t, store.MarkBackupRun(ctx, schedule.ID, ranAt))

	got, err = store.GetBackupSchedule(ctx, schedule.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Spec.LastRun)
	assert.True(t, got.Spec.LastRun.Equal(ranAt))
}

func TestBackupFilesListedNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	schedule, _ := store.CreateBackupSchedule(ctx, backup.Schedule{
		Name: "Nightly",
		Spec: backup.Spec{Frequency: backup.Daily, Hour: 2, Retention: 5, Enabled: true},
	})

	base := time.Date(2025, time.June, 1, 2, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.RecordBackupFile(ctx, schedule.ID, backup.File{
			Name:      base.AddDate(0, 0, i).Format("backup-20060102.db"),
			CreatedAt: base.AddDate(0, 0, i),
			SizeBytes: 1024,
		}))
	}

	files, err := store.ListBackupFiles(ctx, schedule.ID)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "backup-20250603.db", files[0].Name)
	assert.Equal(t, "backup-20250601.db", files[2].Name)

	require.NoError(t, store.DeleteBackupFile(ctx, schedule.ID, "backup-20250601.db"))
	files, _ = store.ListBackupFiles(ctx, schedule.ID)
	assert.Len(t, files, 2)
}

func TestCreateBackupScheduleValidatesSpec(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_, err := store.CreateBackupSchedule(ctx, backup.Schedule{
		Name: "Broken",
		Spec: backup.Spec{Frequency: "hourly", Retention: 1},
	})
	assert.Error(t, err)
}
