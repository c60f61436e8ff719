/*
handlers.go - HTTP API handlers for the maintenance engine

PURPOSE:
  Exposes the maintenance and audit engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Sites:
    GET    /api/sites                     List all sites
    POST   /api/sites                     Create site
    GET    /api/sites/{id}                Get site details
    DELETE /api/sites/{id}                Delete site (machines cascade)
    GET    /api/sites/{id}/overview       Compliance rollup for the site
    GET    /api/sites/{id}/machines       List the site's machines

  Fleet:
    GET    /api/overview                  Rollup across every site

  Machines and parts:
    POST   /api/machines                  Create machine
    GET    /api/machines/{id}/parts       List the machine's parts
    GET    /api/machines/{id}/calendar    Month grid with audit markers
    POST   /api/parts                     Create part
    POST   /api/parts/{id}/maintenance    Record performed maintenance

  Audit tasks:
    GET    /api/tasks                     List audit tasks
    POST   /api/tasks                     Create audit task
    DELETE /api/tasks/{id}                Delete task (ledger cascades)
    GET    /api/tasks/{id}/eligibility    Check-off decision for a machine
    POST   /api/tasks/{id}/checkoff       Submit a check-off
    GET    /api/tasks/{id}/history        Completed check-offs in a range

  Backups:
    GET    /api/backups/schedules         List schedules with next runs
    POST   /api/backups/schedules         Create schedule

DETERMINISM:
  Every date-sensitive endpoint accepts ?date=YYYY-MM-DD and falls back
  to the handler clock, so the UI and tests can pin "today".

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 409: Conflict (duplicate or ineligible check-off)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/upkeep-engine/audit"
	"github.com/warp/upkeep-engine/backup"
	"github.com/warp/upkeep-engine/engine"
	"github.com/warp/upkeep-engine/factory"
	"github.com/warp/upkeep-engine/maintenance"
	"github.com/warp/upkeep-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Tracker *audit.Tracker

	// Now is the handler clock; tests pin it.
	Now func() time.Time
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store) *Handler {
	return &Handler{
		Store:   store,
		Tracker: audit.NewTracker(store),
		Now:     time.Now,
	}
}

// =============================================================================
// SITE HANDLERS
// =============================================================================

// ListSites returns all sites.
func (h *Handler) ListSites(w http.ResponseWriter, r *http.Request) {
	sites, err := h.Store.ListSites(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sites", err)
		return
	}

	dtos := make([]SiteDTO, len(sites))
	for i, site := range sites {
		dtos[i] = siteDTO(site)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSite creates a site.
func (h *Handler) CreateSite(w http.ResponseWriter, r *http.Request) {
	var req CreateSiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Site name is required", nil)
		return
	}
	if req.NotificationThreshold < 0 {
		writeError(w, http.StatusBadRequest, "Notification threshold must be non-negative", nil)
		return
	}

	site, err := h.Store.CreateSite(r.Context(), maintenance.Site{
		Name:                  req.Name,
		NotificationThreshold: req.NotificationThreshold,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create site", err)
		return
	}
	writeJSON(w, http.StatusCreated, siteDTO(site))
}

// GetSite returns one site.
func (h *Handler) GetSite(w http.ResponseWriter, r *http.Request) {
	site, err := h.Store.GetSite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get site", err)
		return
	}
	writeJSON(w, http.StatusOK, siteDTO(site))
}

// DeleteSite deletes a site; its machines and parts cascade.
func (h *Handler) DeleteSite(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteSite(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete site", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// GetSiteOverview returns the compliance rollup for one site.
func (h *Handler) GetSiteOverview(w http.ResponseWriter, r *http.Request) {
	now, err := h.dateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	site, err := h.Store.GetSite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get site", err)
		return
	}
	parts, err := h.Store.ListPartsBySite(r.Context(), site.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list parts", err)
		return
	}

	overview, err := maintenance.Overview(site, parts, now)
	if err != nil {
		writeDomainError(w, "Failed to compute overview", err)
		return
	}
	writeJSON(w, http.StatusOK, overviewDTO(overview))
}

// GetFleetOverview returns the rollup across every site.
func (h *Handler) GetFleetOverview(w http.ResponseWriter, r *http.Request) {
	now, err := h.dateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	sites, err := h.Store.ListSites(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sites", err)
		return
	}

	overviews := make([]maintenance.SiteOverview, 0, len(sites))
	dtos := make([]SiteOverviewDTO, 0, len(sites))
	for _, site := range sites {
		parts, err := h.Store.ListPartsBySite(r.Context(), site.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list parts", err)
			return
		}
		overview, err := maintenance.Overview(site, parts, now)
		if err != nil {
			writeDomainError(w, "Failed to compute overview", err)
			return
		}
		overviews = append(overviews, overview)
		dtos = append(dtos, overviewDTO(overview))
	}

	writeJSON(w, http.StatusOK, FleetOverviewDTO{
		Worst: statusDTO(maintenance.WorstAcrossSites(overviews)),
		Sites: dtos,
	})
}

// =============================================================================
// MACHINE AND PART HANDLERS
// =============================================================================

// ListMachines returns a site's machines.
func (h *Handler) ListMachines(w http.ResponseWriter, r *http.Request) {
	machines, err := h.Store.ListMachines(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list machines", err)
		return
	}

	dtos := make([]MachineDTO, len(machines))
	for i, m := range machines {
		dtos[i] = MachineDTO{ID: m.ID, SiteID: m.SiteID, Name: m.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateMachine creates a machine under an existing site.
func (h *Handler) CreateMachine(w http.ResponseWriter, r *http.Request) {
	var req CreateMachineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.SiteID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "site_id and name are required", nil)
		return
	}

	machine, err := h.Store.CreateMachine(r.Context(), maintenance.Machine{
		SiteID: req.SiteID,
		Name:   req.Name,
	})
	if err != nil {
		writeDomainError(w, "Failed to create machine", err)
		return
	}
	writeJSON(w, http.StatusCreated, MachineDTO{ID: machine.ID, SiteID: machine.SiteID, Name: machine.Name})
}

// ListParts returns a machine's parts.
func (h *Handler) ListParts(w http.ResponseWriter, r *http.Request) {
	parts, err := h.Store.ListParts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list parts", err)
		return
	}

	dtos := make([]PartDTO, len(parts))
	for i, part := range parts {
		dtos[i] = partDTO(part)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePart creates a part under an existing machine.
func (h *Handler) CreatePart(w http.ResponseWriter, r *http.Request) {
	var req CreatePartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.MachineID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "machine_id and name are required", nil)
		return
	}
	last, err := engine.ParseDate(req.LastMaintenance)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid last_maintenance (use YYYY-MM-DD)", err)
		return
	}
	rule, err := factory.RuleFromRecord(req.Rule)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid recurrence rule", err)
		return
	}

	part, err := h.Store.CreatePart(r.Context(), maintenance.Part{
		MachineID:       req.MachineID,
		Name:            req.Name,
		LastMaintenance: last,
		Rule:            rule,
	})
	if err != nil {
		writeDomainError(w, "Failed to create part", err)
		return
	}
	writeJSON(w, http.StatusCreated, partDTO(part))
}

// RecordMaintenance moves a part's last-maintenance date forward.
func (h *Handler) RecordMaintenance(w http.ResponseWriter, r *http.Request) {
	var req RecordMaintenanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	performed, err := engine.ParseDate(req.PerformedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid performed_at (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.RecordMaintenance(r.Context(), chi.URLParam(r, "id"), performed); err != nil {
		writeDomainError(w, "Failed to record maintenance", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"recorded": true})
}

// GetMachineCalendar returns a month grid annotated with every audit
// task's occurrences for the machine.
func (h *Handler) GetMachineCalendar(w http.ResponseWriter, r *http.Request) {
	now, err := h.dateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	year, month, err := yearMonthParams(r, now)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year/month", err)
		return
	}

	machine, err := h.Store.GetMachine(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get machine", err)
		return
	}

	grid, err := engine.BuildMonthGrid(year, month, now)
	if err != nil {
		writeDomainError(w, "Failed to build calendar", err)
		return
	}

	tasks, err := h.Store.ListTasks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	occurrences, err := h.Tracker.CalendarOccurrences(r.Context(), tasks, machine.ID,
		engine.StartOfMonth(year, month), engine.EndOfMonth(year, month))
	if err != nil {
		writeDomainError(w, "Failed to compute occurrences", err)
		return
	}
	grid.Annotate(occurrences)

	writeJSON(w, http.StatusOK, calendarDTO(grid))
}

// =============================================================================
// AUDIT TASK HANDLERS
// =============================================================================

// ListTasks returns all audit tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Store.ListTasks(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = taskDTO(task)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTask creates an audit task.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Task name is required", nil)
		return
	}
	rule, err := factory.RuleFromRecord(req.Rule)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid recurrence rule", err)
		return
	}

	task, err := h.Store.CreateTask(r.Context(), audit.Task{
		Name:     req.Name,
		Color:    req.Color,
		Category: req.Category,
		Rule:     rule,
	})
	if err != nil {
		writeDomainError(w, "Failed to create task", err)
		return
	}
	writeJSON(w, http.StatusCreated, taskDTO(task))
}

// DeleteTask deletes a task; its completion ledger cascades.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, "Failed to delete task", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// GetEligibility returns the check-off decision for a machine today.
func (h *Handler) GetEligibility(w http.ResponseWriter, r *http.Request) {
	machineID := r.URL.Query().Get("machine_id")
	if machineID == "" {
		writeError(w, http.StatusBadRequest, "machine_id is required", nil)
		return
	}
	today, err := h.dateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	task, err := h.Store.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get task", err)
		return
	}

	eligibility, err := h.Tracker.Evaluate(r.Context(), task, machineID, today)
	if err != nil {
		writeDomainError(w, "Failed to evaluate eligibility", err)
		return
	}
	writeJSON(w, http.StatusOK, eligibilityDTO(eligibility))
}

// SubmitCheckoff records a check-off when the machine is eligible.
func (h *Handler) SubmitCheckoff(w http.ResponseWriter, r *http.Request) {
	var req CheckoffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.MachineID == "" {
		writeError(w, http.StatusBadRequest, "machine_id is required", nil)
		return
	}
	today, err := h.dateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}

	task, err := h.Store.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get task", err)
		return
	}

	record, err := h.Tracker.Checkoff(r.Context(), task, req.MachineID, today, req.CompletedBy, h.Now())
	if err != nil {
		writeDomainError(w, "Failed to submit check-off", err)
		return
	}
	writeJSON(w, http.StatusCreated, completionDTO(record))
}

// GetHistory returns completed check-offs in a date range.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	machineID := r.URL.Query().Get("machine_id")
	if machineID == "" {
		writeError(w, http.StatusBadRequest, "machine_id is required", nil)
		return
	}
	from, err := engine.ParseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := engine.ParseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}

	records, err := h.Tracker.History(r.Context(), chi.URLParam(r, "id"), machineID, from, to)
	if err != nil {
		writeDomainError(w, "Failed to load history", err)
		return
	}

	dtos := make([]CompletionDTO, len(records))
	for i, rec := range records {
		dtos[i] = completionDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// BACKUP HANDLERS
// =============================================================================

// ListBackupSchedules returns every schedule with its next run.
func (h *Handler) ListBackupSchedules(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.Store.ListBackupSchedules(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list backup schedules", err)
		return
	}

	now := h.Now()
	dtos := make([]BackupScheduleDTO, len(schedules))
	for i, schedule := range schedules {
		dtos[i] = backupScheduleDTO(schedule, now)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateBackupSchedule creates a backup schedule.
func (h *Handler) CreateBackupSchedule(w http.ResponseWriter, r *http.Request) {
	var req CreateBackupScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Schedule name is required", nil)
		return
	}

	spec := backup.Spec{
		Frequency:  backup.Frequency(req.Frequency),
		Hour:       req.Hour,
		Minute:     req.Minute,
		DayOfWeek:  req.DayOfWeek,
		DayOfMonth: req.DayOfMonth,
		Retention:  req.Retention,
		Enabled:    req.Enabled,
	}
	if err := backup.Validate(spec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid backup schedule", err)
		return
	}

	schedule, err := h.Store.CreateBackupSchedule(r.Context(), backup.Schedule{Name: req.Name, Spec: spec})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create backup schedule", err)
		return
	}
	writeJSON(w, http.StatusCreated, backupScheduleDTO(schedule, h.Now()))
}

// =============================================================================
// DTO CONVERSION
// =============================================================================

func siteDTO(site maintenance.Site) SiteDTO {
	return SiteDTO{ID: site.ID, Name: site.Name, NotificationThreshold: site.NotificationThreshold}
}

func statusDTO(status engine.Status) StatusDTO {
	return StatusDTO{
		Kind:          string(status.Kind),
		DaysOverdue:   status.DaysOverdue,
		DaysRemaining: status.DaysRemaining,
	}
}

func partDTO(part maintenance.Part) PartDTO {
	return PartDTO{
		ID:              part.ID,
		MachineID:       part.MachineID,
		Name:            part.Name,
		LastMaintenance: part.LastMaintenance.String(),
		Rule:            factory.RecordFromRule(part.Rule),
	}
}

func overviewDTO(overview maintenance.SiteOverview) SiteOverviewDTO {
	items := make([]ItemStatusDTO, len(overview.Items))
	for i, item := range overview.Items {
		items[i] = ItemStatusDTO{
			Part:    partDTO(item.Part),
			DueDate: item.DueDate.String(),
			Status:  statusDTO(item.Status),
		}
	}
	return SiteOverviewDTO{
		Site:           siteDTO(overview.Site),
		Worst:          statusDTO(overview.Worst),
		Items:          items,
		OverdueCount:   overview.OverdueCount,
		DueSoonCount:   overview.DueSoonCount,
		OkCount:        overview.OkCount,
		ComplianceRate: overview.ComplianceRate.String(),
	}
}

func taskDTO(task audit.Task) TaskDTO {
	return TaskDTO{
		ID:       task.ID,
		Name:     task.Name,
		Color:    task.Color,
		Category: task.Category,
		Rule:     factory.RecordFromRule(task.Rule),
	}
}

func eligibilityDTO(e audit.Eligibility) EligibilityDTO {
	dto := EligibilityDTO{State: string(e.State)}
	if !e.NextEligible.IsZero() {
		dto.NextEligible = e.NextEligible.String()
	}
	if e.Record != nil {
		rec := completionDTO(*e.Record)
		dto.Record = &rec
	}
	return dto
}

func completionDTO(rec audit.CompletionRecord) CompletionDTO {
	return CompletionDTO{
		TaskID:      rec.Key.TaskID,
		MachineID:   rec.Key.MachineID,
		Date:        rec.Key.Date.String(),
		CompletedBy: rec.CompletedBy,
		CreatedAt:   rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func calendarDTO(grid engine.MonthGrid) CalendarDTO {
	weeks := make([][]DayDTO, len(grid.Weeks))
	for wi, week := range grid.Weeks {
		days := make([]DayDTO, len(week))
		for di, day := range week {
			dto := DayDTO{Date: day.Date.String(), InMonth: day.InMonth, Today: day.Today}
			for _, marker := range day.Markers {
				dto.Markers = append(dto.Markers, MarkerDTO{
					ID: marker.ID, Label: marker.Label, Color: marker.Color, Category: marker.Category,
				})
			}
			days[di] = dto
		}
		weeks[wi] = days
	}
	return CalendarDTO{Year: grid.Year, Month: int(grid.Month), Weeks: weeks}
}

func backupScheduleDTO(schedule backup.Schedule, now time.Time) BackupScheduleDTO {
	spec := schedule.Spec
	dto := BackupScheduleDTO{
		ID:         schedule.ID,
		Name:       schedule.Name,
		Frequency:  string(spec.Frequency),
		Hour:       spec.Hour,
		Minute:     spec.Minute,
		DayOfWeek:  spec.DayOfWeek,
		DayOfMonth: spec.DayOfMonth,
		Retention:  spec.Retention,
		Enabled:    spec.Enabled,
	}
	if spec.LastRun != nil {
		dto.LastRun = spec.LastRun.UTC().Format(time.RFC3339)
	}
	if next := backup.NextRun(spec, now); next != nil {
		dto.NextRun = next.UTC().Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// REQUEST HELPERS
// =============================================================================

// dateParam reads ?date=YYYY-MM-DD, defaulting to the handler clock.
func (h *Handler) dateParam(r *http.Request) (engine.Date, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return engine.DateOf(h.Now()), nil
	}
	return engine.ParseDate(raw)
}

// yearMonthParams reads ?year= and ?month=, defaulting to now's month.
func yearMonthParams(r *http.Request, now engine.Date) (int, time.Month, error) {
	year, month := now.Year(), now.Month()

	if raw := r.URL.Query().Get("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", raw)
		}
		year = y
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid month %q", raw)
		}
		month = time.Month(m)
	}
	return year, month, nil
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

// writeDomainError maps domain error kinds to HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case errors.Is(err, sqlite.ErrNotFound):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, audit.ErrIneligibleCheckoff), errors.Is(err, audit.ErrDuplicateCompletion):
		writeError(w, http.StatusConflict, message, err)
	case engine.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
