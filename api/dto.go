/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Sites:     SiteDTO, CreateSiteRequest, SiteOverviewDTO
  Machines:  MachineDTO, CreateMachineRequest
  Parts:     PartDTO, CreatePartRequest, ItemStatusDTO
  Tasks:     TaskDTO, CreateTaskRequest, EligibilityDTO, CheckoffRequest
  Calendar:  CalendarDTO, WeekDTO, DayDTO, MarkerDTO
  Backups:   BackupScheduleDTO, CreateBackupScheduleRequest

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/rule.go: RuleRecord, the wire form of a recurrence rule
*/
package api

import (
	"github.com/warp/upkeep-engine/factory"
)

// ErrorResponse is the JSON body for all error statuses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// SITES
// =============================================================================

// SiteDTO represents a site in API responses.
type SiteDTO struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	NotificationThreshold int    `json:"notification_threshold"`
}

// CreateSiteRequest is the request to create a site.
type CreateSiteRequest struct {
	Name                  string `json:"name"`
	NotificationThreshold int    `json:"notification_threshold"`
}

// StatusDTO is a computed compliance status.
type StatusDTO struct {
	Kind          string `json:"kind"`
	DaysOverdue   int    `json:"days_overdue,omitempty"`
	DaysRemaining int    `json:"days_remaining,omitempty"`
}

// ItemStatusDTO is one part's due date and classification.
type ItemStatusDTO struct {
	Part    PartDTO   `json:"part"`
	DueDate string    `json:"due_date"`
	Status  StatusDTO `json:"status"`
}

// SiteOverviewDTO is the per-site dashboard rollup.
type SiteOverviewDTO struct {
	Site           SiteDTO         `json:"site"`
	Worst          StatusDTO       `json:"worst"`
	Items          []ItemStatusDTO `json:"items"`
	OverdueCount   int             `json:"overdue_count"`
	DueSoonCount   int             `json:"due_soon_count"`
	OkCount        int             `json:"ok_count"`
	ComplianceRate string          `json:"compliance_rate"`
}

// FleetOverviewDTO is the landing-page rollup across all sites.
type FleetOverviewDTO struct {
	Worst StatusDTO         `json:"worst"`
	Sites []SiteOverviewDTO `json:"sites"`
}

// =============================================================================
// MACHINES AND PARTS
// =============================================================================

// MachineDTO represents a machine in API responses.
type MachineDTO struct {
	ID     string `json:"id"`
	SiteID string `json:"site_id"`
	Name   string `json:"name"`
}

// CreateMachineRequest is the request to create a machine.
type CreateMachineRequest struct {
	SiteID string `json:"site_id"`
	Name   string `json:"name"`
}

// PartDTO represents a part in API responses. The rule travels in its
// loose persisted form.
type PartDTO struct {
	ID              string             `json:"id"`
	MachineID       string             `json:"machine_id"`
	Name            string             `json:"name"`
	LastMaintenance string             `json:"last_maintenance"`
	Rule            factory.RuleRecord `json:"rule"`
}

// CreatePartRequest is the request to create a part.
type CreatePartRequest struct {
	MachineID       string             `json:"machine_id"`
	Name            string             `json:"name"`
	LastMaintenance string             `json:"last_maintenance"`
	Rule            factory.RuleRecord `json:"rule"`
}

// RecordMaintenanceRequest moves a part's last-maintenance date.
type RecordMaintenanceRequest struct {
	PerformedAt string `json:"performed_at"`
}

// =============================================================================
// AUDIT TASKS
// =============================================================================

// TaskDTO represents an audit task in API responses.
type TaskDTO struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Color    string             `json:"color,omitempty"`
	Category string             `json:"category,omitempty"`
	Rule     factory.RuleRecord `json:"rule"`
}

// CreateTaskRequest is the request to create an audit task.
type CreateTaskRequest struct {
	Name     string             `json:"name"`
	Color    string             `json:"color"`
	Category string             `json:"category"`
	Rule     factory.RuleRecord `json:"rule"`
}

// EligibilityDTO is the check-off decision for a (task, machine, day).
type EligibilityDTO struct {
	State        string         `json:"state"`
	NextEligible string         `json:"next_eligible,omitempty"`
	Record       *CompletionDTO `json:"record,omitempty"`
}

// CompletionDTO is one ledger entry.
type CompletionDTO struct {
	TaskID      string `json:"task_id"`
	MachineID   string `json:"machine_id"`
	Date        string `json:"date"`
	CompletedBy string `json:"completed_by,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// CheckoffRequest submits a check-off for a machine.
type CheckoffRequest struct {
	MachineID   string `json:"machine_id"`
	CompletedBy string `json:"completed_by"`
}

// =============================================================================
// CALENDAR
// =============================================================================

// MarkerDTO is one annotation on a calendar day.
type MarkerDTO struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Color    string `json:"color,omitempty"`
	Category string `json:"category,omitempty"`
}

// DayDTO is one grid cell.
type DayDTO struct {
	Date    string      `json:"date"`
	InMonth bool        `json:"in_month"`
	Today   bool        `json:"today,omitempty"`
	Markers []MarkerDTO `json:"markers,omitempty"`
}

// CalendarDTO is a month grid of whole weeks.
type CalendarDTO struct {
	Year  int        `json:"year"`
	Month int        `json:"month"`
	Weeks [][]DayDTO `json:"weeks"`
}

// =============================================================================
// BACKUPS
// =============================================================================

// BackupScheduleDTO represents a backup schedule in API responses.
type BackupScheduleDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Frequency  string `json:"frequency"`
	Hour       int    `json:"hour"`
	Minute     int    `json:"minute"`
	DayOfWeek  int    `json:"day_of_week,omitempty"`
	DayOfMonth int    `json:"day_of_month,omitempty"`
	Retention  int    `json:"retention"`
	Enabled    bool   `json:"enabled"`
	LastRun    string `json:"last_run,omitempty"`
	NextRun    string `json:"next_run,omitempty"`
}

// CreateBackupScheduleRequest is the request to create a schedule.
type CreateBackupScheduleRequest struct {
	Name       string `json:"name"`
	Frequency  string `json:"frequency"`
	Hour       int    `json:"hour"`
	Minute     int    `json:"minute"`
	DayOfWeek  int    `json:"day_of_week"`
	DayOfMonth int    `json:"day_of_month"`
	Retention  int    `json:"retention"`
	Enabled    bool   `json:"enabled"`
}
