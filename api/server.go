/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/sites/*     Sites with compliance overviews
  /api/machines/*  Machines, parts, and calendars
  /api/parts/*     Part creation and maintenance records
  /api/tasks/*     Audit tasks and check-offs
  /api/backups/*   Backup schedules

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/overview", h.GetFleetOverview)

		r.Route("/sites", func(r chi.Router) {
			r.Get("/", h.ListSites)
			r.Post("/", h.CreateSite)
			r.Get("/{id}", h.GetSite)
			r.Delete("/{id}", h.DeleteSite)
			r.Get("/{id}/overview", h.GetSiteOverview)
			r.Get("/{id}/machines", h.ListMachines)
		})

		r.Route("/machines", func(r chi.Router) {
			r.Post("/", h.CreateMachine)
			r.Get("/{id}/parts", h.ListParts)
			r.Get("/{id}/calendar", h.GetMachineCalendar)
		})

		r.Route("/parts", func(r chi.Router) {
			r.Post("/", h.CreatePart)
			r.Post("/{id}/maintenance", h.RecordMaintenance)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", h.ListTasks)
			r.Post("/", h.CreateTask)
			r.Delete("/{id}", h.DeleteTask)
			r.Get("/{id}/eligibility", h.GetEligibility)
			r.Post("/{id}/checkoff", h.SubmitCheckoff)
			r.Get("/{id}/history", h.GetHistory)
		})

		r.Route("/backups", func(r chi.Router) {
			r.Get("/schedules", h.ListBackupSchedules)
			r.Post("/schedules", h.CreateBackupSchedule)
		})
	})

	return r
}
