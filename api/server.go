/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employees/*       Employee registration and lookups
  /api/identity/*        Identity-code validation
  /api/contracts/*       Contract lifecycle and amendments
  /api/benefit-types/*   Benefit-type registry
  /api/benefits/*        Assignments, history, calculation
  /api/zfss/*            Social-fund grants and balance
  /api/admin/*           Admin operations
  /api/audit/*           Audit trail reads
  /api/seed              Demo data (dev only)

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

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
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Actor"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Post("/import", h.ImportEmployees)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/contracts", h.GetEmployeeContracts)
			r.Get("/{id}/benefits", h.GetEmployeeBenefits)
		})

		// Identity routes
		r.Post("/identity/validate", h.ValidateIdentity)

		// Contract routes
		r.Route("/contracts", func(r chi.Router) {
			r.Post("/", h.CreateContract)
			r.Get("/{id}", h.GetContract)
			r.Post("/{id}/confirm", h.ConfirmContract)
			r.Post("/{id}/suspend", h.SuspendContract)
			r.Post("/{id}/resume", h.ResumeContract)
			r.Post("/{id}/terminate", h.TerminateContract)
			r.Get("/{id}/notice-period", h.GetNoticePeriod)
			r.Post("/{id}/amendments", h.AmendContract)
			r.Get("/{id}/amendments", h.ListAmendments)
		})

		// Benefit routes
		r.Route("/benefit-types", func(r chi.Router) {
			r.Get("/", h.ListBenefitTypes)
			r.Post("/", h.CreateBenefitType)
		})
		r.Route("/benefits", func(r chi.Router) {
			r.Post("/", h.AssignBenefit)
			r.Get("/{id}", h.GetAssignment)
			r.Put("/{id}/contribution", h.UpdateContribution)
			r.Post("/{id}/suspend", h.SuspendAssignment)
			r.Post("/{id}/terminate", h.TerminateAssignment)
			r.Get("/{id}/history", h.GetAssignmentHistory)
			r.Post("/{id}/calculate", h.CalculateBenefit)
		})

		// ZFŚS routes
		r.Route("/zfss", func(r chi.Router) {
			r.Post("/grants", h.GrantZfss)
			r.Get("/fund", h.GetFundBalance)
			r.Post("/fund/credit", h.CreditFund)
			r.Get("/tier", h.ResolveTier)
		})

		// Admin routes
		r.Post("/admin/expire-contracts", h.ExpireContracts)
		r.Get("/audit/{subject}", h.GetAuditTrail)
		r.Post("/seed", h.SeedDemo)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Kadry Compliance Engine</title></head>
<body style="font-family: system-ui; max-width: 800px; margin: 50px auto; padding: 20px;">
<h1>Kadry Compliance Engine API</h1>
<h2>API Endpoints</h2>
<ul>
<li><a href="/api/employees">/api/employees</a> - List employees</li>
<li><a href="/api/benefit-types">/api/benefit-types</a> - List benefit types</li>
<li>POST /api/seed - Load demo data</li>
</ul>
</body>
</html>`))
	})

	return r
}
