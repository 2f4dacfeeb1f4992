/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the Kadry Compliance Engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load the legal-constant set (minimum wage, ZUS rates, ZFŚS tiers)
  3. Initialize SQLite store
  4. Wire employment and payroll services
  5. Configure HTTP router and start the expiry sweeper
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: kadry.db)
           Use ":memory:" for in-memory database
  -rates   Path to the legal-constant JSON file. When omitted, a
           built-in set with the 2024/2025 statutory values is used.
  -sweep   Contract expiry sweep interval (default: 1h; 0 disables)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the expiry sweeper
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/kadry.db"

  # Run with in-memory database and custom rates
  ./server -db=":memory:" -rates="./config/rates-2026.json"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - factory/rates.go: Legal-constant parsing
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kadry/compliance-engine/api"
	"github.com/kadry/compliance-engine/employment"
	"github.com/kadry/compliance-engine/factory"
	"github.com/kadry/compliance-engine/payroll"
	"github.com/kadry/compliance-engine/store/sqlite"
)

// defaultRatesJSON carries the statutory values effective 2024-2025:
// minimum wage per the annual ordinance, ZUS contribution rates, and a
// three-band ZFŚS threshold table.
const defaultRatesJSON = `{
  "minimum_wage": [
    {"year": 2024, "monthly": "4242.00", "hourly": "27.70"},
    {"year": 2025, "monthly": "4666.00", "hourly": "30.50"},
    {"year": 2026, "monthly": "4806.00", "hourly": "31.40"}
  ],
  "contribution_rates": {
    "full_employee": "0.1371",
    "full_employer": "0.2038",
    "partial_employee": "0.09"
  },
  "zfss": {
    "thresholds": [
      {"max_income": "3000", "percentage": "100"},
      {"max_income": "5000", "percentage": "80"},
      {"max_income": "8000", "percentage": "60"}
    ],
    "annual_budget": "250000"
  }
}`

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "kadry.db", "SQLite database path")
	ratesPath := flag.String("rates", "", "legal-constant JSON file (built-in defaults when empty)")
	sweepInterval := flag.Duration("sweep", time.Hour, "contract expiry sweep interval (0 disables)")
	flag.Parse()

	// Load legal constants
	cfg, err := loadRates(*ratesPath)
	if err != nil {
		log.Fatalf("Failed to load rates config: %v", err)
	}

	year := time.Now().Year()
	wage, ok := cfg.MinimumWageFor(year)
	if !ok {
		log.Fatalf("Rates config has no minimum wage for %d (configured years: %v)", year, cfg.Years())
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Wire services
	empSvc := employment.NewService(store, store, store, employment.Config{
		MinimumWage: wage,
	})
	paySvc := payroll.NewService(store, store, store, store, payroll.Config{
		Rates:      cfg.Rates,
		Thresholds: cfg.Thresholds,
	})

	handler := api.NewHandler(store, empSvc, paySvc)
	router := api.NewRouter(handler)

	// Fixed-term contracts expire automatically in the background
	sweeper := api.NewExpirySweeper(empSvc)
	if *sweepInterval > 0 {
		sweeper.CheckInterval = *sweepInterval
		sweeper.Start()
		defer sweeper.Stop()
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		log.Printf("⚖️  Minimum wage %d: %s/month, %s/hour", year, wage.Monthly, wage.Hourly)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func loadRates(path string) (*factory.Config, error) {
	data := []byte(defaultRatesJSON)
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	return factory.ParseConfig(data)
}
