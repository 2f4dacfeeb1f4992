/*
sweeper.go - Automated contract expiry sweep

PURPOSE:
  Periodically moves ACTIVE fixed-term contracts whose end date has
  passed to EXPIRED, so the stored state never shows a contract as
  active beyond its agreed term.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each pass asks the employment service for due contracts as of today
  - Already-transitioned contracts are skipped by the service
  - Sweep outcomes are visible in the audit trail (contract.expired)

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether the sweeper is active (default: true)

USAGE:
  sweeper := NewExpirySweeper(empService)
  sweeper.Start()
  // ... later
  sweeper.Stop()

SEE ALSO:
  - handlers.go: ExpireContracts endpoint (manual sweep)
  - employment/service.go: ExpireContracts command
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/kadry/compliance-engine/compliance"
	"github.com/kadry/compliance-engine/employment"
)

// ExpirySweeper handles automated contract expiry.
type ExpirySweeper struct {
	Employment    *employment.Service
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewExpirySweeper creates a new sweeper.
func NewExpirySweeper(emp *employment.Service) *ExpirySweeper {
	return &ExpirySweeper{
		Employment:    emp,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the sweeper.
func (es *ExpirySweeper) Start() {
	es.mu.Lock()
	defer es.mu.Unlock()

	if !es.Enabled {
		log.Println("[Sweeper] Disabled, not starting")
		return
	}

	es.ticker = time.NewTicker(es.CheckInterval)
	es.wg.Add(1)

	go es.run()

	log.Printf("[Sweeper] Started with check interval: %v", es.CheckInterval)
}

// Stop stops the sweeper.
func (es *ExpirySweeper) Stop() {
	es.mu.Lock()
	defer es.mu.Unlock()

	if es.ticker != nil {
		es.ticker.Stop()
		close(es.stop)
		es.wg.Wait()
		log.Println("[Sweeper] Stopped")
	}
}

func (es *ExpirySweeper) run() {
	defer es.wg.Done()

	// Run immediately on start
	es.sweep()

	for {
		select {
		case <-es.ticker.C:
			es.sweep()
		case <-es.stop:
			return
		}
	}
}

func (es *ExpirySweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now().UTC()
	asOf := compliance.NewDate(now.Year(), now.Month(), now.Day())

	expired, err := es.Employment.ExpireContracts(ctx, asOf)
	if err != nil {
		log.Printf("[Sweeper] Sweep failed: %v", err)
		return
	}
	if expired > 0 {
		log.Printf("[Sweeper] Expired %d contract(s) as of %s", expired, asOf)
	}
}
