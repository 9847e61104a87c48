// Package monitor provides ongoing screening: registry data changes daily,
// so a case that screened GREEN last week can be a sanctions hit today. The
// Rescreener re-runs recently stored cases on a ticker; Batch re-runs an
// explicit window on demand with progress tracking.
package monitor

import (
	"context"
	"log"
	"time"

	"github.com/tradesentinel/screening-engine/internal/db"
	"github.com/tradesentinel/screening-engine/internal/screening"
	"github.com/tradesentinel/screening-engine/pkg/models"
)

// AlertFunc receives verdicts whose level changed or landed at RED/BLACK.
type AlertFunc func(*models.Verdict)

// Rescreener periodically re-screens the most recent stored cases.
type Rescreener struct {
	engine    *screening.Engine
	store     *db.PostgresStore
	alertFunc AlertFunc

	interval  time.Duration
	lookback  time.Duration
	batchSize int
}

func NewRescreener(engine *screening.Engine, store *db.PostgresStore, alertFunc AlertFunc) *Rescreener {
	return &Rescreener{
		engine:    engine,
		store:     store,
		alertFunc: alertFunc,
		interval:  6 * time.Hour,
		lookback:  30 * 24 * time.Hour,
		batchSize: 100,
	}
}

// Run blocks until the context is cancelled, re-screening on each tick.
func (r *Rescreener) Run(ctx context.Context) {
	if r.store == nil {
		log.Println("[Monitor] No database configured, ongoing monitoring disabled")
		return
	}
	log.Printf("[Monitor] Starting ongoing re-screening every %s", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[Monitor] Stopping ongoing re-screening")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

// sweep re-screens one batch of recent cases and alerts on escalations.
func (r *Rescreener) sweep(ctx context.Context) {
	since := time.Now().Add(-r.lookback)
	cases, err := r.store.RecentCases(ctx, since, r.batchSize)
	if err != nil {
		log.Printf("[Monitor] Failed to load recent cases: %v", err)
		return
	}

	escalated := 0
	for _, stored := range cases {
		if ctx.Err() != nil {
			return
		}
		verdict, err := r.engine.Screen(ctx, &stored.Case)
		if err != nil {
			log.Printf("[Monitor] Re-screen of %s failed: %v", stored.ReportID, err)
			continue
		}
		// Preserve the stored identity so the verdict overwrites in place.
		verdict.ReportID = stored.ReportID
		if err := r.store.SaveReport(ctx, &stored.Case, verdict); err != nil {
			log.Printf("[Monitor] Failed to persist re-screen of %s: %v", stored.ReportID, err)
			continue
		}
		if string(verdict.RiskLevel) != stored.RiskLevel &&
			verdict.RiskLevel.Rank() > models.RiskLevel(stored.RiskLevel).Rank() {
			escalated++
			log.Printf("[Monitor] Escalation: report %s moved %s -> %s",
				stored.ReportID, stored.RiskLevel, verdict.RiskLevel)
			if r.alertFunc != nil {
				r.alertFunc(verdict)
			}
		}
	}
	if escalated > 0 {
		log.Printf("[Monitor] Sweep complete: %d of %d cases escalated", escalated, len(cases))
	}
}
