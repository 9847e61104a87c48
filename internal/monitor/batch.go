package monitor

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/tradesentinel/screening-engine/internal/db"
	"github.com/tradesentinel/screening-engine/internal/screening"
	"github.com/tradesentinel/screening-engine/pkg/models"
)

// Batch re-screens every stored case in a lookback window on demand. Only
// one batch runs at a time; progress is readable concurrently.
type Batch struct {
	engine    *screening.Engine
	store     *db.PostgresStore
	alertFunc AlertFunc

	// Progress tracking (atomic for safe concurrent reads)
	totalQueued    atomic.Int64
	totalScreened  atomic.Int64
	totalEscalated atomic.Int64
	isRunning      atomic.Bool
}

// Progress is the batch job's current state for the API.
type Progress struct {
	IsRunning      bool  `json:"isRunning"`
	TotalQueued    int64 `json:"totalQueued"`
	TotalScreened  int64 `json:"totalScreened"`
	TotalEscalated int64 `json:"totalEscalated"`
}

func NewBatch(engine *screening.Engine, store *db.PostgresStore, alertFunc AlertFunc) *Batch {
	return &Batch{engine: engine, store: store, alertFunc: alertFunc}
}

// GetProgress returns the current batch progress (thread-safe).
func (b *Batch) GetProgress() Progress {
	return Progress{
		IsRunning:      b.isRunning.Load(),
		TotalQueued:    b.totalQueued.Load(),
		TotalScreened:  b.totalScreened.Load(),
		TotalEscalated: b.totalEscalated.Load(),
	}
}

// Start kicks off an asynchronous re-screen of all cases stored within the
// lookback window. Returns false when a batch is already running or no
// database is configured.
func (b *Batch) Start(ctx context.Context, lookback time.Duration, limit int) bool {
	if b.store == nil {
		return false
	}
	if !b.isRunning.CompareAndSwap(false, true) {
		log.Println("[Batch] Re-screen already in progress, ignoring duplicate request")
		return false
	}

	b.totalQueued.Store(0)
	b.totalScreened.Store(0)
	b.totalEscalated.Store(0)

	go func() {
		defer b.isRunning.Store(false)

		cases, err := b.store.RecentCases(ctx, time.Now().Add(-lookback), limit)
		if err != nil {
			log.Printf("[Batch] Failed to load cases: %v", err)
			return
		}
		b.totalQueued.Store(int64(len(cases)))
		log.Printf("[Batch] Starting batch re-screen of %d cases", len(cases))

		for _, stored := range cases {
			if ctx.Err() != nil {
				log.Println("[Batch] Cancelled, stopping batch re-screen")
				return
			}
			verdict, err := b.engine.Screen(ctx, &stored.Case)
			if err != nil {
				log.Printf("[Batch] Re-screen of %s failed: %v", stored.ReportID, err)
				b.totalScreened.Add(1)
				continue
			}
			verdict.ReportID = stored.ReportID
			if err := b.store.SaveReport(ctx, &stored.Case, verdict); err != nil {
				log.Printf("[Batch] Failed to persist %s: %v", stored.ReportID, err)
			}
			b.totalScreened.Add(1)

			if verdict.RiskLevel.Rank() > models.RiskLevel(stored.RiskLevel).Rank() {
				b.totalEscalated.Add(1)
				if b.alertFunc != nil {
					b.alertFunc(verdict)
				}
			}
		}
		log.Printf("[Batch] Complete: %d screened, %d escalated",
			b.totalScreened.Load(), b.totalEscalated.Load())
	}()
	return true
}
