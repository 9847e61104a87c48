package main

import (
	"context"
	"log"
	"os"

	"github.com/tradesentinel/screening-engine/internal/alerts"
	"github.com/tradesentinel/screening-engine/internal/api"
	"github.com/tradesentinel/screening-engine/internal/config"
	"github.com/tradesentinel/screening-engine/internal/db"
	"github.com/tradesentinel/screening-engine/internal/monitor"
	"github.com/tradesentinel/screening-engine/internal/providers"
	"github.com/tradesentinel/screening-engine/internal/screening"
	"github.com/tradesentinel/screening-engine/pkg/models"
)

func main() {
	log.Println("Starting TradeSentinel Risk Aggregation & Screening Engine...")

	// ─── Configuration ───────────────────────────────────────────────────
	// Weights, matcher thresholds, and fan-out limits come from an optional
	// YAML file; endpoints and credentials come from environment variables.
	// Use a .env file for local development.
	// ─────────────────────────────────────────────────────────────────────

	cfg, err := config.Load(getEnvOrDefault("CONFIG_PATH", "screening.yaml"))
	if err != nil {
		log.Fatalf("FATAL: invalid configuration: %v", err)
	}

	var dbStore *db.PostgresStore
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		dbStore, err = db.Connect(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to connect to PostgreSQL, continuing without report persistence. Error: %v", err)
			dbStore = nil
		} else {
			defer dbStore.Close()
			if err := dbStore.InitSchema(); err != nil {
				log.Printf("Warning: DB schema init failed: %v", err)
			}
		}
	} else {
		log.Println("Warning: DATABASE_URL not set, report persistence and re-screening disabled")
	}

	// Registry gateway endpoints. Any unset source is simply left out of the
	// provider registry; a degraded deployment still screens against the
	// sources it has.
	clients := providers.Clients{
		SanctionsSearch: searchFromEnv("SANCTIONS_SEARCH_URL"),
		WantedNotices:   searchFromEnv("WANTED_NOTICES_URL"),
		ExportControl:   searchFromEnv("EXPORT_CONTROL_URL"),
		Debarment:       searchFromEnv("DEBARMENT_URL"),
		OffshoreLeaks:   searchFromEnv("OFFSHORE_LEAKS_URL"),
		LEILookup:       searchFromEnv("LEI_LOOKUP_URL"),
		RegistryUK:      searchFromEnv("REGISTRY_UK_URL"),
		RegistryUS:      searchFromEnv("REGISTRY_US_URL"),
	}
	registry := providers.Registry(clients)
	if len(registry) == 0 {
		log.Println("Warning: no registry endpoints configured; verdicts will rely on rule tables and validators only")
	}

	engine := screening.NewEngine(registry, cfg.Options())
	log.Printf("Screening engine ready with %d providers", len(registry))

	// Setup WebSocket Hub for live high-risk alerts
	wsHub := api.NewHub()
	go wsHub.Run()

	// RED and BLACK verdicts fan out to websocket subscribers and any
	// registered webhooks.
	alertMgr := alerts.NewManager(wsHub.PublishAlert)
	if whURL := os.Getenv("ALERT_WEBHOOK_URL"); whURL != "" {
		alertMgr.RegisterWebhook("default", whURL, models.LevelRed, nil)
		log.Println("Registered default alert webhook")
	}

	alert := func(v *models.Verdict) { alertMgr.EmitVerdict(v, true) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ongoing monitoring: periodic re-screen of recent cases, plus the
	// on-demand batch job exposed through the API.
	rescreener := monitor.NewRescreener(engine, dbStore, alert)
	go rescreener.Run(ctx)
	batch := monitor.NewBatch(engine, dbStore, alert)

	r := api.SetupRouter(engine, dbStore, wsHub, batch, alertMgr)

	port := getEnvOrDefault("PORT", "5460")

	log.Printf("Engine running on :%s\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// searchFromEnv builds a gateway search client for an endpoint env var, or
// nil when the source is not configured.
func searchFromEnv(key string) providers.SearchFunc {
	base := os.Getenv(key)
	if base == "" {
		return nil
	}
	return providers.HTTPSearch(base, nil)
}

// getEnvOrDefault returns the env var value or a safe default for non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
