package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tradesentinel/screening-engine/internal/alerts"
	"github.com/tradesentinel/screening-engine/internal/db"
	"github.com/tradesentinel/screening-engine/internal/monitor"
	"github.com/tradesentinel/screening-engine/internal/screening"
	"github.com/tradesentinel/screening-engine/internal/validate"
	"github.com/tradesentinel/screening-engine/pkg/models"
)

type APIHandler struct {
	engine   *screening.Engine
	dbStore  *db.PostgresStore
	wsHub    *Hub
	batch    *monitor.Batch
	alertMgr *alerts.Manager
}

func SetupRouter(engine *screening.Engine, dbStore *db.PostgresStore, wsHub *Hub, batch *monitor.Batch, alertMgr *alerts.Manager) *gin.Engine {
	r := gin.Default()

	// Enable CORS — configurable via ALLOWED_ORIGINS env var
	// Production: ALLOWED_ORIGINS=https://compliance.example.com
	// Development: ALLOWED_ORIGINS=http://localhost:3000 (or leave empty for *)
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			// Check if the request origin is in the allowed list
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	handler := &APIHandler{engine: engine, dbStore: dbStore, wsHub: wsHub, batch: batch, alertMgr: alertMgr}

	limiter := NewRateLimiter(60, 10)

	api := r.Group("/api/v1")
	api.Use(limiter.Middleware())
	{
		api.GET("/health", handler.handleHealth)
		api.GET("/stream", wsHub.Subscribe)

		protected := api.Group("")
		protected.Use(AuthMiddleware())
		{
			protected.POST("/screen", handler.handleScreen)
			protected.GET("/reports/:id", handler.handleGetReport)
			protected.GET("/stats", handler.handleStats)

			protected.GET("/validate/iban", handler.handleValidateIBAN)
			protected.GET("/validate/swift", handler.handleValidateSWIFT)
			protected.GET("/validate/imo", handler.handleValidateIMO)

			// Batch re-screening of stored cases
			protected.POST("/rescreen", handler.handleStartRescreen)
			protected.GET("/rescreen/progress", handler.handleRescreenProgress)

			// Alert history and webhook management
			protected.GET("/alerts/recent", handler.handleRecentAlerts)
			protected.POST("/alerts/webhooks", handler.handleRegisterWebhook)
			protected.DELETE("/alerts/webhooks/:name", handler.handleRemoveWebhook)
		}
	}

	return r
}

// handleScreen runs the full aggregation for one submitted case.
func (h *APIHandler) handleScreen(c *gin.Context) {
	var screeningCase models.Case
	if err := c.ShouldBindJSON(&screeningCase); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid case payload", "details": err.Error()})
		return
	}

	verdict, err := h.engine.Screen(c.Request.Context(), &screeningCase)
	if err != nil {
		switch {
		case errors.Is(err, screening.ErrNoUsableIdentity):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Case must carry at least one of companyName, email, or a non-empty allParties",
			})
		case errors.Is(err, context.Canceled):
			// Client went away mid-run; nothing to report.
			c.Status(http.StatusRequestTimeout)
		default:
			log.Printf("[API] Screening failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Screening failed"})
		}
		return
	}

	if h.dbStore != nil {
		if err := h.dbStore.SaveReport(c.Request.Context(), &screeningCase, verdict); err != nil {
			// Persistence is best-effort; the verdict still goes out.
			log.Printf("[API] Failed to persist report %s: %v", verdict.ReportID, err)
		}
	}
	if h.alertMgr != nil {
		h.alertMgr.EmitVerdict(verdict, false)
	}

	c.JSON(http.StatusOK, verdict)
}

func (h *APIHandler) handleGetReport(c *gin.Context) {
	if h.dbStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report storage not configured"})
		return
	}
	verdict, err := h.dbStore.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	c.JSON(http.StatusOK, verdict)
}

func (h *APIHandler) handleStats(c *gin.Context) {
	if h.dbStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report storage not configured"})
		return
	}
	counts, err := h.dbStore.CountByLevel(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verdictsByLevel": counts, "providers": h.engine.Providers()})
}

func (h *APIHandler) handleValidateIBAN(c *gin.Context) {
	value := c.Query("value")
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing value parameter"})
		return
	}
	c.JSON(http.StatusOK, validate.IBAN(value))
}

func (h *APIHandler) handleValidateSWIFT(c *gin.Context) {
	value := c.Query("value")
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing value parameter"})
		return
	}
	c.JSON(http.StatusOK, validate.SWIFT(value))
}

func (h *APIHandler) handleValidateIMO(c *gin.Context) {
	value := c.Query("value")
	if value == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing value parameter"})
		return
	}
	c.JSON(http.StatusOK, validate.IMO(value))
}

// handleStartRescreen launches a batch re-screen of stored cases.
// Optional query params: days (lookback window, default 30), limit (default 100).
func (h *APIHandler) handleStartRescreen(c *gin.Context) {
	if h.batch == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Batch re-screening not configured"})
		return
	}
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 365 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
		return
	}

	// The batch outlives the HTTP request, so it runs on the background
	// context rather than the request context.
	if !h.batch.Start(context.Background(), time.Duration(days)*24*time.Hour, limit) {
		c.JSON(http.StatusConflict, gin.H{"error": "A batch re-screen is already running"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "started", "days": days, "limit": limit})
}

func (h *APIHandler) handleRescreenProgress(c *gin.Context) {
	if h.batch == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Batch re-screening not configured"})
		return
	}
	c.JSON(http.StatusOK, h.batch.GetProgress())
}

func (h *APIHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"providers": h.engine.Providers(),
		"database":  h.dbStore != nil,
	})
}

// handleRecentAlerts returns alert history, newest first.
func (h *APIHandler) handleRecentAlerts(c *gin.Context) {
	if h.alertMgr == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Alerting not configured"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	c.JSON(http.StatusOK, gin.H{"alerts": h.alertMgr.GetRecentAlerts(limit)})
}

func (h *APIHandler) handleRegisterWebhook(c *gin.Context) {
	if h.alertMgr == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Alerting not configured"})
		return
	}
	var req struct {
		Name     string            `json:"name" binding:"required"`
		URL      string            `json:"url" binding:"required"`
		MinLevel models.RiskLevel  `json:"minLevel"`
		Headers  map[string]string `json:"headers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and url are required"})
		return
	}
	if req.MinLevel.Rank() == 0 {
		req.MinLevel = models.LevelRed
	}
	h.alertMgr.RegisterWebhook(req.Name, req.URL, req.MinLevel, req.Headers)
	c.JSON(http.StatusCreated, gin.H{"status": "registered", "name": req.Name})
}

func (h *APIHandler) handleRemoveWebhook(c *gin.Context) {
	if h.alertMgr == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Alerting not configured"})
		return
	}
	h.alertMgr.RemoveWebhook(c.Param("name"))
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}
