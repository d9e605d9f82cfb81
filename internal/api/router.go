package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/netrika/netrika/internal/assets"
	"github.com/netrika/netrika/internal/dbpool"
	"github.com/netrika/netrika/internal/middleware"
	"github.com/netrika/netrika/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log            *logrus.Logger
	Pool           *dbpool.Pool
	Hub            *ws.Hub
	Politicians    PoliticianRepository
	Edits          EditRepository
	Revisions      RevisionRepository
	Workflow       Workflow
	Assets         *assets.Resolver
	IdentityLookup middleware.IdentityLookup
	CORSOrigins    []string
	Version        string
	EnableFeed     bool
}

// Router-level limits.
const (
	maxBodySize = 1 << 20 // 1 MB
	rateLimit   = 100     // requests per second per IP
	rateBurst   = 200     // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, log, deps.Version)
	politicians := NewPoliticianHandler(deps.Politicians, deps.Revisions, deps.Edits, deps.Assets, log)
	edits := NewEditHandler(deps.Edits, deps.Workflow, log)
	admin := NewAdminHandler(deps.Workflow, log)
	stats := NewStatsHandler(deps.Pool, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// All other API routes require authentication.
	bfGuard := middleware.NewBruteForceGuard(ctx, log)
	api.Use(middleware.BruteForceMiddleware(bfGuard))
	api.Use(middleware.AuthMiddleware(middleware.NewCachedIdentityLookup(ctx, deps.IdentityLookup), log, bfGuard))

	// Politicians (read-only for all authenticated callers).
	api.GET("/politicians", politicians.List)
	api.GET("/politicians/:id", politicians.Get)
	api.GET("/politicians/:id/revisions", politicians.Revisions)
	api.GET("/politicians/:id/edits", politicians.EditHistory)

	// Edit proposal and lookup.
	api.POST("/edits", edits.Propose)
	api.GET("/edits/:id", edits.Get)

	// Stats.
	api.GET("/stats", stats.GetStats)

	// WebSocket moderation feed.
	if deps.EnableFeed {
		api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, deps.IdentityLookup))
	}

	// Moderation and admin-only routes.
	adminGroup := api.Group("")
	adminGroup.Use(middleware.RequireAdmin())
	adminGroup.GET("/edits", edits.ListPending)
	adminGroup.POST("/edits/:id/approve", edits.Approve)
	adminGroup.POST("/edits/:id/deny", edits.Deny)
	adminGroup.PATCH("/admin/politicians/:id", admin.DirectUpdate)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
