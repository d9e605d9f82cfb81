package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/netrika/netrika/internal/dbpool"
	"github.com/netrika/netrika/internal/metrics"
)

// StatsHandler serves the moderation statistics endpoint.
type StatsHandler struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

// NewStatsHandler creates a StatsHandler with the given dependencies.
func NewStatsHandler(pool *dbpool.Pool, log *logrus.Logger) *StatsHandler {
	return &StatsHandler{pool: pool, log: log}
}

// statsResponse is the JSON payload returned by the stats endpoint.
type statsResponse struct {
	Politicians   int `json:"politicians"`
	PendingEdits  int `json:"pending_edits"`
	ApprovedEdits int `json:"approved_edits"`
	DeniedEdits   int `json:"denied_edits"`
	Revisions     int `json:"revisions"`
}

// GetStats handles GET /api/v1/stats, returning aggregate moderation statistics.
func (h *StatsHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	tx, err := h.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		h.log.WithError(err).Error("stats: begin tx")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx, rollback is cleanup.

	var resp statsResponse

	// Single consolidated query for all counters.
	if err := tx.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM politicians WHERE review_status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'denied'),
			(SELECT COUNT(*) FROM revisions)
		 FROM pending_edits`,
	).Scan(
		&resp.Politicians, &resp.PendingEdits, &resp.ApprovedEdits,
		&resp.DeniedEdits, &resp.Revisions,
	); err != nil {
		h.log.WithError(err).Error("stats: consolidated query")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
		return
	}

	// Update Prometheus gauges with fresh counts.
	metrics.PendingEdits.Set(float64(resp.PendingEdits))

	c.JSON(http.StatusOK, resp)
}
