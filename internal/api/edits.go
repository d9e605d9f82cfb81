package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/netrika/netrika/internal/models"
)

// EditHandler serves pending edit endpoints: proposal, queue listing, and
// moderation decisions.
type EditHandler struct {
	repo     EditRepository
	workflow Workflow
	log      *logrus.Logger
}

// NewEditHandler creates an EditHandler with the given dependencies.
func NewEditHandler(repo EditRepository, workflow Workflow, log *logrus.Logger) *EditHandler {
	return &EditHandler{repo: repo, workflow: workflow, log: log}
}

// Propose handles POST /api/v1/edits.
func (h *EditHandler) Propose(c *gin.Context) {
	ident, ok := getIdentity(c)
	if !ok {
		return
	}

	var req models.ProposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	edit, err := h.workflow.Propose(c.Request.Context(), ident, req)
	if err != nil {
		h.respondWorkflowError(c, err, "proposing edit")

		return
	}

	c.JSON(http.StatusCreated, edit)
}

// Get handles GET /api/v1/edits/:id.
func (h *EditHandler) Get(c *gin.Context) {
	editID := c.Param("id")
	if err := validatePathID(editID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	edit, err := h.repo.GetEdit(c.Request.Context(), editID)
	if err != nil {
		if errors.Is(err, models.ErrEditNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "edit not found")

			return
		}

		h.log.WithError(err).Error("getting edit")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, edit)
}

// ListPending handles GET /api/v1/edits, the admin moderation queue.
func (h *EditHandler) ListPending(c *gin.Context) {
	opts := models.ListPendingOpts{
		EntityType: c.Query("entity_type"),
		Page:       parseInt(c.DefaultQuery("page", "1"), 1),
		PageSize:   parseInt(c.DefaultQuery("page_size", "20"), 20),
	}

	edits, total, err := h.repo.ListPending(c.Request.Context(), opts)
	if err != nil {
		h.log.WithError(err).Error("listing pending edits")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{
		"edits": edits,
		"total": total,
		"page":  opts.Page,
	})
}

// Approve handles POST /api/v1/edits/:id/approve.
func (h *EditHandler) Approve(c *gin.Context) {
	ident, ok := getIdentity(c)
	if !ok {
		return
	}

	editID := c.Param("id")
	if err := validatePathID(editID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	result, err := h.workflow.Approve(c.Request.Context(), ident, editID)
	if err != nil {
		h.respondWorkflowError(c, err, "approving edit")

		return
	}

	c.JSON(http.StatusOK, result)
}

// Deny handles POST /api/v1/edits/:id/deny.
func (h *EditHandler) Deny(c *gin.Context) {
	ident, ok := getIdentity(c)
	if !ok {
		return
	}

	editID := c.Param("id")
	if err := validatePathID(editID); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.DenyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	if err := h.workflow.Deny(c.Request.Context(), ident, editID, req.Reason); err != nil {
		h.respondWorkflowError(c, err, "denying edit")

		return
	}

	c.JSON(http.StatusOK, gin.H{"edit_id": editID, "status": models.EditStatusDenied})
}

// respondWorkflowError maps workflow errors onto HTTP responses.
func (h *EditHandler) respondWorkflowError(c *gin.Context, err error, action string) {
	respondWorkflowError(c, h.log, err, action)
}

// respondWorkflowError translates the workflow error taxonomy into HTTP
// status codes. Unrecognized errors are treated as persistence failures.
func respondWorkflowError(c *gin.Context, log *logrus.Logger, err error, action string) {
	switch {
	case errors.Is(err, models.ErrUnauthenticated):
		respondError(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	case errors.Is(err, models.ErrNotAuthorized):
		respondError(c, http.StatusForbidden, "forbidden", "admin role required")
	case errors.Is(err, models.ErrEditNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "edit not found")
	case errors.Is(err, models.ErrPoliticianNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, "politician not found")
	case errors.Is(err, models.ErrEditNotPending):
		respondError(c, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, models.ErrUnsupportedEntityType),
		errors.Is(err, models.ErrInvalidPayload),
		errors.Is(err, models.ErrMissingEntityType),
		errors.Is(err, models.ErrMissingEntityID),
		errors.Is(err, models.ErrMissingData),
		errors.Is(err, models.ErrMissingReason),
		errors.Is(err, models.ErrMissingFullName),
		errors.Is(err, models.ErrMissingAttribution):
		respondError(c, http.StatusBadRequest, ErrCodeValidationError, err.Error())
	default:
		log.WithError(err).Error(action)
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
