package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/netrika/netrika/internal/models"
)

// AdminHandler serves admin-only endpoints that bypass the pending edit queue.
type AdminHandler struct {
	workflow Workflow
	log      *logrus.Logger
}

// NewAdminHandler creates an AdminHandler with the given dependencies.
func NewAdminHandler(workflow Workflow, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{workflow: workflow, log: log}
}

// DirectUpdate handles PATCH /api/v1/admin/politicians/:id.
func (h *AdminHandler) DirectUpdate(c *gin.Context) {
	ident, ok := getIdentity(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	var req models.DirectUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request body")

		return
	}

	snapshot, err := h.workflow.DirectUpdate(c.Request.Context(), ident, models.EntityTypePolitician, id, req)
	if err != nil {
		respondWorkflowError(c, h.log, err, "applying direct update")

		return
	}

	c.Data(http.StatusOK, "application/json", snapshot)
}
