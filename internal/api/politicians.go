package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/netrika/netrika/internal/assets"
	"github.com/netrika/netrika/internal/models"
)

// PoliticianHandler serves politician read endpoints.
type PoliticianHandler struct {
	repo      PoliticianRepository
	revisions RevisionRepository
	edits     EditRepository
	resolver  *assets.Resolver
	log       *logrus.Logger
}

// NewPoliticianHandler creates a PoliticianHandler with the given dependencies.
func NewPoliticianHandler(
	repo PoliticianRepository, revisions RevisionRepository, edits EditRepository,
	resolver *assets.Resolver, log *logrus.Logger,
) *PoliticianHandler {
	return &PoliticianHandler{repo: repo, revisions: revisions, edits: edits, resolver: resolver, log: log}
}

// List handles GET /api/v1/politicians.
func (h *PoliticianHandler) List(c *gin.Context) {
	opts := models.PoliticianListOpts{
		Party:  c.Query("party"),
		Query:  c.Query("q"),
		Limit:  parseInt(c.DefaultQuery("limit", "50"), 50),
		Offset: parseOffset(c.DefaultQuery("offset", "0")),
	}

	politicians, hasMore, err := h.repo.List(c.Request.Context(), opts)
	if err != nil {
		h.log.WithError(err).Error("listing politicians")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.resolver.DecorateAll(politicians)

	c.JSON(http.StatusOK, gin.H{"politicians": politicians, "has_more": hasMore})
}

// Get handles GET /api/v1/politicians/:id.
func (h *PoliticianHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	p, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrPoliticianNotFound) {
			respondError(c, http.StatusNotFound, ErrCodeNotFound, "politician not found")

			return
		}

		h.log.WithError(err).Error("getting politician")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	h.resolver.Decorate(p)

	c.JSON(http.StatusOK, p)
}

// Revisions handles GET /api/v1/politicians/:id/revisions.
func (h *PoliticianHandler) Revisions(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	revisions, hasMore, err := h.revisions.ListForEntity(c.Request.Context(), models.EntityTypePolitician, id, limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing revisions")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"revisions": revisions, "has_more": hasMore})
}

// EditHistory handles GET /api/v1/politicians/:id/edits.
func (h *PoliticianHandler) EditHistory(c *gin.Context) {
	id := c.Param("id")
	if err := validatePathID(id); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return
	}

	limit := parseInt(c.DefaultQuery("limit", "50"), 50)
	offset := parseOffset(c.DefaultQuery("offset", "0"))

	edits, hasMore, err := h.edits.ListForEntity(c.Request.Context(), models.EntityTypePolitician, id, limit, offset)
	if err != nil {
		h.log.WithError(err).Error("listing entity edits")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")

		return
	}

	c.JSON(http.StatusOK, gin.H{"edits": edits, "has_more": hasMore})
}
