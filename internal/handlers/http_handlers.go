package handlers

import (
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"fairdraw/internal/fairness"
	"fairdraw/internal/models"
	"fairdraw/internal/services"
	"fairdraw/internal/storage"
)

// HTTPHandler holds the dependencies for the HTTP handlers.
type HTTPHandler struct {
	service *services.FairnessService
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(service *services.FairnessService) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// RegisterRoutes registers all the application routes. The verify endpoint
// is deliberately unauthenticated: anyone holding a published proof must be
// able to check it.
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/giveaways", h.CreateGiveaway)
	router.GET("/giveaways", h.ListGiveaways)
	router.GET("/giveaways/:id", h.GetGiveaway)
	router.GET("/giveaways/:id/commitment", h.GetCommitment)
	router.POST("/giveaways/:id/reveal", h.RevealSeed)
	router.POST("/giveaways/:id/draw", h.DrawWinner)
	router.GET("/giveaways/:id/proof", h.GetProof)
	router.POST("/verify", h.VerifyProof)
}

type createGiveawayRequest struct {
	Title  string    `json:"title" binding:"required"`
	EndsAt time.Time `json:"ends_at" binding:"required"`
}

// CreateGiveaway registers a giveaway and publishes its seed commitment.
func (h *HTTPHandler) CreateGiveaway(c *gin.Context) {
	var req createGiveawayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, commitment, err := h.service.CreateGiveaway(req.Title, req.EndsAt)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"giveaway": g, "commitment": commitment})
}

// ListGiveaways returns all giveaways.
func (h *HTTPHandler) ListGiveaways(c *gin.Context) {
	gs, err := h.service.ListGiveaways(time.Now().UTC())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"giveaways": gs})
}

// GetGiveaway returns one giveaway.
func (h *HTTPHandler) GetGiveaway(c *gin.Context) {
	g, err := h.service.GetGiveaway(c.Param("id"), time.Now().UTC())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// GetCommitment returns the public commitment for a giveaway. Before reveal
// the response carries the commitment digest only, never the seed.
func (h *HTTPHandler) GetCommitment(c *gin.Context) {
	commitment, err := h.service.Commitment(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, commitment)
}

// RevealSeed discloses the seed after entries have closed.
func (h *HTTPHandler) RevealSeed(c *gin.Context) {
	seed, err := h.service.Reveal(c.Param("id"), time.Now().UTC())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"seed": hex.EncodeToString(seed)})
}

type drawRequest struct {
	Entries []models.Entry `json:"entries" binding:"required"`
}

// DrawWinner runs the selection over the finalized entry list supplied by
// the entry/payment collaborator and records the fairness proof.
func (h *HTTPHandler) DrawWinner(c *gin.Context) {
	var req drawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proof, err := h.service.Draw(c.Param("id"), req.Entries)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proof)
}

// GetProof returns the published fairness proof for a giveaway.
func (h *HTTPHandler) GetProof(c *gin.Context) {
	proof, err := h.service.Proof(c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, proof)
}

type verifyRequest struct {
	Proof   models.FairnessProof `json:"proof" binding:"required"`
	Entries []models.Entry       `json:"entries"`
}

// VerifyProof checks a proof supplied by any third party. Supplying the
// entry list upgrades the check to strong mode. An invalid proof is a normal
// 200 response with valid=false and itemized reasons, not an error.
func (h *HTTPHandler) VerifyProof(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.service.VerifyProof(&req.Proof, req.Entries))
}

// writeError maps service errors onto HTTP statuses: sequencing violations
// are conflicts, bad upstream data is unprocessable, unknown ids are 404s.
func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, fairness.ErrAlreadyCommitted),
		errors.Is(err, fairness.ErrAlreadyRevealed),
		errors.Is(err, fairness.ErrPrematureReveal),
		errors.Is(err, fairness.ErrSeedNotRevealed),
		errors.Is(err, fairness.ErrProofAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, fairness.ErrNoEligibleEntries),
		errors.Is(err, fairness.ErrDuplicateEntryInput),
		errors.Is(err, fairness.ErrEmptyEntryInput),
		errors.Is(err, fairness.ErrSeedCommitmentMismatch):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		logger.Errorf("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
