package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"firedev/api"
	"firedev/backend/models"
	"firedev/backend/storage"
)

type ReportsHandler struct {
	store storage.Store
}

func NewReportsHandler(store storage.Store) *ReportsHandler {
	return &ReportsHandler{
		store: store,
	}
}

// HealthCheck probes the database with a transient write and reports
// whether it is reachable.
func (h *ReportsHandler) HealthCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		log.Errorf("Health probe failed: %v", err)
		c.JSON(http.StatusInternalServerError, api.HealthResponse{
			Status:   "error",
			Firebase: false,
			Message:  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, api.HealthResponse{Status: "ok", Firebase: true})
}

// CreateReport appends a report under a store-generated key.
func (h *ReportsHandler) CreateReport(c *gin.Context) {
	rec, ok := h.bindRecord(c)
	if !ok {
		return
	}

	key, err := h.store.Create(c.Request.Context(), rec)
	if err != nil {
		log.Errorf("Failed to store report: %v", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	log.Infof("Stored report %s: %s at (%v, %v)", key, rec["category"], rec["lat"], rec["lon"])
	c.JSON(http.StatusCreated, api.StatusResponse{Status: "added"})
}

// UpsertReport writes the report at the caller-chosen key, creating
// or overwriting it. Used for live location tracking.
func (h *ReportsHandler) UpsertReport(c *gin.Context) {
	id := c.Param("id")

	rec, ok := h.bindRecord(c)
	if !ok {
		return
	}

	if err := h.store.Upsert(c.Request.Context(), id, rec); err != nil {
		log.Errorf("Failed to upsert report %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	log.Infof("Upserted report %s: %s at (%v, %v)", id, rec["category"], rec["lat"], rec["lon"])
	c.JSON(http.StatusOK, api.StatusResponse{Status: "upserted", Id: id})
}

// bindRecord decodes and validates the request body, writing the
// error response itself when validation fails. Missing fields and
// non-numeric coordinates are both client errors.
func (h *ReportsHandler) bindRecord(c *gin.Context) (models.Record, bool) {
	rec := models.Record{}
	if err := c.ShouldBindJSON(&rec); err != nil {
		log.Errorf("Failed to read report body: %v", err)
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: fmt.Sprintf("invalid JSON: %v", err)})
		return nil, false
	}

	if err := rec.Validate(); err != nil {
		var missing *models.MissingFieldsError
		if errors.As(err, &missing) {
			log.Warnf("Report rejected: %v", missing)
		} else {
			log.Warnf("Report rejected, bad coordinates: %v", err)
		}
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return nil, false
	}

	return rec, true
}
