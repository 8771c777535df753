package handlers

import (
	"errors"
	"net/http"
	"strings"

	"feedbridge/internal/feed"
	"feedbridge/internal/logger"
	"feedbridge/internal/services/tiendanube"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	generator *feed.Generator
	logger    *logger.Logger
}

func NewFeedHandler(generator *feed.Generator, logger *logger.Logger) *FeedHandler {
	return &FeedHandler{
		generator: generator,
		logger:    logger,
	}
}

// Get serves the XML feed for one store. Responds 304 when the If-None-Match
// validator matches the current document fingerprint.
func (h *FeedHandler) Get(c *gin.Context) {
	storeID := strings.TrimSuffix(c.Param("store_id"), ".xml")
	if storeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing store id"})
		return
	}

	result, err := h.generator.Generate(
		c.Request.Context(),
		storeID,
		c.Query("domain"),
		c.GetHeader("If-None-Match"),
	)
	if err != nil {
		if errors.Is(err, feed.ErrNotInstalled) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Store is not installed"})
			return
		}
		var apiErr *tiendanube.APIError
		if errors.As(err, &apiErr) {
			h.logger.Error("Upstream error for store %s: status %d", storeID, apiErr.StatusCode)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch products from platform"})
			return
		}
		h.logger.Error("Feed generation failed for store %s: %v", storeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate feed"})
		return
	}

	c.Header("ETag", `"`+result.Fingerprint+`"`)
	c.Header("Cache-Control", "public, max-age=300")

	if result.NotModified {
		c.Status(http.StatusNotModified)
		return
	}

	c.Data(http.StatusOK, "text/xml; charset=utf-8", result.Body)
}

// Metrics reports per-store feed counters.
func (h *FeedHandler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stores": h.generator.Metrics().Snapshot()})
}
