package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"feedbridge/internal/config"
	"feedbridge/internal/credentials"
	"feedbridge/internal/events"
	"feedbridge/internal/logger"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	credentials credentials.Store
	publisher   *events.Publisher
	config      *config.Config
	logger      *logger.Logger
}

func NewWebhookHandler(credentialStore credentials.Store, publisher *events.Publisher, cfg *config.Config, logger *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		credentials: credentialStore,
		publisher:   publisher,
		config:      cfg,
		logger:      logger,
	}
}

type webhookPayload struct {
	StoreID json.Number `json:"store_id"`
	Event   string      `json:"event"`
	ID      json.Number `json:"id,omitempty"`
}

// Handle processes platform webhooks. Uninstall notifications delete the
// store's credential; product notifications are forwarded to the worker.
func (h *WebhookHandler) Handle(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read payload"})
		return
	}

	signature := c.GetHeader("X-Linkedstore-Hmac-Sha256")
	if !h.verifySignature(body, signature) {
		h.logger.Warn("Webhook signature verification failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
		return
	}

	var payload webhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload"})
		return
	}

	storeID := payload.StoreID.String()
	if storeID == "" || payload.Event == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing store_id or event"})
		return
	}

	switch payload.Event {
	case "app/uninstalled":
		if err := h.credentials.Delete(c.Request.Context(), storeID); err != nil {
			h.logger.Error("Failed to delete credential for store %s: %v", storeID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process uninstall"})
			return
		}
		h.logger.Info("Store %s uninstalled, credential removed", storeID)
		h.publish(c, events.TypeAppUninstalled, storeID, nil)

	case "product/created", "product/updated", "product/deleted":
		h.publish(c, events.TypeProductUpdated, storeID, map[string]interface{}{
			"event":      payload.Event,
			"product_id": payload.ID.String(),
		})

	default:
		h.logger.Debug("Unhandled webhook event: %s", payload.Event)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed"})
}

// verifySignature checks the HMAC-SHA256 digest of the payload against the
// app secret. Accepts hex encoding; comparison is constant-time.
func (h *WebhookHandler) verifySignature(payload []byte, signature string) bool {
	if h.config.TiendanubeClientSecret == "" {
		// No secret configured (development): accept and log.
		h.logger.Debug("Webhook signature check skipped: no client secret configured")
		return true
	}
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.config.TiendanubeClientSecret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

func (h *WebhookHandler) publish(c *gin.Context, eventType, storeID string, data map[string]interface{}) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(c.Request.Context(), eventType, storeID, data); err != nil {
		h.logger.Warn("Failed to publish %s event for store %s: %v", eventType, storeID, err)
	}
}
