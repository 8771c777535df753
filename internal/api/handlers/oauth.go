package handlers

import (
	"fmt"
	"net/http"

	"feedbridge/internal/config"
	"feedbridge/internal/credentials"
	"feedbridge/internal/events"
	"feedbridge/internal/logger"
	"feedbridge/internal/services/tiendanube"

	"github.com/gin-gonic/gin"
)

type OAuthHandler struct {
	credentials  credentials.Store
	oauthService *tiendanube.OAuthService
	publisher    *events.Publisher
	config       *config.Config
	logger       *logger.Logger
}

func NewOAuthHandler(credentialStore credentials.Store, publisher *events.Publisher, cfg *config.Config, logger *logger.Logger) *OAuthHandler {
	return &OAuthHandler{
		credentials:  credentialStore,
		oauthService: tiendanube.NewOAuthService(cfg, logger),
		publisher:    publisher,
		config:       cfg,
		logger:       logger,
	}
}

// Install returns the platform authorization URL for the app install flow.
func (h *OAuthHandler) Install(c *gin.Context) {
	authURL, state, err := h.oauthService.GenerateAuthURL()
	if err != nil {
		h.logger.Error("Failed to generate auth URL: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authorization URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"auth_url": authURL,
		"state":    state,
	})
}

// Callback handles the OAuth redirect: exchanges the code for a token and
// stores the credential under the store id reported by the platform.
func (h *OAuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing code parameter"})
		return
	}

	tokenResp, err := h.oauthService.ExchangeCodeForToken(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("Failed to exchange code for token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange authorization code"})
		return
	}

	storeID := fmt.Sprintf("%d", tokenResp.UserID)
	if err := h.credentials.Save(c.Request.Context(), storeID, tokenResp.AccessToken, tokenResp.Scope); err != nil {
		h.logger.Error("Failed to save credential for store %s: %v", storeID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save credential"})
		return
	}

	if h.publisher != nil {
		if err := h.publisher.Publish(c.Request.Context(), events.TypeStoreInstalled, storeID, nil); err != nil {
			h.logger.Warn("Failed to publish install event for store %s: %v", storeID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Store connected successfully",
		"store_id": storeID,
		"feed_url": fmt.Sprintf("/feed/%s.xml", storeID),
	})
}
