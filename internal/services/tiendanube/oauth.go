package tiendanube

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"feedbridge/internal/config"
	"feedbridge/internal/logger"
)

type OAuthService struct {
	config     *config.Config
	logger     *logger.Logger
	httpClient *http.Client
}

func NewOAuthService(cfg *config.Config, logger *logger.Logger) *OAuthService {
	return &OAuthService{
		config: cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GenerateAuthURL creates the platform authorization URL for the app install
// flow, along with the state parameter embedded in it.
func (s *OAuthService) GenerateAuthURL() (string, string, error) {
	state, err := s.generateState()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate state: %w", err)
	}

	authURL := fmt.Sprintf(
		"https://www.tiendanube.com/apps/%s/authorize?state=%s",
		s.config.TiendanubeClientID,
		state,
	)

	return authURL, state, nil
}

// generateState generates a cryptographically secure random state
func (s *OAuthService) generateState() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// ExchangeCodeForToken exchanges the authorization code for an access token.
// The response's user_id is the store identifier used everywhere downstream.
func (s *OAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*TokenResponse, error) {
	data := url.Values{}
	data.Set("client_id", s.config.TiendanubeClientID)
	data.Set("client_secret", s.config.TiendanubeClientSecret)
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.TiendanubeAuthURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tokenResp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}

	if tokenResp.AccessToken == "" || tokenResp.UserID == 0 {
		return nil, fmt.Errorf("token response missing access_token or user_id")
	}

	return &tokenResp, nil
}
