package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/draftdeck/design-service/config"
	"github.com/google/uuid"
)

// Capability actions checked against the authorization service.
const (
	ActionDesignsUpload  = "designs.upload"
	ActionDesignsApprove = "designs.approve"
	ActionDesignsFreeze  = "designs.freeze"
	ActionDesignsDelete  = "designs.delete"
)

type AuthorizationService struct {
	AuthorizationServiceURL string
	PrivateKey              string

	// Cache is optional; when set, permission results are cached for
	// a short TTL to keep per-request checks off the auth service.
	Cache *RedisClient
}

type permissionResponse struct {
	Allowed bool `json:"allowed"`
}

func InitAuthorizationService(cfg *config.EnvConfig) *AuthorizationService {
	serviceURL := cfg.ExternalService.AuthorizationServiceURL
	if serviceURL == "" {
		panic("Authorization service URL is not configured")
	}

	privateKey := cfg.PrivateKey
	if privateKey == "" {
		panic("Private key is not configured")
	}

	return &AuthorizationService{
		AuthorizationServiceURL: serviceURL,
		PrivateKey:              privateKey,
	}
}

// CheckAccessToken validates a bearer token with the authorization
// service. Used by the auth middleware.
func (s *AuthorizationService) CheckAccessToken(token string) error {
	endpoint := fmt.Sprintf("%s/api/v2/authorization/token/validate?token=%s",
		s.AuthorizationServiceURL, url.QueryEscape(token))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Private-Key", s.PrivateKey)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("authorization service returned %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}

// HasPermission resolves the capability check for a single action.
// Results are cached for one minute when a cache is attached.
func (s *AuthorizationService) HasPermission(ctx context.Context, userID uuid.UUID, action string) (bool, error) {
	cacheKey := fmt.Sprintf("perm:%s:%s", userID, action)
	if s.Cache != nil {
		var cached bool
		if err := s.Cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	endpoint := fmt.Sprintf("%s/api/v2/authorization/permission?user_id=%s&action=%s",
		s.AuthorizationServiceURL, userID, url.QueryEscape(action))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Private-Key", s.PrivateKey)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("authorization service returned %d: %s", resp.StatusCode, string(raw))
	}

	var result permissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}

	if s.Cache != nil {
		_ = s.Cache.Set(ctx, cacheKey, result.Allowed, time.Minute)
	}

	return result.Allowed, nil
}
