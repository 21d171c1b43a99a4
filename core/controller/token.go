package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// tokenPath is the controller's token lifecycle endpoint (tenant view).
const tokenPath = "/controller/v2/tokens"

// ObtainToken requests a new access token using the configured credentials.
// The token must later be passed to NewClient via Config.Token and revoked
// with RevokeToken when the caller is done.
func ObtainToken(ctx context.Context, cfg Config) (string, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return "", fmt.Errorf("username and password are required to obtain a token")
	}

	payload := map[string]string{
		"userName": cfg.Username,
		"password": cfg.Password,
	}
	resp, err := tokenRequest(ctx, cfg, http.MethodPost, payload)
	if err != nil {
		return "", fmt.Errorf("failed to obtain token: %w", err)
	}

	// The token rides under data.token_id, or token_id at the top level on
	// older controller builds.
	if data, ok := resp["data"].(map[string]any); ok {
		if token, ok := data["token_id"].(string); ok && token != "" {
			return token, nil
		}
	}
	if token, ok := resp["token_id"].(string); ok && token != "" {
		return token, nil
	}
	return "", fmt.Errorf("token not found in controller response")
}

// RevokeToken invalidates a previously obtained access token.
func RevokeToken(ctx context.Context, cfg Config, token string) error {
	if token == "" {
		return fmt.Errorf("token is required to revoke")
	}

	payload := map[string]string{"token": token}
	if _, err := tokenRequest(ctx, cfg, http.MethodDelete, payload); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func tokenRequest(ctx context.Context, cfg Config, method string, payload map[string]string) (map[string]any, error) {
	base := strings.TrimRight(cfg.BaseURI, "/")
	reqURL := base + tokenPath

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "en-US")

	client := &http.Client{
		Timeout:   requestTimeout(cfg),
		Transport: newTransport(cfg),
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, method, reqURL, data)
	}

	var decoded map[string]any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, fmt.Errorf("invalid JSON in token response: %w", err)
		}
	}
	return decoded, nil
}
