package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Classifier labels a food image. The model itself runs behind an external
// inference service; this is the boundary only.
type Classifier interface {
	Classify(ctx context.Context, imageData []byte, contentType string) (string, error)
}

// ClassifierConfig holds configuration for the HTTP classifier client.
type ClassifierConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// HTTPClassifier calls a food classification inference endpoint over HTTP.
type HTTPClassifier struct {
	client   *resty.Client
	endpoint string
}

// NewHTTPClassifier creates a classifier client for the given endpoint.
func NewHTTPClassifier(cfg *ClassifierConfig) *HTTPClassifier {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	client.SetTimeout(timeout)

	return &HTTPClassifier{
		client:   client,
		endpoint: cfg.Endpoint,
	}
}

type classifyRequest struct {
	Image       string `json:"image"` // base64-encoded image bytes
	ContentType string `json:"content_type"`
}

type classifyResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// Classify sends the image to the inference service and returns the
// predicted food label.
func (c *HTTPClassifier) Classify(ctx context.Context, imageData []byte, contentType string) (string, error) {
	req := classifyRequest{
		Image:       base64.StdEncoding.EncodeToString(imageData),
		ContentType: contentType,
	}

	var result classifyResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("classifier request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("classifier returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if result.Error != "" {
		return "", fmt.Errorf("classifier error: %s", result.Error)
	}
	if result.Label == "" {
		return "", fmt.Errorf("classifier returned an empty label")
	}

	return result.Label, nil
}
