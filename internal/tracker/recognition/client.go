// Package recognition is the client for the FoodVision backend's
// prediction endpoint.
package recognition

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/annvu/foodvision/internal/domain"
	"github.com/go-resty/resty/v2"
)

// Client sends an acquired image to the recognition service and returns
// the prediction.
type Client struct {
	client *resty.Client
}

// NewClient creates a recognition client for the given backend base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)

	return &Client{client: client}
}

// Predict uploads the image as multipart form data to POST /predict.
// Any transport error, non-2xx status, or malformed response is a
// prediction failure; the caller aborts the submission on it.
func (c *Client) Predict(ctx context.Context, asset *domain.ImageAsset) (*domain.Prediction, error) {
	fileName := asset.FileName
	if fileName == "" {
		fileName = "capture.jpg"
	}

	var prediction domain.Prediction
	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", fileName, bytes.NewReader(asset.Data)).
		SetResult(&prediction).
		Post("/predict")
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("prediction service returned status %d: %s", resp.StatusCode(), resp.String())
	}
	if prediction.FoodLabel == "" {
		return nil, fmt.Errorf("prediction service returned a malformed response")
	}
	if prediction.CapturedAt.IsZero() {
		prediction.CapturedAt = time.Now()
	}

	return &prediction, nil
}
