package domain

import "time"

// Prediction is the result of the food recognition step: the predicted
// label, the canonical (downscaled, re-encoded) image, and the capture
// timestamp assigned by the recognition service. Immutable once returned.
type Prediction struct {
	FoodLabel   string    `json:"prediction"`
	ImageBase64 string    `json:"image"`
	CapturedAt  time.Time `json:"timestamp"`
}
