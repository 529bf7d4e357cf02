package models

import "time"

// Confidence is one entry of the per-class score breakdown.
type Confidence struct {
	Label string  `json:"label"`
	Score float32 `json:"score"`
}

// Prediction is the classifier output for one clip.
type Prediction struct {
	Label       string       `json:"label"`
	Index       int          `json:"index"`
	Confidences []Confidence `json:"confidences"`
}

type ProcessingTimings struct {
	RequestID string
	Guard     time.Duration
	Decode    time.Duration
	Feature   time.Duration
	Inference time.Duration
	Render    time.Duration
	Total     time.Duration
}
