package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vokalize/emotion-detection-service/audioproc"
	"github.com/vokalize/emotion-detection-service/config"
	"github.com/vokalize/emotion-detection-service/features"
	"github.com/vokalize/emotion-detection-service/inference"
	"github.com/vokalize/emotion-detection-service/models"
)

// Source distinguishes the two ingest paths, which apply different
// duration policies: uploads over the limit are rejected, recordings are
// truncated.
type Source int

const (
	SourceUpload Source = iota
	SourceRecording
)

const (
	spectrogramWidth  = 640
	spectrogramHeight = 256
)

var errNoSession = errors.New("no model session available")

// Result is the outcome of one classification request.
type Result struct {
	Prediction     *models.Prediction
	SpectrogramPNG []byte
	Timings        models.ProcessingTimings
}

// Classifier wires the pipeline end to end: duration guard, preprocess,
// feature extraction, pooled inference.
type Classifier struct {
	pre       *audioproc.Preprocessor
	guard     *audioproc.Guard
	extractor *features.Extractor
	assets    *inference.Assets
	log       *logrus.Logger
}

func NewClassifier(cfg *config.Config, assets *inference.Assets, log *logrus.Logger) *Classifier {
	decoder := &audioproc.Decoder{SampleRate: cfg.Audio.SampleRate}
	return &Classifier{
		pre: &audioproc.Preprocessor{
			Decoder:         decoder,
			FrameSize:       cfg.Features.FFTSize,
			HopSize:         cfg.Features.HopSize,
			TrimThresholdDB: cfg.Audio.TrimThresholdDB,
			WindowSamples:   cfg.Audio.WindowSamples(),
		},
		guard: &audioproc.Guard{
			Decoder:            decoder,
			MaxDurationSeconds: cfg.Audio.MaxDurationSeconds,
		},
		extractor: features.NewExtractor(
			cfg.Audio.SampleRate,
			cfg.Features.NumMels,
			cfg.Features.FFTSize,
			cfg.Features.HopSize,
		),
		assets: assets,
		log:    log,
	}
}

// Classify runs the full pipeline on raw audio bytes.
func (c *Classifier) Classify(ctx context.Context, data []byte, source Source) (*Result, error) {
	startTotal := time.Now()
	timings := models.ProcessingTimings{
		RequestID: fmt.Sprintf("%d", startTotal.UnixNano()),
	}

	guardStart := time.Now()
	switch source {
	case SourceUpload:
		if err := c.guard.CheckUpload(data); err != nil {
			return nil, err
		}
	case SourceRecording:
		truncated, err := c.guard.TruncateRecording(data)
		if err != nil {
			return nil, err
		}
		data = truncated
	}
	timings.Guard = time.Since(guardStart)

	decodeStart := time.Now()
	wave, err := c.pre.Process(data)
	if err != nil {
		return nil, err
	}
	timings.Decode = time.Since(decodeStart)

	featStart := time.Now()
	grid, err := c.extractor.LogMel(wave)
	if err != nil {
		return nil, fmt.Errorf("feature extraction: %w", err)
	}
	timings.Feature = time.Since(featStart)

	renderStart := time.Now()
	spectrogram, err := features.RenderPNG(grid, spectrogramWidth, spectrogramHeight)
	if err != nil {
		// The image is decoration; the prediction still stands.
		c.log.WithError(err).Warn("failed to render spectrogram image")
		spectrogram = nil
	}
	timings.Render = time.Since(renderStart)

	session, err := c.assets.Pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoSession, err)
	}
	defer c.assets.Pool.Release(session)

	inferStart := time.Now()
	prediction, err := inference.Predict(session, grid, c.assets.Labels)
	if err != nil {
		return nil, err
	}
	timings.Inference = time.Since(inferStart)

	timings.Total = time.Since(startTotal)
	c.logTimings(&timings)

	return &Result{
		Prediction:     prediction,
		SpectrogramPNG: spectrogram,
		Timings:        timings,
	}, nil
}

func (c *Classifier) logTimings(t *models.ProcessingTimings) {
	c.log.WithFields(logrus.Fields{
		"request_id": t.RequestID,
		"guard":      t.Guard,
		"decode":     t.Decode,
		"feature":    t.Feature,
		"render":     t.Render,
		"inference":  t.Inference,
		"total":      t.Total,
	}).Debug("processing times")
}
