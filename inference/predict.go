package inference

import (
	"fmt"
	"math"

	"github.com/vokalize/emotion-detection-service/models"
)

// Predict copies a log-mel feature into the session's input tensor, runs
// the forward pass and maps the arg-max logit to its label. The returned
// confidence vector is the softmax of the logits, so it sums to one.
func Predict(session *ModelSession, feature [][]float64, labels *LabelEncoder) (*models.Prediction, error) {
	if err := fillInput(session.Input.GetData(), feature); err != nil {
		return nil, fmt.Errorf("prepare input tensor: %w", err)
	}

	if err := session.Session.Run(); err != nil {
		return nil, fmt.Errorf("model inference: %w", err)
	}

	return postprocess(session.Output.GetData(), labels)
}

// fillInput flattens the (mels, frames) grid into the (1, mels, frames, 1)
// input tensor, adding the batch and channel axes.
func fillInput(dst []float32, feature [][]float64) error {
	if len(feature) == 0 {
		return fmt.Errorf("empty feature grid")
	}
	frames := len(feature[0])
	if want := len(feature) * frames; len(dst) != want {
		return fmt.Errorf("feature shape %dx%d does not match tensor size %d", len(feature), frames, len(dst))
	}
	i := 0
	for _, row := range feature {
		if len(row) != frames {
			return fmt.Errorf("ragged feature grid")
		}
		for _, v := range row {
			dst[i] = float32(v)
			i++
		}
	}
	return nil
}

func postprocess(logits []float32, labels *LabelEncoder) (*models.Prediction, error) {
	if len(logits) != labels.Len() {
		return nil, fmt.Errorf("model emits %d scores but %d labels are configured", len(logits), labels.Len())
	}

	scores := Softmax(logits)
	index := Argmax(scores)
	label, err := labels.Label(index)
	if err != nil {
		return nil, err
	}

	confidences := make([]models.Confidence, len(scores))
	for i, s := range scores {
		confidences[i] = models.Confidence{Label: labels.Classes[i], Score: s}
	}

	return &models.Prediction{
		Label:       label,
		Index:       index,
		Confidences: confidences,
	}, nil
}

// Softmax normalizes logits into a probability vector. Shifting by the max
// logit keeps the exponentials from overflowing.
func Softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}

	out := make([]float32, len(logits))
	var sum float64
	for i, v := range logits {
		e := math.Exp(float64(v - max))
		out[i] = float32(e)
		sum += e
	}
	for i := range out {
		out[i] = float32(float64(out[i]) / sum)
	}
	return out
}

// Argmax returns the index of the largest score, the encoded class index.
func Argmax(scores []float32) int {
	best := 0
	for i, v := range scores {
		if v > scores[best] {
			best = i
		}
	}
	return best
}
