// Package inference loads the classifier assets and runs the forward pass
// that turns a log-mel feature into an emotion prediction.
package inference

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LabelEncoder maps model output indices to emotion label strings. The
// class order in the labels file must match the order the model was
// trained with.
type LabelEncoder struct {
	Classes []string `yaml:"classes"`
}

func LoadLabels(path string) (*LabelEncoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels file: %w", err)
	}
	var le LabelEncoder
	if err := yaml.Unmarshal(data, &le); err != nil {
		return nil, fmt.Errorf("parse labels file: %w", err)
	}
	if len(le.Classes) == 0 {
		return nil, fmt.Errorf("labels file %s lists no classes", path)
	}
	return &le, nil
}

func (le *LabelEncoder) Len() int { return len(le.Classes) }

func (le *LabelEncoder) Label(index int) (string, error) {
	if index < 0 || index >= len(le.Classes) {
		return "", fmt.Errorf("class index %d out of range [0,%d)", index, len(le.Classes))
	}
	return le.Classes[index], nil
}
