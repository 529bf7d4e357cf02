package inference

import (
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// Assets holds everything loaded from disk at startup: the label encoder
// and the pooled ONNX sessions. Read-only for the process lifetime.
type Assets struct {
	Labels *LabelEncoder
	Pool   *SessionPool
}

// AssetConfig names the artifacts and the tensor layout to load.
type AssetConfig struct {
	ModelPath      string
	LabelsPath     string
	OrtLibraryPath string
	InputName      string
	OutputName     string
	PoolSize       int
	NumMels        int
	NumFrames      int
}

var (
	ortInit    sync.Once
	ortInitErr error
)

func initRuntime(libPath string) error {
	ortInit.Do(func() {
		if libPath != "" {
			ort.SetSharedLibraryPath(libPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// LoadAssets loads the label encoder and builds the session pool. Callers
// are expected to keep serving when this fails and surface the failure to
// the user instead; detection stays disabled until the process restarts.
func LoadAssets(cfg AssetConfig) (*Assets, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	labels, err := LoadLabels(cfg.LabelsPath)
	if err != nil {
		return nil, err
	}

	if err := initRuntime(cfg.OrtLibraryPath); err != nil {
		return nil, fmt.Errorf("initialize onnx runtime: %w", err)
	}

	factory := NewSessionFactory(SessionParams{
		ModelPath:  cfg.ModelPath,
		InputName:  cfg.InputName,
		OutputName: cfg.OutputName,
		NumMels:    cfg.NumMels,
		NumFrames:  cfg.NumFrames,
		NumClasses: labels.Len(),
	})

	pool, err := NewSessionPool(factory, cfg.PoolSize)
	if err != nil {
		return nil, err
	}

	return &Assets{Labels: labels, Pool: pool}, nil
}

func (a *Assets) Destroy() {
	if a != nil && a.Pool != nil {
		a.Pool.Destroy()
	}
}
