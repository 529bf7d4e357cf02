package inference

import (
	"fmt"
	"runtime"

	ort "github.com/yalue/onnxruntime_go"
)

// ModelSession bundles an ONNX session with its pre-allocated input and
// output tensors. The input shape is (batch, mels, frames, channel); the
// output is one logit per emotion class.
type ModelSession struct {
	Session *ort.AdvancedSession
	Input   *ort.Tensor[float32]
	Output  *ort.Tensor[float32]
}

func (m *ModelSession) Destroy() {
	if m.Session != nil {
		m.Session.Destroy()
	}
	if m.Input != nil {
		m.Input.Destroy()
	}
	if m.Output != nil {
		m.Output.Destroy()
	}
}

// SessionFactory creates a ready-to-run model session. The pool takes one
// of these instead of a model path so tests can inject stubs.
type SessionFactory func() (*ModelSession, error)

// SessionParams describes the tensor layout a factory builds sessions for.
type SessionParams struct {
	ModelPath  string
	InputName  string
	OutputName string
	NumMels    int
	NumFrames  int
	NumClasses int
}

// NewSessionFactory returns a factory producing sessions for the given
// model and tensor layout.
func NewSessionFactory(p SessionParams) SessionFactory {
	return func() (*ModelSession, error) {
		options, err := ort.NewSessionOptions()
		if err != nil {
			return nil, fmt.Errorf("error creating session options: %w", err)
		}
		defer options.Destroy()

		options.SetIntraOpNumThreads(runtime.NumCPU())
		options.SetInterOpNumThreads(runtime.NumCPU())

		inputShape := ort.NewShape(1, int64(p.NumMels), int64(p.NumFrames), 1)
		outputShape := ort.NewShape(1, int64(p.NumClasses))

		inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
		if err != nil {
			return nil, fmt.Errorf("error creating input tensor: %w", err)
		}

		outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
		if err != nil {
			inputTensor.Destroy()
			return nil, fmt.Errorf("error creating output tensor: %w", err)
		}

		session, err := ort.NewAdvancedSession(
			p.ModelPath,
			[]string{p.InputName},
			[]string{p.OutputName},
			[]ort.ArbitraryTensor{inputTensor},
			[]ort.ArbitraryTensor{outputTensor},
			options,
		)
		if err != nil {
			inputTensor.Destroy()
			outputTensor.Destroy()
			return nil, fmt.Errorf("error creating session: %w", err)
		}

		return &ModelSession{
			Session: session,
			Input:   inputTensor,
			Output:  outputTensor,
		}, nil
	}
}
