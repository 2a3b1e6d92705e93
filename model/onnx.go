package model

import (
	"fmt"
	"sync"

	"github.com/Icyfire18/sider-prediction/interfaces"
	ort "github.com/yalue/onnxruntime_go"
)

// Compile-time check to ensure ONNXModel implements SeverityModel
var _ interfaces.SeverityModel = (*ONNXModel)(nil)

// ONNXModel runs an exported severity classifier through ONNX Runtime. The
// session reuses one preallocated input/output tensor pair, so Predict is
// serialized with a mutex; the scorer's workers contend on it but the
// session itself stays single-threaded.
type ONNXModel struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]

	features int
	classes  int

	mu sync.Mutex
}

// NewONNXModel initializes the ONNX Runtime environment and opens the
// model graph. The graph must take one [1, featureCount] float32 input and
// produce either per-class scores or a single regression output; for the
// latter, Options.ClassCount must be set.
func NewONNXModel(opts Options) (*ONNXModel, error) {
	if opts.OrtLibrary != "" {
		ort.SetSharedLibraryPath(opts.OrtLibrary)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize onnxruntime: %w", err)
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect model graph %s: %w", opts.Path, err)
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return nil, fmt.Errorf("model graph %s has %d inputs and %d outputs, want 1 and 1", opts.Path, len(inputs), len(outputs))
	}

	features := dimension(inputs[0].Dimensions, 1)
	if features <= 0 {
		features = int64(opts.FeatureCount)
	}
	if opts.FeatureCount > 0 && features != int64(opts.FeatureCount) {
		return nil, fmt.Errorf("model graph expects %d features, vocabulary has %d", features, opts.FeatureCount)
	}
	if features <= 0 {
		return nil, fmt.Errorf("cannot determine feature width of model graph %s", opts.Path)
	}

	outWidth := dimension(outputs[0].Dimensions, 1)
	classes := opts.ClassCount
	if classes == 0 && outWidth > 1 {
		classes = int(outWidth)
	}
	if classes <= 0 {
		return nil, fmt.Errorf("cannot determine class count of model graph %s, set MODEL_CLASS_COUNT", opts.Path)
	}
	if outWidth <= 0 {
		outWidth = int64(classes)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, features))
	if err != nil {
		return nil, fmt.Errorf("failed to allocate input tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, outWidth))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to allocate output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(opts.Path,
		[]string{inputs[0].Name}, []string{outputs[0].Name},
		[]ort.Value{inputTensor}, []ort.Value{outputTensor}, nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create onnx session for %s: %w", opts.Path, err)
	}

	return &ONNXModel{
		session:  session,
		input:    inputTensor,
		output:   outputTensor,
		features: int(features),
		classes:  classes,
	}, nil
}

// dimension returns the idx-th dimension of a tensor shape, or -1 when the
// shape is shorter or dynamic.
func dimension(shape ort.Shape, idx int) int64 {
	if idx >= len(shape) {
		return -1
	}
	return shape[idx]
}

// Predict runs one inference. For multi-output graphs the argmax class
// index is returned, matching the booster backend; single-output graphs
// return the raw value.
func (m *ONNXModel) Predict(features []float32) (float64, error) {
	if len(features) != m.features {
		return 0, fmt.Errorf("feature vector has %d slots, model expects %d", len(features), m.features)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.input.GetData(), features)

	if err := m.session.Run(); err != nil {
		return 0, fmt.Errorf("onnx inference failed: %w", err)
	}

	scores := m.output.GetData()
	if len(scores) == 0 {
		return 0, fmt.Errorf("onnx inference produced no output")
	}
	if len(scores) == 1 {
		return float64(scores[0]), nil
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return float64(best), nil
}

// ClassCount returns the number of severity classes.
func (m *ONNXModel) ClassCount() int {
	return m.classes
}

// VocabularyFingerprint returns "" because onnx graphs carry no vocabulary
// metadata.
func (m *ONNXModel) VocabularyFingerprint() string {
	return ""
}

// Close releases the session and tensors.
func (m *ONNXModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
	if m.input != nil {
		m.input.Destroy()
		m.input = nil
	}
	if m.output != nil {
		m.output.Destroy()
		m.output = nil
	}
	return nil
}
