// Package model provides the severity classifier backends consumed by the
// combination scorer. A trained classifier is an artifact on disk: either a
// boosted-tree dump in JSON form, or an exported ONNX graph executed
// through ONNX Runtime. The scorer only sees the interfaces.SeverityModel
// contract; training and serialization live outside this repository.
package model

import (
	"fmt"
	"strings"

	"github.com/Icyfire18/sider-prediction/interfaces"
)

// Options configures artifact loading.
type Options struct {
	// Path of the model artifact (.json or .onnx).
	Path string

	// FeatureCount is the expected feature-vector width (the vocabulary
	// size). Loading fails when the artifact disagrees.
	FeatureCount int

	// ClassCount overrides the number of severity classes when the
	// artifact does not carry it (required for onnx models with a single
	// regression output).
	ClassCount int

	// OrtLibrary is the onnxruntime shared library path, only used for
	// .onnx artifacts.
	OrtLibrary string
}

// Load opens a severity model artifact, dispatching on the file extension.
func Load(opts Options) (interfaces.SeverityModel, error) {
	switch {
	case strings.HasSuffix(opts.Path, ".json"):
		return LoadBooster(opts.Path, opts.FeatureCount)
	case strings.HasSuffix(opts.Path, ".onnx"):
		return NewONNXModel(opts)
	default:
		return nil, fmt.Errorf("unsupported model artifact %s: want .json or .onnx", opts.Path)
	}
}

// Static is a fixed-prediction severity model. It backs tests and the
// degraded mode where no artifact is configured.
type Static struct {
	prediction float64
	classes    int
}

// NewStatic returns a model that predicts the same class for every vector.
func NewStatic(prediction float64, classes int) *Static {
	return &Static{prediction: prediction, classes: classes}
}

// Predict returns the fixed prediction.
func (s *Static) Predict(features []float32) (float64, error) {
	return s.prediction, nil
}

// ClassCount returns the configured class count.
func (s *Static) ClassCount() int {
	return s.classes
}

// VocabularyFingerprint returns "" because a static model pins nothing.
func (s *Static) VocabularyFingerprint() string {
	return ""
}

// Close is a no-op.
func (s *Static) Close() error {
	return nil
}
