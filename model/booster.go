package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Icyfire18/sider-prediction/interfaces"
)

// Compile-time check to ensure Booster implements SeverityModel
var _ interfaces.SeverityModel = (*Booster)(nil)

// boosterFile is the on-disk JSON layout of a boosted-tree severity
// classifier, dumped by the training pipeline. Each tree is stored as
// parallel node arrays; leaves have left == -1 and their margin in value.
type boosterFile struct {
	Version          int           `json:"version"`
	NumFeatures      int           `json:"num_features"`
	Classes          []string      `json:"classes"`
	BaseScore        float64       `json:"base_score"`
	VocabularySHA256 string        `json:"vocabulary_sha256"`
	Trees            []boosterTree `json:"trees"`
	TreeClass        []int         `json:"tree_class"`
}

type boosterTree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

// Booster evaluates a multiclass boosted-tree ensemble. Prediction sums
// the per-class margins over the trees and returns the argmax class index,
// which matches what the training pipeline's classifier returns for a
// single row. Evaluation is pure and safe for concurrent use.
type Booster struct {
	file boosterFile
}

// LoadBooster reads and validates a boosted-tree artifact.
func LoadBooster(path string, featureCount int) (*Booster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	var file boosterFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}

	if err := validateBooster(&file, featureCount); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}

	return &Booster{file: file}, nil
}

func validateBooster(file *boosterFile, featureCount int) error {
	if file.Version != 1 {
		return fmt.Errorf("unsupported artifact version %d", file.Version)
	}
	if len(file.Classes) < 2 {
		return fmt.Errorf("need at least 2 severity classes, got %d", len(file.Classes))
	}
	if file.NumFeatures <= 0 {
		return fmt.Errorf("invalid feature count %d", file.NumFeatures)
	}
	if featureCount > 0 && file.NumFeatures != featureCount {
		return fmt.Errorf("artifact expects %d features, vocabulary has %d", file.NumFeatures, featureCount)
	}
	if len(file.TreeClass) != len(file.Trees) {
		return fmt.Errorf("tree_class has %d entries for %d trees", len(file.TreeClass), len(file.Trees))
	}

	for t, tree := range file.Trees {
		nodes := len(tree.Feature)
		if len(tree.Threshold) != nodes || len(tree.Left) != nodes || len(tree.Right) != nodes || len(tree.Value) != nodes {
			return fmt.Errorf("tree %d has inconsistent node arrays", t)
		}
		if nodes == 0 {
			return fmt.Errorf("tree %d is empty", t)
		}
		for n := 0; n < nodes; n++ {
			if tree.Left[n] == -1 {
				continue // leaf
			}
			if tree.Feature[n] < 0 || tree.Feature[n] >= file.NumFeatures {
				return fmt.Errorf("tree %d node %d splits on feature %d of %d", t, n, tree.Feature[n], file.NumFeatures)
			}
			if tree.Left[n] < 0 || tree.Left[n] >= nodes || tree.Right[n] < 0 || tree.Right[n] >= nodes {
				return fmt.Errorf("tree %d node %d has out-of-range children", t, n)
			}
		}
		if file.TreeClass[t] < 0 || file.TreeClass[t] >= len(file.Classes) {
			return fmt.Errorf("tree %d assigned to class %d of %d", t, file.TreeClass[t], len(file.Classes))
		}
	}

	return nil
}

// Predict returns the index of the severity class with the highest summed
// margin for the given feature vector.
func (b *Booster) Predict(features []float32) (float64, error) {
	if len(features) != b.file.NumFeatures {
		return 0, fmt.Errorf("feature vector has %d slots, model expects %d", len(features), b.file.NumFeatures)
	}

	margins := make([]float64, len(b.file.Classes))
	for i := range margins {
		margins[i] = b.file.BaseScore
	}

	for t := range b.file.Trees {
		margins[b.file.TreeClass[t]] += b.file.Trees[t].evaluate(features)
	}

	best := 0
	for i := 1; i < len(margins); i++ {
		if margins[i] > margins[best] {
			best = i
		}
	}

	return float64(best), nil
}

// evaluate walks one tree to its leaf margin.
func (t *boosterTree) evaluate(features []float32) float64 {
	node := 0
	for t.Left[node] != -1 {
		if float64(features[t.Feature[node]]) < t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return t.Value[node]
}

// ClassCount returns the number of severity classes.
func (b *Booster) ClassCount() int {
	return len(b.file.Classes)
}

// Classes returns the severity class labels in index order.
func (b *Booster) Classes() []string {
	return b.file.Classes
}

// VocabularyFingerprint returns the vocabulary digest the artifact was
// trained against, or "" when the artifact does not pin one.
func (b *Booster) VocabularyFingerprint() string {
	return b.file.VocabularySHA256
}

// Close is a no-op; the booster holds no external resources.
func (b *Booster) Close() error {
	return nil
}
