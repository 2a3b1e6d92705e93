package entities

import (
	"crypto/sha256"
	"encoding/hex"
)

// Vocabulary is the fixed, ordered universe of adverse-event labels used for
// feature-vector indexing. The ordering is established once per dataset load
// (first appearance in the side-effect dump) and must never drift afterwards:
// a model trained against one ordering silently breaks with another. The
// fingerprint lets model artifacts pin the exact ordering they were trained
// on.
type Vocabulary struct {
	terms       []string
	index       map[string]int
	fingerprint string
}

// NewVocabulary builds a vocabulary from labels in order of first appearance.
// Duplicate labels are ignored.
func NewVocabulary(labels []string) *Vocabulary {
	v := &Vocabulary{
		terms: make([]string, 0, len(labels)),
		index: make(map[string]int, len(labels)),
	}
	for _, label := range labels {
		if _, seen := v.index[label]; seen {
			continue
		}
		v.index[label] = len(v.terms)
		v.terms = append(v.terms, label)
	}

	h := sha256.New()
	for _, term := range v.terms {
		h.Write([]byte(term))
		h.Write([]byte{0})
	}
	v.fingerprint = hex.EncodeToString(h.Sum(nil))

	return v
}

// Size returns the number of distinct labels.
func (v *Vocabulary) Size() int {
	return len(v.terms)
}

// Terms returns the labels in slot order. Callers must not modify the
// returned slice.
func (v *Vocabulary) Terms() []string {
	return v.terms
}

// IndexOf returns the slot of a label, or -1 if the label is unknown.
func (v *Vocabulary) IndexOf(label string) int {
	if idx, ok := v.index[label]; ok {
		return idx
	}
	return -1
}

// Fingerprint returns the SHA-256 hex digest of the ordered labels.
func (v *Vocabulary) Fingerprint() string {
	return v.fingerprint
}
