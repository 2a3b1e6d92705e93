package prediction

import (
	"testing"

	"github.com/Icyfire18/sider-prediction/siderparser/entities"
)

func setOf(labels ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

func TestVectorize(t *testing.T) {
	vocab := entities.NewVocabulary([]string{"nausea", "rash", "fatigue"})

	tests := []struct {
		name     string
		setA     map[string]struct{}
		setB     map[string]struct{}
		expected []float32
	}{
		{
			name:     "union of two profiles",
			setA:     setOf("nausea", "rash"),
			setB:     setOf("nausea", "fatigue"),
			expected: []float32{1, 1, 1},
		},
		{
			name:     "single profile",
			setA:     setOf("rash"),
			setB:     setOf(),
			expected: []float32{0, 1, 0},
		},
		{
			name:     "both empty",
			setA:     setOf(),
			setB:     setOf(),
			expected: []float32{0, 0, 0},
		},
		{
			name:     "out of vocabulary labels ignored",
			setA:     setOf("nausea", "tinnitus"),
			setB:     setOf("bruxism"),
			expected: []float32{1, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vector := Vectorize(tt.setA, tt.setB, vocab)

			// Width is pinned to the vocabulary size
			if len(vector) != vocab.Size() {
				t.Fatalf("Vector length %d, want %d", len(vector), vocab.Size())
			}

			for i := range tt.expected {
				if vector[i] != tt.expected[i] {
					t.Errorf("Slot %d = %v, want %v", i, vector[i], tt.expected[i])
				}
			}
		})
	}
}

// TestVectorizeSlotStability verifies that slot positions follow the
// vocabulary ordering, not the input sets.
func TestVectorizeSlotStability(t *testing.T) {
	vocab := entities.NewVocabulary([]string{"rash", "nausea"})

	v1 := Vectorize(setOf("nausea"), setOf(), vocab)
	v2 := Vectorize(setOf(), setOf("nausea"), vocab)

	for i := range v1 {
		if v1[i] != v2[i] {
			t.Fatalf("Vector depends on which side carries the label: %v vs %v", v1, v2)
		}
	}
	if v1[0] != 0 || v1[1] != 1 {
		t.Errorf("nausea must land in slot 1 per vocabulary order, got %v", v1)
	}
}
