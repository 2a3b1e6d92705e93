package prediction

import "github.com/Icyfire18/sider-prediction/siderparser/entities"

// Vectorize turns a pair of side-effect sets into the fixed-width indicator
// vector the severity model consumes: one slot per vocabulary label, 1 when
// the label appears in the union of the two profiles, 0 otherwise. The
// vector length always equals the vocabulary size. Labels outside the
// vocabulary are ignored; they cannot occur when the vocabulary is the
// union of all known profiles, but the contract tolerates them. Pure, no
// hidden state.
func Vectorize(setA, setB map[string]struct{}, vocab *entities.Vocabulary) []float32 {
	vector := make([]float32, vocab.Size())

	for effect := range setA {
		if idx := vocab.IndexOf(effect); idx >= 0 {
			vector[idx] = 1
		}
	}
	for effect := range setB {
		if idx := vocab.IndexOf(effect); idx >= 0 {
			vector[idx] = 1
		}
	}

	return vector
}
