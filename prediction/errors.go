package prediction

import "errors"

// ErrUnknownDrug is returned when a requested drug has no record in the
// loaded dataset. For the anchor of a ranking run this is fatal for the
// invocation; for a candidate it only excludes that candidate.
var ErrUnknownDrug = errors.New("unknown drug")

// ErrEmptyVocabulary is returned when a scorer is built over a snapshot
// whose vocabulary has no labels, which would make every feature vector
// zero-length.
var ErrEmptyVocabulary = errors.New("empty adverse-event vocabulary")
