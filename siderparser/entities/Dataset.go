package entities

// Dataset is one immutable snapshot of everything the scoring core needs:
// the drug profiles, the name lookup map, the vocabulary the feature slots
// are indexed by, and the disease-to-drugs mapping consumed by the API
// layer. A snapshot is built once per load and swapped in atomically so the
// vocabulary can never drift from the profiles it was derived from.
type Dataset struct {
	Drugs        []Drug
	DrugsByName  map[string]Drug
	Vocabulary   *Vocabulary
	DiseaseDrugs map[string][]string
}
