// Package prediction implements the pairwise combination risk engine: the
// side-effect index, the feature vectorizer and the combination scorer that
// ranks every known drug against an anchor, safest first.
package prediction

import (
	"fmt"

	"github.com/Icyfire18/sider-prediction/siderparser/entities"
)

// SideEffectIndex maps each drug name to its set of known adverse-event
// labels. Built once per dataset snapshot, pure lookup afterwards. When the
// input carries duplicate drug names the first record wins.
type SideEffectIndex struct {
	profiles map[string]map[string]struct{}
	names    []string
}

// NewSideEffectIndex groups adverse-event labels by drug name.
func NewSideEffectIndex(drugs []entities.Drug) *SideEffectIndex {
	idx := &SideEffectIndex{
		profiles: make(map[string]map[string]struct{}, len(drugs)),
		names:    make([]string, 0, len(drugs)),
	}

	for _, drug := range drugs {
		if _, seen := idx.profiles[drug.Name]; seen {
			// First-match policy for duplicate names
			continue
		}
		profile := make(map[string]struct{}, len(drug.SideEffects))
		for _, effect := range drug.SideEffects {
			profile[effect] = struct{}{}
		}
		idx.profiles[drug.Name] = profile
		idx.names = append(idx.names, drug.Name)
	}

	return idx
}

// SideEffectsOf returns the adverse-event set of a drug. The returned map
// is shared and must not be modified by callers.
func (idx *SideEffectIndex) SideEffectsOf(drug string) (map[string]struct{}, error) {
	profile, ok := idx.profiles[drug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDrug, drug)
	}
	return profile, nil
}

// Has reports whether the drug exists in the index.
func (idx *SideEffectIndex) Has(drug string) bool {
	_, ok := idx.profiles[drug]
	return ok
}

// Names returns the indexed drug names in enumeration order (first
// appearance in the dataset). Callers must not modify the returned slice.
func (idx *SideEffectIndex) Names() []string {
	return idx.names
}

// Len returns the number of indexed drugs.
func (idx *SideEffectIndex) Len() int {
	return len(idx.profiles)
}
