package entities

// Drug is one entry of the SIDER dataset: a drug name and its known
// adverse-event profile. Built once per dataset load, never mutated after.
type Drug struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	SideEffects []string `json:"sideEffects"`
}

// SideEffectRecord is one row of meddra_all_se.tsv: a (drug, side effect)
// association.
type SideEffectRecord struct {
	DrugID     string `json:"drugId"`
	MeddraType string `json:"meddraType"`
	EffectID   string `json:"effectId"`
	EffectName string `json:"effectName"`
}

// DrugNameRecord is one row of drug_names.tsv.
type DrugNameRecord struct {
	DrugID string `json:"drugId"`
	Name   string `json:"name"`
}

// DiseaseIndication is one row of the disease prescription dataset,
// mapping a disease to a drug prescribed for it.
type DiseaseIndication struct {
	Disease string `json:"disease"`
	Drug    string `json:"drug"`
}
