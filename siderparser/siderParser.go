package siderparser

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/Icyfire18/sider-prediction/config"
	"github.com/Icyfire18/sider-prediction/interfaces"
	"github.com/Icyfire18/sider-prediction/logging"
	"github.com/Icyfire18/sider-prediction/siderparser/entities"
)

// Compile-time check to ensure SiderParser implements Parser
var _ interfaces.Parser = (*SiderParser)(nil)

// SiderParser downloads the configured sources and builds dataset
// snapshots.
type SiderParser struct {
	dataDir        string
	sideEffectsURL string
	drugNamesURL   string
	diseaseDataURL string
	skipDownload   bool
}

// NewParser creates a parser from the application configuration.
func NewParser(cfg *config.Config) *SiderParser {
	return &SiderParser{
		dataDir:        cfg.DataDir,
		sideEffectsURL: cfg.SideEffectsURL,
		drugNamesURL:   cfg.DrugNamesURL,
		diseaseDataURL: cfg.DiseaseDataURL,
	}
}

// NewLocalParser creates a parser that only reads already-present files in
// dataDir, used by tests and offline runs.
func NewLocalParser(dataDir string) *SiderParser {
	return &SiderParser{
		dataDir:      dataDir,
		skipDownload: true,
	}
}

func (p *SiderParser) filePath(name string) string {
	return filepath.Join(p.dataDir, name)
}

// ParseDataset downloads the sources, parses them concurrently and groups
// the raw records into one immutable snapshot: drug profiles, name index,
// the ordered adverse-event vocabulary and the disease map.
func (p *SiderParser) ParseDataset() (*entities.Dataset, error) {
	if !p.skipDownload {
		if err := p.downloadAll(); err != nil {
			return nil, fmt.Errorf("failed to download dataset sources: %w", err)
		}
	}

	// Parse all source files concurrently
	var wg sync.WaitGroup
	wg.Add(3)

	type seResult struct {
		records []entities.SideEffectRecord
		err     error
	}
	type nameResult struct {
		records []entities.DrugNameRecord
		err     error
	}
	type diseaseResult struct {
		records []entities.DiseaseIndication
		err     error
	}

	seChan := make(chan seResult, 1)
	nameChan := make(chan nameResult, 1)
	diseaseChan := make(chan diseaseResult, 1)

	go func() {
		records, err := p.makeSideEffectRecords(&wg)
		seChan <- seResult{records, err}
	}()

	go func() {
		records, err := p.makeDrugNameRecords(&wg)
		nameChan <- nameResult{records, err}
	}()

	go func() {
		records, err := p.makeDiseaseIndications(&wg)
		diseaseChan <- diseaseResult{records, err}
	}()

	wg.Wait()

	sideEffects := <-seChan
	if sideEffects.err != nil {
		return nil, sideEffects.err
	}
	drugNames := <-nameChan
	if drugNames.err != nil {
		return nil, drugNames.err
	}
	diseases := <-diseaseChan
	if diseases.err != nil {
		return nil, diseases.err
	}

	ds := BuildDataset(sideEffects.records, drugNames.records, diseases.records)

	logging.Info("Dataset parsed",
		"drugs", len(ds.Drugs),
		"vocabulary_size", ds.Vocabulary.Size(),
		"diseases", len(ds.DiseaseDrugs),
	)

	return ds, nil
}

// BuildDataset groups raw records into a snapshot. The vocabulary keeps the
// labels in order of first appearance in the side-effect dump; drug
// enumeration follows first appearance in the name dump with a first-match
// policy for duplicate names. Both orderings are stable across loads of the
// same files.
func BuildDataset(
	sideEffects []entities.SideEffectRecord,
	drugNames []entities.DrugNameRecord,
	diseases []entities.DiseaseIndication,
) *entities.Dataset {

	// Vocabulary: every distinct label, first-appearance order
	labels := make([]string, 0, len(sideEffects))
	for _, record := range sideEffects {
		labels = append(labels, record.EffectName)
	}
	vocabulary := entities.NewVocabulary(labels)

	// Group effect labels by compound id, deduplicated, keeping order
	effectsByID := make(map[string][]string)
	seenByID := make(map[string]map[string]struct{})
	for _, record := range sideEffects {
		seen, ok := seenByID[record.DrugID]
		if !ok {
			seen = make(map[string]struct{})
			seenByID[record.DrugID] = seen
		}
		if _, dup := seen[record.EffectName]; dup {
			continue
		}
		seen[record.EffectName] = struct{}{}
		effectsByID[record.DrugID] = append(effectsByID[record.DrugID], record.EffectName)
	}

	// Drug list: one entry per distinct name, first record wins
	drugs := make([]entities.Drug, 0, len(drugNames))
	drugsByName := make(map[string]entities.Drug, len(drugNames))
	for _, record := range drugNames {
		if _, seen := drugsByName[record.Name]; seen {
			continue
		}
		drug := entities.Drug{
			ID:          record.DrugID,
			Name:        record.Name,
			SideEffects: effectsByID[record.DrugID],
		}
		drugs = append(drugs, drug)
		drugsByName[record.Name] = drug
	}

	// Disease map, keeping only drugs present in the dataset (the original
	// sources are joined on drug name)
	diseaseDrugs := make(map[string][]string)
	seenPairs := make(map[string]struct{})
	dropped := 0
	for _, indication := range diseases {
		if _, known := drugsByName[indication.Drug]; !known {
			dropped++
			continue
		}
		pairKey := indication.Disease + "\x00" + indication.Drug
		if _, dup := seenPairs[pairKey]; dup {
			continue
		}
		seenPairs[pairKey] = struct{}{}
		diseaseDrugs[indication.Disease] = append(diseaseDrugs[indication.Disease], indication.Drug)
	}

	if dropped > 0 {
		logging.Warn("Dropped disease indications for unknown drugs", "count", dropped)
	}

	return &entities.Dataset{
		Drugs:        drugs,
		DrugsByName:  drugsByName,
		Vocabulary:   vocabulary,
		DiseaseDrugs: diseaseDrugs,
	}
}
