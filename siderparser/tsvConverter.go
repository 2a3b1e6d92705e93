package siderparser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Icyfire18/sider-prediction/logging"
	"github.com/Icyfire18/sider-prediction/siderparser/entities"
)

// meddra_all_se.tsv columns: flat compound id, stereo compound id, label
// UMLS id, MedDRA concept type, MedDRA UMLS id, side effect name.
const (
	seColDrugID     = 0
	seColMeddraType = 3
	seColEffectID   = 4
	seColEffectName = 5
	seColumns       = 6
)

func (p *SiderParser) makeSideEffectRecords(wg *sync.WaitGroup) ([]entities.SideEffectRecord, error) {
	if wg != nil {
		defer wg.Done()
	}

	tsvFile, err := os.Open(p.filePath(sideEffectsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", sideEffectsFile, err)
	}
	defer func() {
		if err := tsvFile.Close(); err != nil {
			logging.Warn("Failed to close side effects TSV file", "error", err)
		}
	}()

	scanner := bufio.NewScanner(tsvFile)
	scanner.Buffer(make([]byte, 0), 1*1024*1024)

	var records []entities.SideEffectRecord
	lineCount := 0
	skippedEmptyLines := 0
	skippedMissingColumns := 0

	for scanner.Scan() {
		lineCount++
		line := scanner.Text()

		// Skip empty lines silently
		if len(line) == 0 {
			skippedEmptyLines++
			continue
		}

		fields := strings.Split(line, "\t")

		if len(fields) < seColumns {
			skippedMissingColumns++
			continue
		}

		if fields[seColDrugID] == "" || fields[seColEffectName] == "" {
			skippedMissingColumns++
			continue
		}

		records = append(records, entities.SideEffectRecord{
			DrugID:     fields[seColDrugID],
			MeddraType: fields[seColMeddraType],
			EffectID:   fields[seColEffectID],
			EffectName: fields[seColEffectName],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error in %s: %w", sideEffectsFile, err)
	}

	if skippedEmptyLines > 0 || skippedMissingColumns > 0 {
		logging.Warn("Skipped malformed side effect lines",
			"total_lines", lineCount,
			"empty", skippedEmptyLines,
			"missing_columns", skippedMissingColumns,
		)
	}

	return records, nil
}

func (p *SiderParser) makeDrugNameRecords(wg *sync.WaitGroup) ([]entities.DrugNameRecord, error) {
	if wg != nil {
		defer wg.Done()
	}

	tsvFile, err := os.Open(p.filePath(drugNamesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", drugNamesFile, err)
	}
	defer func() {
		if err := tsvFile.Close(); err != nil {
			logging.Warn("Failed to close drug names TSV file", "error", err)
		}
	}()

	scanner := bufio.NewScanner(tsvFile)

	var records []entities.DrugNameRecord
	skipped := 0

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[0] == "" || fields[1] == "" {
			skipped++
			continue
		}

		records = append(records, entities.DrugNameRecord{
			DrugID: fields[0],
			Name:   fields[1],
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanner error in %s: %w", drugNamesFile, err)
	}

	if skipped > 0 {
		logging.Warn("Skipped malformed drug name lines", "skipped", skipped)
	}

	return records, nil
}

func (p *SiderParser) makeDiseaseIndications(wg *sync.WaitGroup) ([]entities.DiseaseIndication, error) {
	if wg != nil {
		defer wg.Done()
	}

	csvFile, err := os.Open(p.filePath(diseaseFile))
	if err != nil {
		if os.IsNotExist(err) {
			// The disease dataset is optional; ranking works without it
			logging.Warn("Disease indication file not present, disease lookups will be empty")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", diseaseFile, err)
	}
	defer func() {
		if err := csvFile.Close(); err != nil {
			logging.Warn("Failed to close disease CSV file", "error", err)
		}
	}()

	reader := csv.NewReader(csvFile)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", diseaseFile, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	diseaseCol, drugCol := -1, -1
	for i, name := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "disease":
			diseaseCol = i
		case "drug":
			drugCol = i
		}
	}
	if diseaseCol == -1 || drugCol == -1 {
		return nil, fmt.Errorf("%s is missing disease/drug columns, got header %v", diseaseFile, rows[0])
	}

	var records []entities.DiseaseIndication
	for _, row := range rows[1:] {
		if len(row) <= diseaseCol || len(row) <= drugCol {
			continue
		}
		disease := strings.TrimSpace(row[diseaseCol])
		drug := strings.TrimSpace(row[drugCol])
		if disease == "" || drug == "" {
			continue
		}
		records = append(records, entities.DiseaseIndication{
			Disease: disease,
			Drug:    drug,
		})
	}

	return records, nil
}
