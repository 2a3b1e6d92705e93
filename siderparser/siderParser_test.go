package siderparser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Icyfire18/sider-prediction/siderparser/entities"
)

func writeDataFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func TestParseDatasetFromLocalFiles(t *testing.T) {
	dir := t.TempDir()

	writeDataFile(t, dir, "SideEffects.tsv",
		"CID100000001\tCID000000001\tC0027497\tPT\tC0027497\tNausea\n"+
			"CID100000001\tCID000000001\tC0015230\tPT\tC0015230\tRash\n"+
			"CID100000001\tCID000000001\tC0027497\tLLT\tC0027497\tNausea\n"+
			"CID100000002\tCID000000002\tC0027497\tPT\tC0027497\tNausea\n")

	writeDataFile(t, dir, "DrugNames.tsv",
		"CID100000001\taspirin\n"+
			"CID100000002\tibuprofen\n"+
			"CID100000003\tghostdrug\n")

	writeDataFile(t, dir, "DiseaseIndications.csv",
		"disease,drug\n"+
			"Headache,aspirin\n"+
			"Headache,ibuprofen\n"+
			"Fever,unknowndrug\n")

	parser := NewLocalParser(dir)
	ds, err := parser.ParseDataset()
	if err != nil {
		t.Fatalf("ParseDataset: %v", err)
	}

	if len(ds.Drugs) != 3 {
		t.Errorf("Expected 3 drugs, got %d", len(ds.Drugs))
	}

	aspirin, ok := ds.DrugsByName["aspirin"]
	if !ok {
		t.Fatal("aspirin missing from name index")
	}
	// Duplicate Nausea rows (PT and LLT concept types) collapse
	if len(aspirin.SideEffects) != 2 {
		t.Errorf("Expected 2 distinct effects for aspirin, got %v", aspirin.SideEffects)
	}

	// A drug without side-effect rows still loads with an empty profile
	ghost, ok := ds.DrugsByName["ghostdrug"]
	if !ok {
		t.Fatal("ghostdrug missing from name index")
	}
	if len(ghost.SideEffects) != 0 {
		t.Errorf("Expected empty profile for ghostdrug, got %v", ghost.SideEffects)
	}

	// Vocabulary in first-appearance order across the whole dump
	if ds.Vocabulary.Size() != 2 {
		t.Errorf("Expected vocabulary size 2, got %d", ds.Vocabulary.Size())
	}
	if ds.Vocabulary.IndexOf("Nausea") != 0 || ds.Vocabulary.IndexOf("Rash") != 1 {
		t.Errorf("Vocabulary order drifted: %v", ds.Vocabulary.Terms())
	}

	// Indication rows naming unknown drugs are dropped
	if len(ds.DiseaseDrugs) != 1 {
		t.Errorf("Expected 1 disease, got %d", len(ds.DiseaseDrugs))
	}
	if drugs := ds.DiseaseDrugs["Headache"]; len(drugs) != 2 {
		t.Errorf("Expected 2 drugs for Headache, got %v", drugs)
	}
}

func TestParseDatasetMissingDiseaseFileIsOptional(t *testing.T) {
	dir := t.TempDir()

	writeDataFile(t, dir, "SideEffects.tsv",
		"CID100000001\tCID000000001\tC0027497\tPT\tC0027497\tNausea\n")
	writeDataFile(t, dir, "DrugNames.tsv",
		"CID100000001\taspirin\n")

	parser := NewLocalParser(dir)
	ds, err := parser.ParseDataset()
	if err != nil {
		t.Fatalf("ParseDataset: %v", err)
	}

	if len(ds.DiseaseDrugs) != 0 {
		t.Errorf("Expected no diseases, got %v", ds.DiseaseDrugs)
	}
	if len(ds.Drugs) != 1 {
		t.Errorf("Expected 1 drug, got %d", len(ds.Drugs))
	}
}

func TestParseDatasetMissingSourceFails(t *testing.T) {
	parser := NewLocalParser(t.TempDir())

	if _, err := parser.ParseDataset(); err == nil {
		t.Fatal("Expected an error when the side-effect dump is missing")
	}
}

func TestBuildDatasetDuplicateNames(t *testing.T) {
	sideEffects := []entities.SideEffectRecord{
		{DrugID: "CID1", EffectName: "Nausea"},
		{DrugID: "CID2", EffectName: "Rash"},
	}
	drugNames := []entities.DrugNameRecord{
		{DrugID: "CID1", Name: "aspirin"},
		{DrugID: "CID2", Name: "aspirin"},
	}

	ds := BuildDataset(sideEffects, drugNames, nil)

	if len(ds.Drugs) != 1 {
		t.Fatalf("Duplicate names must collapse, got %d drugs", len(ds.Drugs))
	}
	// First record wins
	if ds.Drugs[0].ID != "CID1" {
		t.Errorf("Expected CID1 to win, got %s", ds.Drugs[0].ID)
	}
	if len(ds.Drugs[0].SideEffects) != 1 || ds.Drugs[0].SideEffects[0] != "Nausea" {
		t.Errorf("Expected the first record's profile, got %v", ds.Drugs[0].SideEffects)
	}
}

func TestBuildDatasetDeduplicatesIndications(t *testing.T) {
	drugNames := []entities.DrugNameRecord{
		{DrugID: "CID1", Name: "aspirin"},
	}
	diseases := []entities.DiseaseIndication{
		{Disease: "Headache", Drug: "aspirin"},
		{Disease: "Headache", Drug: "aspirin"},
	}

	ds := BuildDataset(nil, drugNames, diseases)

	if drugs := ds.DiseaseDrugs["Headache"]; len(drugs) != 1 {
		t.Errorf("Expected deduplicated indication, got %v", drugs)
	}
}

func TestBuildDatasetEmptyInputs(t *testing.T) {
	ds := BuildDataset(nil, nil, nil)

	if ds == nil {
		t.Fatal("BuildDataset must return a snapshot even for empty inputs")
	}
	if len(ds.Drugs) != 0 || ds.Vocabulary.Size() != 0 {
		t.Error("Empty inputs should produce an empty snapshot")
	}
}
