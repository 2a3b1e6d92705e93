// Package validation provides input and dataset validation for the
// combination risk API.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Icyfire18/sider-prediction/interfaces"
	"github.com/Icyfire18/sider-prediction/siderparser/entities"
)

// Pre-compiled patterns, compiled once at package initialization
var (
	// Drug and disease names: letters, digits, spaces and the punctuation
	// that occurs in the SIDER name dump
	inputRegex = regexp.MustCompile(`^[a-zA-Z0-9\s\-\.\+'\(\),/]+$`)

	// Dangerous substrings checked before the allowlist regex;
	// strings.Contains is much cheaper than a regex for these
	dangerousPatterns = []string{
		"<script", "</script>", "javascript:", "onload=", "onerror=",
		"eval(", "expression(", "url(", "@import",
		"union select", "drop table", "delete from", "insert into",
		"--", "/*", "*/", "exec(", "execute(",
		"`", "$(", "${",
		"../", "..\\", "%2e%2e", "file://",
	}
)

const maxInputLength = 200

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateInput validates user input strings used as drug or disease names
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}

	if len(input) > maxInputLength {
		return fmt.Errorf("input too long: %d characters (max %d)", len(input), maxInputLength)
	}

	lowered := strings.ToLower(input)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lowered, pattern) {
			return fmt.Errorf("input contains forbidden sequence")
		}
	}

	if !inputRegex.MatchString(input) {
		return fmt.Errorf("input contains invalid characters")
	}

	return nil
}

// ValidateDrug checks if a drug entity is valid
func (v *DataValidatorImpl) ValidateDrug(d *entities.Drug) error {
	if d == nil {
		return fmt.Errorf("drug is nil")
	}

	if strings.TrimSpace(d.ID) == "" {
		return fmt.Errorf("empty drug id for %q", d.Name)
	}

	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("empty drug name for id %s", d.ID)
	}

	if len(d.Name) > maxInputLength {
		return fmt.Errorf("drug name too long for id %s: %d characters", d.ID, len(d.Name))
	}

	for _, effect := range d.SideEffects {
		if strings.TrimSpace(effect) == "" {
			return fmt.Errorf("blank adverse-event label on drug %s", d.Name)
		}
	}

	return nil
}

// ValidateDataIntegrity performs comprehensive snapshot validation
func (v *DataValidatorImpl) ValidateDataIntegrity(ds *entities.Dataset) error {
	if ds == nil {
		return fmt.Errorf("dataset is nil")
	}

	if len(ds.Drugs) == 0 {
		return fmt.Errorf("dataset has no drugs")
	}

	if ds.Vocabulary == nil || ds.Vocabulary.Size() == 0 {
		return fmt.Errorf("dataset has an empty vocabulary")
	}

	for i := range ds.Drugs {
		if err := v.ValidateDrug(&ds.Drugs[i]); err != nil {
			return fmt.Errorf("invalid drug at index %d: %w", i, err)
		}

		// Every profile label must have a vocabulary slot, otherwise
		// feature vectors silently lose information
		for _, effect := range ds.Drugs[i].SideEffects {
			if ds.Vocabulary.IndexOf(effect) < 0 {
				return fmt.Errorf("drug %s has label %q outside the vocabulary", ds.Drugs[i].Name, effect)
			}
		}
	}

	if len(ds.DrugsByName) == 0 {
		return fmt.Errorf("dataset has an empty name index")
	}

	return nil
}

// ReportDataQuality generates a data quality report with all issues found
func (v *DataValidatorImpl) ReportDataQuality(ds *entities.Dataset) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{}
	if ds == nil {
		return report
	}

	if ds.Vocabulary != nil {
		report.VocabularySize = ds.Vocabulary.Size()
	}

	nameCount := make(map[string]int)
	totalEffects := 0
	for i := range ds.Drugs {
		nameCount[ds.Drugs[i].Name]++
		totalEffects += len(ds.Drugs[i].SideEffects)
		if len(ds.Drugs[i].SideEffects) == 0 {
			report.DrugsWithoutProfile++
		}
	}
	for name, count := range nameCount {
		if count > 1 {
			report.DuplicateDrugNames = append(report.DuplicateDrugNames, name)
		}
	}
	if len(ds.Drugs) > 0 {
		report.AverageProfileSize = float64(totalEffects) / float64(len(ds.Drugs))
	}

	for _, drugs := range ds.DiseaseDrugs {
		if len(drugs) == 0 {
			report.DiseasesWithoutDrugs++
		}
		for _, drug := range drugs {
			if _, known := ds.DrugsByName[drug]; !known {
				report.OrphanedIndications++
			}
		}
	}

	return report
}
