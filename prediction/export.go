package prediction

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Icyfire18/sider-prediction/siderparser/entities"
)

// exportHeader is the stable column set of the tabular export. Names match
// the JSON field names of CombinationResult.
var exportHeader = []string{"drug", "risk_score", "severity_score", "combined_score", "common_side_effects"}

// effectSeparator joins the common side effects into one CSV cell. The
// SIDER vocabulary never contains semicolons.
const effectSeparator = "; "

// WriteCSV writes a ranking to w, preserving the result order. Scores are
// formatted with the shortest representation that parses back to the same
// float64, so a write/read cycle reproduces identical values.
func WriteCSV(w io.Writer, results []entities.CombinationResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, result := range results {
		record := []string{
			result.Drug,
			formatScore(result.RiskScore),
			formatScore(result.SeverityScore),
			formatScore(result.CombinedScore),
			strings.Join(result.CommonSideEffects, effectSeparator),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write export row for %s: %w", result.Drug, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a ranking export back into results, in file order.
func ReadCSV(r io.Reader) ([]entities.CombinationResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(exportHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read export header: %w", err)
	}
	for i, name := range exportHeader {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected export header column %d: got %q, want %q", i, header[i], name)
		}
	}

	var results []entities.CombinationResult
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read export row: %w", err)
		}

		risk, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid risk_score for %s: %w", record[0], err)
		}
		severity, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid severity_score for %s: %w", record[0], err)
		}
		combined, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid combined_score for %s: %w", record[0], err)
		}

		effects := []string{}
		if record[4] != "" {
			effects = strings.Split(record[4], effectSeparator)
		}

		results = append(results, entities.CombinationResult{
			Drug:              record[0],
			RiskScore:         risk,
			SeverityScore:     severity,
			CombinedScore:     combined,
			CommonSideEffects: effects,
		})
	}

	return results, nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
