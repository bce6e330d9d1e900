package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/staffmatch/staffmatch/internal/roster"
)

// Record is the presentation-layer view of one match. Field names are part of
// the contract with the external renderer and must stay stable.
type Record struct {
	CandidateID     string   `json:"candidate_id"`
	PositionID      string   `json:"position_id"`
	FacilityID      string   `json:"facility_id"`
	DistanceKM      *float64 `json:"distance_km"`
	Urgency         string   `json:"urgency"`
	Compliant       bool     `json:"compliant"`
	DistanceScore   float64  `json:"distance_score"`
	UrgencyScore    float64  `json:"urgency_score"`
	ComplianceScore float64  `json:"compliance_score"`
	QualityScore    float64  `json:"quality_score"`
	FinalScore      float64  `json:"final_score"`
	Recommendation  string   `json:"recommendation"`
}

// Records converts ranked matches into presentation records, preserving
// order.
func Records(matches []*Match) []Record {
	records := make([]Record, 0, len(matches))
	for _, m := range matches {
		records = append(records, Record{
			CandidateID:     m.CandidateID,
			PositionID:      m.PositionID,
			FacilityID:      m.FacilityID,
			DistanceKM:      m.DistanceKM,
			Urgency:         m.Urgency.String(),
			Compliant:       m.Compliant,
			DistanceScore:   m.Scores.Distance,
			UrgencyScore:    m.Scores.Urgency,
			ComplianceScore: m.Scores.Compliance,
			QualityScore:    m.Scores.Quality,
			FinalScore:      m.Scores.Final,
			Recommendation:  string(m.Scores.Recommendation),
		})
	}
	return records
}

// ReportByFacility groups match summaries under "facility name (id)" keys for
// the interactive report.
func ReportByFacility(matches []*Match, ds *roster.Dataset) map[string][]map[string]string {
	report := make(map[string][]map[string]string)

	for _, m := range matches {
		name := m.FacilityID
		if facility := ds.FacilityByID(m.FacilityID); facility != nil && facility.Name != "" {
			name = facility.Name
		}
		key := fmt.Sprintf("%s (%s)", name, m.FacilityID)

		entry := map[string]string{
			"candidate_id":   m.CandidateID,
			"position_id":    m.PositionID,
			"final_score":    strconv.FormatFloat(m.Scores.Final, 'f', 1, 64),
			"recommendation": string(m.Scores.Recommendation),
		}
		if m.DistanceKM != nil {
			entry["distance_km"] = strconv.FormatFloat(*m.DistanceKM, 'f', 1, 64)
		}

		report[key] = append(report[key], entry)
	}

	return report
}

// DumpToTmpFile writes the ranked matches to a temporary JSON file and
// returns its name.
func DumpToTmpFile(matches []*Match) (string, error) {
	file, err := os.CreateTemp("", "staffmatch-matches-*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	payload, err := json.MarshalIndent(Records(matches), "", "  ")
	if err != nil {
		return "", err
	}

	if _, err := file.Write(payload); err != nil {
		return "", err
	}

	return file.Name(), nil
}
