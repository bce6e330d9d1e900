package roster

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/staffmatch/staffmatch/internal/geo"
	"github.com/staffmatch/staffmatch/internal/taxonomy"
)

// export mirrors the persistence layer's JSON dump. Fields arrive loosely
// typed, so records are decoded through mapstructure with weak typing the
// same way upstream API items are handled.
type export struct {
	Candidates []map[string]any `json:"candidates"`
	Positions  []map[string]any `json:"positions"`
	Facilities []map[string]any `json:"facilities"`
}

type candidateRecord struct {
	ID                string   `mapstructure:"id"`
	PostalCode        string   `mapstructure:"postal_code"`
	Qualifications    []string `mapstructure:"qualifications"`
	Summary           string   `mapstructure:"summary"`
	AppliedPositionID string   `mapstructure:"applied_position_id"`
}

type positionRecord struct {
	ID         string   `mapstructure:"id"`
	FacilityID string   `mapstructure:"facility_id"`
	Title      string   `mapstructure:"title"`
	PostalCode string   `mapstructure:"postal_code"`
	Required   []string `mapstructure:"required_qualifications"`
	Urgency    string   `mapstructure:"urgency"`
	Status     string   `mapstructure:"status"`
}

type facilityRecord struct {
	ID         string `mapstructure:"id"`
	Name       string `mapstructure:"name"`
	PostalCode string `mapstructure:"postal_code"`
}

// LoadDataset reads a dataset export from disk. Postal codes may arrive
// embedded in free text and are extracted here; raw qualification text is
// normalized at load so the derived set always reflects the current text.
func LoadDataset(path string) (*Dataset, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}

	var dump export
	if err := json.Unmarshal(payload, &dump); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}

	dataset := &Dataset{}

	for i, item := range dump.Candidates {
		var rec candidateRecord
		if err := decode(item, &rec); err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		dataset.Candidates = append(dataset.Candidates, &Candidate{
			ID:                rec.ID,
			PostalCode:        geo.ExtractPostalCode(rec.PostalCode),
			RawQualifications: rec.Qualifications,
			Qualifications:    taxonomy.Normalize(rec.Qualifications...),
			Summary:           rec.Summary,
			AppliedPositionID: rec.AppliedPositionID,
		})
	}

	for i, item := range dump.Positions {
		var rec positionRecord
		if err := decode(item, &rec); err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		dataset.Positions = append(dataset.Positions, &Position{
			ID:         rec.ID,
			FacilityID: rec.FacilityID,
			Title:      rec.Title,
			PostalCode: geo.ExtractPostalCode(rec.PostalCode),
			Required:   requiredSet(rec.Required),
			Urgency:    ParseUrgency(rec.Urgency),
			Open:       rec.Status != "closed",
		})
	}

	for i, item := range dump.Facilities {
		var rec facilityRecord
		if err := decode(item, &rec); err != nil {
			return nil, fmt.Errorf("facility %d: %w", i, err)
		}
		dataset.Facilities = append(dataset.Facilities, &Facility{
			ID:         rec.ID,
			Name:       rec.Name,
			PostalCode: geo.ExtractPostalCode(rec.PostalCode),
		})
	}

	return dataset, nil
}

// requiredSet keeps only known taxonomy codes. Required qualifications are
// already coded upstream; normalizing them is a no-op for valid codes and
// drops anything the taxonomy does not know.
func requiredSet(raw []string) taxonomy.Set {
	return taxonomy.Normalize(raw...)
}

func decode(item map[string]any, target any) error {
	cfg := &mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           target,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(item)
}
