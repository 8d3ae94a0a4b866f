// targets.go: encoding and decoding of the opaque target-species payload
package datastore

import (
	"encoding/json"
	"fmt"

	"github.com/tphakala/hotspots-go/internal/errors"
)

// SpeciesFrequency is one [code, percentage] pair from the remote payload.
// On the wire it is a two-element JSON array, not an object.
type SpeciesFrequency struct {
	Code       string
	Percentage float64
}

// UnmarshalJSON decodes the wire tuple form.
func (sf *SpeciesFrequency) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 2 {
		return fmt.Errorf("species frequency entry has %d elements, want 2", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &sf.Code); err != nil {
		return fmt.Errorf("species code: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &sf.Percentage); err != nil {
		return fmt.Errorf("species percentage: %w", err)
	}
	return nil
}

// MarshalJSON encodes back to the wire tuple form.
func (sf SpeciesFrequency) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{sf.Code, sf.Percentage})
}

// TargetData is the decoded target-species payload for one hotspot.
// Samples are checklist counts per time window, nullable per window.
type TargetData struct {
	Samples []*int             `json:"samples"`
	Species []SpeciesFrequency `json:"species"`
}

// EncodeTargetData serializes the payload into the opaque text column.
func EncodeTargetData(data *TargetData) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", errors.New(err).
			Component("datastore").
			Category(errors.CategoryJSONParsing).
			Context("operation", "encode_target_data").
			Build()
	}
	return string(raw), nil
}

// Decode parses the opaque data column into a TargetData.
func (t *Target) Decode() (*TargetData, error) {
	var data TargetData
	if err := json.Unmarshal([]byte(t.Data), &data); err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryJSONParsing).
			Context("hotspot_id", t.ID).
			Context("operation", "decode_target_data").
			Build()
	}
	return &data, nil
}

// FilterSpecies returns the species entries whose codes are not in the
// caller's life list, preserving payload order. The life list arrives from
// the CSV importer as a plain list of species codes.
func (td *TargetData) FilterSpecies(lifeList []string) []SpeciesFrequency {
	if len(lifeList) == 0 {
		return td.Species
	}
	seen := make(map[string]bool, len(lifeList))
	for _, code := range lifeList {
		seen[code] = true
	}
	filtered := make([]SpeciesFrequency, 0, len(td.Species))
	for _, sp := range td.Species {
		if !seen[sp.Code] {
			filtered = append(filtered, sp)
		}
	}
	return filtered
}
