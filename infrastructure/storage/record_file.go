package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dialysis_autofill/domain/entities"
)

// recordFile accepts numbers and booleans where the portal expects text
type recordFile struct {
	Basic  map[string]any   `json:"basic_data"`
	Hourly []map[string]any `json:"hourly_observations"`
}

// LoadRecord - reads a record file with basic_data and hourly_observations
func LoadRecord(path string) (entities.RecordData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.RecordData{}, fmt.Errorf("failed to read record %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw recordFile
	if err := dec.Decode(&raw); err != nil {
		return entities.RecordData{}, fmt.Errorf("failed to parse record %s: %w", path, err)
	}

	record := entities.RecordData{
		Basic: make(map[string]string, len(raw.Basic)),
	}
	for key, value := range raw.Basic {
		record.Basic[key] = text(value)
	}
	for _, row := range raw.Hourly {
		obs := make(entities.HourlyObservation, len(row))
		for key, value := range row {
			obs[key] = text(value)
		}
		record.Hourly = append(record.Hourly, obs)
	}

	return record, nil
}

// SaveRecord - writes record as indented JSON, creating the parent directory
func SaveRecord(path string, record entities.RecordData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
