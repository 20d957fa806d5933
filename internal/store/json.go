package store

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadJson decodes filePath into v. A missing file leaves v untouched.
func LoadJson[T any](filePath string, v *T) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("❌ Failed to check JSON file: %w", err)
	}

	jsonBytes, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("❌ Failed to read JSON file: %w", err)
	}

	if len(jsonBytes) > 0 {
		if err := json.Unmarshal(jsonBytes, v); err != nil {
			return fmt.Errorf("❌ Failed to parse JSON: %w", err)
		}
	}
	return nil
}

func SaveJson(v any, jsonPath string) error {
	updatedJson, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("❌ Failed to convert to JSON: %w", err)
	}
	return writeFileAtomic(jsonPath, updatedJson)
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("❌ Failed to write JSON file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("❌ Failed to replace JSON file: %w", err)
	}
	return nil
}
