package favorites

import (
	"bytes"
	"encoding/json"
	"fmt"

	"mealseek/models"
)

const schemaVersion = 1

type envelope struct {
	Version int             `json:"version"`
	Recipes []models.Recipe `json:"recipes"`
}

func encode(items []models.Recipe) ([]byte, error) {
	if items == nil {
		items = []models.Recipe{}
	}
	return json.Marshal(envelope{Version: schemaVersion, Recipes: items})
}

// decode accepts the versioned envelope or a bare list (version 0). Records
// without an id are dropped and duplicate ids keep their first occurrence.
func decode(data []byte) ([]models.Recipe, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var items []models.Recipe
	if data[0] == '[' {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("decode legacy list: %w", err)
		}
	} else {
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		if env.Version != schemaVersion {
			return nil, fmt.Errorf("unsupported favorites schema version %d", env.Version)
		}
		items = env.Recipes
	}

	seen := make(map[string]bool, len(items))
	out := make([]models.Recipe, 0, len(items))
	for _, r := range items {
		if r.ID == "" || seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out, nil
}
