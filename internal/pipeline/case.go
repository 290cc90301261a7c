package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/heirtrace/internal/model"
)

// LoadCase reads a case file. Files ending in .json are decoded as JSON,
// everything else as YAML.
func LoadCase(path string) (*model.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read case: %w", err)
	}

	var c model.Case
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &c)
	} else {
		err = yaml.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("decode case %s: %w", path, err)
	}

	if strings.TrimSpace(c.Subject) == "" {
		return nil, fmt.Errorf("case %s: %w", path, ErrNoSubject)
	}
	return &c, nil
}
