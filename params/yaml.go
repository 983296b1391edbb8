package params

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// FromYAML loads the YAML document at path and applies it onto set. Every
// key in the document must name a declared parameter, and every value must
// pass that parameter's validator.
func FromYAML(path string, set *Set) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read parameters file: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse parameters file: %w", err)
	}

	if err := ApplyMap(doc, set); err != nil {
		return fmt.Errorf("invalid parameters in %s: %w", path, err)
	}

	return nil
}

// ApplyMap sets each entry of m onto set, validating as it goes. Keys are
// applied in sorted order so the first error is deterministic.
func ApplyMap(m map[string]any, set *Set) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		if err := set.SetValue(k, m[k]); err != nil {
			return err
		}
	}

	return nil
}
