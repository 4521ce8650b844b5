package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ebrandel/tempo/internal/domain"
)

// LoadFile parses and validates a single YAML template file.
func LoadFile(path string) (*domain.RoutineTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML template bytes into a domain template.
func Parse(data []byte) (*domain.RoutineTemplate, error) {
	var schema TemplateSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	if errs := ValidateSchema(&schema); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("invalid template: %s", strings.Join(msgs, "; "))
	}

	return schema.ToDomain()
}

// LoadDir loads every .yaml/.yml file in dir, sorted by filename.
// A missing directory yields an empty list, not an error.
func LoadDir(dir string) ([]*domain.RoutineTemplate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read template dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	out := make([]*domain.RoutineTemplate, 0, len(names))
	for _, name := range names {
		tmpl, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, tmpl)
	}
	return out, nil
}
