package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Load reads a content root with classes/, items/, and abilities/
// subdirectories (each holding one definition per .yaml file) and builds a
// validated Catalog.
//
// Precondition: root must be a readable directory.
// Postcondition: returns an immutable Catalog or a non-nil error.
func Load(root string) (*Catalog, error) {
	classes, err := loadDefs(filepath.Join(root, "classes"), func() *Class { return &Class{} })
	if err != nil {
		return nil, fmt.Errorf("loading classes: %w", err)
	}
	items, err := loadDefs(filepath.Join(root, "items"), func() *Item { return &Item{} })
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	abilities, err := loadDefs(filepath.Join(root, "abilities"), func() *Ability { return &Ability{} })
	if err != nil {
		return nil, fmt.Errorf("loading abilities: %w", err)
	}
	return New(classes, items, abilities)
}

// loadDefs parses every .yaml file in dir as a single definition of type T.
func loadDefs[T any](dir string, newT func() T) ([]T, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	defs := make([]T, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		def := newT()
		if err := yaml.Unmarshal(data, def); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// yamlFiles returns the sorted paths of all .yaml files directly in dir.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
