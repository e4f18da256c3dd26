package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"fightsim/internal/encounter"
)

const (
	CatalogFile   = "catalog.yaml"
	DefaultOutput = "data"
)

func loadYAML(fsys fs.FS, name string, out any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("config: load %s: %w", name, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("config: unmarshal %s: %w", name, err)
	}
	return nil
}

// LoadCatalog reads catalog.yaml and every collection it lists, in order.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	var cc CatalogConfig
	if err := loadYAML(fsys, CatalogFile, &cc); err != nil {
		return nil, err
	}
	cat := &Catalog{Output: cc.Output}
	if cat.Output == "" {
		cat.Output = DefaultOutput
	}
	for _, file := range cc.Collections {
		col, err := LoadCollection(fsys, file)
		if err != nil {
			return nil, err
		}
		cat.Collections = append(cat.Collections, col)
	}
	if err := Validate(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func LoadCollection(fsys fs.FS, file string) (*CollectionConfig, error) {
	var col CollectionConfig
	if err := loadYAML(fsys, path.Clean(file), &col); err != nil {
		return nil, err
	}
	col.File = file
	if col.FileName == "" {
		col.FileName = encounter.RuleID
	}
	return &col, nil
}

func Validate(cat *Catalog) error {
	var errs []error
	seen := map[string]bool{}
	for _, col := range cat.Collections {
		if col.Name == "" {
			errs = append(errs, fmt.Errorf("config: %s: collection has no name", col.File))
			continue
		}
		if seen[col.Name] {
			errs = append(errs, fmt.Errorf("config: %s: duplicate collection %q", col.File, col.Name))
		}
		seen[col.Name] = true
		if !encounter.KnownRule(col.FileName) {
			errs = append(errs, fmt.Errorf("config: %s: unknown filename rule %q", col.Name, col.FileName))
		}
		for i, e := range col.Entries {
			if e.Name == "" {
				errs = append(errs, fmt.Errorf("config: %s: entry %d has no name", col.Name, i))
			}
			if col.FileName == encounter.RuleID && e.ID == "" {
				errs = append(errs, fmt.Errorf("config: %s: entry %q needs an id", col.Name, e.Name))
			}
		}
	}
	return errors.Join(errs...)
}
