package config

import "fightsim/internal/encounter"

type CatalogConfig struct {
	Output      string   `yaml:"output"`
	Collections []string `yaml:"collections"`
}

type CollectionConfig struct {
	Name     string      `yaml:"name"`
	Output   string      `yaml:"output"`   // relative to the catalog output root
	FileName string      `yaml:"filename"` // id | compact | snake
	Derive   string      `yaml:"derive"`   // tengo script, optional
	Defaults DefaultsDef `yaml:"defaults"`
	Entries  []EntryDef  `yaml:"entries"`

	File string `yaml:"-"`
}

type DefaultsDef struct {
	Gold           int                 `yaml:"gold"`
	Exp            int                 `yaml:"exp"`
	SpareThreshold int                 `yaml:"spareThreshold"`
	AttackPatterns []encounter.Pattern `yaml:"attackPatterns"`
	Vars           map[string]string   `yaml:"vars"`
}

// EntryDef is one table row. Nil stats fall back to the collection defaults.
// AttackPatterns is nil only when the key is absent; an explicit [] means the
// entry has no attacks and keeps it.
type EntryDef struct {
	ID             string                      `yaml:"id"`
	Name           string                      `yaml:"name"`
	HP             int                         `yaml:"hp"`
	Attack         int                         `yaml:"attack"`
	Defense        int                         `yaml:"defense"`
	Gold           *int                        `yaml:"gold"`
	Exp            *int                        `yaml:"exp"`
	SpareThreshold *int                        `yaml:"spareThreshold"`
	Dialogue       []string                    `yaml:"dialogue"`
	CheckText      string                      `yaml:"checkText"`
	Sprites        map[string]encounter.Frames `yaml:"sprites"`
	Acts           []encounter.Act             `yaml:"acts"`
	AttackPatterns *[]encounter.Pattern        `yaml:"attackPatterns"`
	Vars           map[string]string           `yaml:"vars"`
}

type Catalog struct {
	Output      string
	Collections []*CollectionConfig
}

func (c *Catalog) Collection(name string) *CollectionConfig {
	for _, col := range c.Collections {
		if col.Name == name {
			return col
		}
	}
	return nil
}
