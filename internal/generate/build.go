package generate

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"fightsim/internal/config"
	"fightsim/internal/encounter"
	"fightsim/internal/script"
)

// Record is one descriptor ready to be written.
type Record struct {
	Collection string
	ID         string
	Path       string // relative to the output root
	Descriptor *encounter.Descriptor
}

type Collection struct {
	Name    string
	Dir     string // relative to the output root
	Records []Record
}

// Build turns every catalog collection into records, in catalog order.
// Derive scripts are read from fsys.
func Build(ctx context.Context, cat *config.Catalog, fsys fs.FS) ([]Collection, error) {
	cols := make([]Collection, 0, len(cat.Collections))
	for _, cc := range cat.Collections {
		col, err := BuildCollection(ctx, cc, fsys)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func BuildCollection(ctx context.Context, cc *config.CollectionConfig, fsys fs.FS) (Collection, error) {
	col := Collection{Name: cc.Name, Dir: filepath.FromSlash(cc.Output)}

	var deriver *script.Deriver
	if cc.Derive != "" {
		src, err := fs.ReadFile(fsys, cc.Derive)
		if err != nil {
			return col, fmt.Errorf("generate: %s: read derive script: %w", cc.Name, err)
		}
		if deriver, err = script.Compile(cc.Derive, src); err != nil {
			return col, err
		}
	}

	for _, e := range cc.Entries {
		d, err := buildDescriptor(ctx, cc, e, deriver)
		if err != nil {
			return col, err
		}
		stem, err := encounter.FileStem(cc.FileName, e.ID, e.Name)
		if err != nil {
			return col, fmt.Errorf("generate: %s: %w", cc.Name, err)
		}
		col.Records = append(col.Records, Record{
			Collection: cc.Name,
			ID:         stem,
			Path:       filepath.Join(col.Dir, stem+".json"),
			Descriptor: d,
		})
	}
	return col, nil
}

func buildDescriptor(ctx context.Context, cc *config.CollectionConfig, e config.EntryDef, deriver *script.Deriver) (*encounter.Descriptor, error) {
	def := cc.Defaults
	d := &encounter.Descriptor{
		Name:           e.Name,
		HP:             e.HP,
		Attack:         e.Attack,
		Defense:        e.Defense,
		Gold:           orDefault(e.Gold, def.Gold),
		Exp:            orDefault(e.Exp, def.Exp),
		SpareThreshold: orDefault(e.SpareThreshold, def.SpareThreshold),
		Dialogue:       e.Dialogue,
		CheckText:      e.CheckText,
		Sprites:        e.Sprites,
		Acts:           e.Acts,
	}
	if e.AttackPatterns != nil {
		d.AttackPatterns = *e.AttackPatterns
	} else if len(def.AttackPatterns) > 0 {
		d.AttackPatterns = clonePatterns(def.AttackPatterns)
	}

	if deriver != nil {
		out, err := deriver.Run(ctx, script.Input{
			Name:    e.Name,
			HP:      e.HP,
			Attack:  e.Attack,
			Defense: e.Defense,
			Vars:    mergeVars(def.Vars, e.Vars),
		})
		if err != nil {
			return nil, fmt.Errorf("generate: %s: %w", cc.Name, err)
		}
		if d.CheckText == "" {
			d.CheckText = out.CheckText
		}
		if len(d.Sprites) == 0 {
			d.Sprites = out.Sprites
		}
	}

	d.Normalize()
	return d, nil
}

func orDefault(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func mergeVars(base, over map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Patterns shared from collection defaults are copied so one record's
// normalization never leaks into another.
func clonePatterns(ps []encounter.Pattern) []encounter.Pattern {
	out := make([]encounter.Pattern, len(ps))
	for i, p := range ps {
		out[i] = p
		out[i].Waves = append([]encounter.Wave(nil), p.Waves...)
	}
	return out
}

// Only keeps the named collections; no names keeps everything.
func Only(cols []Collection, names []string) ([]Collection, error) {
	if len(names) == 0 {
		return cols, nil
	}
	byName := make(map[string]Collection, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}
	out := make([]Collection, 0, len(names))
	for _, n := range names {
		c, ok := byName[n]
		if !ok {
			return nil, fmt.Errorf("generate: unknown collection %q", n)
		}
		out = append(out, c)
	}
	return out, nil
}
