package generate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fightsim/internal/encounter"
)

type Generator struct {
	Root    string // output root, e.g. "data"
	Out     io.Writer
	Options encounter.EncodeOptions
}

type Summary struct {
	Collections int
	Files       int
	Paths       []string
}

// Run writes every record of every collection, in order, overwriting
// existing files. The first filesystem error stops the run.
func (g *Generator) Run(ctx context.Context, cols []Collection) (*Summary, error) {
	out := g.Out
	if out == nil {
		out = io.Discard
	}
	sum := &Summary{}
	for _, col := range cols {
		dir := filepath.Join(g.Root, col.Dir)
		fmt.Fprintf(out, "Generating %d %s files...\n", len(col.Records), col.Name)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return sum, fmt.Errorf("generate: %s: %w", col.Name, err)
		}
		for _, r := range col.Records {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			path, err := g.Write(r)
			if err != nil {
				return sum, err
			}
			fmt.Fprintf(out, "Created %s\n", path)
			sum.Files++
			sum.Paths = append(sum.Paths, path)
		}
		sum.Collections++
	}
	fmt.Fprintf(out, "\nComplete! Generated %d files in %s\n", sum.Files, g.Root)
	return sum, nil
}

func (g *Generator) Write(r Record) (string, error) {
	data, err := encounter.Marshal(r.Descriptor, g.Options)
	if err != nil {
		return "", err
	}
	path := filepath.Join(g.Root, r.Path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("generate: %s/%s: %w", r.Collection, r.ID, err)
	}
	return path, nil
}
