package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"fightsim/internal/encounter"
)

func TestRunExitCodes(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name string
		o    options
		want int
	}{
		{"generate", options{}, 0},
		{"lint", options{lint: true}, 0},
		{"strict lint", options{lint: true, strict: true}, 2},
		{"strict verify", options{verify: true, strict: true}, 0},
		{"only bosses", options{only: []string{"undertale-bosses"}, strict: true, lint: true}, 0},
		{"unknown collection", options{only: []string{"nope"}}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.o.out = t.TempDir()
			tc.o.enc = encounter.DefaultEncodeOptions
			if got := run(ctx, tc.o); got != tc.want {
				t.Fatalf("run = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestRunContentOverride(t *testing.T) {
	dir := t.TempDir()
	catalog := "output: data\ncollections:\n  - mine.yaml\n"
	mine := "name: mine\noutput: enemies\nentries:\n  - id: dummy\n    name: Dummy\n    hp: 15\n    acts:\n      - {name: Check, effect: check}\n"
	if err := os.WriteFile(filepath.Join(dir, "catalog.yaml"), []byte(catalog), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "mine.yaml"), []byte(mine), 0o644); err != nil {
		t.Fatal(err)
	}
	out := t.TempDir()
	o := options{content: dir, out: out, lint: true, strict: true, enc: encounter.DefaultEncodeOptions}
	if got := run(context.Background(), o); got != 0 {
		t.Fatalf("run = %d", got)
	}
	if _, err := os.Stat(filepath.Join(out, "enemies", "dummy.json")); err != nil {
		t.Fatalf("dummy not written: %v", err)
	}
}
