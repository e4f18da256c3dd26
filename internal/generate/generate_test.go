package generate

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"

	"fightsim/content"
	"fightsim/internal/config"
	"fightsim/internal/encounter"
)

func buildEmbedded(t *testing.T) []Collection {
	t.Helper()
	fsys := content.FS()
	cat, err := config.LoadCatalog(fsys)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	cols, err := Build(context.Background(), cat, fsys)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return cols
}

func find(t *testing.T, cols []Collection, col, id string) Record {
	t.Helper()
	for _, c := range cols {
		if c.Name != col {
			continue
		}
		for _, r := range c.Records {
			if r.ID == id {
				return r
			}
		}
	}
	t.Fatalf("record %s/%s not built", col, id)
	return Record{}
}

func TestTorielScenario(t *testing.T) {
	cols := buildEmbedded(t)
	r := find(t, cols, "undertale-bosses", "toriel")
	root := t.TempDir()
	g := &Generator{Root: root, Options: encounter.DefaultEncodeOptions}
	if _, err := g.Run(context.Background(), cols); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "enemies", "bosses", "toriel.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	d, err := encounter.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.HP != 440 || d.Attack != 6 || d.Defense != 1 {
		t.Fatalf("stats: %+v", d)
	}
	if len(d.AttackPatterns) != 1 || d.AttackPatterns[0].Name != "Fire Magic" {
		t.Fatalf("patterns: %+v", d.AttackPatterns)
	}
	var times []int
	for _, w := range d.AttackPatterns[0].Waves {
		times = append(times, w.Time)
	}
	if !reflect.DeepEqual(times, []int{0, 1000, 2000, 3000}) {
		t.Fatalf("wave times %v", times)
	}
	if !reflect.DeepEqual(d, r.Descriptor) {
		t.Fatalf("file does not round trip to the in-memory record")
	}
}

func TestDefaultsAndDerive(t *testing.T) {
	cols := buildEmbedded(t)

	whimsun := find(t, cols, "undertale-enemies", "whimsun").Descriptor
	if len(whimsun.AttackPatterns) != 1 || whimsun.AttackPatterns[0].Name != "Default Attack" {
		t.Fatalf("default attack not injected: %+v", whimsun.AttackPatterns)
	}

	doggo := find(t, cols, "undertale-extra", "doggo").Descriptor
	if doggo.SpareThreshold != 100 || doggo.AttackPatterns[0].Name != "Blue Sword Sweep" {
		t.Fatalf("doggo: %+v", doggo)
	}

	amb := find(t, cols, "deltarune-enemies", "ambyu_lance")
	if amb.Path != filepath.Join("enemies", "deltarune", "ambyu_lance.json") {
		t.Fatalf("path %s", amb.Path)
	}
	d := amb.Descriptor
	if d.Gold != 10 || d.Exp != 15 || d.SpareThreshold != 100 {
		t.Fatalf("deltarune defaults: %+v", d)
	}
	if d.CheckText != "ATK 9 DEF 2\n* A Darkner from CH2." {
		t.Fatalf("derived check text %q", d.CheckText)
	}
	if got := d.Sprites["idle"]; len(got) != 1 || got[0] != "Deltarune Sprites/Characters/Enemies/Ch2/Ambyu Lance/idle_0.png" {
		t.Fatalf("derived sprites %#v", got)
	}

	jevil := find(t, cols, "deltarune-bosses", "jevil").Descriptor
	if jevil.CheckText != "ATK 12 DEF 10\n* The Joker Card. Can do anything." {
		t.Fatalf("entry check text must win over script: %q", jevil.CheckText)
	}
	find(t, cols, "deltarune-bosses", "spamton_neo")
}

func TestSharedDefaultsAreCopied(t *testing.T) {
	cols := buildEmbedded(t)
	a := find(t, cols, "undertale-enemies", "whimsun").Descriptor
	b := find(t, cols, "undertale-enemies", "moldsmal").Descriptor
	a.AttackPatterns[0].Waves[0].Time = 999
	if b.AttackPatterns[0].Waves[0].Time == 999 {
		t.Fatalf("records share default wave storage")
	}
}

const patternDefaultsYAML = `
name: ruins
output: enemies
defaults:
  attackPatterns:
    - name: Default Attack
      duration: 4000
      waves:
        - {time: 0, type: projectiles, count: 5, speed: 2, size: 15, side: top}
entries:
  - id: froggit
    name: Froggit
  - id: napstablook
    name: Napstablook
    attackPatterns: []
  - id: whimsun
    name: Whimsun
    attackPatterns:
`

func TestPatternDefaultOnlyWhenAbsent(t *testing.T) {
	fsys := fstest.MapFS{
		"catalog.yaml": {Data: []byte("collections:\n  - ruins.yaml\n")},
		"ruins.yaml":   {Data: []byte(patternDefaultsYAML)},
	}
	cat, err := config.LoadCatalog(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cols, err := Build(context.Background(), cat, fsys)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	cases := map[string]int{
		"froggit":     1, // key absent
		"napstablook": 0, // explicit []
		"whimsun":     1, // null behaves like absent
	}
	for id, want := range cases {
		d := find(t, cols, "ruins", id).Descriptor
		if len(d.AttackPatterns) != want {
			t.Errorf("%s: got %d patterns, want %d", id, len(d.AttackPatterns), want)
		}
	}

	b, err := encounter.Marshal(find(t, cols, "ruins", "napstablook").Descriptor, encounter.DefaultEncodeOptions)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(b), "\"attackPatterns\": []\n}") {
		t.Fatalf("explicit [] not kept:\n%s", b)
	}
}

func TestRunIdempotent(t *testing.T) {
	cols := buildEmbedded(t)
	root := t.TempDir()
	var progress bytes.Buffer
	g := &Generator{Root: root, Out: &progress, Options: encounter.DefaultEncodeOptions}
	sum, err := g.Run(context.Background(), cols)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	total := 0
	for _, c := range cols {
		total += len(c.Records)
	}
	if sum.Files != total || sum.Collections != len(cols) {
		t.Fatalf("summary %+v, want %d files", sum, total)
	}
	if !strings.Contains(progress.String(), "Created "+filepath.Join(root, "enemies", "froggit.json")) {
		t.Fatalf("progress output:\n%s", progress.String())
	}
	wantSummary := fmt.Sprintf("\nComplete! Generated %d files in %s\n", total, root)
	if !strings.HasSuffix(progress.String(), wantSummary) || strings.Count(progress.String(), "Complete!") != 1 {
		t.Fatalf("want one trailing summary %q, progress output:\n%s", wantSummary, progress.String())
	}

	// Collections that share a directory must still leave one file per record.
	var onDisk int
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".json" {
			onDisk++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if onDisk != total {
		t.Fatalf("%d json files on disk, %d records", onDisk, total)
	}

	first := map[string][]byte{}
	for _, p := range sum.Paths {
		b, _ := os.ReadFile(p)
		first[p] = b
	}
	if _, err := g.Run(context.Background(), cols); err != nil {
		t.Fatalf("second run: %v", err)
	}
	for p, b := range first {
		again, _ := os.ReadFile(p)
		if !bytes.Equal(b, again) {
			t.Fatalf("%s changed between runs", p)
		}
	}
}

func TestRunOverwrites(t *testing.T) {
	cols, _ := Only(buildEmbedded(t), []string{"undertale-bosses"})
	root := t.TempDir()
	dst := filepath.Join(root, "enemies", "bosses", "toriel.json")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}
	g := &Generator{Root: root, Options: encounter.DefaultEncodeOptions}
	if _, err := g.Run(context.Background(), cols); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, _ := os.ReadFile(dst)
	if !bytes.HasPrefix(b, []byte("{\n    \"name\": \"Toriel\"")) {
		t.Fatalf("file not overwritten: %s", b)
	}
}

func TestRunAbortsOnError(t *testing.T) {
	cols := buildEmbedded(t)
	root := t.TempDir()
	// a regular file where the first collection directory should be
	if err := os.WriteFile(filepath.Join(root, "enemies"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	g := &Generator{Root: root, Options: encounter.DefaultEncodeOptions}
	sum, err := g.Run(context.Background(), cols)
	if err == nil {
		t.Fatalf("expected mkdir error")
	}
	if sum.Files != 0 {
		t.Fatalf("wrote %d files after failure", sum.Files)
	}
}

func TestRunCancelled(t *testing.T) {
	cols := buildEmbedded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := &Generator{Root: t.TempDir()}
	if _, err := g.Run(ctx, cols); err != context.Canceled {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}

func TestOnly(t *testing.T) {
	cols := buildEmbedded(t)
	got, err := Only(cols, []string{"deltarune-bosses", "undertale-bosses"})
	if err != nil {
		t.Fatalf("only: %v", err)
	}
	if len(got) != 2 || got[0].Name != "deltarune-bosses" {
		t.Fatalf("unexpected selection %+v", got)
	}
	if _, err := Only(cols, []string{"nope"}); err == nil {
		t.Fatalf("expected unknown collection error")
	}
}
