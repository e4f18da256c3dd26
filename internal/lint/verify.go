package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"

	"github.com/tidwall/gjson"

	"fightsim/internal/encounter"
	"fightsim/internal/generate"
)

// Verification rules.
const (
	RuleMissingFile  = "missing-file"
	RuleInvalidJSON  = "invalid-json"
	RuleMissingField = "missing-field"
	RuleRoundTrip    = "round-trip"
	RuleStaleFile    = "stale-file"
)

// Verify reads back every file the records would produce under root and
// reports files that are missing, unreadable by the engine, or out of date.
func Verify(root string, cols []generate.Collection, opts encounter.EncodeOptions) ([]Finding, error) {
	var out []Finding
	for _, col := range cols {
		for _, r := range col.Records {
			found, err := verifyRecord(root, r, opts)
			if err != nil {
				return out, err
			}
			out = append(out, found...)
		}
	}
	return out, nil
}

func verifyRecord(root string, r generate.Record, opts encounter.EncodeOptions) ([]Finding, error) {
	var out []Finding
	add := func(rule, format string, args ...any) {
		out = append(out, Finding{r.Collection, r.ID, rule, fmt.Sprintf(format, args...)})
	}

	path := filepath.Join(root, r.Path)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		add(RuleMissingFile, "%s not found", path)
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lint: verify %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		add(RuleInvalidJSON, "%s is not valid JSON", path)
		return out, nil
	}

	for _, f := range encounter.Fields {
		if !gjson.GetBytes(data, f).Exists() {
			add(RuleMissingField, "%s has no %q", path, f)
		}
	}
	gjson.GetBytes(data, "attackPatterns").ForEach(func(_, p gjson.Result) bool {
		if !p.Get("waves").IsArray() {
			add(RuleMissingField, "pattern %q has no waves array", p.Get("name").String())
		}
		return true
	})

	var got any
	if err := json.Unmarshal(data, &got); err != nil {
		add(RuleInvalidJSON, "%s: %v", path, err)
		return out, nil
	}
	want, err := encounter.Generic(r.Descriptor)
	if err != nil {
		return nil, fmt.Errorf("lint: verify %s: %w", path, err)
	}
	if !reflect.DeepEqual(got, want) {
		add(RuleRoundTrip, "%s does not decode to the built record", path)
		return out, nil
	}

	fresh, err := encounter.Marshal(r.Descriptor, opts)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(fresh, data) {
		add(RuleStaleFile, "%s differs from a fresh rendering", path)
	}
	return out, nil
}
