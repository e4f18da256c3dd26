package lint

import (
	"fmt"
	"path/filepath"
	"sort"

	"fightsim/internal/generate"
)

// Rules.
const (
	RuleCheckFirst      = "check-first"
	RuleWaveTime        = "wave-time"
	RulePatternDuration = "pattern-duration"
	RuleWaveType        = "wave-type"
	RuleMercyRange      = "mercy-range"
	RuleDuplicateID     = "duplicate-id"
	RulePathCollision   = "path-collision"
	RuleNoMercyPath     = "no-mercy-path"
)

// Finding is a data-quality problem. Findings never stop generation.
type Finding struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Rule       string `json:"rule"`
	Message    string `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s/%s: %s: %s", f.Collection, f.ID, f.Rule, f.Message)
}

// Check runs the record and catalog rules over built collections.
func Check(cols []generate.Collection) []Finding {
	var out []Finding
	owner := map[string]generate.Record{}
	for _, col := range cols {
		ids := map[string]bool{}
		for _, r := range col.Records {
			out = append(out, checkRecord(r)...)
			if ids[r.ID] {
				out = append(out, Finding{col.Name, r.ID, RuleDuplicateID, "id used more than once in the collection"})
			}
			ids[r.ID] = true

			key := filepath.Clean(r.Path)
			if prev, ok := owner[key]; ok && prev.Collection != r.Collection {
				out = append(out, Finding{col.Name, r.ID, RulePathCollision,
					fmt.Sprintf("%s is also written by %s/%s", r.Path, prev.Collection, prev.ID)})
			} else if !ok {
				owner[key] = r
			}
		}
	}
	return out
}

func checkRecord(r generate.Record) []Finding {
	var out []Finding
	add := func(rule, format string, args ...any) {
		out = append(out, Finding{r.Collection, r.ID, rule, fmt.Sprintf(format, args...)})
	}
	d := r.Descriptor

	if len(d.Acts) == 0 {
		add(RuleCheckFirst, "no acts")
	} else if d.Acts[0].Name != "Check" {
		add(RuleCheckFirst, "first act is %q", d.Acts[0].Name)
	}
	mercy := false
	for _, a := range d.Acts {
		if a.MercyIncrease != nil && (*a.MercyIncrease < 0 || *a.MercyIncrease > 100) {
			add(RuleMercyRange, "act %q mercyIncrease %d outside 0..100", a.Name, *a.MercyIncrease)
		}
		if a.MercyIncrease != nil && *a.MercyIncrease > 0 {
			mercy = true
		}
	}
	// An invulnerable encounter can only end by sparing.
	if d.Invulnerable() && !mercy {
		add(RuleNoMercyPath, "defense %d is invulnerable and no act raises mercy", d.Defense)
	}
	for _, p := range d.AttackPatterns {
		if p.Duration <= 0 {
			add(RulePatternDuration, "pattern %q has duration %d", p.Name, p.Duration)
		}
		for i, w := range p.Waves {
			if w.Time < 0 || w.Time > p.Duration {
				add(RuleWaveTime, "pattern %q wave %d at %dms outside 0..%d", p.Name, i, w.Time, p.Duration)
			}
			if w.Type == "" {
				add(RuleWaveType, "pattern %q wave %d has no type", p.Name, i)
			}
		}
	}
	return out
}

// Sort orders findings by collection, id, then rule.
func Sort(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		a, b := fs[i], fs[j]
		if a.Collection != b.Collection {
			return a.Collection < b.Collection
		}
		if a.ID != b.ID {
			return a.ID < b.ID
		}
		return a.Rule < b.Rule
	})
}
