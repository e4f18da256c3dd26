package script

import (
	"context"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"fightsim/internal/encounter"
)

// Input is what a derive script sees for one entry.
type Input struct {
	Name    string
	HP      int
	Attack  int
	Defense int
	Vars    map[string]string
}

// Output holds the fields a script chose to define. Empty means the
// script left the field alone.
type Output struct {
	CheckText string
	Sprites   map[string]encounter.Frames
}

// Deriver is a compiled derive script, safe to run once per entry.
type Deriver struct {
	path     string
	compiled *tengo.Compiled
}

func Compile(path string, src []byte) (*Deriver, error) {
	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	_ = s.Add("name", "")
	_ = s.Add("hp", 0)
	_ = s.Add("attack", 0)
	_ = s.Add("defense", 0)
	_ = s.Add("vars", map[string]any{})

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", path, err)
	}
	return &Deriver{path: path, compiled: compiled}, nil
}

func (d *Deriver) Run(ctx context.Context, in Input) (Output, error) {
	var out Output
	c := d.compiled.Clone()

	vars := make(map[string]any, len(in.Vars))
	for k, v := range in.Vars {
		vars[k] = v
	}
	for name, v := range map[string]any{
		"name": in.Name, "hp": in.HP, "attack": in.Attack, "defense": in.Defense, "vars": vars,
	} {
		if err := c.Set(name, v); err != nil {
			return out, fmt.Errorf("script: %s: set %s: %w", d.path, name, err)
		}
	}
	if err := c.RunContext(ctx); err != nil {
		return out, fmt.Errorf("script: run %s for %q: %w", d.path, in.Name, err)
	}

	if c.IsDefined("check_text") {
		out.CheckText = c.Get("check_text").String()
	}
	if c.IsDefined("sprites") {
		sprites, err := toSprites(c.Get("sprites").Map())
		if err != nil {
			return out, fmt.Errorf("script: %s for %q: %w", d.path, in.Name, err)
		}
		out.Sprites = sprites
	}
	return out, nil
}

func toSprites(m map[string]any) (map[string]encounter.Frames, error) {
	if m == nil {
		return nil, fmt.Errorf("sprites must be a map")
	}
	sprites := make(map[string]encounter.Frames, len(m))
	for state, v := range m {
		switch v := v.(type) {
		case string:
			sprites[state] = encounter.Frames{v}
		case []any:
			frames := make(encounter.Frames, 0, len(v))
			for _, p := range v {
				s, ok := p.(string)
				if !ok {
					return nil, fmt.Errorf("sprites.%s: frame %v is not a string", state, p)
				}
				frames = append(frames, s)
			}
			sprites[state] = frames
		default:
			return nil, fmt.Errorf("sprites.%s: want string or array, got %T", state, v)
		}
	}
	return sprites, nil
}
