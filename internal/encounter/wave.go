package encounter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Wave is one timed sub-event of a pattern. Type selects the bullet kind;
// the parameters that kind reads are set, the rest stay nil/empty. Keys the
// struct does not know are kept in Extra and written after the known ones.
type Wave struct {
	Time        int      `json:"time" yaml:"time"` // ms from pattern start
	Type        string   `json:"type" yaml:"type"`
	Count       *int     `json:"count,omitempty" yaml:"count,omitempty"`
	Speed       *float64 `json:"speed,omitempty" yaml:"speed,omitempty"`
	Size        *int     `json:"size,omitempty" yaml:"size,omitempty"`
	Side        string   `json:"side,omitempty" yaml:"side,omitempty"`
	Orientation string   `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Pattern     string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	StartRadius *float64 `json:"startRadius,omitempty" yaml:"startRadius,omitempty"`
	EndRadius   *float64 `json:"endRadius,omitempty" yaml:"endRadius,omitempty"`
	Duration    *int     `json:"duration,omitempty" yaml:"duration,omitempty"`
	Color       string   `json:"color,omitempty" yaml:"color,omitempty"`
	Trigger     string   `json:"trigger,omitempty" yaml:"trigger,omitempty"`

	Extra map[string]any `json:"-" yaml:",inline"`
}

var waveKeys = map[string]bool{
	"time": true, "type": true, "count": true, "speed": true, "size": true,
	"side": true, "orientation": true, "pattern": true, "startRadius": true,
	"endRadius": true, "duration": true, "color": true, "trigger": true,
}

type waveFields Wave

func (w Wave) MarshalJSON() ([]byte, error) {
	b, err := marshalRaw(waveFields(w))
	if err != nil {
		return nil, err
	}
	if len(w.Extra) == 0 {
		return b, nil
	}
	keys := make([]string, 0, len(w.Extra))
	for k := range w.Extra {
		if waveKeys[k] {
			return nil, fmt.Errorf("wave extra key %q shadows a known parameter", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	for _, k := range keys {
		kb, _ := marshalRaw(k)
		vb, err := marshalRaw(w.Extra[k])
		if err != nil {
			return nil, fmt.Errorf("wave extra key %q: %w", k, err)
		}
		buf.WriteByte(',')
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (w *Wave) UnmarshalJSON(data []byte) error {
	var f waveFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if waveKeys[k] {
			continue
		}
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("wave key %q: %w", k, err)
		}
		if f.Extra == nil {
			f.Extra = map[string]any{}
		}
		f.Extra[k] = val
	}
	*w = Wave(f)
	return nil
}

// marshalRaw is json.Marshal without HTML escaping; the enclosing encoder
// does not undo escapes already present in a Marshaler's output.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
