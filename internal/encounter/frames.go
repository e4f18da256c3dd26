package encounter

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Frames is the ordered image list of one animation state. Older tables
// wrote a single frame as a bare string, so both shapes decode.
type Frames []string

func (f *Frames) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*f = Frames{value.Value}
		return nil
	case yaml.SequenceNode:
		var paths []string
		if err := value.Decode(&paths); err != nil {
			return err
		}
		*f = paths
		return nil
	}
	return fmt.Errorf("sprite frames must be a string or a list (line %d)", value.Line)
}

func (f *Frames) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*f = Frames{one}
		return nil
	}
	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		return fmt.Errorf("sprite frames must be a string or a list: %w", err)
	}
	*f = paths
	return nil
}
