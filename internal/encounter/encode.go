package encounter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

const Indent = "    "

type EncodeOptions struct {
	// ASCII escapes every non-ASCII rune as \uXXXX, which is how the
	// existing descriptor files were written.
	ASCII bool
}

var DefaultEncodeOptions = EncodeOptions{ASCII: true}

// Marshal renders d the way the engine's data directory stores it:
// 4-space indent, no HTML escaping, no trailing newline.
func Marshal(d *Descriptor, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", Indent)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encounter: marshal %q: %w", d.Name, err)
	}
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	if opts.ASCII {
		out = escapeNonASCII(out)
	}
	return out, nil
}

func Decode(data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("encounter: decode: %w", err)
	}
	return &d, nil
}

// Generic re-reads a rendering as plain JSON values, the form used to
// compare a descriptor with a file structurally.
func Generic(d *Descriptor) (any, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Non-ASCII bytes only occur inside JSON strings, so the whole document
// can be rewritten without tracking string boundaries.
func escapeNonASCII(b []byte) []byte {
	ascii := true
	for _, c := range b {
		if c >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return b
	}
	out := make([]byte, 0, len(b)+16)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		b = b[size:]
		switch {
		case r < utf8.RuneSelf:
			out = append(out, byte(r))
		case r > 0xFFFF:
			hi, lo := utf16.EncodeRune(r)
			out = fmt.Appendf(out, `\u%04x\u%04x`, hi, lo)
		default:
			out = fmt.Appendf(out, `\u%04x`, r)
		}
	}
	return out
}
