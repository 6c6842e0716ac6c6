package gesture

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the top-level structure of a gesture catalogue YAML file.
//
// Example:
//
//	gestures:
//	  - id: salam
//	    urdu: "سلام"
//	    pashto: "سلام ورور"
//	    english: "Hello/Greetings"
//	    category: greeting
type File struct {
	Gestures []Entry `yaml:"gestures"`
}

// LoadFile reads a catalogue YAML file from disk and builds a [Catalogue]
// from it in file order.
func LoadFile(path string) (*Catalogue, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gesture: open catalogue file %q: %w", path, err)
	}
	defer f.Close()

	c, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("gesture: load catalogue file %q: %w", path, err)
	}
	return c, nil
}

// LoadFromReader parses catalogue YAML from an [io.Reader] and validates it
// with [New]. The caller is responsible for closing r.
func LoadFromReader(r io.Reader) (*Catalogue, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true) // reject unknown keys to catch typos
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("gesture: decode catalogue yaml: %w", err)
	}
	if len(f.Gestures) == 0 {
		return nil, fmt.Errorf("gesture: catalogue yaml has no gestures")
	}
	return New(f.Gestures)
}
